package vision

import (
	"fmt"
	"strings"

	grid "github.com/inference-gateway/gridpilot/internal/grid"
)

// BuildLocatePrompt asks the model to report which grid cells cover target.
// The numbering description must match the overlay: row-major, 0 at top-left.
func BuildLocatePrompt(target string, spec grid.Spec) string {
	last := spec.Cells() - 1

	var b strings.Builder
	fmt.Fprintf(&b, "The screenshot is covered by a numbered grid of %d columns x %d rows = %d cells.\n", spec.Columns, spec.Rows, spec.Cells())
	fmt.Fprintf(&b, "Cells are numbered left to right, top to bottom, from 0 in the top-left corner to %d in the bottom-right corner. ", last)
	fmt.Fprintf(&b, "Cell n is in row n / %d and column n %% %d. Each number is printed at the center of its cell.\n\n", spec.Columns, spec.Columns)
	fmt.Fprintf(&b, "Find this element: %s\n\n", strings.TrimSpace(target))
	b.WriteString("List every cell the element's clickable area overlaps and estimate what percentage of the element falls inside each cell. ")
	b.WriteString("Percentages across cells should add up to about 100.\n\n")
	b.WriteString("Respond with exactly one JSON object and nothing else:\n")
	b.WriteString(`{
  "description": "what you found",
  "found": true,
  "cells": [
    {"cell_number": <int>, "coverage_percent": <number 1-100>, "description": "which part of the element"}
  ],
  "primary_cell": <int, the cell containing the element's center>,
  "confidence": "high" | "medium" | "low",
  "reasoning": "short explanation"
}`)
	b.WriteString("\n\nIf the element is not visible, respond with:\n")
	b.WriteString(`{"description": "what you looked for", "found": false, "reasoning": "why it was not found"}`)
	b.WriteString("\n")
	return b.String()
}
