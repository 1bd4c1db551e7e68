package vision

import (
	"errors"
	"testing"

	cmp "github.com/google/go-cmp/cmp"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func TestParseLocateResponse(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.LocateResult
	}{
		{
			name: "not found carries reasoning",
			text: `{"found": false, "reasoning": "not visible"}`,
			want: domain.LocateResult{Found: false, Confidence: domain.ConfidenceUnknown, Reasoning: "not visible"},
		},
		{
			name: "found absent is negative",
			text: `{"description": "save button", "reasoning": "unsure"}`,
			want: domain.LocateResult{Found: false, Confidence: domain.ConfidenceUnknown, Reasoning: "unsure", Description: "save button"},
		},
		{
			name: "no object is negative",
			text: "I could not find anything that looks like that.",
			want: domain.LocateResult{Found: false, Confidence: domain.ConfidenceUnknown, Reasoning: "no JSON object in vision response"},
		},
		{
			name: "primary cell fallback",
			text: `{"found": true, "primary_cell": 42}`,
			want: domain.LocateResult{
				Found:      true,
				Cells:      []domain.CellObservation{{CellNumber: 42, CoveragePercent: 100}},
				Confidence: domain.ConfidenceUnknown,
			},
		},
		{
			name: "legacy cell_number fallback",
			text: `{"found": true, "cell_number": 7, "confidence": "low"}`,
			want: domain.LocateResult{
				Found:      true,
				Cells:      []domain.CellObservation{{CellNumber: 7, CoveragePercent: 100}},
				Confidence: domain.ConfidenceLow,
			},
		},
		{
			name: "primary cell zero is usable",
			text: `{"found": true, "cells": [], "primary_cell": 0}`,
			want: domain.LocateResult{
				Found:      true,
				Cells:      []domain.CellObservation{{CellNumber: 0, CoveragePercent: 100}},
				Confidence: domain.ConfidenceUnknown,
			},
		},
		{
			name: "found without any cell is negative",
			text: `{"found": true, "cells": []}`,
			want: domain.LocateResult{Found: false, Confidence: domain.ConfidenceUnknown, Reasoning: "no cell information in vision response"},
		},
		{
			name: "full answer wrapped in prose and fences",
			text: "Here you go:\n```json\n" + `{
				"description": "blue Submit button",
				"found": true,
				"cells": [
					{"cell_number": 32, "coverage_percent": 80, "description": "left half"},
					{"cell_number": "33", "coverage_percent": "20%", "description": "right edge"}
				],
				"primary_cell": 32,
				"confidence": "High",
				"reasoning": "label reads Submit"
			}` + "\n```\nLet me know if you need more.",
			want: domain.LocateResult{
				Found: true,
				Cells: []domain.CellObservation{
					{CellNumber: 32, CoveragePercent: 80, Description: "left half"},
					{CellNumber: 33, CoveragePercent: 20, Description: "right edge"},
				},
				Confidence:  domain.ConfidenceHigh,
				Reasoning:   "label reads Submit",
				Description: "blue Submit button",
			},
		},
		{
			name: "missing coverage counts as zero and oversized is clamped",
			text: `{"found": true, "cells": [{"cell_number": 3}, {"cell_number": 4, "coverage_percent": 250}]}`,
			want: domain.LocateResult{
				Found: true,
				Cells: []domain.CellObservation{
					{CellNumber: 3, CoveragePercent: 0},
					{CellNumber: 4, CoveragePercent: 100},
				},
				Confidence: domain.ConfidenceUnknown,
			},
		},
		{
			name: "cells without numbers fall back to primary",
			text: `{"found": "true", "cells": [{"coverage_percent": 90}, {"cell_number": 1.5}], "primary_cell": 9}`,
			want: domain.LocateResult{
				Found:      true,
				Cells:      []domain.CellObservation{{CellNumber: 9, CoveragePercent: 100}},
				Confidence: domain.ConfidenceUnknown,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocateResponse(tt.text)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseLocateResponse() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLocateResponse_Malformed(t *testing.T) {
	tests := []string{
		`{"found": true, "cells": [}`,
		`{"found": maybe}`,
		`prefix {"found": true,, "primary_cell": 1} suffix`,
		`{"found": true, "primary_cell": "forty"}`,
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			_, err := ParseLocateResponse(text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrMalformedResponse))
		})
	}
}

func TestExtractObject(t *testing.T) {
	obj, ok := ExtractObject(`a {"x": {"y": 1}} b } c`)
	assert.True(t, ok)
	assert.Equal(t, `{"x": {"y": 1}} b }`, obj)

	_, ok = ExtractObject("} nothing {")
	assert.False(t, ok)
}
