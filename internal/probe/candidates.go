package probe

import (
	"fmt"
	"strings"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
)

// Pattern selects which offsets around the resolved target are tried
type Pattern string

const (
	// PatternCardinal tries the center, then up, down, left and right
	PatternCardinal Pattern = "cardinal"
	// PatternExtended adds the four diagonals after the cardinal points
	PatternExtended Pattern = "extended"
)

// ParsePattern validates a pattern name; empty selects PatternExtended
func ParsePattern(s string) (Pattern, error) {
	switch Pattern(strings.ToLower(strings.TrimSpace(s))) {
	case "", PatternExtended:
		return PatternExtended, nil
	case PatternCardinal:
		return PatternCardinal, nil
	default:
		return "", fmt.Errorf("%w: unknown probe pattern %q", domain.ErrConfiguration, s)
	}
}

// Candidate is one point the prober clicks
type Candidate struct {
	Label string
	Point domain.Point
}

type offset struct {
	label  string
	dx, dy int
}

var (
	cardinalOffsets = []offset{
		{"top", 0, -1},
		{"bottom", 0, 1},
		{"left", -1, 0},
		{"right", 1, 0},
	}
	diagonalOffsets = []offset{
		{"top-left", -1, -1},
		{"top-right", 1, -1},
		{"bottom-left", -1, 1},
		{"bottom-right", 1, 1},
	}
)

// Candidates lists the probe points in click order: the center first, then
// the cardinal offsets at radius, then (extended only) the diagonals. A
// non-positive radius yields only the center.
func Candidates(center domain.Point, radius int, pattern Pattern) []Candidate {
	out := []Candidate{{Label: "center", Point: center}}
	if radius <= 0 {
		return out
	}

	offsets := cardinalOffsets
	if pattern == PatternExtended {
		offsets = append(append([]offset{}, cardinalOffsets...), diagonalOffsets...)
	}

	for _, o := range offsets {
		out = append(out, Candidate{
			Label: o.label,
			Point: domain.Point{X: center.X + o.dx*radius, Y: center.Y + o.dy*radius},
		})
	}
	return out
}
