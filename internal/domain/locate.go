package domain

import (
	"fmt"
	"strings"
)

// Confidence is the vision model's self-reported certainty
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceUnknown Confidence = "unknown"
)

// ParseConfidence normalizes a free-form confidence string
func ParseConfidence(s string) Confidence {
	switch Confidence(strings.ToLower(strings.TrimSpace(s))) {
	case ConfidenceHigh:
		return ConfidenceHigh
	case ConfidenceMedium:
		return ConfidenceMedium
	case ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceUnknown
	}
}

// CellObservation is one grid cell reported as covering part of an element
type CellObservation struct {
	CellNumber      int     `json:"cell_number"`
	CoveragePercent float64 `json:"coverage_percent"`
	Description     string  `json:"description,omitempty"`
}

// LocateResult is the validated form of a vision response
type LocateResult struct {
	Found       bool              `json:"found"`
	Cells       []CellObservation `json:"cells,omitempty"`
	Confidence  Confidence        `json:"confidence"`
	Reasoning   string            `json:"reasoning,omitempty"`
	Description string            `json:"description,omitempty"`
}

// NotFound builds a negative result carrying the model's reasoning
func NotFound(reasoning string) LocateResult {
	return LocateResult{
		Found:      false,
		Confidence: ConfidenceUnknown,
		Reasoning:  reasoning,
	}
}

// Point is a pixel coordinate
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String returns "(x, y)"
func (p Point) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Scale is the ratio between physical capture pixels and logical input coordinates
type Scale struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// UnitScale is the scale of a display without pixel density correction
var UnitScale = Scale{X: 1, Y: 1}

// ToLogical converts an image-space point into logical input space,
// truncating toward zero
func (s Scale) ToLogical(p Point) Point {
	sx, sy := s.X, s.Y
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	return Point{
		X: int(float64(p.X) / sx),
		Y: int(float64(p.Y) / sy),
	}
}
