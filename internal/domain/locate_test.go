package domain

import (
	"errors"
	"fmt"
	"testing"

	assert "github.com/stretchr/testify/assert"
)

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		in   string
		want Confidence
	}{
		{"high", ConfidenceHigh},
		{" Medium ", ConfidenceMedium},
		{"LOW", ConfidenceLow},
		{"", ConfidenceUnknown},
		{"very sure", ConfidenceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseConfidence(tt.in))
		})
	}
}

func TestScale_ToLogical(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		in    Point
		want  Point
	}{
		{"retina", Scale{X: 2, Y: 2}, Point{X: 140, Y: 150}, Point{X: 70, Y: 75}},
		{"odd coordinates truncate", Scale{X: 2, Y: 2}, Point{X: 141, Y: 151}, Point{X: 70, Y: 75}},
		{"unit", UnitScale, Point{X: 140, Y: 150}, Point{X: 140, Y: 150}},
		{"fractional", Scale{X: 1.5, Y: 1.25}, Point{X: 300, Y: 100}, Point{X: 200, Y: 80}},
		{"zero scale treated as unit", Scale{}, Point{X: 10, Y: 20}, Point{X: 10, Y: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scale.ToLogical(tt.in))
		})
	}
}

func TestElementNotFoundError(t *testing.T) {
	err := fmt.Errorf("click failed: %w", &ElementNotFoundError{Target: "OK button", Reasoning: "dialog closed"})

	assert.True(t, errors.Is(err, ErrElementNotFound))
	assert.False(t, errors.Is(err, ErrMalformedResponse))

	var nf *ElementNotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Equal(t, "OK button", nf.Target)
	assert.Contains(t, err.Error(), "dialog closed")
}
