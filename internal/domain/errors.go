package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCapture is returned when the display or its capture surface is unavailable
	ErrCapture = errors.New("screen capture failed")

	// ErrGridRender is returned when an image cannot be overlaid with the grid
	ErrGridRender = errors.New("grid render failed")

	// ErrMalformedResponse is returned when a vision response contains undecodable JSON
	ErrMalformedResponse = errors.New("malformed vision response")

	// ErrElementNotFound is matched by ElementNotFoundError
	ErrElementNotFound = errors.New("element not found")

	// ErrActionExecution is returned when the platform rejects an input-injection call
	ErrActionExecution = errors.New("action execution failed")

	// ErrVisionModel is returned when the vision model transport fails
	ErrVisionModel = errors.New("vision model request failed")

	// ErrPlanning is returned when a plan cannot be generated
	ErrPlanning = errors.New("planning failed")

	// ErrInvalidPlan is returned when a plan or one of its steps is malformed
	ErrInvalidPlan = errors.New("invalid plan")

	// ErrConfiguration is returned for invalid configuration values
	ErrConfiguration = errors.New("invalid configuration")

	// ErrRateLimited is returned when the action budget is exhausted
	ErrRateLimited = errors.New("action rate limit exceeded")
)

// ElementNotFoundError reports that the vision model could not locate a target
type ElementNotFoundError struct {
	Target    string
	Reasoning string
}

// Error implements the error interface
func (e *ElementNotFoundError) Error() string {
	if e.Reasoning == "" {
		return fmt.Sprintf("element not found: %q", e.Target)
	}
	return fmt.Sprintf("element not found: %q (%s)", e.Target, e.Reasoning)
}

// Is lets errors.Is match ErrElementNotFound
func (e *ElementNotFoundError) Is(target error) bool {
	return target == ErrElementNotFound
}
