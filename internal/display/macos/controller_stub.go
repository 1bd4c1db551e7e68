//go:build !darwin

package macos

import (
	"fmt"

	display "github.com/inference-gateway/gridpilot/internal/display"
)

// Provider stands in for the macOS backend on other platforms. It is never
// registered and never available.
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates the stub provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController always fails off darwin
func (p *Provider) GetController(string) (display.DisplayController, error) {
	return nil, fmt.Errorf("macOS platform not available on this system")
}

// GetDisplayInfo describes the macOS backend
func (p *Provider) GetDisplayInfo() display.DisplayInfo {
	return display.DisplayInfo{Name: "macos"}
}

// IsAvailable always reports false off darwin
func (p *Provider) IsAvailable() bool {
	return false
}
