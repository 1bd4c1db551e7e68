package display

import (
	"context"
	"image"
)

// DisplayController is the capture and input-injection surface of one display
// server (X11, Wayland, macOS Quartz). Capture returns physical pixels; pointer
// coordinates and GetScreenDimensions use the logical input-event space.
type DisplayController interface {
	// Screen operations
	CaptureScreen(ctx context.Context, region *Region) (image.Image, error)
	GetScreenDimensions(ctx context.Context) (width, height int, err error)

	// Mouse operations
	GetCursorPosition(ctx context.Context) (x, y int, err error)
	MoveMouse(ctx context.Context, x, y int) error
	ClickMouse(ctx context.Context, button MouseButton, clicks int) error

	// Keyboard operations
	TypeText(ctx context.Context, text string, delayMs int) error
	SendKeyCombo(ctx context.Context, combo string) error

	// Lifecycle
	Close() error
}

// Region represents a rectangular area on the screen; nil means the full screen
type Region struct {
	X      int
	Y      int
	Width  int
	Height int
}

// MouseButton represents a mouse button
type MouseButton int

const (
	MouseButtonLeft MouseButton = iota
	MouseButtonMiddle
	MouseButtonRight
)

// String returns the string representation of a mouse button
func (b MouseButton) String() string {
	switch b {
	case MouseButtonLeft:
		return "left"
	case MouseButtonMiddle:
		return "middle"
	case MouseButtonRight:
		return "right"
	default:
		return "unknown"
	}
}

// Provider creates DisplayController instances for a specific display server
type Provider interface {
	// GetController connects to the given display ("" selects the default)
	GetController(display string) (DisplayController, error)

	// GetDisplayInfo returns information about the display server
	GetDisplayInfo() DisplayInfo

	// IsAvailable returns true if this display server is usable on the current system
	IsAvailable() bool
}

// DisplayInfo contains metadata about a display server
type DisplayInfo struct {
	Name              string // "x11", "wayland", "macos"
	SupportsRegions   bool
	RequiresElevation bool
}
