//go:build darwin

package macos

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices
#include <ApplicationServices/ApplicationServices.h>

bool checkAccessibilityPermissions() {
    return AXIsProcessTrusted();
}
*/
import "C"

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	robotgo "github.com/go-vgo/robotgo"

	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
)

const clickGap = 100 * time.Millisecond

// Controller drives the main macOS display through RobotGo. Captures are in
// backing-store pixels while pointer coordinates are in points.
type Controller struct{}

var _ display.DisplayController = (*Controller)(nil)

// CaptureScreen captures the main display, or a region given in points
func (c *Controller) CaptureScreen(ctx context.Context, region *display.Region) (image.Image, error) {
	var bitmap robotgo.CBitmap
	if region != nil && region.Width > 0 && region.Height > 0 {
		bitmap = robotgo.CaptureScreen(region.X, region.Y, region.Width, region.Height)
	} else {
		bitmap = robotgo.CaptureScreen()
	}
	if bitmap == nil {
		return nil, fmt.Errorf("%w: screen capture returned no bitmap (is Screen Recording permission granted?)", domain.ErrCapture)
	}
	defer robotgo.FreeBitmap(bitmap)

	img := robotgo.ToImage(bitmap)
	if img == nil {
		return nil, fmt.Errorf("%w: failed to convert bitmap to image", domain.ErrCapture)
	}
	return img, nil
}

// GetScreenDimensions returns the main display size in points
func (c *Controller) GetScreenDimensions(ctx context.Context) (int, int, error) {
	w, h := robotgo.GetScreenSize()
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("%w: display enumeration unavailable", domain.ErrCapture)
	}
	return w, h, nil
}

// GetCursorPosition returns the pointer location in points
func (c *Controller) GetCursorPosition(ctx context.Context) (int, int, error) {
	x, y := robotgo.Location()
	return x, y, nil
}

// MoveMouse moves the pointer to (x, y) in points
func (c *Controller) MoveMouse(ctx context.Context, x, y int) error {
	w, h := robotgo.GetScreenSize()
	if x < 0 || y < 0 || x > w || y > h {
		return fmt.Errorf("%w: point (%d,%d) is outside the screen (%dx%d)", domain.ErrActionExecution, x, y, w, h)
	}
	robotgo.Move(x, y)
	return nil
}

// ClickMouse clicks button clicks times at the pointer position
func (c *Controller) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	name, err := robotgoButton(button)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrActionExecution, err)
	}

	for i := 0; i < clicks; i++ {
		if i > 0 {
			if err := display.Sleep(ctx, clickGap); err != nil {
				return err
			}
		}
		robotgo.Click(name, false)
	}
	return nil
}

// TypeText types text, pausing delayMs between characters
func (c *Controller) TypeText(ctx context.Context, text string, delayMs int) error {
	if delayMs <= 0 {
		robotgo.Type(text)
		return nil
	}

	delay := time.Duration(delayMs) * time.Millisecond
	for _, r := range text {
		robotgo.Type(string(r))
		if err := display.Sleep(ctx, delay); err != nil {
			return err
		}
	}
	return nil
}

// SendKeyCombo taps a combination such as "cmd+s"
func (c *Controller) SendKeyCombo(ctx context.Context, combo string) error {
	kc, err := display.ParseKeyCombo(combo)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrActionExecution, err)
	}

	key, mods := robotgoCombo(kc)
	args := make([]any, 0, len(mods))
	for _, m := range mods {
		args = append(args, m)
	}

	if err := robotgo.KeyTap(key, args...); err != nil {
		return fmt.Errorf("%w: failed to send key combo %s: %w", domain.ErrActionExecution, kc, err)
	}
	return nil
}

// Close is a no-op; RobotGo holds no connection
func (c *Controller) Close() error {
	return nil
}

// Provider implements display.Provider for macOS
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates a new macOS provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController returns the main-display controller; the display argument is ignored
func (p *Provider) GetController(string) (display.DisplayController, error) {
	if os.Getenv("SSH_CONNECTION") != "" {
		return nil, fmt.Errorf("macOS display not available in SSH session")
	}
	if !hasAccessibilityPermissions() {
		return nil, fmt.Errorf("accessibility permissions required. Grant access in System Settings > Privacy & Security > Accessibility")
	}
	return &Controller{}, nil
}

func hasAccessibilityPermissions() bool {
	trusted := bool(C.checkAccessibilityPermissions())
	if !trusted {
		logger.Debug("Accessibility permissions not granted")
	}
	return trusted
}

// GetDisplayInfo describes the macOS backend
func (p *Provider) GetDisplayInfo() display.DisplayInfo {
	return display.DisplayInfo{
		Name:              "macos",
		SupportsRegions:   true,
		RequiresElevation: true,
	}
}

// IsAvailable is always true on darwin; permissions are checked on connect
func (p *Provider) IsAvailable() bool {
	return true
}

func init() {
	display.Register(NewProvider())
}
