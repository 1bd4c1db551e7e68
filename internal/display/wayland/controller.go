package wayland

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
)

const (
	captureTimeout = 10 * time.Second
	inputTimeout   = 5 * time.Second
	clickGap       = 100 * time.Millisecond
)

// ydotool button codes: press+release of left, right, middle
var buttonCodes = map[display.MouseButton]string{
	display.MouseButtonLeft:   "0xC0",
	display.MouseButtonRight:  "0xC1",
	display.MouseButtonMiddle: "0xC2",
}

// Controller drives a wlroots compositor through grim, ydotool, wtype and wlr-randr
type Controller struct {
	display string
	run     func(ctx context.Context, name string, args ...string) ([]byte, error)
	look    func(name string) (string, error)
}

var _ display.DisplayController = (*Controller)(nil)

// NewController checks that a capture tool is installed
func NewController(displayName string) (*Controller, error) {
	c := &Controller{display: displayName, run: runCommand, look: exec.LookPath}
	if _, err := c.look("grim"); err != nil {
		return nil, fmt.Errorf("required tool 'grim' not found in PATH (install with: sudo apt install grim)")
	}
	return c, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s failed: %s", name, msg)
		}
		return out, fmt.Errorf("%s failed: %w", name, err)
	}
	return out, nil
}

// Close is a no-op; every operation is a short-lived subprocess
func (c *Controller) Close() error {
	return nil
}

// CaptureScreen runs grim and decodes its PNG output
func (c *Controller) CaptureScreen(ctx context.Context, region *display.Region) (image.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, captureTimeout)
	defer cancel()

	args := []string{"-t", "png"}
	if region != nil && region.Width > 0 && region.Height > 0 {
		args = append(args, "-g", fmt.Sprintf("%d,%d %dx%d", region.X, region.Y, region.Width, region.Height))
	}
	args = append(args, "-")

	out, err := c.run(ctx, "grim", args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCapture, err)
	}

	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode screenshot: %w", domain.ErrCapture, err)
	}
	return img, nil
}

// GetScreenDimensions returns the logical size of the first enabled output
// as reported by wlr-randr (mode divided by output scale).
func (c *Controller) GetScreenDimensions(ctx context.Context) (int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, inputTimeout)
	defer cancel()

	out, err := c.run(ctx, "wlr-randr")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", domain.ErrCapture, err)
	}

	w, h, ok := parseRandr(string(out))
	if !ok {
		return 0, 0, fmt.Errorf("%w: no current mode in wlr-randr output", domain.ErrCapture)
	}
	return w, h, nil
}

// GetCursorPosition is not exposed by Wayland compositors
func (c *Controller) GetCursorPosition(ctx context.Context) (int, int, error) {
	return 0, 0, errors.New("getting cursor position is not supported on Wayland")
}

// MoveMouse moves the pointer to absolute logical coordinates with ydotool
func (c *Controller) MoveMouse(ctx context.Context, x, y int) error {
	return c.input(ctx, "ydotool", "mousemove", "--absolute", "-x", strconv.Itoa(x), "-y", strconv.Itoa(y))
}

// ClickMouse clicks button clicks times with ydotool
func (c *Controller) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	code, ok := buttonCodes[button]
	if !ok {
		return fmt.Errorf("%w: invalid mouse button %s", domain.ErrActionExecution, button)
	}

	for i := 0; i < clicks; i++ {
		if err := c.input(ctx, "ydotool", "click", code); err != nil {
			return err
		}
		if i < clicks-1 {
			if err := display.Sleep(ctx, clickGap); err != nil {
				return err
			}
		}
	}
	return nil
}

// TypeText types text with wtype, falling back to ydotool
func (c *Controller) TypeText(ctx context.Context, text string, delayMs int) error {
	if _, err := c.look("wtype"); err == nil {
		return c.input(ctx, "wtype", "-d", strconv.Itoa(delayMs), "--", text)
	}
	if _, err := c.look("ydotool"); err == nil {
		return c.input(ctx, "ydotool", "type", "--key-delay", strconv.Itoa(delayMs), "--", text)
	}
	return fmt.Errorf("%w: no text input tool available (install wtype or ydotool)", domain.ErrActionExecution)
}

// SendKeyCombo presses a combination with wtype
func (c *Controller) SendKeyCombo(ctx context.Context, combo string) error {
	kc, err := display.ParseKeyCombo(combo)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrActionExecution, err)
	}
	if _, err := c.look("wtype"); err != nil {
		return fmt.Errorf("%w: wtype is required for key combinations", domain.ErrActionExecution)
	}
	return c.input(ctx, "wtype", wtypeComboArgs(kc)...)
}

func (c *Controller) input(ctx context.Context, name string, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, inputTimeout)
	defer cancel()

	if _, err := c.run(ctx, name, args...); err != nil {
		logger.Debug("Wayland input command failed", "tool", name, "error", err)
		return fmt.Errorf("%w: %w", domain.ErrActionExecution, err)
	}
	return nil
}

var wtypeModifiers = map[string]string{
	"ctrl":  "ctrl",
	"alt":   "alt",
	"shift": "shift",
	"super": "logo",
	"cmd":   "logo",
}

var wtypeKeys = map[string]string{
	"enter":     "Return",
	"return":    "Return",
	"esc":       "Escape",
	"escape":    "Escape",
	"tab":       "Tab",
	"space":     "space",
	"backspace": "BackSpace",
	"delete":    "Delete",
	"del":       "Delete",
	"home":      "Home",
	"end":       "End",
	"pageup":    "Prior",
	"pagedown":  "Next",
	"up":        "Up",
	"down":      "Down",
	"left":      "Left",
	"right":     "Right",
}

// wtypeComboArgs holds modifiers with -M, taps the key with -k and releases with -m
func wtypeComboArgs(kc display.KeyCombo) []string {
	var args []string
	for _, m := range kc.Modifiers {
		args = append(args, "-M", wtypeModifiers[m])
	}

	key := kc.Key
	if name, ok := wtypeKeys[key]; ok {
		key = name
	} else if len(key) >= 2 && key[0] == 'f' && key[1] >= '1' && key[1] <= '9' {
		key = strings.ToUpper(key)
	}
	args = append(args, "-k", key)

	for i := len(kc.Modifiers) - 1; i >= 0; i-- {
		args = append(args, "-m", wtypeModifiers[kc.Modifiers[i]])
	}
	return args
}

// parseRandr reads the current mode and scale of the first enabled output
func parseRandr(output string) (int, int, bool) {
	var (
		width, height int
		scale         = 1.0
		seenMode      bool
	)

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)

		// a new output block starts at column zero
		if line != "" && line[0] != ' ' && line[0] != '\t' && seenMode {
			break
		}

		if strings.Contains(trimmed, "current") && !seenMode {
			fields := strings.Fields(trimmed)
			if len(fields) == 0 {
				continue
			}
			dims := strings.Split(fields[0], "x")
			if len(dims) != 2 {
				continue
			}
			w, errW := strconv.Atoi(dims[0])
			h, errH := strconv.Atoi(dims[1])
			if errW != nil || errH != nil || w <= 0 || h <= 0 {
				continue
			}
			width, height, seenMode = w, h, true
			continue
		}

		if v, ok := strings.CutPrefix(trimmed, "Scale:"); ok {
			if s, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && s > 0 {
				scale = s
			}
		}
	}

	if !seenMode {
		return 0, 0, false
	}
	return int(float64(width)/scale + 0.5), int(float64(height)/scale + 0.5), true
}

// Provider implements display.Provider for Wayland
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates a new Wayland provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController creates a controller for the current Wayland session
func (p *Provider) GetController(displayName string) (display.DisplayController, error) {
	return NewController(displayName)
}

// GetDisplayInfo describes the Wayland backend
func (p *Provider) GetDisplayInfo() display.DisplayInfo {
	return display.DisplayInfo{
		Name:              "wayland",
		SupportsRegions:   true,
		RequiresElevation: true,
	}
}

// IsAvailable reports whether a Wayland session is active
func (p *Provider) IsAvailable() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// registered before x11 so a Wayland session with XWayland prefers native tools
func init() {
	display.Register(NewProvider())
}
