package x11

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"os"
	"strings"
	"time"

	xgb "github.com/BurntSushi/xgb"
	xproto "github.com/BurntSushi/xgb/xproto"
	xtest "github.com/BurntSushi/xgb/xtest"
	xgbutil "github.com/BurntSushi/xgbutil"
	keybind "github.com/BurntSushi/xgbutil/keybind"
	xgraphics "github.com/BurntSushi/xgbutil/xgraphics"

	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
)

const (
	buttonHold  = 50 * time.Millisecond
	clickGap    = 100 * time.Millisecond
	modifierGap = 10 * time.Millisecond
)

// Controller drives an X11 display through the XTEST extension
type Controller struct {
	xu      *xgbutil.XUtil
	conn    *xgb.Conn
	screen  *xproto.ScreenInfo
	display string
}

var _ display.DisplayController = (*Controller)(nil)

// NewController connects to the X server named by displayName ("" uses $DISPLAY)
func NewController(displayName string) (*Controller, error) {
	// xgb prints connection noise straight to stderr
	oldStderr := os.Stderr
	devNull, devErr := os.OpenFile(os.DevNull, os.O_WRONLY, 0)
	if devErr == nil {
		os.Stderr = devNull
	}

	xu, err := xgbutil.NewConnDisplay(displayName)

	if devErr == nil {
		os.Stderr = oldStderr
		_ = devNull.Close()
	}

	if err != nil {
		logger.Error("Failed to connect to X11 display", "display", displayName, "error", err)
		return nil, fmt.Errorf("failed to connect to X11 display %q: %w", displayName, err)
	}

	if err := xtest.Init(xu.Conn()); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("failed to initialize XTEST extension: %w", err)
	}

	keybind.Initialize(xu)

	return &Controller{
		xu:      xu,
		conn:    xu.Conn(),
		screen:  xproto.Setup(xu.Conn()).DefaultScreen(xu.Conn()),
		display: displayName,
	}, nil
}

// Close closes the X11 connection
func (c *Controller) Close() error {
	if c.conn != nil {
		c.conn.Close()
	}
	return nil
}

// GetScreenDimensions returns the root window size. X11 has no separate
// logical space, so this matches the capture size.
func (c *Controller) GetScreenDimensions(ctx context.Context) (int, int, error) {
	return int(c.screen.WidthInPixels), int(c.screen.HeightInPixels), nil
}

// CaptureScreen grabs the root window (or region of it) into a detached RGBA buffer
func (c *Controller) CaptureScreen(ctx context.Context, region *display.Region) (image.Image, error) {
	bounds := image.Rect(0, 0, int(c.screen.WidthInPixels), int(c.screen.HeightInPixels))
	if region != nil && region.Width > 0 && region.Height > 0 {
		bounds = image.Rect(region.X, region.Y, region.X+region.Width, region.Y+region.Height).Intersect(bounds)
		if bounds.Empty() {
			return nil, fmt.Errorf("%w: region %+v is outside the screen", domain.ErrCapture, *region)
		}
	}

	ximg, err := xgraphics.NewDrawable(c.xu, xproto.Drawable(c.screen.Root))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read root window: %w", domain.ErrCapture, err)
	}
	defer ximg.Destroy()

	out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(out, out.Rect, ximg, bounds.Min, draw.Src)
	return out, nil
}

// GetCursorPosition returns the current pointer position on the root window
func (c *Controller) GetCursorPosition(ctx context.Context) (int, int, error) {
	pointer, err := xproto.QueryPointer(c.conn, c.screen.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

// MoveMouse warps the pointer to absolute root coordinates
func (c *Controller) MoveMouse(ctx context.Context, x, y int) error {
	err := xproto.WarpPointerChecked(
		c.conn,
		xproto.WindowNone,
		c.screen.Root,
		0, 0,
		0, 0,
		clampInt16(x), clampInt16(y),
	).Check()
	if err != nil {
		return fmt.Errorf("%w: failed to move pointer: %w", domain.ErrActionExecution, err)
	}

	c.conn.Sync()
	return nil
}

// ClickMouse presses and releases button clicks times at the pointer position
func (c *Controller) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	code, err := buttonCode(button)
	if err != nil {
		return err
	}

	for i := 0; i < clicks; i++ {
		if err := c.fake(xproto.ButtonPress, code); err != nil {
			return fmt.Errorf("%w: button press: %w", domain.ErrActionExecution, err)
		}
		if err := display.Sleep(ctx, buttonHold); err != nil {
			_ = c.fake(xproto.ButtonRelease, code)
			return err
		}
		if err := c.fake(xproto.ButtonRelease, code); err != nil {
			return fmt.Errorf("%w: button release: %w", domain.ErrActionExecution, err)
		}

		if i < clicks-1 {
			if err := display.Sleep(ctx, clickGap); err != nil {
				return err
			}
		}
	}

	c.conn.Sync()
	return nil
}

// TypeText types text one key at a time with delayMs between key events
func (c *Controller) TypeText(ctx context.Context, text string, delayMs int) error {
	delay := time.Duration(delayMs) * time.Millisecond

	for _, r := range text {
		name, shift := runeKeysym(r)
		code, ok := c.keycode(name)
		if !ok {
			logger.Debug("No keycode for character", "char", string(r), "keysym", name)
			continue
		}

		var mods []xproto.Keycode
		if shift {
			if sc, ok := c.keycode("Shift_L"); ok {
				mods = append(mods, sc)
			}
		}
		if err := c.tap(ctx, mods, code, delay); err != nil {
			return err
		}
	}

	c.conn.Sync()
	return nil
}

// SendKeyCombo presses a combination such as "ctrl+s" or "super+l"
func (c *Controller) SendKeyCombo(ctx context.Context, combo string) error {
	kc, err := display.ParseKeyCombo(combo)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrActionExecution, err)
	}

	mods := make([]xproto.Keycode, 0, len(kc.Modifiers))
	for _, m := range kc.Modifiers {
		code, ok := c.keycode(modifierKeysym[m])
		if !ok {
			return fmt.Errorf("%w: no keycode for modifier %s", domain.ErrActionExecution, m)
		}
		mods = append(mods, code)
	}

	name := keyKeysym(kc.Key)
	code, ok := c.keycode(name)
	if !ok {
		return fmt.Errorf("%w: no keycode for key %s", domain.ErrActionExecution, kc.Key)
	}

	if err := c.tap(ctx, mods, code, modifierGap); err != nil {
		return err
	}
	c.conn.Sync()
	return nil
}

// tap presses mods in order, taps key, then releases mods in reverse
func (c *Controller) tap(ctx context.Context, mods []xproto.Keycode, key xproto.Keycode, delay time.Duration) error {
	for _, m := range mods {
		if err := c.fake(xproto.KeyPress, byte(m)); err != nil {
			return fmt.Errorf("%w: key press: %w", domain.ErrActionExecution, err)
		}
	}
	defer func() {
		for i := len(mods) - 1; i >= 0; i-- {
			_ = c.fake(xproto.KeyRelease, byte(mods[i]))
		}
	}()

	if err := c.fake(xproto.KeyPress, byte(key)); err != nil {
		return fmt.Errorf("%w: key press: %w", domain.ErrActionExecution, err)
	}
	sleepErr := display.Sleep(ctx, delay)
	if err := c.fake(xproto.KeyRelease, byte(key)); err != nil {
		return fmt.Errorf("%w: key release: %w", domain.ErrActionExecution, err)
	}
	if sleepErr != nil {
		return sleepErr
	}
	return display.Sleep(ctx, delay)
}

func (c *Controller) fake(event byte, detail byte) error {
	return xtest.FakeInputChecked(c.conn, event, detail, 0, c.screen.Root, 0, 0, 0).Check()
}

func (c *Controller) keycode(keysym string) (xproto.Keycode, bool) {
	codes := keybind.StrToKeycodes(c.xu, keysym)
	if len(codes) == 0 {
		return 0, false
	}
	return codes[0], true
}

func buttonCode(button display.MouseButton) (byte, error) {
	switch button {
	case display.MouseButtonLeft:
		return 1, nil
	case display.MouseButtonMiddle:
		return 2, nil
	case display.MouseButtonRight:
		return 3, nil
	default:
		return 0, fmt.Errorf("%w: invalid mouse button %s", domain.ErrActionExecution, button)
	}
}

func clampInt16(v int) int16 {
	switch {
	case v < -32768:
		return -32768
	case v > 32767:
		return 32767
	default:
		return int16(v)
	}
}

// Provider implements display.Provider for X11
type Provider struct{}

var _ display.Provider = (*Provider)(nil)

// NewProvider creates a new X11 provider
func NewProvider() *Provider {
	return &Provider{}
}

// GetController connects to the given X display
func (p *Provider) GetController(displayName string) (display.DisplayController, error) {
	return NewController(displayName)
}

// GetDisplayInfo describes the X11 backend
func (p *Provider) GetDisplayInfo() display.DisplayInfo {
	return display.DisplayInfo{
		Name:            "x11",
		SupportsRegions: true,
	}
}

// IsAvailable reports whether DISPLAY is set and no Wayland session is active
func (p *Provider) IsAvailable() bool {
	return os.Getenv("DISPLAY") != "" && strings.TrimSpace(os.Getenv("WAYLAND_DISPLAY")) == ""
}

func init() {
	display.Register(NewProvider())
}
