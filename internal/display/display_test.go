package display

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

type mockController struct {
	capture    image.Image
	captureErr error
	width      int
	height     int
	dimsErr    error
	captures   int
}

func (m *mockController) CaptureScreen(ctx context.Context, region *Region) (image.Image, error) {
	m.captures++
	return m.capture, m.captureErr
}

func (m *mockController) GetScreenDimensions(ctx context.Context) (int, int, error) {
	return m.width, m.height, m.dimsErr
}

func (m *mockController) GetCursorPosition(ctx context.Context) (int, int, error) {
	return 0, 0, nil
}

func (m *mockController) MoveMouse(ctx context.Context, x, y int) error {
	return nil
}

func (m *mockController) ClickMouse(ctx context.Context, b MouseButton, n int) error {
	return nil
}

func (m *mockController) TypeText(ctx context.Context, text string, delay int) error {
	return nil
}

func (m *mockController) SendKeyCombo(ctx context.Context, combo string) error {
	return nil
}

func (m *mockController) Close() error {
	return nil
}

type mockProvider struct {
	name      string
	available bool
	ctrl      DisplayController
	err       error
}

func (p *mockProvider) GetController(string) (DisplayController, error) {
	return p.ctrl, p.err
}

func (p *mockProvider) GetDisplayInfo() DisplayInfo {
	return DisplayInfo{Name: p.name}
}

func (p *mockProvider) IsAvailable() bool {
	return p.available
}

func TestComputeScale(t *testing.T) {
	tests := []struct {
		name           string
		pw, ph, lw, lh int
		want           domain.Scale
		wantErr        bool
	}{
		{name: "retina", pw: 3200, ph: 1800, lw: 1600, lh: 900, want: domain.Scale{X: 2, Y: 2}},
		{name: "standard", pw: 1920, ph: 1080, lw: 1920, lh: 1080, want: domain.Scale{X: 1, Y: 1}},
		{name: "fractional", pw: 2880, ph: 1800, lw: 1920, lh: 1200, want: domain.Scale{X: 1.5, Y: 1.5}},
		{name: "no logical size", pw: 100, ph: 100, lw: 0, lh: 100, wantErr: true},
		{name: "empty capture", pw: 0, ph: 0, lw: 100, lh: 100, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeScale(tt.pw, tt.ph, tt.lw, tt.lh)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, domain.ErrCapture))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectScale(t *testing.T) {
	ctrl := &mockController{
		capture: image.NewRGBA(image.Rect(0, 0, 3200, 1800)),
		width:   1600,
		height:  900,
	}

	scale, err := DetectScale(context.Background(), ctrl)
	require.NoError(t, err)
	assert.Equal(t, domain.Scale{X: 2, Y: 2}, scale)
	assert.Equal(t, domain.Point{X: 70, Y: 75}, scale.ToLogical(domain.Point{X: 140, Y: 150}))

	_, err = DetectScale(context.Background(), ctrl)
	require.NoError(t, err)
	assert.Equal(t, 2, ctrl.captures, "scale is recomputed on every call")
}

func TestDetectScale_Failures(t *testing.T) {
	_, err := DetectScale(context.Background(), &mockController{captureErr: errors.New("no screen")})
	assert.True(t, errors.Is(err, domain.ErrCapture))

	_, err = DetectScale(context.Background(), &mockController{
		capture: image.NewRGBA(image.Rect(0, 0, 10, 10)),
		dimsErr: errors.New("display enumeration unavailable"),
	})
	assert.True(t, errors.Is(err, domain.ErrCapture))
}

func TestRegistry(t *testing.T) {
	ClearProviders()
	defer ClearProviders()

	_, err := DetectDisplay()
	assert.True(t, errors.Is(err, domain.ErrCapture))

	ctrl := &mockController{}
	Register(&mockProvider{name: "wayland", available: false})
	Register(&mockProvider{name: "x11", available: true, ctrl: ctrl})

	p, err := DetectDisplay()
	require.NoError(t, err)
	assert.Equal(t, "x11", p.GetDisplayInfo().Name)
	assert.Nil(t, GetProvider("macos"))

	got, err := Open("", ":0")
	require.NoError(t, err)
	assert.Same(t, ctrl, got)

	_, err = Open("wayland", "")
	assert.True(t, errors.Is(err, domain.ErrCapture))

	_, err = Open("macos", "")
	assert.True(t, errors.Is(err, domain.ErrCapture))
}

func TestOpen_ControllerError(t *testing.T) {
	ClearProviders()
	defer ClearProviders()

	Register(&mockProvider{name: "x11", available: true, err: errors.New("cannot open display")})
	_, err := Open("x11", ":9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrCapture))
	assert.Contains(t, err.Error(), "cannot open display")
}

func TestParseKeyCombo(t *testing.T) {
	tests := []struct {
		in      string
		want    KeyCombo
		wantErr bool
	}{
		{in: "ctrl+s", want: KeyCombo{Modifiers: []string{"ctrl"}, Key: "s"}},
		{in: "Control-Shift-T", want: KeyCombo{Modifiers: []string{"ctrl", "shift"}, Key: "t"}},
		{in: "cmd+v", want: KeyCombo{Modifiers: []string{"cmd"}, Key: "v"}},
		{in: "enter", want: KeyCombo{Key: "enter"}},
		{in: "+", want: KeyCombo{Key: "+"}},
		{in: "", wantErr: true},
		{in: "hyper+x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeyCombo(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "ctrl+shift+t", KeyCombo{Modifiers: []string{"ctrl", "shift"}, Key: "t"}.String())
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Sleep(ctx, time.Hour), context.Canceled)
	assert.ErrorIs(t, Sleep(ctx, 0), context.Canceled)
}
