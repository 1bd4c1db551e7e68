package actions

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"testing"
	"time"

	config "github.com/inference-gateway/gridpilot/config"
	artifacts "github.com/inference-gateway/gridpilot/internal/artifacts"
	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	grid "github.com/inference-gateway/gridpilot/internal/grid"
	journal "github.com/inference-gateway/gridpilot/internal/journal"
	probe "github.com/inference-gateway/gridpilot/internal/probe"
	utils "github.com/inference-gateway/gridpilot/internal/utils"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// mockDisplay captures at twice its logical size and turns white once a
// click lands inside hot (logical coordinates)
type mockDisplay struct {
	hot        image.Rectangle
	cursor     domain.Point
	clicked    bool
	clicks     []domain.Point
	typed      []string
	combos     []string
	captureErr error
	comboErr   error
	clickErr   error
}

func (m *mockDisplay) CaptureScreen(ctx context.Context, region *display.Region) (image.Image, error) {
	if m.captureErr != nil {
		return nil, m.captureErr
	}
	c := color.RGBA{A: 255}
	if m.clicked {
		c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	draw.Draw(img, img.Rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img, nil
}

func (m *mockDisplay) GetScreenDimensions(ctx context.Context) (int, int, error) {
	return 200, 100, nil
}

func (m *mockDisplay) GetCursorPosition(ctx context.Context) (int, int, error) {
	return m.cursor.X, m.cursor.Y, nil
}

func (m *mockDisplay) MoveMouse(ctx context.Context, x, y int) error {
	m.cursor = domain.Point{X: x, Y: y}
	return nil
}

func (m *mockDisplay) ClickMouse(ctx context.Context, button display.MouseButton, clicks int) error {
	if m.clickErr != nil {
		return m.clickErr
	}
	m.clicks = append(m.clicks, m.cursor)
	if image.Pt(m.cursor.X, m.cursor.Y).In(m.hot) {
		m.clicked = true
	}
	return nil
}

func (m *mockDisplay) TypeText(ctx context.Context, text string, delayMs int) error {
	m.typed = append(m.typed, text)
	return nil
}

func (m *mockDisplay) SendKeyCombo(ctx context.Context, combo string) error {
	if m.comboErr != nil {
		return m.comboErr
	}
	m.combos = append(m.combos, combo)
	return nil
}

func (m *mockDisplay) Close() error {
	return nil
}

type mockVision struct {
	reply   string
	err     error
	prompts []string
}

func (m *mockVision) Ask(ctx context.Context, prompt string, img image.Image) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.reply, m.err
}

type mockClipboard struct {
	err   error
	texts []string
}

func (m *mockClipboard) WriteText(text string) error {
	if m.err != nil {
		return m.err
	}
	m.texts = append(m.texts, text)
	return nil
}

// cell 5 of a 4x2 grid over a 400x200 capture is centered at (150, 150),
// which is (75, 75) in logical coordinates
const cellFiveReply = `{"found": true, "cells": [{"cell_number": 5, "coverage_percent": 100}], "confidence": "high", "reasoning": "label matches"}`

func newTestRunner(t *testing.T, screen *mockDisplay, model *mockVision, settings Settings) (*Runner, *journal.MemoryJournal) {
	t.Helper()
	overlay, err := grid.NewOverlay(grid.Spec{Columns: 4, Rows: 2})
	require.NoError(t, err)

	store, err := artifacts.NewStore(t.TempDir(), false)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Cleanup() })

	j := journal.NewMemoryJournal()
	runner := NewRunner(Deps{
		Display:   screen,
		Vision:    model,
		Overlay:   overlay,
		Prober:    probe.NewProber(screen, nil, probe.Options{Pattern: probe.PatternCardinal}),
		Artifacts: store,
		Journal:   j,
	}, settings)
	return runner, j
}

func TestRunner_Click(t *testing.T) {
	tests := []struct {
		name          string
		hot           image.Rectangle
		settings      Settings
		wantClicked   bool
		wantIndex     int
		wantLabel     string
		wantRadius    int
		wantAttempts  int
		wantLastClick domain.Point
	}{
		{
			name:          "center hits",
			hot:           image.Rect(70, 70, 80, 80),
			wantClicked:   true,
			wantIndex:     0,
			wantLabel:     "center",
			wantRadius:    50,
			wantAttempts:  1,
			wantLastClick: domain.Point{X: 75, Y: 75},
		},
		{
			name:          "offset candidate hits",
			hot:           image.Rect(120, 70, 130, 80),
			wantClicked:   true,
			wantIndex:     4,
			wantLabel:     "right",
			wantRadius:    50,
			wantAttempts:  5,
			wantLastClick: domain.Point{X: 125, Y: 75},
		},
		{
			name:          "configured radius",
			hot:           image.Rect(74, 84, 76, 86),
			settings:      Settings{Radius: 10},
			wantClicked:   true,
			wantIndex:     2,
			wantLabel:     "bottom",
			wantRadius:    10,
			wantAttempts:  3,
			wantLastClick: domain.Point{X: 75, Y: 85},
		},
		{
			name:          "nothing reacts",
			hot:           image.Rectangle{},
			wantClicked:   false,
			wantIndex:     -1,
			wantRadius:    50,
			wantAttempts:  5,
			wantLastClick: domain.Point{X: 125, Y: 75},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := &mockDisplay{hot: tt.hot}
			model := &mockVision{reply: cellFiveReply}
			runner, j := newTestRunner(t, screen, model, tt.settings)

			outcome, err := runner.Click(context.Background(), "Submit button")
			require.NoError(t, err)

			assert.True(t, outcome.Found)
			assert.Equal(t, tt.wantClicked, outcome.Clicked)
			assert.Equal(t, tt.wantIndex, outcome.CandidateIndex)
			assert.Equal(t, tt.wantLabel, outcome.CandidateLabel)
			assert.Equal(t, tt.wantRadius, outcome.Radius)
			assert.Equal(t, tt.wantAttempts, outcome.Attempts)
			assert.Equal(t, domain.Point{X: 150, Y: 150}, outcome.ImagePoint)
			assert.Equal(t, domain.Point{X: 75, Y: 75}, outcome.LogicalPoint)
			assert.Equal(t, domain.Scale{X: 2, Y: 2}, outcome.Scale)
			assert.Equal(t, domain.ConfidenceHigh, outcome.Confidence)
			assert.FileExists(t, outcome.OverlayPath)
			require.NotEmpty(t, screen.clicks)
			assert.Equal(t, tt.wantLastClick, screen.clicks[len(screen.clicks)-1])

			require.Len(t, model.prompts, 1)
			assert.Contains(t, model.prompts[0], "4 columns x 2 rows = 8 cells")

			stats, err := j.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, stats.Total)
			if tt.wantClicked {
				assert.Equal(t, 1, stats.ByCandidate[tt.wantLabel])
			} else {
				assert.Equal(t, 1, stats.Missed)
			}
		})
	}
}

func TestRunner_ClickNotFound(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		reasoning string
	}{
		{"model says not found", `{"found": false, "reasoning": "no such button"}`, "no such button"},
		{"every cell outside the grid", `{"found": true, "cells": [{"cell_number": 8, "coverage_percent": 100}, {"cell_number": -1}]}`, "every reported cell is outside the grid"},
		{"prose only", "Sorry, I cannot see it.", "no JSON object in vision response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := &mockDisplay{}
			runner, j := newTestRunner(t, screen, &mockVision{reply: tt.reply}, Settings{})

			outcome, err := runner.Click(context.Background(), "Help icon")
			require.NoError(t, err)
			assert.False(t, outcome.Found)
			assert.False(t, outcome.Clicked)
			assert.Equal(t, -1, outcome.CandidateIndex)
			assert.Equal(t, tt.reasoning, outcome.Reasoning)
			assert.Empty(t, screen.clicks)

			stats, err := j.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 1, stats.NotFound)
		})
	}
}

func TestRunner_ClickErrors(t *testing.T) {
	tests := []struct {
		name   string
		screen *mockDisplay
		model  *mockVision
		want   error
	}{
		{"capture fails", &mockDisplay{captureErr: errors.New("no display")}, &mockVision{reply: cellFiveReply}, domain.ErrCapture},
		{"model fails", &mockDisplay{}, &mockVision{err: domain.ErrVisionModel}, domain.ErrVisionModel},
		{"undecodable json", &mockDisplay{}, &mockVision{reply: `{"found": true,, }`}, domain.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, j := newTestRunner(t, tt.screen, tt.model, Settings{})

			_, err := runner.Click(context.Background(), "Submit")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Empty(t, tt.screen.clicks)

			stats, err := j.Stats(context.Background())
			require.NoError(t, err)
			assert.Equal(t, 0, stats.Total)
		})
	}
}

func TestRunner_ClickRecordsFailedAttempts(t *testing.T) {
	screen := &mockDisplay{clickErr: errors.New("xtest unavailable")}
	runner, j := newTestRunner(t, screen, &mockVision{reply: cellFiveReply}, Settings{})

	outcome, err := runner.Click(context.Background(), "Submit button")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrActionExecution), "got %v", err)
	assert.True(t, outcome.Found)
	assert.False(t, outcome.Clicked)
	assert.Equal(t, 5, outcome.Attempts)

	stats, err := j.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Missed)
}

func TestRunner_Type(t *testing.T) {
	t.Run("pastes through the clipboard", func(t *testing.T) {
		screen := &mockDisplay{}
		clip := &mockClipboard{}
		runner := NewRunner(Deps{Display: screen, Clipboard: clip}, Settings{})
		runner.pasteCombo = "ctrl+v"

		n, err := runner.Type(context.Background(), "hello", TypeOptions{})
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, []string{"hello"}, clip.texts)
		assert.Equal(t, []string{"ctrl+v"}, screen.combos)
		assert.Empty(t, screen.typed)
	})

	t.Run("falls back to typing characters", func(t *testing.T) {
		screen := &mockDisplay{}
		runner := NewRunner(Deps{Display: screen, Clipboard: &mockClipboard{err: errors.New("no clipboard")}}, Settings{})

		_, err := runner.Type(context.Background(), "hello", TypeOptions{})
		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, screen.typed)
		assert.Empty(t, screen.combos)
	})

	t.Run("loops until the duration elapses", func(t *testing.T) {
		screen := &mockDisplay{}
		runner := NewRunner(Deps{Display: screen}, Settings{})

		n, err := runner.Type(context.Background(), "a", TypeOptions{Loop: true, LoopDuration: 40 * time.Millisecond, DelayBetween: 5 * time.Millisecond})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 2)
		assert.Len(t, screen.typed, n)
	})

	t.Run("paste failure is an action error", func(t *testing.T) {
		screen := &mockDisplay{comboErr: errors.New("xtest unavailable")}
		runner := NewRunner(Deps{Display: screen, Clipboard: &mockClipboard{}}, Settings{})

		_, err := runner.Type(context.Background(), "x", TypeOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrActionExecution))
	})
}

func TestRunner_Press(t *testing.T) {
	screen := &mockDisplay{}
	runner := NewRunner(Deps{Display: screen}, Settings{})

	require.NoError(t, runner.Press(context.Background(), "ctrl+s"))
	assert.Equal(t, []string{"ctrl+s"}, screen.combos)

	screen.comboErr = errors.New("unknown key")
	err := runner.Press(context.Background(), "hyper+q")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrActionExecution))
}

func TestRunner_RateLimited(t *testing.T) {
	screen := &mockDisplay{}
	limiter := utils.NewRateLimiter(config.RateLimitConfig{Enabled: true, MaxActionsPerMinute: 2, WindowSeconds: 60})
	runner := NewRunner(Deps{Display: screen, Limiter: limiter}, Settings{})

	require.NoError(t, runner.Press(context.Background(), "enter"))
	_, err := runner.Type(context.Background(), "x", TypeOptions{})
	require.NoError(t, err)

	err = runner.Press(context.Background(), "enter")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
	assert.Equal(t, []string{"enter"}, screen.combos)

	_, err = runner.Click(context.Background(), "anything")
	assert.True(t, errors.Is(err, domain.ErrRateLimited))
}

func TestRunner_Wait(t *testing.T) {
	runner := NewRunner(Deps{Display: &mockDisplay{}}, Settings{})

	start := time.Now()
	require.NoError(t, runner.Wait(context.Background(), 10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, runner.Wait(ctx, time.Hour), context.Canceled)
}

func TestSettingsFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Click.Radius = 12

	s := SettingsFromConfig(cfg)
	assert.Equal(t, 12, s.Radius)
	assert.Equal(t, 100*time.Millisecond, s.TypeDelay)
	assert.Equal(t, 5*time.Second, s.LoopDuration)
	assert.Equal(t, 300*time.Millisecond, s.LoopDelay)
}

func TestLocator_NoStore(t *testing.T) {
	overlay, err := grid.NewOverlay(grid.DefaultSpec())
	require.NoError(t, err)
	locator := NewLocator(&mockVision{reply: `{"found": true, "primary_cell": 0}`}, overlay, nil)

	loc, err := locator.Locate(context.Background(), image.NewRGBA(image.Rect(0, 0, 320, 180)), "corner")
	require.NoError(t, err)
	assert.True(t, loc.Found())
	assert.NoError(t, loc.Err())
	assert.Empty(t, loc.OverlayPath)
	assert.Equal(t, domain.Point{X: 5, Y: 5}, loc.Point)

	_, statErr := os.Stat(loc.OverlayPath)
	assert.Error(t, statErr)
}

func TestLocation_Err(t *testing.T) {
	loc := Location{Target: "Save", Result: domain.NotFound("hidden")}
	err := loc.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrElementNotFound))

	var notFound *domain.ElementNotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "hidden", notFound.Reasoning)
}
