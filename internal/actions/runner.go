package actions

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"time"

	config "github.com/inference-gateway/gridpilot/config"
	artifacts "github.com/inference-gateway/gridpilot/internal/artifacts"
	clipboard "github.com/inference-gateway/gridpilot/internal/clipboard"
	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	grid "github.com/inference-gateway/gridpilot/internal/grid"
	journal "github.com/inference-gateway/gridpilot/internal/journal"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	probe "github.com/inference-gateway/gridpilot/internal/probe"
	zap "go.uber.org/zap"
)

// keyDelayMs paces character-by-character typing when pasting is unavailable
const keyDelayMs = 50

// Clipboard is the subset of clipboard access used for paste-typing
type Clipboard interface {
	WriteText(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboard.WriteText(text)
}

// SystemClipboard returns the platform clipboard
func SystemClipboard() Clipboard {
	return systemClipboard{}
}

// Deps are the collaborators of a Runner. Artifacts, Journal, Limiter and
// Clipboard are optional.
type Deps struct {
	Display   display.DisplayController
	Vision    domain.VisionModel
	Overlay   *grid.Overlay
	Prober    *probe.Prober
	Artifacts *artifacts.Store
	Journal   journal.Journal
	Limiter   domain.RateLimiter
	Clipboard Clipboard
}

// Settings are the tunables a Runner reads from configuration
type Settings struct {
	Radius       int
	TypeDelay    time.Duration
	LoopDuration time.Duration
	LoopDelay    time.Duration
}

// SettingsFromConfig extracts the action settings from cfg
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Radius:       cfg.Click.Radius,
		TypeDelay:    cfg.Plan.TypeDelay,
		LoopDuration: cfg.Plan.LoopDuration,
		LoopDelay:    cfg.Plan.LoopDelay,
	}
}

// TypeOptions controls repeated typing
type TypeOptions struct {
	Loop         bool
	LoopDuration time.Duration
	DelayBetween time.Duration
}

// ClickOutcome describes one click action from capture to verification
type ClickOutcome struct {
	Target         string
	Found          bool
	Clicked        bool
	CandidateIndex int
	CandidateLabel string
	Attempts       int
	ImagePoint     domain.Point
	LogicalPoint   domain.Point
	Scale          domain.Scale
	Radius         int
	Confidence     domain.Confidence
	Reasoning      string
	Cells          []domain.CellObservation
	OverlayPath    string
}

// Runner executes the click, type, press and wait actions against a display
type Runner struct {
	deps       Deps
	settings   Settings
	locator    *Locator
	pasteCombo string
}

// NewRunner creates an action runner
func NewRunner(deps Deps, settings Settings) *Runner {
	paste := "ctrl+v"
	if runtime.GOOS == "darwin" {
		paste = "cmd+v"
	}
	return &Runner{
		deps:       deps,
		settings:   settings,
		locator:    NewLocator(deps.Vision, deps.Overlay, deps.Artifacts),
		pasteCombo: paste,
	}
}

// Click captures the screen, asks the vision model where target is, and
// probes around the resolved point until the screen reacts. A target that
// cannot be located or a probe with no visible change is not an error; check
// Found and Clicked on the outcome.
func (r *Runner) Click(ctx context.Context, target string) (ClickOutcome, error) {
	outcome := ClickOutcome{Target: target, CandidateIndex: -1, Confidence: domain.ConfidenceUnknown}
	log := logger.L(ctx)

	if err := r.consume("click"); err != nil {
		return outcome, err
	}

	capture, err := r.deps.Display.CaptureScreen(ctx, nil)
	if err != nil {
		return outcome, fmt.Errorf("%w: %w", domain.ErrCapture, err)
	}
	if r.deps.Artifacts != nil {
		if _, err := r.deps.Artifacts.Save("screenshot", capture); err != nil {
			log.Warn("Failed to save screenshot artifact", zap.Error(err))
		}
	}

	scale, err := display.ScaleForCapture(ctx, r.deps.Display, capture)
	if err != nil {
		return outcome, err
	}
	outcome.Scale = scale

	loc, err := r.locator.Locate(ctx, capture, target)
	if err != nil {
		return outcome, err
	}
	outcome.OverlayPath = loc.OverlayPath
	outcome.Reasoning = loc.Result.Reasoning
	outcome.Confidence = loc.Result.Confidence

	if !loc.Found() {
		r.record(ctx, outcome)
		return outcome, nil
	}

	outcome.Found = true
	outcome.Cells = loc.Cells
	outcome.ImagePoint = loc.Point
	outcome.LogicalPoint = scale.ToLogical(loc.Point)
	outcome.Radius = r.radius(loc.Geometry, scale)

	log.Debug("Resolved click target",
		zap.Stringer("image", outcome.ImagePoint),
		zap.Stringer("logical", outcome.LogicalPoint),
		zap.Float64("scale_x", scale.X),
		zap.Float64("scale_y", scale.Y),
		zap.Int("radius", outcome.Radius))

	result, err := r.deps.Prober.Probe(ctx, outcome.LogicalPoint, outcome.Radius)
	outcome.Attempts = len(result.Attempts)
	if err != nil {
		r.record(ctx, outcome)
		return outcome, err
	}

	outcome.Clicked = result.Clicked
	outcome.CandidateIndex = result.Index
	if result.Clicked {
		outcome.CandidateLabel = result.Candidate.Label
	}

	r.record(ctx, outcome)
	return outcome, nil
}

// radius is the configured probe radius, or the mean logical cell size
func (r *Runner) radius(g grid.Geometry, scale domain.Scale) int {
	if r.settings.Radius > 0 {
		return r.settings.Radius
	}
	sx, sy := scale.X, scale.Y
	if sx <= 0 {
		sx = 1
	}
	if sy <= 0 {
		sy = 1
	}
	return int(math.Round((float64(g.CellWidth)/sx + float64(g.CellHeight)/sy) / 2))
}

func (r *Runner) record(ctx context.Context, o ClickOutcome) {
	if r.deps.Journal == nil {
		return
	}
	entry := journal.Entry{
		Target:         o.Target,
		Found:          o.Found,
		Clicked:        o.Clicked,
		CandidateIndex: o.CandidateIndex,
		CandidateLabel: o.CandidateLabel,
		Attempts:       o.Attempts,
		Radius:         o.Radius,
		Confidence:     string(o.Confidence),
		ImageX:         o.ImagePoint.X,
		ImageY:         o.ImagePoint.Y,
		LogicalX:       o.LogicalPoint.X,
		LogicalY:       o.LogicalPoint.Y,
	}
	if r.deps.Artifacts != nil {
		entry.SessionID = r.deps.Artifacts.SessionID()
	}
	if err := r.deps.Journal.Record(ctx, entry); err != nil {
		logger.L(ctx).Warn("Failed to record probe outcome", zap.Error(err))
	}
}

// Type enters text, pasting through the clipboard when possible. With
// opts.Loop the text is entered repeatedly until opts.LoopDuration elapses.
// It returns how many times the text was entered.
func (r *Runner) Type(ctx context.Context, text string, opts TypeOptions) (int, error) {
	if err := r.consume("type"); err != nil {
		return 0, err
	}

	if !opts.Loop {
		if err := r.typeOnce(ctx, text); err != nil {
			return 0, err
		}
		return 1, nil
	}

	duration := opts.LoopDuration
	if duration <= 0 {
		duration = r.settings.LoopDuration
	}
	delay := opts.DelayBetween
	if delay <= 0 {
		delay = r.settings.LoopDelay
	}

	deadline := time.Now().Add(duration)
	repetitions := 0
	for time.Now().Before(deadline) {
		if err := r.typeOnce(ctx, text); err != nil {
			return repetitions, err
		}
		repetitions++
		if err := display.Sleep(ctx, delay); err != nil {
			return repetitions, err
		}
	}

	logger.L(ctx).Info("Typed text in a loop", zap.Int("repetitions", repetitions), zap.Duration("duration", duration))
	return repetitions, nil
}

func (r *Runner) typeOnce(ctx context.Context, text string) error {
	if r.deps.Clipboard != nil {
		err := r.deps.Clipboard.WriteText(text)
		if err == nil {
			if err := r.deps.Display.SendKeyCombo(ctx, r.pasteCombo); err != nil {
				return actionError(err)
			}
			return display.Sleep(ctx, r.settings.TypeDelay)
		}
		logger.L(ctx).Debug("Clipboard unavailable, typing characters", zap.Error(err))
	}

	if err := r.deps.Display.TypeText(ctx, text, keyDelayMs); err != nil {
		return actionError(err)
	}
	return nil
}

// Press sends a single key or a combination such as "ctrl+s"
func (r *Runner) Press(ctx context.Context, key string) error {
	if err := r.consume("press"); err != nil {
		return err
	}
	if err := r.deps.Display.SendKeyCombo(ctx, key); err != nil {
		return actionError(err)
	}
	return nil
}

// Wait pauses for the given duration or until ctx ends
func (r *Runner) Wait(ctx context.Context, d time.Duration) error {
	return display.Sleep(ctx, d)
}

func (r *Runner) consume(action string) error {
	if r.deps.Limiter == nil {
		return nil
	}
	return r.deps.Limiter.CheckAndRecord(action)
}

func actionError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrActionExecution) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrActionExecution, err)
}
