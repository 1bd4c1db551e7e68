package probe

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	config "github.com/inference-gateway/gridpilot/config"
	change "github.com/inference-gateway/gridpilot/internal/change"
	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	zap "go.uber.org/zap"
)

// Options tunes one probe run
type Options struct {
	Pattern           Pattern
	DoubleClick       bool
	Button            display.MouseButton
	MoveDuration      time.Duration
	SettleDelay       time.Duration
	VerificationDelay time.Duration
}

// OptionsFromConfig maps the click configuration section onto Options
func OptionsFromConfig(cfg config.ClickConfig) (Options, error) {
	pattern, err := ParsePattern(cfg.Pattern)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Pattern:           pattern,
		DoubleClick:       cfg.DoubleClick,
		Button:            display.MouseButtonLeft,
		MoveDuration:      cfg.MoveDuration,
		SettleDelay:       cfg.SettleDelay,
		VerificationDelay: cfg.VerificationDelay,
	}, nil
}

// Attempt records what happened at one candidate
type Attempt struct {
	Candidate  Candidate
	Difference float64
	Changed    bool
	Err        error
}

// Result summarizes a probe run. Index is -1 when no candidate changed the screen.
type Result struct {
	Clicked   bool
	Index     int
	Candidate Candidate
	Attempts  []Attempt
}

// Prober clicks around a target until the screen visibly reacts
type Prober struct {
	ctrl     display.DisplayController
	detector *change.Detector
	opts     Options
}

// NewProber creates a prober; a nil detector uses the default threshold
func NewProber(ctrl display.DisplayController, detector *change.Detector, opts Options) *Prober {
	if detector == nil {
		detector = change.NewDetector(change.DefaultThreshold)
	}
	if opts.Pattern == "" {
		opts.Pattern = PatternExtended
	}
	return &Prober{ctrl: ctrl, detector: detector, opts: opts}
}

// Probe clicks each candidate around center (logical coordinates) in order and
// stops at the first one whose before/after captures differ. A candidate whose
// capture or input fails is skipped. An error is returned only when the
// context ends or when every candidate failed to execute.
func (p *Prober) Probe(ctx context.Context, center domain.Point, radius int) (Result, error) {
	candidates := Candidates(center, radius, p.opts.Pattern)
	result := Result{Index: -1, Attempts: make([]Attempt, 0, len(candidates))}
	log := logger.L(ctx)

	var lastErr error
	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		attempt := p.try(ctx, c)
		result.Attempts = append(result.Attempts, attempt)

		if attempt.Err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(attempt.Err, ctxErr) {
				return result, ctxErr
			}
			lastErr = attempt.Err
			log.Warn("Probe attempt failed",
				zap.Int("candidate", i),
				zap.String("label", c.Label),
				zap.Error(attempt.Err))
			continue
		}

		log.Debug("Probe attempt",
			zap.Int("candidate", i),
			zap.String("label", c.Label),
			zap.Int("x", c.Point.X),
			zap.Int("y", c.Point.Y),
			zap.Float64("difference", attempt.Difference),
			zap.Bool("changed", attempt.Changed))

		if attempt.Changed {
			result.Clicked = true
			result.Index = i
			result.Candidate = c
			log.Info("Click registered", zap.String("label", c.Label), zap.Int("attempts", i+1))
			return result, nil
		}
	}

	if lastErr != nil && allFailed(result.Attempts) {
		return result, fmt.Errorf("%w: all %d probe attempts failed: %w", domain.ErrActionExecution, len(result.Attempts), lastErr)
	}

	log.Info("No visible change after probing", zap.Int("attempts", len(result.Attempts)))
	return result, nil
}

func (p *Prober) try(ctx context.Context, c Candidate) Attempt {
	attempt := Attempt{Candidate: c}

	before, err := p.capture(ctx)
	if err != nil {
		attempt.Err = err
		return attempt
	}

	if err := moveSmoothly(ctx, p.ctrl, c.Point, p.opts.MoveDuration); err != nil {
		attempt.Err = wrapAction(err)
		return attempt
	}
	if err := display.Sleep(ctx, p.opts.SettleDelay); err != nil {
		attempt.Err = err
		return attempt
	}

	clicks := 1
	if p.opts.DoubleClick {
		clicks = 2
	}
	if err := p.ctrl.ClickMouse(ctx, p.opts.Button, clicks); err != nil {
		attempt.Err = wrapAction(err)
		return attempt
	}

	if err := display.Sleep(ctx, p.opts.VerificationDelay); err != nil {
		attempt.Err = err
		return attempt
	}

	after, err := p.capture(ctx)
	if err != nil {
		attempt.Err = err
		return attempt
	}

	attempt.Difference, attempt.Changed, attempt.Err = p.detector.Compare(before, after)
	return attempt
}

func (p *Prober) capture(ctx context.Context) (image.Image, error) {
	img, err := p.ctrl.CaptureScreen(ctx, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrCapture, err)
	}
	return img, nil
}

func wrapAction(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, domain.ErrActionExecution) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrActionExecution, err)
}

func allFailed(attempts []Attempt) bool {
	for _, a := range attempts {
		if a.Err == nil {
			return false
		}
	}
	return len(attempts) > 0
}
