package plan

import (
	"context"
	"errors"
	"fmt"
	"time"

	actions "github.com/inference-gateway/gridpilot/internal/actions"
	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	zap "go.uber.org/zap"
)

// Actions performs the individual steps of a plan
type Actions interface {
	Click(ctx context.Context, target string) (actions.ClickOutcome, error)
	Type(ctx context.Context, text string, opts actions.TypeOptions) (int, error)
	Press(ctx context.Context, key string) error
	Wait(ctx context.Context, d time.Duration) error
}

// StepStatus is the outcome of one step
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepResult records how one step went
type StepResult struct {
	Index    int
	Step     Step
	Status   StepStatus
	Err      error
	Duration time.Duration
	Click    *actions.ClickOutcome
}

// Summary tallies a plan execution
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Results   []StepResult
	Duration  time.Duration
}

// OK reports whether every step ran and succeeded
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Skipped == 0
}

// Executor runs plans step by step
type Executor struct {
	actions   Actions
	stepDelay time.Duration
	cleanup   func() error
	onStep    func(StepResult)
}

// NewExecutor creates an executor. cleanup, when set, runs once at the end of
// every Execute call regardless of how it ends.
func NewExecutor(a Actions, stepDelay time.Duration, cleanup func() error) *Executor {
	return &Executor{actions: a, stepDelay: stepDelay, cleanup: cleanup}
}

// OnStep registers a callback invoked after each step, including skipped ones
func (e *Executor) OnStep(fn func(StepResult)) {
	e.onStep = fn
}

// Execute runs the steps in order. A failed step is recorded and execution
// continues; when ctx ends the remaining steps are skipped.
func (e *Executor) Execute(ctx context.Context, p Plan) Summary {
	start := time.Now()
	summary := Summary{Total: len(p.Steps), Results: make([]StepResult, 0, len(p.Steps))}
	log := logger.L(ctx)

	defer func() {
		if e.cleanup == nil {
			return
		}
		if err := e.cleanup(); err != nil {
			log.Warn("Cleanup failed", zap.Error(err))
		}
	}()

	log.Info("Starting plan execution", zap.Int("steps", len(p.Steps)))

	for i, step := range p.Steps {
		if ctx.Err() != nil {
			e.skip(&summary, p.Steps[i:], i)
			break
		}

		res := e.runStep(logger.WithStep(ctx, i+1, string(step.Action)), i, step)
		if res.Status == StepSkipped {
			e.report(&summary, res)
			e.skip(&summary, p.Steps[i+1:], i+1)
			break
		}
		e.report(&summary, res)

		if i < len(p.Steps)-1 {
			if err := display.Sleep(ctx, e.stepDelay); err != nil {
				e.skip(&summary, p.Steps[i+1:], i+1)
				break
			}
		}
	}

	summary.Duration = time.Since(start)
	log.Info("Plan execution finished",
		zap.Int("succeeded", summary.Succeeded),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration))
	return summary
}

func (e *Executor) runStep(ctx context.Context, index int, step Step) StepResult {
	start := time.Now()
	res := StepResult{Index: index, Step: step}
	log := logger.L(ctx)

	log.Info("Executing step", zap.Stringer("summary", step))

	var err error
	if verr := step.Validate(); verr != nil {
		err = fmt.Errorf("%w: %v", domain.ErrInvalidPlan, verr)
	} else {
		err = e.dispatch(ctx, step, &res)
	}
	res.Duration = time.Since(start)

	switch {
	case err == nil:
		res.Status = StepSucceeded
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		res.Status = StepSkipped
		res.Err = err
		log.Info("Step interrupted")
	default:
		res.Status = StepFailed
		res.Err = err
		log.Warn("Step failed, continuing", zap.Error(err))
	}
	return res
}

func (e *Executor) dispatch(ctx context.Context, step Step, res *StepResult) error {
	switch step.Action {
	case ActionClick:
		outcome, err := e.actions.Click(ctx, step.Target)
		res.Click = &outcome
		if err != nil {
			return err
		}
		if !outcome.Found {
			return &domain.ElementNotFoundError{Target: step.Target, Reasoning: outcome.Reasoning}
		}
		if !outcome.Clicked {
			return fmt.Errorf("%w: no visible change after %d click attempts", domain.ErrActionExecution, outcome.Attempts)
		}
		return nil
	case ActionType:
		_, err := e.actions.Type(ctx, step.Text, actions.TypeOptions{
			Loop:         step.Loop,
			LoopDuration: seconds(step.LoopDuration),
			DelayBetween: seconds(step.DelayBetween),
		})
		return err
	case ActionPress:
		return e.actions.Press(ctx, step.Key)
	case ActionWait:
		return e.actions.Wait(ctx, step.WaitDuration())
	default:
		return fmt.Errorf("%w: unknown action %q", domain.ErrInvalidPlan, step.Action)
	}
}

func (e *Executor) report(summary *Summary, res StepResult) {
	switch res.Status {
	case StepSucceeded:
		summary.Succeeded++
	case StepFailed:
		summary.Failed++
	case StepSkipped:
		summary.Skipped++
	}
	summary.Results = append(summary.Results, res)
	if e.onStep != nil {
		e.onStep(res)
	}
}

func (e *Executor) skip(summary *Summary, steps []Step, offset int) {
	for i, step := range steps {
		e.report(summary, StepResult{Index: offset + i, Step: step, Status: StepSkipped})
	}
}
