package cmd

import (
	"context"
	"errors"
	"fmt"

	config "github.com/inference-gateway/gridpilot/config"
	actions "github.com/inference-gateway/gridpilot/internal/actions"
	artifacts "github.com/inference-gateway/gridpilot/internal/artifacts"
	change "github.com/inference-gateway/gridpilot/internal/change"
	clipboard "github.com/inference-gateway/gridpilot/internal/clipboard"
	display "github.com/inference-gateway/gridpilot/internal/display"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	grid "github.com/inference-gateway/gridpilot/internal/grid"
	journal "github.com/inference-gateway/gridpilot/internal/journal"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	plan "github.com/inference-gateway/gridpilot/internal/plan"
	probe "github.com/inference-gateway/gridpilot/internal/probe"
	utils "github.com/inference-gateway/gridpilot/internal/utils"
	vision "github.com/inference-gateway/gridpilot/internal/vision"

	_ "github.com/inference-gateway/gridpilot/internal/display/macos"
	_ "github.com/inference-gateway/gridpilot/internal/display/wayland"
	_ "github.com/inference-gateway/gridpilot/internal/display/x11"
)

// session owns every collaborator an action run needs
type session struct {
	display display.DisplayController
	store   *artifacts.Store
	journal journal.Journal
	runner  *actions.Runner
}

// openSession connects to the display and wires the action runner. The
// returned context carries the session id in its logger.
func openSession(ctx context.Context, cfg *config.Config) (*session, context.Context, error) {
	store, err := artifacts.NewStore(cfg.Artifacts.Dir, cfg.Artifacts.Keep)
	if err != nil {
		return nil, ctx, err
	}
	ctx = logger.WithSession(ctx, store.SessionID())

	s := &session{store: store}
	fail := func(err error) (*session, context.Context, error) {
		_ = s.Close()
		return nil, ctx, err
	}

	s.display, err = display.Open(cfg.Display.Name, cfg.Display.Display)
	if err != nil {
		return fail(err)
	}

	model, err := vision.New(ctx, vision.OptionsFromConfig(cfg.Vision))
	if err != nil {
		return fail(err)
	}

	overlay, err := grid.NewOverlay(grid.Spec{Columns: cfg.Grid.Columns, Rows: cfg.Grid.Rows})
	if err != nil {
		return fail(err)
	}

	opts, err := probe.OptionsFromConfig(cfg.Click)
	if err != nil {
		return fail(err)
	}
	prober := probe.NewProber(s.display, change.NewDetector(cfg.Click.ChangeThreshold), opts)

	s.journal, err = journal.New(cfg.Journal)
	if err != nil {
		return fail(fmt.Errorf("failed to open journal: %w", err))
	}

	deps := actions.Deps{
		Display:   s.display,
		Vision:    model,
		Overlay:   overlay,
		Prober:    prober,
		Artifacts: store,
		Journal:   s.journal,
	}
	if cfg.RateLimit.Enabled {
		deps.Limiter = utils.NewRateLimiter(cfg.RateLimit)
	}
	if err := clipboard.Init(); err != nil {
		logger.L(ctx).Sugar().Warnw("Clipboard unavailable, typing key by key", "error", err)
	} else {
		deps.Clipboard = actions.SystemClipboard()
	}

	s.runner = actions.NewRunner(deps, actions.SettingsFromConfig(cfg))
	return s, ctx, nil
}

// Close releases the display, the journal and the artifact directory
func (s *session) Close() error {
	var errs []error
	if s.display != nil {
		errs = append(errs, s.display.Close())
	}
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Cleanup())
	}
	return errors.Join(errs...)
}

// newPlanner builds a planner on the plan model, which defaults to the vision model
func newPlanner(ctx context.Context, cfg *config.Config) (*plan.Planner, error) {
	opts := vision.OptionsFromConfig(cfg.Vision)
	opts.Model = cfg.PlanModel()
	if cfg.Plan.MaxTokens > 0 {
		opts.MaxTokens = cfg.Plan.MaxTokens
	}

	model, err := vision.New(ctx, opts)
	if err != nil {
		return nil, err
	}
	return plan.NewPlanner(model), nil
}

// openJournal opens the configured journal for read-only commands
func openJournal(cfg *config.Config) (journal.Journal, error) {
	if !cfg.Journal.Enabled {
		return nil, fmt.Errorf("%w: the probe journal is disabled (set journal.enabled)", domain.ErrConfiguration)
	}
	return journal.New(cfg.Journal)
}
