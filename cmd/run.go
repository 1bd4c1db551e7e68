package cmd

import (
	"context"
	"fmt"
	"strings"

	config "github.com/inference-gateway/gridpilot/config"
	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	plan "github.com/inference-gateway/gridpilot/internal/plan"
	ui "github.com/inference-gateway/gridpilot/internal/ui"
	cobra "github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [instruction]",
	Short: "Plan and execute a natural-language instruction",
	Long: `Turn an instruction into a plan of click, type, press and wait steps and
execute it against the screen. Without an instruction an interactive prompt
is opened; an empty line or Esc ends the session.

A failed step is reported and execution continues with the next one.
Ctrl+C skips the remaining steps.`,
	Example: `  gridpilot run "open the File menu and click Save"
  gridpilot run --preview "type hello world into the search field and press enter"
  gridpilot run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig()
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		preview, _ := cmd.Flags().GetBool("preview")
		reporter := ui.NewReporter(cmd.OutOrStdout(), ui.DefaultWidth)

		if dryRun {
			if len(args) == 0 {
				return fmt.Errorf("--dry-run requires an instruction")
			}
			return planOnly(cmd.Context(), cfg, reporter, strings.Join(args, " "))
		}

		planner, err := newPlanner(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		s, ctx, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		if len(args) > 0 {
			executor := plan.NewExecutor(s.runner, cfg.Plan.StepDelay, s.store.Cleanup)
			return runInstruction(ctx, planner, executor, reporter, strings.Join(args, " "), preview)
		}

		executor := plan.NewExecutor(s.runner, cfg.Plan.StepDelay, nil)
		return runInteractive(ctx, cmd, planner, executor, reporter, preview)
	},
}

func init() {
	runCmd.Flags().Bool("preview", false, "Show the generated plan before executing it")
	runCmd.Flags().Bool("dry-run", false, "Only generate and print the plan")
	rootCmd.AddCommand(runCmd)
}

func runInstruction(ctx context.Context, planner *plan.Planner, executor *plan.Executor, reporter *ui.Reporter, instruction string, preview bool) error {
	p, err := planner.Plan(ctx, instruction)
	if err != nil {
		return err
	}
	if preview {
		reporter.Plan(p)
	}

	executor.OnStep(reporter.Step)
	summary := executor.Execute(ctx, p)
	reporter.Summary(summary)

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if !summary.OK() {
		return fmt.Errorf("%w: %d of %d steps failed", domain.ErrActionExecution, summary.Failed, summary.Total)
	}
	return nil
}

func runInteractive(ctx context.Context, cmd *cobra.Command, planner *plan.Planner, executor *plan.Executor, reporter *ui.Reporter, preview bool) error {
	log := logger.L(ctx).Sugar()

	for {
		instruction, ok, err := ui.Prompt(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), "open the browser and search for the weather")
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if !ok {
			return nil
		}

		if err := runInstruction(ctx, planner, executor, reporter, instruction, preview); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			log.Warnw("Instruction did not complete", "instruction", instruction, "error", err)
			fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
		}
	}
}

// planOnly generates and prints a plan without touching the display
func planOnly(ctx context.Context, cfg *config.Config, reporter *ui.Reporter, instruction string) error {
	planner, err := newPlanner(ctx, cfg)
	if err != nil {
		return err
	}
	p, err := planner.Plan(ctx, instruction)
	if err != nil {
		return err
	}
	reporter.Plan(p)
	return nil
}
