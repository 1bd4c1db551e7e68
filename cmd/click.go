package cmd

import (
	"fmt"
	"strings"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	ui "github.com/inference-gateway/gridpilot/internal/ui"
	cobra "github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click <target>",
	Short: "Locate an element on screen and click it",
	Long: `Capture the screen, ask the vision model which grid cells cover the described
element and click the resolved point. When the screen does not change, nearby
positions are probed until one does.`,
	Example: `  gridpilot click "the blue Submit button"
  gridpilot click --keep "File menu in the top bar"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig()
		if keep, _ := cmd.Flags().GetBool("keep"); keep {
			cfg.Artifacts.Keep = true
		}

		s, ctx, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		target := strings.Join(args, " ")
		outcome, err := s.runner.Click(ctx, target)
		if err != nil {
			return err
		}

		ui.NewReporter(cmd.OutOrStdout(), ui.DefaultWidth).Click(outcome)

		switch {
		case !outcome.Found:
			return &domain.ElementNotFoundError{Target: target, Reasoning: outcome.Reasoning}
		case !outcome.Clicked:
			return fmt.Errorf("%w: no visible change after %d click attempts", domain.ErrActionExecution, outcome.Attempts)
		}
		return nil
	},
}

func init() {
	clickCmd.Flags().Bool("keep", false, "Keep the screenshots and grid overlays of this run")
	rootCmd.AddCommand(clickCmd)
}
