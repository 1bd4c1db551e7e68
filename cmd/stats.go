package cmd

import (
	"fmt"

	ui "github.com/inference-gateway/gridpilot/internal/ui"
	cobra "github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show click probe statistics from the journal",
	Long: `Summarize the recorded click outcomes: how many targets were found and
clicked and which probe candidate produced the visible change. A high
off-center share means resolved targets are systematically biased.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, err := openJournal(loadedConfig())
		if err != nil {
			return err
		}
		defer func() { _ = j.Close() }()

		stats, err := j.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}

		reporter := ui.NewReporter(cmd.OutOrStdout(), ui.DefaultWidth)
		reporter.Stats(stats)

		recent, _ := cmd.Flags().GetInt("recent")
		if recent <= 0 {
			return nil
		}
		entries, err := j.Recent(cmd.Context(), recent)
		if err != nil {
			return fmt.Errorf("failed to read journal: %w", err)
		}
		reporter.Entries(entries)
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("recent", 0, "Also list the most recent N entries")
	rootCmd.AddCommand(statsCmd)
}
