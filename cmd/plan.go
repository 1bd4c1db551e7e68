package cmd

import (
	"strings"

	ui "github.com/inference-gateway/gridpilot/internal/ui"
	cobra "github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <instruction>",
	Short: "Print the plan generated for an instruction",
	Long: `Ask the planning model to break an instruction into click, type, press and
wait steps and print the result. Nothing is executed.`,
	Example: `  gridpilot plan "open the File menu and click Save"`,
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reporter := ui.NewReporter(cmd.OutOrStdout(), ui.DefaultWidth)
		return planOnly(cmd.Context(), loadedConfig(), reporter, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
