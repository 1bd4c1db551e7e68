package cmd

import (
	"fmt"
	"strings"

	config "github.com/inference-gateway/gridpilot/config"
	actions "github.com/inference-gateway/gridpilot/internal/actions"
	grid "github.com/inference-gateway/gridpilot/internal/grid"
	ui "github.com/inference-gateway/gridpilot/internal/ui"
	icons "github.com/inference-gateway/gridpilot/internal/ui/styles/icons"
	vision "github.com/inference-gateway/gridpilot/internal/vision"
	cobra "github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate <target>",
	Short: "Locate an element in a saved screenshot",
	Long: `Overlay the numbered grid on a screenshot, ask the vision model which cells
cover the described element and print the resolved image coordinates.
Nothing is clicked and no display connection is needed.`,
	Example: `  gridpilot locate --image screen.png "the search field"
  gridpilot locate --image screen.png --out overlay.png --columns 16 --rows 9 "Save"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadedConfig()
		imagePath, _ := cmd.Flags().GetString("image")
		outPath, _ := cmd.Flags().GetString("out")

		overlay, err := overlayFromFlags(cmd, cfg)
		if err != nil {
			return err
		}

		img, err := grid.LoadImage(imagePath)
		if err != nil {
			return err
		}

		model, err := vision.New(cmd.Context(), vision.OptionsFromConfig(cfg.Vision))
		if err != nil {
			return err
		}

		target := strings.Join(args, " ")
		loc, err := actions.NewLocator(model, overlay, nil).Locate(cmd.Context(), img, target)
		if err != nil {
			return err
		}

		if outPath != "" {
			rendered, _, err := overlay.Render(img)
			if err != nil {
				return err
			}
			if err := grid.SaveImage(outPath, rendered); err != nil {
				return err
			}
			loc.OverlayPath = outPath
		}

		ui.NewReporter(cmd.OutOrStdout(), ui.DefaultWidth).Location(loc)
		return loc.Err()
	},
}

var gridCmd = &cobra.Command{
	Use:   "grid",
	Short: "Draw the numbered grid on an image",
	Long: `Render the numbered grid overlay the vision model sees onto an image and
write it as PNG. Useful for checking how a grid size fits a screen.`,
	Example: `  gridpilot grid --image screen.png --out overlay.png`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		imagePath, _ := cmd.Flags().GetString("image")
		outPath, _ := cmd.Flags().GetString("out")
		return renderGrid(cmd, loadedConfig(), imagePath, outPath)
	},
}

func init() {
	for _, c := range []*cobra.Command{locateCmd, gridCmd} {
		c.Flags().String("image", "", "Path of the screenshot (PNG or JPEG)")
		c.Flags().String("out", "", "Write the grid overlay to this PNG file")
		c.Flags().Int("columns", 0, "Grid columns (default from config)")
		c.Flags().Int("rows", 0, "Grid rows (default from config)")
		_ = c.MarkFlagRequired("image")
		rootCmd.AddCommand(c)
	}
	_ = gridCmd.MarkFlagRequired("out")
}

func overlayFromFlags(cmd *cobra.Command, cfg *config.Config) (*grid.Overlay, error) {
	spec := grid.Spec{Columns: cfg.Grid.Columns, Rows: cfg.Grid.Rows}
	if columns, _ := cmd.Flags().GetInt("columns"); columns != 0 {
		spec.Columns = columns
	}
	if rows, _ := cmd.Flags().GetInt("rows"); rows != 0 {
		spec.Rows = rows
	}
	return grid.NewOverlay(spec)
}

func renderGrid(cmd *cobra.Command, cfg *config.Config, imagePath, outPath string) error {
	overlay, err := overlayFromFlags(cmd, cfg)
	if err != nil {
		return err
	}

	img, err := grid.LoadImage(imagePath)
	if err != nil {
		return err
	}

	rendered, geometry, err := overlay.Render(img)
	if err != nil {
		return err
	}
	if err := grid.SaveImage(outPath, rendered); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s (%dx%d grid, cells %dx%d px, %d cells)\n",
		icons.CheckMarkStyle.Render(icons.CheckMark), outPath,
		geometry.Spec.Columns, geometry.Spec.Rows, geometry.CellWidth, geometry.CellHeight, geometry.Spec.Cells())
	return nil
}
