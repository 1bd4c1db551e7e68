package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	config "github.com/inference-gateway/gridpilot/config"
	icons "github.com/inference-gateway/gridpilot/internal/ui/styles/icons"
	cobra "github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v3"
)

const gitignoreContent = `# Ignore journals and logs
journal
journal.db
*.log
`

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gridpilot configuration",
	Long:  `Create and inspect the gridpilot configuration file.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new project configuration",
	Long: fmt.Sprintf(`Initialize a new %s configuration file in the current directory
with default settings, along with a .gitignore for journals and logs.`, config.DefaultConfigPath),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initializeProject(cmd)
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, the config file and
GRIDPILOT_* environment variables. Secrets are masked.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return showConfig(cmd.OutOrStdout(), loadedConfig())
	},
}

func init() {
	configInitCmd.Flags().Bool("overwrite", false, "Overwrite existing files if they already exist")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func initializeProject(cmd *cobra.Command) error {
	overwrite, _ := cmd.Flags().GetBool("overwrite")

	configPath := config.DefaultConfigPath
	gitignorePath := filepath.Join(filepath.Dir(configPath), ".gitignore")

	if !overwrite {
		for _, path := range []string{configPath, gitignorePath} {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists (use --overwrite to replace)", path)
			}
		}
	}

	if err := config.DefaultConfig().SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	if err := os.WriteFile(gitignorePath, []byte(gitignoreContent), 0644); err != nil {
		return fmt.Errorf("failed to create .gitignore file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s Successfully initialized gridpilot project configuration\n", icons.CheckMarkStyle.Render(icons.CheckMark))
	fmt.Fprintf(out, "   Created: %s\n", configPath)
	fmt.Fprintf(out, "   Created: %s\n", gitignorePath)
	fmt.Fprintln(out, "")
	fmt.Fprintln(out, "You can now customize the configuration:")
	fmt.Fprintln(out, "  • Pick a vision model: vision.model or GRIDPILOT_VISION_MODEL")
	fmt.Fprintln(out, "  • Check the grid on a screenshot: gridpilot grid --image screen.png --out grid.png")
	fmt.Fprintln(out, "  • Start a session: gridpilot run")

	return nil
}

func showConfig(out io.Writer, cfg *config.Config) error {
	masked := *cfg
	masked.Vision.APIKey = mask(masked.Vision.APIKey)
	masked.Journal.Postgres.Password = mask(masked.Journal.Postgres.Password)
	masked.Journal.Redis.Password = mask(masked.Journal.Redis.Password)

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&masked); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	_, err := out.Write(buf.Bytes())
	return err
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
