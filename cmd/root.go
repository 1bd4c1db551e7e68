package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	config "github.com/inference-gateway/gridpilot/config"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	cobra "github.com/spf13/cobra"
)

// cfg is the configuration loaded by initConfig before any command runs
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "gridpilot",
	Short: "Drive a desktop with natural language using a vision model",
	Long: `gridpilot locates GUI elements by overlaying a numbered grid on a screenshot
and asking a vision model which cells cover the element. It then clicks the
resolved point and probes nearby positions until the screen visibly reacts.

Run 'gridpilot run' for an interactive session or 'gridpilot click <target>'
for a single click.`,
	SilenceUsage: true,
}

func Execute() {
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		logger.Close()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", fmt.Sprintf("config file (default is %s)", config.DefaultConfigPath))
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	configPath, _ := rootCmd.PersistentFlags().GetString("config")

	loaded, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg = loaded

	logger.Init(verbose, logger.Options{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
}

// loadedConfig returns the configuration for the running command, or the
// defaults when commands are invoked without going through rootCmd
func loadedConfig() *config.Config {
	if cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}
