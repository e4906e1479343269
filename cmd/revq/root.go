package main

import (
	"github.com/spf13/cobra"

	"revq/internal/config"
	"revq/internal/logging"
	"revq/internal/version"
)

var (
	// rootFlag points at the directory holding .revq/config.json
	rootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "revq",
	Short: "revq - change-set review quality engine",
	Long: `revq aggregates raw diagnostics from heterogeneous static analyzers
into one deduplicated issue model, a composite 0-100 quality score, a discrete
risk classification, and prioritized remediation recommendations.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("revq version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".", "Directory containing the .revq configuration")
}

// loadConfig loads the effective configuration for the current invocation.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the CLI logger from configuration.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.Format(cfg.Logging.Format),
		Level:  logging.LogLevel(cfg.Logging.Level),
	})
}
