package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"revq/internal/engine"
	"revq/internal/history"
	"revq/internal/ingest"
	"revq/internal/logging"
	"revq/internal/policy"
)

var (
	reviewBundle    string
	reviewManifest  string
	reviewFormat    string
	reviewPolicy    string
	reviewNoHistory bool
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run the aggregation pipeline on a diagnostics bundle",
	Long: `Run the full review pipeline on a diagnostics bundle.

The bundle is a JSON file carrying the analyzed-file list and each
analyzer's raw native output for one change-set. An optional YAML
manifest names the analyzers expected to run; expected analyzers that
contributed nothing surface as coverage warnings in the report.

Examples:
  revq review --bundle diagnostics.json
  revq review --bundle diagnostics.json --manifest manifest.yaml
  revq review --bundle diagnostics.json --format=human --no-history`,
	Run: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewBundle, "bundle", "", "Path to the diagnostics bundle (required)")
	reviewCmd.Flags().StringVar(&reviewManifest, "manifest", "", "Path to the expected-analyzer manifest (default: manifest.yaml next to the bundle)")
	reviewCmd.Flags().StringVar(&reviewFormat, "format", "json", "Output format (json, human)")
	reviewCmd.Flags().StringVar(&reviewPolicy, "policy", "", "Path to the policy tables (overrides config)")
	reviewCmd.Flags().BoolVar(&reviewNoHistory, "no-history", false, "Do not persist the sealed report")
	_ = reviewCmd.MarkFlagRequired("bundle")
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cfg)

	policyPath := reviewPolicy
	if policyPath == "" {
		policyPath = cfg.PolicyPath
	}
	pol, err := policy.Load(policyPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading policy: %v\n", err)
		os.Exit(1)
	}

	bundle, err := ingest.LoadBundle(reviewBundle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading bundle: %v\n", err)
		os.Exit(1)
	}

	manifestPath := reviewManifest
	if manifestPath == "" {
		manifestPath = filepath.Join(filepath.Dir(reviewBundle), "manifest.yaml")
	}
	manifest, err := ingest.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading manifest: %v\n", err)
		os.Exit(1)
	}
	bundle.Expected = manifest.Analyzers

	eng, err := engine.New(pol, logger, cfg.Engine.Workers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing engine: %v\n", err)
		os.Exit(1)
	}

	rep, err := eng.Review(context.Background(), bundle)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reviewing change-set: %v\n", err)
		os.Exit(1)
	}

	if cfg.History.Enabled && !reviewNoHistory {
		store, err := history.Open(filepath.Join(rootFlag, cfg.History.Dir), logger)
		if err != nil {
			logger.Warn("history store unavailable", logging.Fields{
				"error": err.Error(),
			})
		} else {
			defer store.Close()
			if err := store.Save(rep); err != nil {
				logger.Warn("failed to persist report", logging.Fields{
					"error": err.Error(),
				})
			}
		}
	}

	output, err := FormatResponse(rep, OutputFormat(reviewFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
