package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"revq/internal/history"
)

var (
	historyLimit  int
	historyFormat string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse previously sealed reports",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent reports, newest first",
	Run:   runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <report-id>",
	Short: "Print one sealed report",
	Args:  cobra.ExactArgs(1),
	Run:   runHistoryShow,
}

func init() {
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of entries")
	historyCmd.PersistentFlags().StringVar(&historyFormat, "format", "json", "Output format (json, human)")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func openHistory() *history.Store {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := history.Open(filepath.Join(rootFlag, cfg.History.Dir), newLogger(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening history: %v\n", err)
		os.Exit(1)
	}
	return store
}

func runHistoryList(cmd *cobra.Command, args []string) {
	store := openHistory()
	defer store.Close()

	entries, err := store.List(historyLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing history: %v\n", err)
		os.Exit(1)
	}

	output, err := FormatResponse(entries, OutputFormat(historyFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}

func runHistoryShow(cmd *cobra.Command, args []string) {
	store := openHistory()
	defer store.Close()

	rep, err := store.Get(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading report: %v\n", err)
		os.Exit(1)
	}
	if rep == nil {
		fmt.Fprintf(os.Stderr, "Report not found: %s\n", args[0])
		os.Exit(1)
	}

	output, err := FormatResponse(rep, OutputFormat(historyFormat))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
