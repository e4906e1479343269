package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"revq/internal/policy"
)

var policyPathFlag string

var policyCmd = &cobra.Command{
	Use:   "policy",
	Short: "Inspect and validate the policy tables",
}

var policyCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the policy tables without running a review",
	Run:   runPolicyCheck,
}

var policyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective policy tables",
	Run:   runPolicyShow,
}

func init() {
	policyCmd.PersistentFlags().StringVar(&policyPathFlag, "policy", "", "Path to the policy tables (overrides config)")
	policyCmd.AddCommand(policyCheckCmd)
	policyCmd.AddCommand(policyShowCmd)
	rootCmd.AddCommand(policyCmd)
}

func resolvePolicyPath() string {
	if policyPathFlag != "" {
		return policyPathFlag
	}
	cfg, err := loadConfig()
	if err != nil {
		return ""
	}
	return cfg.PolicyPath
}

func runPolicyCheck(cmd *cobra.Command, args []string) {
	path := resolvePolicyPath()
	if _, err := policy.Load(path); err != nil {
		fmt.Fprintf(os.Stderr, "Policy invalid: %v\n", err)
		os.Exit(1)
	}
	if path == "" {
		fmt.Println("Policy OK (built-in defaults)")
		return
	}
	fmt.Printf("Policy OK (%s)\n", path)
}

func runPolicyShow(cmd *cobra.Command, args []string) {
	pol, err := policy.Load(resolvePolicyPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Policy invalid: %v\n", err)
		os.Exit(1)
	}

	output, err := FormatResponse(pol, FormatJSON)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(output)
}
