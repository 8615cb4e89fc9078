package main

import (
	"fmt"
	"strings"

	"github.com/cravindra/hyperverge-cli/pkg/hyperverge"
	"github.com/spf13/cobra"
)

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check connectivity to the API host",
	Long: `Perform a plain GET against the configured host and report the
response. No credentials are required.`,
	RunE: runTest,
}

func init() {
	rootCmd.AddCommand(testCmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	client := hyperverge.NewClient(log, hyperverge.Options{Host: cfg.Host})

	body, err := client.Health(cmd.Context())
	if err != nil {
		return exitWith(exitUpload, fmt.Errorf("connectivity check failed: %w", err))
	}

	log.WithField("host", cfg.Host).Info("Service reachable")
	fmt.Println(strings.TrimSpace(body))

	return nil
}
