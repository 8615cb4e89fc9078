package main

import (
	"fmt"

	"github.com/cravindra/hyperverge-cli/pkg/batch"
	"github.com/cravindra/hyperverge-cli/pkg/config"
	"github.com/cravindra/hyperverge-cli/pkg/discover"
	"github.com/cravindra/hyperverge-cli/pkg/hyperverge"
	"github.com/cravindra/hyperverge-cli/pkg/sink"
	"github.com/cravindra/hyperverge-cli/pkg/upload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var (
	flagAppID    string
	flagAppKey   string
	flagHost     string
	flagOutput   string
	flagFile     string
	flagDir      string
	flagThrottle float64
)

func init() {
	readActions := []struct {
		action hyperverge.Action
		short  string
	}{
		{hyperverge.ActionReadPAN, "Extract details from a PAN card"},
		{hyperverge.ActionReadPassport, "Extract details from a passport"},
		{hyperverge.ActionReadAadhaar, "Extract details from an Aadhaar card"},
		{hyperverge.ActionReadKYC, "Extract details from any supported KYC document"},
	}

	for _, ra := range readActions {
		rootCmd.AddCommand(newActionCmd(ra.action, ra.short))
	}
}

// newActionCmd builds the subcommand for one read action. All read actions
// share the same flags and run path; only the remote endpoint differs.
func newActionCmd(action hyperverge.Action, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(action),
		Short: short,
		Long: short + `. Provide either a single file or a directory to walk
recursively; eligible files (gif, jpg, jpeg, tiff, png, pdf) are uploaded one
at a time and the outcome is written as a JSON report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAction(cmd, action)
		},
	}

	cmd.Flags().StringVarP(&flagFile, "file", "f", "",
		"path of a single document to submit")
	cmd.Flags().StringVarP(&flagDir, "directory", "d", "",
		"directory to scan recursively for documents")
	cmd.Flags().Float64Var(&flagThrottle, "throttle-rps", 0,
		"max upload requests per second (0 disables throttling)")

	return cmd
}

// runAction resolves config, then runs either single-file or batch mode and
// hands the result to the sink.
func runAction(cmd *cobra.Command, action hyperverge.Action) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.ValidateRequest(action, flagFile, flagDir); err != nil {
		return exitWith(exitConfig, err)
	}

	client := hyperverge.NewClient(log, hyperverge.Options{
		Host:   cfg.Host,
		AppID:  cfg.AppID,
		AppKey: cfg.AppKey,
	})

	var objects upload.ObjectWriter
	if cfg.S3 != nil {
		objects = upload.NewS3Writer(log, cfg.S3)
	}

	var limiter *rate.Limiter
	if cfg.ThrottleRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ThrottleRPS), 1)
	}

	out := sink.New(log, objects)
	runner := batch.NewRunner(log, client, out.To(cfg.Output), limiter)
	ctx := cmd.Context()

	if flagDir != "" {
		files, err := discover.Discover(flagDir)
		if err != nil {
			return exitWith(exitDiscovery, err)
		}

		if _, err := runner.RunBatch(ctx, files, action); err != nil {
			return exitWith(exitSink, err)
		}

		return nil
	}

	outcome, err := runner.RunSingle(ctx, flagFile, action)
	if err != nil {
		return exitWith(exitSink, err)
	}

	if outcome.Failed() {
		return exitWith(exitUpload, fmt.Errorf("upload failed: %s", outcome.Err))
	}

	return nil
}

// resolveConfig loads the config file and merges CLI flags on top
// (flags > environment > file > defaults).
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, exitWith(exitConfig, err)
	}

	flags := cmd.Flags()

	if flags.Changed("app-id") {
		cfg.AppID = flagAppID
	}

	if flags.Changed("app-key") {
		cfg.AppKey = flagAppKey
	}

	if flags.Changed("host") {
		cfg.Host = flagHost
	}

	if flags.Changed("output") {
		cfg.Output = flagOutput
	}

	if flags.Changed("throttle-rps") {
		cfg.ThrottleRPS = flagThrottle
	}

	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, exitWith(exitConfig, err)
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, exitWith(exitConfig, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err))
	}

	log.SetLevel(level)

	return cfg, nil
}
