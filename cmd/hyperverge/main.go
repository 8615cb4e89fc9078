package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information set at build time.
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	cfgFile  string
	logLevel string
	log      *logrus.Logger
)

func main() {
	log = logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := rootCmd.Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "hyperverge",
	Short: "HyperVerge document-verification API client",
	Long: `Hyperverge is a command-line client for the HyperVerge document
verification API. It submits image and PDF documents either one at a time or
by recursively walking a directory, and writes a JSON report of the outcome
to a file, to stdout, or to S3-compatible object storage.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return exitWith(exitConfig, fmt.Errorf("invalid log level %q: %w", logLevel, err))
		}

		log.SetLevel(level)

		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hyperverge %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file path (YAML, or JSON with a .json extension)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"log level ("+strings.Join(logLevels(), ", ")+")")
	rootCmd.PersistentFlags().StringVar(&flagAppID, "app-id", "",
		"appid credential header")
	rootCmd.PersistentFlags().StringVar(&flagAppKey, "app-key", "",
		"appkey credential header")
	rootCmd.PersistentFlags().StringVar(&flagHost, "host", "",
		"API base URL actions are appended to")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "",
		"report destination: file path, s3://bucket/key, or empty for stdout")

	rootCmd.AddCommand(versionCmd)
}

func logLevels() []string {
	levels := make([]string, 0, len(logrus.AllLevels))
	for _, level := range logrus.AllLevels {
		levels = append(levels, level.String())
	}

	return levels
}
