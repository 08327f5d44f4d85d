// Package cmd implements the CLI commands for catalogpipe using Cobra.
package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gaurav-prasanna/catalogpipe/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Shared state populated before any subcommand runs.
var (
	flagConfig   string
	flagLogLevel string

	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "catalogpipe",
	Short: "catalogpipe — turn saved vendor product pages into inventory records",
	Long: `catalogpipe ingests saved WIX, FILTRON and AZUMI product pages, extracts
canonical product records, lets you review and correct them, and commits
the batch to the inventory in one bulk call.

Usage:
  catalogpipe ingest <paths...> [flags]
  catalogpipe detect <file|sku>...`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ./catalogpipe.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log_level", "", "Override log.level (trace, debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}

	l, err := newLogger(loaded.Log)
	if err != nil {
		return err
	}
	cfg, logger = loaded, l
	return nil
}

// newLogger builds the process logger. Logs go to stderr so review output
// on stdout stays clean; with log.file set they are also written to a
// rotated file.
func newLogger(c config.LogConfig) (*logrus.Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
	}
	l.SetLevel(level)

	if c.Format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	var out io.Writer = os.Stderr
	if c.File != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   c.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		})
	}
	l.SetOutput(out)
	return l, nil
}
