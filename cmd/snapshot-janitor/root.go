package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/raoulx24/snapshot-janitor/internal/config"
	"github.com/raoulx24/snapshot-janitor/internal/janitor"
	"github.com/raoulx24/snapshot-janitor/internal/logging"
)

var (
	// Global flags
	cfgFile  string
	logLevel string
	keep     int
)

var rootCmd = &cobra.Command{
	Use:   "snapshot-janitor",
	Short: "Free disk space by pruning old camera snapshot folders",
	Long: `snapshot-janitor watches free space on a recording drive. When it drops to
the configured threshold it walks every root/client/camera directory, keeps the
newest YYYYMMDD folders of each camera and deletes the older ones, then posts a
Slack message.

Running without a subcommand is the same as "snapshot-janitor run".`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override logging.level from the config file")
	rootCmd.PersistentFlags().IntVar(&keep, "keep", janitor.DefaultKeep, "date folders to keep per camera")
}

// setup loads the config and builds the logger shared by every subcommand.
func setup() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	opts := logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: os.Stdout,
	}
	if logLevel != "" {
		opts.Level = logLevel
	}

	log, err := logging.New(opts)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
