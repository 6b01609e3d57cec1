package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raoulx24/snapshot-janitor/internal/janitor"
)

var dryRun bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Check free space and clean up if it is below the threshold",
	Long: `Check free space on drivePath. If it is at or below thresholdGigabytes,
prune every folder listed in foldersToClean and send the Slack notification.

With --dry-run nothing is deleted and no notification is sent; the folders
that would be removed are logged.`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	// the root command runs the same thing, so it accepts the same flag
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log deletions instead of performing them")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "log deletions instead of performing them")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if keep < 0 {
		return fmt.Errorf("--keep must not be negative")
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}

	opts := []janitor.Option{janitor.WithKeep(keep)}
	if dryRun {
		opts = append(opts, janitor.WithDryRun())
	}

	_, err = janitor.New(cfg, log, opts...).Run(cmd.Context())
	return err
}
