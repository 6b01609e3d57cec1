package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/raoulx24/snapshot-janitor/internal/janitor"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report free space and whether cleanup would trigger",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		check, err := janitor.New(cfg, log).Check()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Drive:      %s\n", cfg.DrivePath)
		fmt.Fprintf(out, "Free:       %.2f GB (%s)\n", check.FreeGiB, humanize.IBytes(check.FreeBytes))
		fmt.Fprintf(out, "Threshold:  %.2f GB\n", check.ThresholdGiB)
		fmt.Fprintf(out, "Triggered:  %v\n", check.Triggered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
