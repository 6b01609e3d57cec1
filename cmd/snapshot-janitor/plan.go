package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raoulx24/snapshot-janitor/internal/janitor"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print which date folders would be kept and deleted",
	Long: `Walk every folder in foldersToClean and print the keep/delete decision of
each camera directory. Free space is not checked, nothing is deleted and no
notification is sent.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}

		decisions, errs := janitor.New(cfg, log, janitor.WithKeep(keep)).Plan(cmd.Context())

		out := cmd.OutOrStdout()
		total := 0
		for _, d := range decisions {
			fmt.Fprintf(out, "%s (%d date folders)\n", d.LeafPath, d.Total())
			for _, f := range d.Keep {
				fmt.Fprintf(out, "  keep    %s\n", f.Name)
			}
			for _, f := range d.Delete {
				fmt.Fprintf(out, "  delete  %s\n", f.Name)
			}
			total += len(d.Delete)
		}
		fmt.Fprintf(out, "%d folders would be deleted across %d cameras\n", total, len(decisions))

		for _, e := range errs {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", e)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d directories could not be listed", len(errs))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
