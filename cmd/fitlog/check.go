// ABOUTME: CLI command for verifying record groups.
// ABOUTME: Reports invariant violations and optionally recomputes every group.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var checkRepair bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify record grouping",
	Long: `Verify that every group holds one exercise, that group indices have
no gaps and that each group is one unbroken run of records.

With --repair, groups are recomputed from the full history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()

		violations, err := maint.Verify(ctx)
		if err != nil {
			return err
		}
		if len(violations) == 0 {
			color.New(color.FgGreen).Fprintln(out, "✓ All groups are consistent")
			return nil
		}

		red := color.New(color.FgRed)
		for _, v := range violations {
			red.Fprintf(out, "  ✗ %s\n", v)
		}
		if !checkRepair {
			color.New(color.FgYellow).Fprintf(out, "\nFound %d violations. Run with --repair to rebuild groups.\n", len(violations))
			return fmt.Errorf("found %d group violations", len(violations))
		}

		changed, err := maint.Rebuild(ctx)
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(out, "\n✓ Rebuilt groups, %d records reassigned\n", changed)
		return nil
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkRepair, "repair", false, "recompute all groups")
	rootCmd.AddCommand(checkCmd)
}
