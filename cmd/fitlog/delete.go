// ABOUTME: CLI command for deleting a record.
// ABOUTME: Neighbouring runs of the same exercise merge after the delete.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a record",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		removed, err := maint.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		if removed == nil {
			return fmt.Errorf("record not found: %d", id)
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Deleted record %d (%s)\n", id, formatRecord(removed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
