// ABOUTME: CLI command for editing a logged record.
// ABOUTME: Only flags that were passed change; date changes regroup the history.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	editSets   string
	editReps   string
	editWeight string
	editAt     string
)

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	Aliases: []string{"e"},
	Short:   "Edit a record",
	Long: `Change sets, reps, weight or date of a record. The exercise cannot
be changed; delete the record and add a new one instead.

Examples:
  fitlog edit 42 --weight 102.5
  fitlog edit 42 --sets 5 --reps 3
  fitlog edit 42 --at "2026-01-02 18:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		r, err := repo.GetByID(ctx, id)
		if err != nil {
			if storage.IsNotFound(err) {
				return fmt.Errorf("record not found: %d", id)
			}
			return err
		}

		flags := cmd.Flags()
		if !flags.Changed("sets") && !flags.Changed("reps") &&
			!flags.Changed("weight") && !flags.Changed("at") {
			return fmt.Errorf("nothing to change: pass --sets, --reps, --weight or --at")
		}
		v := maint.Validator()
		if flags.Changed("sets") {
			if r.Sets, err = v.ParseSets(editSets); err != nil {
				return err
			}
		}
		if flags.Changed("reps") {
			if r.Reps, err = v.ParseReps(editReps); err != nil {
				return err
			}
		}
		if flags.Changed("weight") {
			if r.Weight, err = v.ParseWeight(editWeight); err != nil {
				return err
			}
		}
		if flags.Changed("at") {
			t, err := parseTime(editAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", editAt)
			}
			r.WithDate(t)
		}

		if err := maint.Update(ctx, r); err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Updated record %d: %s\n", id, formatRecord(r))
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editSets, "sets", "", "new number of sets")
	editCmd.Flags().StringVar(&editReps, "reps", "", "new number of reps")
	editCmd.Flags().StringVar(&editWeight, "weight", "", "new weight")
	editCmd.Flags().StringVar(&editAt, "at", "", "new timestamp (YYYY-MM-DD HH:MM)")
	rootCmd.AddCommand(editCmd)
}
