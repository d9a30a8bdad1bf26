// ABOUTME: CLI command for logging a record.
// ABOUTME: Resolves the exercise by name or ID and creates through group maintenance.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/spf13/cobra"
)

var addAt string

var addCmd = &cobra.Command{
	Use:     "add <exercise> <sets> <reps> <weight>",
	Aliases: []string{"a"},
	Short:   "Log sets x reps at a weight",
	Long: `Log a record for an exercise.

The exercise is matched by ID, by name, or by a unique name prefix,
ignoring case.

Examples:
  fitlog add squat 3 5 100
  fitlog add "bench press" 5 5 62.5
  fitlog add 3 1 1 180 --at "2026-01-02 07:30"`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := resolveExercise(ctx, repo, args[0])
		if err != nil {
			return err
		}

		v := maint.Validator()
		sets, err := v.ParseSets(args[1])
		if err != nil {
			return err
		}
		reps, err := v.ParseReps(args[2])
		if err != nil {
			return err
		}
		weight, err := v.ParseWeight(args[3])
		if err != nil {
			return err
		}

		r := models.NewRecord(e.ID, sets, reps, weight)
		if addAt != "" {
			t, err := parseTime(addAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addAt)
			}
			r.WithDate(t)
		}

		if _, err := maint.Create(ctx, r); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		color.New(color.FgGreen).Fprintf(out, "✓ Added %s\n", e.Name)
		fmt.Fprintf(out, "  %s %s %s\n",
			color.New(color.Faint).Sprintf("#%d", r.ID),
			formatRecord(r),
			color.New(color.Faint).Sprint(r.Time().Format("2006-01-02 15:04")))
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	rootCmd.AddCommand(addCmd)
}
