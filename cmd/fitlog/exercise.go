// ABOUTME: CLI commands for managing exercises.
// ABOUTME: Supports add, list, rename and delete; delete also removes its records.
package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/spf13/cobra"
)

var exerciseDeleteYes bool

var exerciseCmd = &cobra.Command{
	Use:     "exercise",
	Aliases: []string{"ex"},
	Short:   "Manage exercises",
	Long: `Manage the exercises records are logged against.

Names are unique ignoring case and surrounding whitespace.

COMMANDS:

  add <name>              Create an exercise
  list                    List exercises with their IDs
  rename <exercise> <new> Rename an exercise
  delete <exercise>       Delete an exercise and all of its records`,
}

var exerciseAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create an exercise",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := maint.CreateExercise(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Created exercise %s ", e.Name)
		color.New(color.Faint).Fprintf(cmd.OutOrStdout(), "[%d]\n", e.ID)
		return nil
	},
}

var exerciseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List exercises",
	RunE: func(cmd *cobra.Command, args []string) error {
		exercises, err := repo.ListExercises(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(exercises) == 0 {
			fmt.Fprintln(out, "No exercises yet. Run 'fitlog exercise add <name>' or 'fitlog seed'.")
			return nil
		}
		faint := color.New(color.Faint)
		for _, e := range exercises {
			fmt.Fprintf(out, "%s %s\n", faint.Sprint(padRight(fmt.Sprintf("[%d]", e.ID), 6)), e.Name)
		}
		return nil
	},
}

var exerciseRenameCmd = &cobra.Command{
	Use:   "rename <exercise> <new name>",
	Short: "Rename an exercise",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := resolveExercise(ctx, repo, args[0])
		if err != nil {
			return err
		}
		old := e.Name
		renamed, err := maint.RenameExercise(ctx, e.ID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Renamed %s to %s\n", old, renamed.Name)
		return nil
	},
}

var exerciseDeleteCmd = &cobra.Command{
	Use:     "delete <exercise>",
	Aliases: []string{"rm"},
	Short:   "Delete an exercise and its records",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := resolveExercise(ctx, repo, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if !exerciseDeleteYes {
			fmt.Fprintf(out, "This will delete %s and every record logged against it.\n", e.Name)
			fmt.Fprint(out, "Continue? [y/N]: ")
			response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Fprintln(out, "Canceled.")
				return nil
			}
		}

		removed, err := maint.DeleteExercise(ctx, e.ID)
		if err != nil {
			if storage.IsNotFound(err) {
				return fmt.Errorf("exercise not found: %s", args[0])
			}
			return err
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Deleted %s and %d records\n", e.Name, removed)
		return nil
	},
}

func init() {
	exerciseDeleteCmd.Flags().BoolVarP(&exerciseDeleteYes, "yes", "y", false, "skip confirmation prompt")

	exerciseCmd.AddCommand(exerciseAddCmd)
	exerciseCmd.AddCommand(exerciseListCmd)
	exerciseCmd.AddCommand(exerciseRenameCmd)
	exerciseCmd.AddCommand(exerciseDeleteCmd)
	rootCmd.AddCommand(exerciseCmd)
}
