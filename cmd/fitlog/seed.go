// ABOUTME: CLI commands for populating the database.
// ABOUTME: seed writes starter data; stress generates a large synthetic history.
package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/events"
	"github.com/harperreed/fitlog/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add starter exercises and records",
	Long: `Populate an empty database with seven common barbell and bodyweight
exercises plus a handful of records spread over the last week.

Does nothing when any exercise already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bus := events.NewBus(0)
		defer bus.Close()

		res, err := seed.Defaults(cmd.Context(), maint, bus, time.Now())
		if err != nil {
			return err
		}
		for _, ev := range bus.Drain() {
			log.Debug("event", zap.Stringer("kind", ev.Kind))
		}

		out := cmd.OutOrStdout()
		if res.Skipped {
			fmt.Fprintln(out, "Database already has exercises, nothing to seed.")
			return nil
		}
		color.New(color.FgGreen).Fprintf(out, "✓ Seeded %d exercises and %d records\n", res.Exercises, res.Records)
		return nil
	},
}

var (
	stressOpts  = seed.DefaultStressOptions()
	stressStart string
	stressEnd   string
	stressKeep  bool
	stressYes   bool
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Generate a large synthetic history",
	Long: `Fill the database with a synthetic history for load testing.

By default this DELETES all existing data and writes 110 records a day
from 2000-01-01 to 2025-12-31, about a million records.

Examples:
  fitlog stress --yes
  fitlog stress --start 2025-01-01 --end 2025-03-31 --per-day 20 --keep`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := stressOpts
		opts.Clear = !stressKeep
		if stressStart != "" {
			t, err := time.Parse(time.DateOnly, stressStart)
			if err != nil {
				return fmt.Errorf("invalid start date: %s", stressStart)
			}
			opts.Start = t
		}
		if stressEnd != "" {
			t, err := time.Parse(time.DateOnly, stressEnd)
			if err != nil {
				return fmt.Errorf("invalid end date: %s", stressEnd)
			}
			opts.End = t
		}

		out := cmd.OutOrStdout()
		if opts.Clear && !stressYes {
			fmt.Fprintln(out, "This will DELETE all exercises and records before generating data.")
			fmt.Fprint(out, "Continue? [y/N]: ")
			response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			response = strings.TrimSpace(strings.ToLower(response))
			if response != "y" && response != "yes" {
				fmt.Fprintln(out, "Canceled.")
				return nil
			}
		}

		started := time.Now()
		res, err := seed.Stress(cmd.Context(), maint, opts, func(p seed.Progress) {
			fmt.Fprintf(out, "[%3.0f%%] %s\n", p.Fraction*100, p.Message)
		}, log)
		if err != nil {
			return err
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Generated %d records across %d exercises in %s\n",
			res.Records, res.Exercises, time.Since(started).Round(time.Millisecond))
		return nil
	},
}

func init() {
	f := stressCmd.Flags()
	f.IntVar(&stressOpts.Exercises, "exercises", stressOpts.Exercises, "number of exercises")
	f.IntVar(&stressOpts.RecordsPerDay, "per-day", stressOpts.RecordsPerDay, "records per day")
	f.IntVar(&stressOpts.BatchSize, "batch", stressOpts.BatchSize, "records per transaction")
	f.Int64Var(&stressOpts.Seed, "seed", stressOpts.Seed, "random seed")
	f.StringVar(&stressStart, "start", "", "first day (YYYY-MM-DD, default 2000-01-01)")
	f.StringVar(&stressEnd, "end", "", "last day (YYYY-MM-DD, default 2025-12-31)")
	f.BoolVar(&stressKeep, "keep", false, "keep existing data")
	f.BoolVarP(&stressYes, "yes", "y", false, "skip confirmation prompt")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(stressCmd)
}
