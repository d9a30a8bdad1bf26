// ABOUTME: CLI command for copying data between storage backends.
// ABOUTME: Replays the current backend's history into another through group maintenance.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harperreed/fitlog/internal/groups"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy data to another storage backend",
	Long: `Copy every exercise and record from the current backend into another.

Record IDs and group indices are assigned afresh in the destination.
Exercises that already exist there by name are reused. The source is
left untouched; switch backends afterwards in the config file or with
--backend.

Examples:
  fitlog migrate --to badger --dry-run
  fitlog migrate --to badger
  fitlog --backend badger migrate --to sqlite`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		from := cfg.GetBackend()

		if migrateTo == "" {
			return fmt.Errorf("--to is required")
		}
		if migrateTo == from {
			return fmt.Errorf("source and destination are both %s", from)
		}

		exercises, err := repo.ListExercises(ctx)
		if err != nil {
			return err
		}
		total, err := repo.TotalCount(ctx, nil)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Source %s: %d exercises, %d records\n", from, len(exercises), total)
		if migrateDryRun {
			color.New(color.FgYellow).Fprintf(out, "Dry run, nothing written to %s.\n", migrateTo)
			return nil
		}

		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		if err := dstCfg.Validate(); err != nil {
			return err
		}
		dst, err := dstCfg.OpenStorage(log)
		if err != nil {
			return err
		}
		defer func() {
			if err := dst.Close(); err != nil {
				log.Warn("close destination", zap.Error(err))
			}
		}()

		existing, err := dst.TotalCount(ctx, nil)
		if err != nil {
			return err
		}
		if existing > 0 && !migrateForce {
			return fmt.Errorf("destination %s already has %d records; use --force to append", migrateTo, existing)
		}

		summary, err := groups.Migrate(ctx, repo, groups.NewMaintainer(dst,
			groups.WithValidator(maint.Validator()),
			groups.WithLogger(log)))
		if err != nil {
			return fmt.Errorf("migrate to %s: %w", migrateTo, err)
		}

		color.New(color.FgGreen).Fprintf(out, "✓ Migrated to %s\n", migrateTo)
		fmt.Fprintf(out, "  Exercises created: %d\n", summary.Exercises)
		fmt.Fprintf(out, "  Records copied: %d\n", summary.Records)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "destination backend: sqlite, badger or charm")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "show what would be copied")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "append into a destination that already has records")
	rootCmd.AddCommand(migrateCmd)
}
