// ABOUTME: Data migration between storage backends through group maintenance.
// ABOUTME: Records are replayed oldest first so destination groups stay valid.
package groups

import (
	"context"
	"fmt"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
)

const migrateBatchSize = 500

// Migrate copies every exercise and record of src into the Maintainer's
// store. Destination IDs and group indices are assigned afresh.
func Migrate(ctx context.Context, src storage.Store, dst *Maintainer) (*storage.MigrateSummary, error) {
	idMap, created, err := storage.CopyExercises(ctx, src, dst.Store())
	if err != nil {
		return nil, err
	}
	summary := &storage.MigrateSummary{Exercises: created}

	records, err := src.AllOrdered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list source records: %w", err)
	}

	batch := make([]*models.Record, 0, migrateBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := dst.CreateMany(ctx, batch); err != nil {
			return err
		}
		summary.Records += len(batch)
		batch = batch[:0]
		return nil
	}

	for i := len(records) - 1; i >= 0; i-- {
		r := records[i].Fields()
		exerciseID, ok := idMap[r.ExerciseID]
		if !ok {
			return nil, fmt.Errorf("record %d references unknown exercise %d", records[i].ID, r.ExerciseID)
		}
		r.ExerciseID = exerciseID
		batch = append(batch, r)
		if len(batch) == migrateBatchSize {
			if err := flush(); err != nil {
				return nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return summary, nil
}
