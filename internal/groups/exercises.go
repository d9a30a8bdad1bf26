// ABOUTME: Exercise creation, rename and cascading delete.
// ABOUTME: Deleting an exercise removes its records and rebuilds the groups.
package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"go.uber.org/zap"
)

// CreateExercise adds a new exercise with a trimmed, unique name.
func (m *Maintainer) CreateExercise(ctx context.Context, name string) (*models.Exercise, error) {
	e := models.NewExercise(name)
	if err := m.validate.NewExercise(e); err != nil {
		return nil, err
	}

	if _, err := m.store.CreateExercise(ctx, e); err != nil {
		if errors.Is(err, storage.ErrDuplicateExercise) {
			return nil, m.validate.DuplicateName(e.Name, false, err)
		}
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return e, nil
}

// RenameExercise changes the name of an existing exercise.
func (m *Maintainer) RenameExercise(ctx context.Context, id int64, name string) (*models.Exercise, error) {
	e := &models.Exercise{ID: id, Name: models.NormalizeName(name)}
	if err := m.validate.ExistingExercise(e); err != nil {
		return nil, err
	}

	if err := m.store.UpdateExercise(ctx, e); err != nil {
		if errors.Is(err, storage.ErrDuplicateExercise) {
			return nil, m.validate.DuplicateName(e.Name, true, err)
		}
		return nil, fmt.Errorf("rename exercise %d: %w", id, err)
	}
	return e, nil
}

// DeleteExercise removes an exercise and all of its records, returning
// how many records were removed.
func (m *Maintainer) DeleteExercise(ctx context.Context, id int64) (int, error) {
	var removed int
	err := m.store.WithTransaction(ctx, func(tx storage.Store) error {
		ok, err := tx.ExerciseExists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return storage.ErrNotFound
		}

		removed, err = tx.DeleteByExercise(ctx, id)
		if err != nil {
			return err
		}
		if removed > 0 {
			n, err := rebuild(ctx, tx)
			if err != nil {
				return err
			}
			m.log.Debug("rebuilt groups after exercise delete",
				zap.Int64("exercise_id", id), zap.Int("records", removed), zap.Int("reassigned", n))
		}
		return tx.DeleteExercise(ctx, id)
	})
	if err != nil {
		return 0, fmt.Errorf("delete exercise %d: %w", id, err)
	}
	return removed, nil
}
