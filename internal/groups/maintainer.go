// ABOUTME: Keeps record group indices contiguous across create, update and delete.
// ABOUTME: Every mutation runs inside one storage transaction.
package groups

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"go.uber.org/zap"
)

// Maintainer mutates records while preserving the group invariants:
// one exercise per group, indices 0..k without gaps, and each group a
// single contiguous run in canonical order with the newest run highest.
type Maintainer struct {
	store    storage.Store
	validate *models.Validator
	log      *zap.Logger
}

// Option configures a Maintainer.
type Option func(*Maintainer)

// WithValidator sets the validator used for input checks and messages.
func WithValidator(v *models.Validator) Option {
	return func(m *Maintainer) {
		if v != nil {
			m.validate = v
		}
	}
}

// WithLogger sets the logger used for group repair diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(m *Maintainer) {
		if log != nil {
			m.log = log
		}
	}
}

// NewMaintainer creates a Maintainer over store.
func NewMaintainer(store storage.Store, opts ...Option) *Maintainer {
	m := &Maintainer{
		store:    store,
		validate: models.DefaultValidator(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Store returns the underlying store.
func (m *Maintainer) Store() storage.Store {
	return m.store
}

// Validator returns the validator used for input checks.
func (m *Maintainer) Validator() *models.Validator {
	return m.validate
}

// Create inserts a new record, assigning its ID and group index.
func (m *Maintainer) Create(ctx context.Context, r *models.Record) (int64, error) {
	if _, err := m.CreateMany(ctx, []*models.Record{r}); err != nil {
		return 0, err
	}
	return r.ID, nil
}

// CreateMany inserts records in order within a single transaction.
// Nothing is written when any record fails validation.
func (m *Maintainer) CreateMany(ctx context.Context, records []*models.Record) ([]int64, error) {
	for _, r := range records {
		if err := m.validate.NewRecord(r); err != nil {
			return nil, err
		}
	}

	created := make([]*models.Record, len(records))
	err := m.store.WithTransaction(ctx, func(tx storage.Store) error {
		checked := make(map[int64]bool)
		backdated := false
		for i, r := range records {
			if !checked[r.ExerciseID] {
				ok, err := tx.ExerciseExists(ctx, r.ExerciseID)
				if err != nil {
					return err
				}
				if !ok {
					return m.validate.ExerciseMissing(r.ExerciseID)
				}
				checked[r.ExerciseID] = true
			}

			stored := *r
			older, err := m.insert(ctx, tx, &stored)
			if err != nil {
				return err
			}
			backdated = backdated || older
			created[i] = &stored
		}

		if backdated {
			n, err := rebuild(ctx, tx)
			if err != nil {
				return err
			}
			m.log.Debug("rebuilt groups after backdated insert", zap.Int("reassigned", n))
			for _, c := range created {
				fresh, err := tx.GetByID(ctx, c.ID)
				if err != nil {
					return err
				}
				c.GroupIndex = fresh.GroupIndex
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create record: %w", err)
	}

	ids := make([]int64, len(records))
	for i, r := range records {
		r.ID = created[i].ID
		r.GroupIndex = created[i].GroupIndex
		ids[i] = r.ID
	}
	return ids, nil
}

// insert places r after the current frontier and reports whether r is
// older than that frontier.
func (m *Maintainer) insert(ctx context.Context, tx storage.Store, r *models.Record) (bool, error) {
	front, err := tx.FrontierRecord(ctx)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		r.GroupIndex = 0
		front = nil
	case err != nil:
		return false, err
	case front.ExerciseID == r.ExerciseID:
		r.GroupIndex = front.GroupIndex
	default:
		r.GroupIndex = front.GroupIndex + 1
	}

	if _, err := tx.Insert(ctx, r); err != nil {
		return false, err
	}
	return front != nil && r.Date < front.Date, nil
}

// Update changes sets, reps, weight and date of an existing record.
// The stored exercise and group are kept; r is refreshed from storage.
func (m *Maintainer) Update(ctx context.Context, r *models.Record) error {
	if err := m.validate.ExistingRecord(r); err != nil {
		return err
	}

	err := m.store.WithTransaction(ctx, func(tx storage.Store) error {
		old, err := tx.GetByID(ctx, r.ID)
		if err != nil {
			return err
		}
		if err := tx.Update(ctx, r); err != nil {
			return err
		}
		if old.Date != r.Date {
			n, err := rebuild(ctx, tx)
			if err != nil {
				return err
			}
			m.log.Debug("rebuilt groups after date change", zap.Int64("id", r.ID), zap.Int("reassigned", n))
		}
		fresh, err := tx.GetByID(ctx, r.ID)
		if err != nil {
			return err
		}
		*r = *fresh
		return nil
	})
	if err != nil {
		return fmt.Errorf("update record %d: %w", r.ID, err)
	}
	return nil
}

// Delete removes a record and repairs the groups around it.
// Deleting a missing record is a no-op returning a nil record.
func (m *Maintainer) Delete(ctx context.Context, id int64) (*models.Record, error) {
	var deleted *models.Record
	err := m.store.WithTransaction(ctx, func(tx storage.Store) error {
		r, err := tx.GetByID(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		g := r.GroupIndex
		count, err := tx.CountInGroup(ctx, g)
		if err != nil {
			return err
		}
		if err := tx.DeleteByID(ctx, id); err != nil {
			return err
		}
		deleted = r

		if count > 1 {
			return nil
		}
		return m.closeGap(ctx, tx, g)
	})
	if err != nil {
		return nil, fmt.Errorf("delete record %d: %w", id, err)
	}
	return deleted, nil
}

// closeGap removes the now empty group g, merging its neighbours when
// they hold the same exercise.
func (m *Maintainer) closeGap(ctx context.Context, tx storage.Store, g int64) error {
	if g > 0 {
		prev, err := lookupGroup(ctx, tx, g-1)
		if err != nil {
			return err
		}
		next, err := lookupGroup(ctx, tx, g+1)
		if err != nil {
			return err
		}
		if prev != nil && next != nil && prev.ExerciseID == next.ExerciseID {
			if err := tx.ReassignGroup(ctx, g+1, g-1); err != nil {
				return err
			}
			m.log.Debug("merged groups", zap.Int64("into", g-1), zap.Int64("from", g+1))
			return tx.ShiftGroupIndicesAbove(ctx, g+1, 2)
		}
	}
	return tx.ShiftGroupIndicesAbove(ctx, g, 1)
}

func lookupGroup(ctx context.Context, tx storage.Store, g int64) (*models.Record, error) {
	r, err := tx.OneRecordInGroup(ctx, g)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return r, err
}
