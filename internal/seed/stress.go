// ABOUTME: Generates large synthetic histories for load testing the scroll engine.
// ABOUTME: Inserts day by day in batches, one transaction per batch.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/harperreed/fitlog/internal/groups"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"go.uber.org/zap"
)

// StressOptions sizes a stress run.
type StressOptions struct {
	Exercises     int
	RecordsPerDay int
	Start         time.Time
	End           time.Time
	BatchSize     int
	// Clear deletes every existing exercise and record first.
	Clear bool
	Seed  int64
}

// DefaultStressOptions covers 2000-01-01 through 2025-12-31.
func DefaultStressOptions() StressOptions {
	return StressOptions{
		Exercises:     20,
		RecordsPerDay: 110,
		Start:         time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		BatchSize:     5000,
		Clear:         true,
		Seed:          1,
	}
}

// Progress is reported after each step of a stress run.
type Progress struct {
	Fraction float64
	Message  string
}

// StressResult summarizes a stress run.
type StressResult struct {
	Exercises int `json:"exercises"`
	Records   int `json:"records"`
}

func stressExerciseName(i int) string {
	return fmt.Sprintf("Stress Test Exercise %d", i)
}

// Stress fills the database with a synthetic history.
func Stress(ctx context.Context, m *groups.Maintainer, opts StressOptions, progress func(Progress), log *zap.Logger) (*StressResult, error) {
	if progress == nil {
		progress = func(Progress) {}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Exercises <= 0 || opts.RecordsPerDay <= 0 || opts.BatchSize <= 0 {
		return nil, fmt.Errorf("stress options must be positive: %+v", opts)
	}
	if opts.End.Before(opts.Start) {
		return nil, fmt.Errorf("stress end %s is before start %s", opts.End.Format(time.DateOnly), opts.Start.Format(time.DateOnly))
	}

	if opts.Clear {
		progress(Progress{0, "Clearing existing data..."})
		if err := clearAll(ctx, m); err != nil {
			return nil, err
		}
	}

	progress(Progress{0.01, "Creating exercises..."})
	exerciseIDs, err := ensureExercises(ctx, m, opts.Exercises)
	if err != nil {
		return nil, err
	}

	progress(Progress{0.02, "Generating records..."})
	start := dayStart(opts.Start)
	end := dayStart(opts.End)
	totalDays := int(end.Sub(start).Hours()/24) + 1
	expected := totalDays * opts.RecordsPerDay
	rng := rand.New(rand.NewSource(opts.Seed))

	batch := make([]*models.Record, 0, opts.BatchSize)
	total := 0
	flush := func(day int) error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := m.CreateMany(ctx, batch); err != nil {
			return fmt.Errorf("insert stress batch: %w", err)
		}
		total += len(batch)
		batch = batch[:0]
		fraction := 0.02 + 0.98*float64(day)/float64(totalDays)
		progress(Progress{fraction, fmt.Sprintf("Inserted %d / %d records...", total, expected)})
		log.Debug("stress batch", zap.Int("total", total))
		return nil
	}

	for day := 0; day < totalDays; day++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		date := start.AddDate(0, 0, day)
		for i := 0; i < opts.RecordsPerDay; i++ {
			r := &models.Record{
				ExerciseID: exerciseIDs[rng.Intn(len(exerciseIDs))],
				Sets:       1 + rng.Intn(5),
				Reps:       5 + rng.Intn(11),
				Weight:     10 + rng.Float64()*90,
				Date:       date.UnixMilli(),
			}
			batch = append(batch, r)
			if len(batch) >= opts.BatchSize {
				if err := flush(day); err != nil {
					return nil, err
				}
			}
		}
	}
	if err := flush(totalDays); err != nil {
		return nil, err
	}

	progress(Progress{1, fmt.Sprintf("Stress test complete. Total records: %d", total)})
	return &StressResult{Exercises: len(exerciseIDs), Records: total}, nil
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func clearAll(ctx context.Context, m *groups.Maintainer) error {
	store := m.Store()
	ids, err := store.ExerciseIDs(ctx)
	if err != nil {
		return fmt.Errorf("list exercises: %w", err)
	}
	return store.WithTransaction(ctx, func(tx storage.Store) error {
		for _, id := range ids {
			if err := tx.DeleteExercise(ctx, id); err != nil {
				return fmt.Errorf("delete exercise %d: %w", id, err)
			}
		}
		return nil
	})
}

// ensureExercises creates the stress exercises, reusing any that exist.
func ensureExercises(ctx context.Context, m *groups.Maintainer, n int) ([]int64, error) {
	existing, err := m.Store().ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	byKey := make(map[string]int64, len(existing))
	for _, e := range existing {
		byKey[models.NameKey(e.Name)] = e.ID
	}

	ids := make([]int64, 0, n)
	for i := 1; i <= n; i++ {
		name := stressExerciseName(i)
		if id, ok := byKey[models.NameKey(name)]; ok {
			ids = append(ids, id)
			continue
		}
		e, err := m.CreateExercise(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("create exercise %q: %w", name, err)
		}
		ids = append(ids, e.ID)
	}
	return ids, nil
}
