// ABOUTME: Populates an empty database with a starter set of exercises and records.
// ABOUTME: Records are created through the group maintainer so groups stay valid.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/fitlog/internal/events"
	"github.com/harperreed/fitlog/internal/groups"
	"github.com/harperreed/fitlog/internal/models"
)

// DefaultExercises are created on a fresh database.
var DefaultExercises = []string{
	"Squat",
	"Bench Press",
	"Deadlift",
	"Overhead Press",
	"Barbell Row",
	"Pull Up",
	"Dips",
}

const recordsPerTimePoint = 5

// Result reports what Defaults created.
type Result struct {
	Exercises int  `json:"exercises"`
	Records   int  `json:"records"`
	Skipped   bool `json:"skipped"`
}

// Defaults seeds the starter data when the database has no exercises.
// A DatabaseSeeded event is published on bus (if non-nil) after a seed.
func Defaults(ctx context.Context, m *groups.Maintainer, bus *events.Bus, now time.Time) (*Result, error) {
	store := m.Store()
	existing, err := store.ExerciseIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	if len(existing) > 0 {
		return &Result{Skipped: true}, nil
	}

	var exercises []*models.Exercise
	for _, name := range DefaultExercises {
		e, err := m.CreateExercise(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("create exercise %q: %w", name, err)
		}
		exercises = append(exercises, e)
	}

	timePoints := []time.Time{
		now.Add(-7 * 24 * time.Hour),
		now.Add(-2 * 24 * time.Hour),
		now.Add(-24 * time.Hour),
		now.Add(-time.Hour),
	}

	var records []*models.Record
	for _, at := range timePoints {
		for i := 0; i < recordsPerTimePoint; i++ {
			e := exercises[i%len(exercises)]
			r := models.NewRecord(e.ID, 1, 5+i, 20+float64(i)*2.5)
			records = append(records, r.WithDate(at))
		}
	}
	if _, err := m.CreateMany(ctx, records); err != nil {
		return nil, fmt.Errorf("create records: %w", err)
	}

	if bus != nil {
		if err := bus.Publish(ctx, events.Event{Kind: events.DatabaseSeeded}); err != nil {
			return nil, fmt.Errorf("publish seeded event: %w", err)
		}
	}
	return &Result{Exercises: len(exercises), Records: len(records)}, nil
}
