// ABOUTME: Helpers for migrating data between storage backends.
// ABOUTME: Copies exercises and reports what moved; records go through group maintenance.
package storage

import (
	"context"
	"fmt"
	"os"

	"github.com/harperreed/fitlog/internal/models"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Exercises int
	Records   int
}

// CopyExercises creates every exercise of src in dst and returns a map from
// source IDs to destination IDs. Exercises whose name already exists in dst
// are reused rather than duplicated.
func CopyExercises(ctx context.Context, src, dst Store) (map[int64]int64, int, error) {
	exercises, err := src.ListExercises(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list source exercises: %w", err)
	}

	existing, err := dst.ListExercises(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list destination exercises: %w", err)
	}
	byName := make(map[string]int64, len(existing))
	for _, e := range existing {
		byName[models.NameKey(e.Name)] = e.ID
	}

	idMap := make(map[int64]int64, len(exercises))
	created := 0
	for _, e := range exercises {
		if id, ok := byName[models.NameKey(e.Name)]; ok {
			idMap[e.ID] = id
			continue
		}
		id, err := dst.CreateExercise(ctx, models.NewExercise(e.Name))
		if err != nil {
			return nil, 0, fmt.Errorf("create exercise %q: %w", e.Name, err)
		}
		idMap[e.ID] = id
		byName[models.NameKey(e.Name)] = id
		created++
	}

	return idMap, created, nil
}

// IsDirNonEmpty checks whether a directory exists and contains any files or subdirectories.
// Returns false if the directory does not exist or is empty.
func IsDirNonEmpty(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("read directory %q: %w", path, err)
	}
	return len(entries) > 0, nil
}
