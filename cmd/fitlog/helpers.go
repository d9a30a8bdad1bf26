// ABOUTME: Shared helpers for fitlog commands.
// ABOUTME: Time parsing, exercise lookup by name or ID, and text padding.
package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
)

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, f := range formats {
		if t, err := time.ParseInLocation(f, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

// resolveExercise finds an exercise by numeric ID, exact name or unique
// name prefix, ignoring case.
func resolveExercise(ctx context.Context, store storage.Store, ref string) (*models.Exercise, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		e, err := store.GetExercise(ctx, id)
		if err != nil {
			if storage.IsNotFound(err) {
				return nil, fmt.Errorf("exercise not found: %s", ref)
			}
			return nil, err
		}
		return e, nil
	}

	exercises, err := store.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	key := models.NameKey(ref)
	if key == "" {
		return nil, fmt.Errorf("exercise name is empty")
	}

	var matches []*models.Exercise
	for _, e := range exercises {
		k := models.NameKey(e.Name)
		if k == key {
			return e, nil
		}
		if strings.HasPrefix(k, key) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("exercise not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, e := range matches {
			names[i] = e.Name
		}
		return nil, fmt.Errorf("exercise %q is ambiguous: %s", ref, strings.Join(names, ", "))
	}
}

func exerciseNames(ctx context.Context, store storage.Store) (map[int64]string, error) {
	exercises, err := store.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	names := make(map[int64]string, len(exercises))
	for _, e := range exercises {
		names[e.ID] = e.Name
	}
	return names, nil
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func formatRecord(r *models.Record) string {
	return fmt.Sprintf("%dx%d @ %s", r.Sets, r.Reps, strconv.FormatFloat(r.Weight, 'f', -1, 64))
}
