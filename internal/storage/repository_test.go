// ABOUTME: Contract tests run against every Repository backend.
// ABOUTME: Verifies ordering, paging, group queries and exercise rules.
package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "fitlog-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	db, err := Open(filepath.Join(tmpDir, "fitlog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func setupTestBadger(t *testing.T) *BadgerStore {
	t.Helper()

	s, err := OpenBadger("", nil)
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// forEachBackend runs fn once per Repository implementation.
func forEachBackend(t *testing.T, fn func(t *testing.T, repo Repository)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, setupTestDB(t)) })
	t.Run("badger", func(t *testing.T) { fn(t, setupTestBadger(t)) })
}

func mustExercise(t *testing.T, repo Repository, name string) int64 {
	t.Helper()
	id, err := repo.CreateExercise(context.Background(), models.NewExercise(name))
	require.NoError(t, err)
	return id
}

func mustInsert(t *testing.T, repo Repository, exerciseID, date, group int64) *models.Record {
	t.Helper()
	r := &models.Record{ExerciseID: exerciseID, Sets: 1, Reps: 5, Weight: 20, Date: date, GroupIndex: group}
	_, err := repo.Insert(context.Background(), r)
	require.NoError(t, err)
	return r
}

func ids(records []*models.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestInsertAndGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		ex := mustExercise(t, repo, "Squat")

		r := &models.Record{ExerciseID: ex, Sets: 3, Reps: 5, Weight: 102.5, Date: 1000, GroupIndex: 0}
		id, err := repo.Insert(ctx, r)
		require.NoError(t, err)
		assert.NotZero(t, id)
		assert.Equal(t, id, r.ID)

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, *r, *got)

		_, err = repo.GetByID(ctx, id+100)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestIDsIncrease(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ex := mustExercise(t, repo, "Squat")
		a := mustInsert(t, repo, ex, 100, 0)
		b := mustInsert(t, repo, ex, 100, 0)
		require.NoError(t, repo.DeleteByID(context.Background(), b.ID))
		c := mustInsert(t, repo, ex, 100, 0)

		assert.Greater(t, b.ID, a.ID)
		assert.Greater(t, c.ID, b.ID)
	})
}

func TestCanonicalOrder(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		ex := mustExercise(t, repo, "Squat")

		r1 := mustInsert(t, repo, ex, 200, 0)
		r2 := mustInsert(t, repo, ex, 300, 0)
		r3 := mustInsert(t, repo, ex, 200, 0)
		r4 := mustInsert(t, repo, ex, -50, 0)

		all, err := repo.AllOrdered(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{r2.ID, r3.ID, r1.ID, r4.ID}, ids(all))

		front, err := repo.FrontierRecord(ctx)
		require.NoError(t, err)
		assert.Equal(t, r2.ID, front.ID)
	})
}

func TestFrontierEmpty(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		_, err := repo.FrontierRecord(context.Background())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestPageAndFilter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		squat := mustExercise(t, repo, "Squat")
		bench := mustExercise(t, repo, "Bench Press")

		var want []int64
		for i := 0; i < 10; i++ {
			ex := squat
			if i%2 == 1 {
				ex = bench
			}
			r := mustInsert(t, repo, ex, int64(1000+i), 0)
			want = append([]int64{r.ID}, want...)
		}

		page, err := repo.Page(ctx, 2, 3, nil)
		require.NoError(t, err)
		assert.Equal(t, want[2:5], ids(page))

		page, err = repo.Page(ctx, 8, 5, nil)
		require.NoError(t, err)
		assert.Equal(t, want[8:], ids(page))

		page, err = repo.Page(ctx, 20, 5, nil)
		require.NoError(t, err)
		assert.Empty(t, page)

		total, err := repo.TotalCount(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 10, total)

		benchOnly := models.NewFilter(bench)
		total, err = repo.TotalCount(ctx, benchOnly)
		require.NoError(t, err)
		assert.Equal(t, 5, total)

		page, err = repo.Page(ctx, 1, 2, benchOnly)
		require.NoError(t, err)
		require.Len(t, page, 2)
		for _, r := range page {
			assert.Equal(t, bench, r.ExerciseID)
		}
		assert.Equal(t, []int64{want[2], want[4]}, ids(page))
	})
}

func TestUpdateKeepsIdentity(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		squat := mustExercise(t, repo, "Squat")
		bench := mustExercise(t, repo, "Bench Press")
		r := mustInsert(t, repo, squat, 100, 4)

		err := repo.Update(ctx, &models.Record{ID: r.ID, ExerciseID: bench, Sets: 5, Reps: 3, Weight: 140, Date: 500, GroupIndex: 9})
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, r.ID)
		require.NoError(t, err)
		assert.Equal(t, squat, got.ExerciseID)
		assert.Equal(t, int64(4), got.GroupIndex)
		assert.Equal(t, 5, got.Sets)
		assert.Equal(t, 3, got.Reps)
		assert.Equal(t, 140.0, got.Weight)
		assert.Equal(t, int64(500), got.Date)

		all, err := repo.AllOrdered(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)

		err = repo.Update(ctx, &models.Record{ID: r.ID + 1, Sets: 1, Reps: 1})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGroupQueries(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		ex := mustExercise(t, repo, "Squat")
		mustInsert(t, repo, ex, 1, 0)
		mustInsert(t, repo, ex, 2, 1)
		mustInsert(t, repo, ex, 3, 1)
		mustInsert(t, repo, ex, 4, 2)
		mustInsert(t, repo, ex, 5, 3)

		n, err := repo.CountInGroup(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repo.CountInGroup(ctx, 7)
		require.NoError(t, err)
		assert.Zero(t, n)

		one, err := repo.OneRecordInGroup(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), one.GroupIndex)

		_, err = repo.OneRecordInGroup(ctx, 9)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, repo.ReassignGroup(ctx, 2, 1))
		n, _ = repo.CountInGroup(ctx, 1)
		assert.Equal(t, 3, n)

		require.NoError(t, repo.ShiftGroupIndicesAbove(ctx, 1, 1))
		all, err := repo.AllOrdered(ctx)
		require.NoError(t, err)
		got := make([]int64, len(all))
		for i, r := range all {
			got[i] = r.GroupIndex
		}
		assert.Equal(t, []int64{2, 1, 1, 1, 0}, got)

		require.NoError(t, repo.AssignGroup(ctx, all[0].ID, 5))
		n, _ = repo.CountInGroup(ctx, 5)
		assert.Equal(t, 1, n)
		assert.ErrorIs(t, repo.AssignGroup(ctx, 999, 1), ErrNotFound)
	})
}

func TestDeleteByID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		ex := mustExercise(t, repo, "Squat")
		r := mustInsert(t, repo, ex, 1, 0)

		require.NoError(t, repo.DeleteByID(ctx, r.ID))
		assert.ErrorIs(t, repo.DeleteByID(ctx, r.ID), ErrNotFound)

		n, err := repo.CountInGroup(ctx, 0)
		require.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestTransactionRollback(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		ex := mustExercise(t, repo, "Squat")

		boom := assert.AnError
		err := repo.WithTransaction(ctx, func(tx Store) error {
			mustInsert(t, tx.(Repository), ex, 1, 0)
			return boom
		})
		assert.ErrorIs(t, err, boom)

		total, err := repo.TotalCount(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, total)
	})
}

func TestNestedTransaction(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		ex := mustExercise(t, repo, "Squat")

		err := repo.WithTransaction(ctx, func(tx Store) error {
			return tx.WithTransaction(ctx, func(inner Store) error {
				_, err := inner.Insert(ctx, &models.Record{ExerciseID: ex, Sets: 1, Reps: 1, Date: 1})
				return err
			})
		})
		require.NoError(t, err)

		total, err := repo.TotalCount(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})
}

func TestExerciseLifecycle(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()

		e := models.NewExercise("  Squat ")
		id, err := repo.CreateExercise(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, "Squat", e.Name)

		_, err = repo.CreateExercise(ctx, models.NewExercise("SQUAT"))
		assert.ErrorIs(t, err, ErrDuplicateExercise)

		benchID := mustExercise(t, repo, "bench press")

		got, err := repo.GetExercise(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Squat", got.Name)

		list, err := repo.ListExercises(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "bench press", list[0].Name)
		assert.Equal(t, "Squat", list[1].Name)

		err = repo.UpdateExercise(ctx, &models.Exercise{ID: benchID, Name: "squat"})
		assert.ErrorIs(t, err, ErrDuplicateExercise)

		require.NoError(t, repo.UpdateExercise(ctx, &models.Exercise{ID: id, Name: "Back Squat"}))
		require.NoError(t, repo.UpdateExercise(ctx, &models.Exercise{ID: id, Name: "back squat"}))
		got, err = repo.GetExercise(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "back squat", got.Name)

		err = repo.UpdateExercise(ctx, &models.Exercise{ID: 999, Name: "Ghost"})
		assert.ErrorIs(t, err, ErrNotFound)

		exerciseIDs, err := repo.ExerciseIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{id, benchID}, exerciseIDs)

		ok, err := repo.ExerciseExists(ctx, id)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestDeleteExerciseCascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		squat := mustExercise(t, repo, "Squat")
		bench := mustExercise(t, repo, "Bench Press")
		mustInsert(t, repo, squat, 1, 0)
		keep := mustInsert(t, repo, bench, 2, 1)
		mustInsert(t, repo, squat, 3, 2)

		require.NoError(t, repo.DeleteExercise(ctx, squat))

		all, err := repo.AllOrdered(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{keep.ID}, ids(all))

		ok, err := repo.ExerciseExists(ctx, squat)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = repo.GetExercise(ctx, squat)
		assert.ErrorIs(t, err, ErrNotFound)

		// The name is free again.
		_, err = repo.CreateExercise(ctx, models.NewExercise("squat"))
		assert.NoError(t, err)

		assert.ErrorIs(t, repo.DeleteExercise(ctx, 999), ErrNotFound)
	})
}

func TestDeleteByExercise(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repo Repository) {
		ctx := context.Background()
		squat := mustExercise(t, repo, "Squat")
		bench := mustExercise(t, repo, "Bench Press")
		mustInsert(t, repo, squat, 1, 0)
		mustInsert(t, repo, bench, 2, 1)
		mustInsert(t, repo, squat, 3, 2)

		n, err := repo.DeleteByExercise(ctx, squat)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		total, err := repo.TotalCount(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, total)

		ok, err := repo.ExerciseExists(ctx, squat)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
