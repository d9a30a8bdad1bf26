// ABOUTME: Tests for group verification, full rebuild and migration.
// ABOUTME: Broken partitions are written directly to the store.
package groups

import (
	"context"
	"testing"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id, exerciseID, date, group int64) *models.Record {
	return &models.Record{ID: id, ExerciseID: exerciseID, Sets: 1, Reps: 1, Date: date, GroupIndex: group}
}

func kinds(vs []Violation) []Kind {
	out := make([]Kind, len(vs))
	for i, v := range vs {
		out[i] = v.Kind
	}
	return out
}

func TestAssign(t *testing.T) {
	records := []*models.Record{
		rec(6, 1, 600, 0),
		rec(5, 2, 500, 0),
		rec(4, 2, 400, 0),
		rec(3, 1, 300, 0),
		rec(2, 1, 200, 0),
		rec(1, 3, 100, 0),
	}
	assert.Equal(t, []int64{3, 2, 2, 1, 1, 0}, Assign(records))
	assert.Empty(t, Assign(nil))
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		records []*models.Record
		want    []Kind
	}{
		{"valid", []*models.Record{rec(3, 2, 300, 1), rec(2, 1, 200, 0), rec(1, 1, 100, 0)}, nil},
		{"empty", nil, nil},
		{"mixed exercise", []*models.Record{rec(2, 2, 200, 0), rec(1, 1, 100, 0)}, []Kind{KindMixedExercise}},
		{"gap", []*models.Record{rec(2, 2, 200, 2), rec(1, 1, 100, 0)}, []Kind{KindGap}},
		{"split", []*models.Record{rec(3, 1, 300, 1), rec(2, 2, 200, 0), rec(1, 1, 100, 1)},
			[]Kind{KindSplit, KindOrder}},
		{"order", []*models.Record{rec(2, 2, 200, 0), rec(1, 1, 100, 1)}, []Kind{KindOrder}},
		{"unmerged", []*models.Record{rec(2, 1, 200, 1), rec(1, 1, 100, 0)}, []Kind{KindUnmerged}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Check(tt.records)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, kinds(got))
		})
	}
}

func TestRebuildRepairsBrokenGroups(t *testing.T) {
	forEachBackend(t, func(t *testing.T, m *Maintainer) {
		ctx := context.Background()
		store := m.Store()
		squat := exercise(t, m, "Squat")
		bench := exercise(t, m, "Bench Press")

		for i, ex := range []int64{squat, squat, bench, squat} {
			r := &models.Record{ExerciseID: ex, Sets: 1, Reps: 1, Date: int64(100 * (i + 1)), GroupIndex: 7}
			_, err := store.Insert(ctx, r)
			require.NoError(t, err)
		}

		violations, err := m.Verify(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, violations)

		changed, err := m.Rebuild(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, changed)
		assertValid(t, m)

		changed, err = m.Rebuild(ctx)
		require.NoError(t, err)
		assert.Zero(t, changed)
	})
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	src := NewMaintainer(setupSQLite(t))
	squat := exercise(t, src, "Squat")
	bench := exercise(t, src, "Bench Press")
	for i, ex := range []int64{squat, bench, bench, squat, squat} {
		create(t, src, ex, int64(1000+i))
	}

	dst := NewMaintainer(setupBadger(t))
	summary, err := Migrate(ctx, src.Store(), dst)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Exercises)
	assert.Equal(t, 5, summary.Records)

	srcAll, err := src.Store().AllOrdered(ctx)
	require.NoError(t, err)
	dstAll, err := dst.Store().AllOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, dstAll, len(srcAll))

	srcNames := exerciseNames(t, src)
	dstNames := exerciseNames(t, dst)
	for i := range srcAll {
		assert.Equal(t, srcAll[i].Date, dstAll[i].Date)
		assert.Equal(t, srcAll[i].GroupIndex, dstAll[i].GroupIndex)
		assert.Equal(t, srcNames[srcAll[i].ExerciseID], dstNames[dstAll[i].ExerciseID])
	}
	assertValid(t, dst)
}

func exerciseNames(t *testing.T, m *Maintainer) map[int64]string {
	t.Helper()
	list, err := m.Store().ListExercises(context.Background())
	require.NoError(t, err)
	out := make(map[int64]string, len(list))
	for _, e := range list {
		out[e.ID] = e.Name
	}
	return out
}

// markedStore reports an unfinished operation until repaired.
type markedStore struct {
	storage.Repository
	marked bool
}

func (s *markedStore) NeedsRepair(context.Context) (bool, error) { return s.marked, nil }

func (s *markedStore) MarkRepaired(context.Context) error {
	s.marked = false
	return nil
}

func TestRepairIfNeeded(t *testing.T) {
	ctx := context.Background()
	store := &markedStore{Repository: setupSQLite(t), marked: true}
	m := NewMaintainer(store)
	squat := exercise(t, m, "Squat")
	bench := exercise(t, m, "Bench Press")
	for i, ex := range []int64{squat, bench, squat} {
		_, err := store.Insert(ctx, &models.Record{ExerciseID: ex, Sets: 1, Reps: 1, Date: int64(i + 1), GroupIndex: 0})
		require.NoError(t, err)
	}

	ran, err := m.RepairIfNeeded(ctx)
	require.NoError(t, err)
	assert.True(t, ran)
	assert.False(t, store.marked)
	assertValid(t, m)

	ran, err = m.RepairIfNeeded(ctx)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestRepairIfNeededWithoutMarkerSupport(t *testing.T) {
	m := NewMaintainer(setupSQLite(t))
	ran, err := m.RepairIfNeeded(context.Background())
	require.NoError(t, err)
	assert.False(t, ran)
}
