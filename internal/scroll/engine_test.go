// ABOUTME: Tests for the scroll engine against a real SQLite store.
// ABOUTME: Covers paging, eviction, mutations and undo with group checks.
package scroll

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/fitlog/internal/groups"
	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseDate = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	repo      storage.Repository
	maint     *groups.Maintainer
	exercises []int64
}

func setup(t *testing.T, exercises int) *fixture {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "fitlog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	f := &fixture{repo: db, maint: groups.NewMaintainer(db)}
	for i := 0; i < exercises; i++ {
		e, err := f.maint.CreateExercise(context.Background(), string(rune('A'+i))+" lift")
		require.NoError(t, err)
		f.exercises = append(f.exercises, e.ID)
	}
	return f
}

// seed creates n records one minute apart, oldest first, in runs of three.
func (f *fixture) seed(t *testing.T, n int, exerciseFor func(i int) int64) {
	t.Helper()
	if exerciseFor == nil {
		exerciseFor = func(i int) int64 { return f.exercises[(i/3)%len(f.exercises)] }
	}
	records := make([]*models.Record, n)
	for i := range records {
		records[i] = &models.Record{
			ExerciseID: exerciseFor(i),
			Sets:       1,
			Reps:       5,
			Weight:     20,
			Date:       baseDate.Add(time.Duration(i) * time.Minute).UnixMilli(),
		}
	}
	_, err := f.maint.CreateMany(context.Background(), records)
	require.NoError(t, err)
}

func (f *fixture) engine(filter models.Filter) *Engine {
	return New(f.repo, f.maint, filter)
}

func (f *fixture) ordered(t *testing.T) []*models.Record {
	t.Helper()
	all, err := f.repo.AllOrdered(context.Background())
	require.NoError(t, err)
	return all
}

func (f *fixture) assertGroupsValid(t *testing.T) {
	t.Helper()
	violations, err := f.maint.Verify(context.Background())
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func ids(records []*models.Record) []int64 {
	out := make([]int64, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestLoadInitial(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 150, nil)

	e := f.engine(nil)
	assert.False(t, e.InitialLoadDone())
	require.NoError(t, e.LoadInitial(ctx))

	recent := e.Recent()
	assert.Len(t, recent, 100)
	assert.True(t, e.HasMore())
	assert.True(t, e.InitialLoadDone())
	assert.Equal(t, ids(f.ordered(t)[:100]), ids(recent))
	assert.Empty(t, e.Pages())

	// Idempotent.
	require.NoError(t, e.LoadInitial(ctx))
	assert.Len(t, e.Recent(), 100)
}

func TestLoadInitialSmallHistory(t *testing.T) {
	f := setup(t, 1)
	f.seed(t, 40, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(context.Background()))
	assert.Len(t, e.Recent(), 40)
	assert.False(t, e.HasMore())

	loaded, err := e.LoadNextBatchIfNeeded(context.Background(), 39, 40)
	require.NoError(t, err)
	assert.False(t, loaded)
}

func TestLoadInitialWithFilter(t *testing.T) {
	f := setup(t, 2)
	first, second := f.exercises[0], f.exercises[1]
	f.seed(t, 170, func(i int) int64 {
		if i%17 < 12 {
			return first
		}
		return second
	})

	e := f.engine(models.NewFilter(first))
	require.NoError(t, e.LoadInitial(context.Background()))

	recent := e.Recent()
	assert.Len(t, recent, 100)
	for _, r := range recent {
		assert.Equal(t, first, r.ExerciseID)
	}
	assert.True(t, e.HasMore())
}

func TestLoadNextBatchIfNeeded(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 3)
	f.seed(t, 200, nil)
	all := f.ordered(t)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))

	loaded, err := e.LoadNextBatchIfNeeded(ctx, 10, 100)
	require.NoError(t, err)
	assert.False(t, loaded, "far from the end")

	loaded, err = e.LoadNextBatchIfNeeded(ctx, 95, 100)
	require.NoError(t, err)
	assert.True(t, loaded)

	pages := e.Pages()
	require.Len(t, pages, 1)
	assert.Equal(t, ids(all[100:150]), ids(pages[0]))
	assert.Equal(t, 50, e.TotalOlderLoaded())
	assert.True(t, e.HasMore())
	assert.False(t, e.IsLoadingMore())

	loaded, err = e.LoadNextBatchIfNeeded(ctx, 145, 150)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Equal(t, []int{50, 50}, e.PageSizes())
	assert.True(t, e.HasMore(), "a full page may have more behind it")

	loaded, err = e.LoadNextBatchIfNeeded(ctx, 195, 200)
	require.NoError(t, err)
	assert.True(t, loaded)
	assert.Len(t, e.Pages(), 2, "empty page is not appended")
	assert.False(t, e.HasMore())

	loaded, err = e.LoadNextBatchIfNeeded(ctx, 195, 200)
	require.NoError(t, err)
	assert.False(t, loaded)
}

func loadPages(t *testing.T, e *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		rendered := 100 + 50*i
		loaded, err := e.LoadNextBatchIfNeeded(context.Background(), rendered-5, rendered)
		require.NoError(t, err)
		require.True(t, loaded)
	}
}

func TestEvictAndReload(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 300, nil)
	all := f.ordered(t)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 4)
	require.Len(t, e.Pages(), 4)

	require.NoError(t, e.EvictAndReload(ctx, 0))
	pages := e.Pages()
	assert.NotNil(t, pages[0])
	assert.NotNil(t, pages[1])
	assert.NotNil(t, pages[2])
	assert.Nil(t, pages[3])

	h, ok := e.PageHeightEstimate(3)
	require.True(t, ok)
	assert.Equal(t, EstimatePageHeight(50), h)
	assert.Equal(t, 3152.0, h)
	_, ok = e.PageHeightEstimate(0)
	assert.False(t, ok)

	require.NoError(t, e.EvictAndReload(ctx, 3))
	pages = e.Pages()
	assert.Nil(t, pages[0])
	assert.Equal(t, ids(all[150:200]), ids(pages[1]))
	assert.Equal(t, ids(all[250:300]), ids(pages[3]))
	assert.Equal(t, []int{50, 50, 50, 50}, e.PageSizes())
}

func TestEvictAndReloadWithoutPages(t *testing.T) {
	f := setup(t, 1)
	f.seed(t, 10, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(context.Background()))
	require.NoError(t, e.EvictAndReload(context.Background(), 3))
	assert.Empty(t, e.Pages())
}

func TestItems(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 300, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 4)
	require.NoError(t, e.EvictAndReload(ctx, 0))

	items := e.Items()
	require.Len(t, items, 100+150+1)
	assert.Equal(t, -1, items[0].Page)
	last := items[len(items)-1]
	require.NotNil(t, last.Placeholder)
	assert.Nil(t, last.Record)
	assert.Equal(t, Placeholder{Page: 3, Size: 50, Height: 3152}, *last.Placeholder)
}

func TestPrependNewRecord(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 150, nil)

	e := f.engine(models.NewFilter(f.exercises[0]))
	require.NoError(t, e.LoadInitial(ctx))
	before := len(e.Recent())

	r := models.NewRecord(f.exercises[0], 3, 8, 60)
	id, err := f.maint.Create(ctx, r)
	require.NoError(t, err)

	require.NoError(t, e.PrependNewRecord(ctx, id))
	recent := e.Recent()
	assert.Len(t, recent, before+1)
	assert.Equal(t, id, recent[0].ID)

	require.NoError(t, e.PrependNewRecord(ctx, id))
	assert.Len(t, e.Recent(), before+1, "already present")

	other := models.NewRecord(f.exercises[1], 3, 8, 60)
	otherID, err := f.maint.Create(ctx, other)
	require.NoError(t, err)
	require.NoError(t, e.PrependNewRecord(ctx, otherID))
	assert.Len(t, e.Recent(), before+1, "filtered out")
}

func TestPrependBackdatedRecordLandsInPage(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 200, nil)
	all := f.ordered(t)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 1)

	r := &models.Record{ExerciseID: all[121].ExerciseID, Sets: 1, Reps: 5, Weight: 20, Date: all[121].Date + 1}
	id, err := f.maint.Create(ctx, r)
	require.NoError(t, err)
	require.NoError(t, e.PrependNewRecord(ctx, id))

	assert.Len(t, e.Recent(), 100)
	assert.Equal(t, []int{51}, e.PageSizes())
	assert.Equal(t, 0, e.PageOf(id))

	require.NoError(t, e.Fill(ctx, 1000))
	assert.Equal(t, ids(f.ordered(t)), cachedIDs(t, e))
}

func TestPrependIntoEvictedRangeForgetsPages(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 400, nil)
	all := f.ordered(t)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 4)
	require.NoError(t, e.EvictAndReload(ctx, 3))

	r := &models.Record{ExerciseID: all[110].ExerciseID, Sets: 1, Reps: 5, Weight: 20, Date: all[110].Date + 1}
	id, err := f.maint.Create(ctx, r)
	require.NoError(t, err)
	require.NoError(t, e.PrependNewRecord(ctx, id))
	assert.Empty(t, e.PageSizes())

	require.NoError(t, e.Fill(ctx, 1000))
	assert.Equal(t, ids(f.ordered(t)), cachedIDs(t, e))
}

func TestWindow(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 400, nil)
	all := f.ordered(t)

	e := f.engine(nil)
	got, err := e.Window(ctx, 330, 20)
	require.NoError(t, err)
	assert.Equal(t, ids(all[330:350]), ids(got))

	pages := e.Pages()
	require.Len(t, pages, 5)
	assert.Nil(t, pages[0], "passed pages are evicted")
	assert.Nil(t, pages[1])
	assert.NotNil(t, pages[4])

	got, err = e.Window(ctx, 120, 10)
	require.NoError(t, err)
	assert.Equal(t, ids(all[120:130]), ids(got))
	assert.NotNil(t, e.Pages()[0], "page reloaded around the window")

	got, err = e.Window(ctx, 395, 20)
	require.NoError(t, err)
	assert.Equal(t, ids(all[395:]), ids(got))

	got, err = e.Window(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWindowAfterCacheEmptied(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 300, func(i int) int64 {
		if i >= 200 {
			return f.exercises[0]
		}
		return f.exercises[1]
	})

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	_, err := f.maint.DeleteExercise(ctx, f.exercises[0])
	require.NoError(t, err)
	valid, err := f.repo.ExerciseIDs(ctx)
	require.NoError(t, err)
	require.Equal(t, 100, e.RemoveOrphaned(valid))
	require.Empty(t, e.Recent())

	got, err := e.Window(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, ids(f.ordered(t)[:10]), ids(got))
}

func TestWindowWiderThanRadius(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 300, nil)
	all := f.ordered(t)

	e := New(f.repo, f.maint, nil, WithConfig(Config{RecentLimit: 100, OlderBatchSize: 50, WindowRadius: 0}))
	got, err := e.Window(ctx, 100, 120)
	require.NoError(t, err)
	assert.Equal(t, ids(all[100:220]), ids(got))
}

func TestUpdateRecordDateMovesRecord(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 200, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 1)

	moved := *e.Recent()[5]
	moved.Date = baseDate.Add(-time.Hour).UnixMilli()
	require.NoError(t, e.UpdateRecord(ctx, &moved))
	assert.Len(t, e.Recent(), 99)
	assert.Equal(t, -1, e.PageOf(moved.ID))

	require.NoError(t, e.Fill(ctx, 1000))
	got := cachedIDs(t, e)
	assert.Equal(t, ids(f.ordered(t)), got)
	assert.Equal(t, moved.ID, got[len(got)-1])
	f.assertGroupsValid(t)
}

func TestUpdateRecord(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 200, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 1)

	target := *e.Pages()[0][10]
	target.Weight = 142.5
	target.Reps = 3
	require.NoError(t, e.UpdateRecord(ctx, &target))

	cached := e.Pages()[0][10]
	assert.Equal(t, target.ID, cached.ID)
	assert.Equal(t, 142.5, cached.Weight)
	assert.Equal(t, 3, cached.Reps)

	stored, err := f.repo.GetByID(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 142.5, stored.Weight)
	f.assertGroupsValid(t)
}

func TestDeleteAndUndoFromRecent(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 3)
	f.seed(t, 200, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	victim := e.Recent()[4]

	undo, err := e.DeleteRecord(ctx, victim)
	require.NoError(t, err)
	assert.True(t, undo.Origin.InRecent)
	assert.Equal(t, -1, undo.Origin.PageIndex)
	assert.Len(t, e.Recent(), 99)
	_, err = f.repo.GetByID(ctx, victim.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	f.assertGroupsValid(t)

	restored, err := e.UndoDelete(ctx, undo)
	require.NoError(t, err)
	assert.NotEqual(t, victim.ID, restored.ID)
	assert.True(t, restored.SameValues(victim))

	recent := e.Recent()
	assert.Len(t, recent, 100)
	assert.Equal(t, restored.ID, recent[4].ID)
	f.assertGroupsValid(t)
}

func TestDeleteAndUndoFromPage(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 200, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 1)
	victim := e.Pages()[0][20]

	undo, err := e.DeleteRecord(ctx, victim)
	require.NoError(t, err)
	assert.False(t, undo.Origin.InRecent)
	assert.Equal(t, 0, undo.Origin.PageIndex)
	assert.Equal(t, []int{49}, e.PageSizes())
	assert.Equal(t, -1, e.PageOf(victim.ID))

	restored, err := e.UndoDelete(ctx, undo)
	require.NoError(t, err)
	assert.Equal(t, []int{50}, e.PageSizes())
	assert.Equal(t, 0, e.PageOf(restored.ID))
	assert.Equal(t, restored.ID, e.Pages()[0][20].ID)
	f.assertGroupsValid(t)
}

func TestUndoIntoForgottenPage(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 300, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 2)
	victim := e.Pages()[1][10]

	undo, err := e.DeleteRecord(ctx, victim)
	require.NoError(t, err)
	require.Equal(t, 1, undo.Origin.PageIndex)

	restored, err := e.UndoDelete(ctx, &UndoContext{Record: undo.Record, Origin: Origin{PageIndex: -1}})
	require.NoError(t, err)
	assert.Equal(t, []int{50, 50}, e.PageSizes())
	assert.Equal(t, 1, e.PageOf(restored.ID))
	assert.Equal(t, restored.ID, e.Pages()[1][10].ID)
	f.assertGroupsValid(t)
}

func TestDeleteKeepsPagingAligned(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 200, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 1)

	_, err := e.DeleteRecord(ctx, e.Recent()[0])
	require.NoError(t, err)

	loaded, err := e.LoadNextBatchIfNeeded(ctx, 145, 149)
	require.NoError(t, err)
	require.True(t, loaded)

	seen := make(map[int64]bool)
	for _, item := range e.Items() {
		require.NotNil(t, item.Record)
		assert.False(t, seen[item.Record.ID], "record %d cached twice", item.Record.ID)
		seen[item.Record.ID] = true
	}
	assert.Len(t, seen, 199)
}

func TestDeleteMissingRecord(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 1)
	f.seed(t, 5, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))

	ghost := &models.Record{ID: 9999, ExerciseID: f.exercises[0], Sets: 1, Reps: 1, Weight: 1, Date: baseDate.UnixMilli()}
	undo, err := e.DeleteRecord(ctx, ghost)
	require.NoError(t, err)
	assert.Same(t, ghost, undo.Record)
	assert.Len(t, e.Recent(), 5)
}

func TestRemoveOrphaned(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 3)
	f.seed(t, 200, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 1)

	gone := f.exercises[1]
	removed, err := f.maint.DeleteExercise(ctx, gone)
	require.NoError(t, err)
	require.Positive(t, removed)

	valid, err := f.repo.ExerciseIDs(ctx)
	require.NoError(t, err)
	n := e.RemoveOrphaned(valid)
	assert.Positive(t, n)

	for _, item := range e.Items() {
		if item.Record != nil {
			assert.NotEqual(t, gone, item.Record.ExerciseID)
		}
	}
	total := len(e.Recent()) + e.TotalOlderLoaded()
	assert.Equal(t, 150-n, total)
	f.assertGroupsValid(t)
}

// cachedIDs returns the IDs of cached records, failing on placeholders
// and on records cached twice.
func cachedIDs(t *testing.T, e *Engine) []int64 {
	t.Helper()
	var out []int64
	seen := make(map[int64]bool)
	for _, item := range e.Items() {
		require.NotNil(t, item.Record, "placeholder for page %d", item.Page)
		require.False(t, seen[item.Record.ID], "record %d cached twice", item.Record.ID)
		seen[item.Record.ID] = true
		out = append(out, item.Record.ID)
	}
	return out
}

func TestRemoveOrphanedWithEvictedPage(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 3)
	f.seed(t, 400, nil)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 4)
	require.NoError(t, e.EvictAndReload(ctx, 3))
	require.Nil(t, e.Pages()[0])

	_, err := f.maint.DeleteExercise(ctx, f.exercises[1])
	require.NoError(t, err)
	valid, err := f.repo.ExerciseIDs(ctx)
	require.NoError(t, err)
	e.RemoveOrphaned(valid)

	assert.Empty(t, e.PageSizes())
	assert.True(t, e.HasMore())

	require.NoError(t, e.Fill(ctx, 1000))
	assert.Equal(t, ids(f.ordered(t)), cachedIDs(t, e))
}

func TestDeleteFromEvictedPage(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 400, nil)
	all := f.ordered(t)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 4)
	require.NoError(t, e.EvictAndReload(ctx, 3))

	undo, err := e.DeleteRecord(ctx, all[110])
	require.NoError(t, err)
	assert.Equal(t, -1, undo.Origin.PageIndex)
	assert.False(t, undo.Origin.InRecent)
	assert.Empty(t, e.PageSizes())

	require.NoError(t, e.Fill(ctx, 1000))
	assert.Equal(t, ids(f.ordered(t)), cachedIDs(t, e))
	assert.Len(t, cachedIDs(t, e), 399)
	f.assertGroupsValid(t)
}

func TestDeleteOlderThanCacheKeepsPages(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 400, nil)
	all := f.ordered(t)

	e := f.engine(nil)
	require.NoError(t, e.LoadInitial(ctx))
	loadPages(t, e, 2)

	_, err := e.DeleteRecord(ctx, all[390])
	require.NoError(t, err)
	assert.Equal(t, []int{50, 50}, e.PageSizes())

	require.NoError(t, e.Fill(ctx, 1000))
	assert.Equal(t, ids(f.ordered(t)), cachedIDs(t, e))
}

func TestClosedEngineIsStale(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 1)
	f.seed(t, 10, nil)

	e := f.engine(nil)
	e.Close()

	assert.ErrorIs(t, e.LoadInitial(ctx), ErrStaleSession)
	_, err := e.LoadNextBatchIfNeeded(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrStaleSession)
	assert.ErrorIs(t, e.EvictAndReload(ctx, 0), ErrStaleSession)
	assert.False(t, e.InitialLoadDone())
}

func TestConfigDefaults(t *testing.T) {
	e := New(nil, nil, nil, WithConfig(Config{RecentLimit: 10}))
	cfg := e.Config()
	assert.Equal(t, 10, cfg.RecentLimit)
	assert.Equal(t, 50, cfg.OlderBatchSize)
	assert.Equal(t, 2, cfg.WindowRadius)
	assert.Equal(t, 5, cfg.TrailingThreshold)
	assert.NotEqual(t, e.SessionID(), New(nil, nil, nil).SessionID())
}

func TestFill(t *testing.T) {
	ctx := context.Background()
	f := setup(t, 2)
	f.seed(t, 230, nil)

	e := New(f.repo, f.maint, nil, WithConfig(Config{RecentLimit: 100, OlderBatchSize: 50, TrailingThreshold: 0}))
	require.NoError(t, e.Fill(ctx, 160))
	assert.True(t, e.InitialLoadDone())
	assert.Equal(t, []int{50, 50}, e.PageSizes())

	require.NoError(t, e.Fill(ctx, 1000))
	assert.Equal(t, []int{50, 50, 30}, e.PageSizes())
	assert.False(t, e.HasMore())
	assert.Len(t, e.Items(), 230)
}
