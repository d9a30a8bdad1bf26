// ABOUTME: Cache-patching writes for the scroll engine: update, delete, undo.
// ABOUTME: Writes go through the group maintainer before the cache changes.
package scroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/harperreed/fitlog/internal/storage"
	"go.uber.org/zap"
)

// Origin records where a deleted record was cached.
type Origin struct {
	InRecent bool `json:"in_recent"`
	// PageIndex is the owning older page, or -1 when not cached in a page.
	PageIndex int `json:"page_index"`
}

// UndoContext carries what UndoDelete needs to restore a deleted record.
type UndoContext struct {
	Record *models.Record `json:"record"`
	Origin Origin         `json:"origin"`
}

// UpdateRecord persists r and replaces the cached copy. A date change
// moves the record to its new canonical slot.
func (e *Engine) UpdateRecord(ctx context.Context, r *models.Record) error {
	e.mu.Lock()
	epoch, err := e.begin()
	e.mu.Unlock()
	if err != nil {
		return err
	}

	if err := e.writer.Update(ctx, r); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch != e.epoch {
		return ErrStaleSession
	}
	if !e.filter.Matches(r.ExerciseID) {
		return nil
	}
	if i := indexOf(e.recent, r.ID); i >= 0 {
		if e.recent[i].Date == r.Date {
			e.recent[i] = r
			return nil
		}
		e.recent = append(e.recent[:i], e.recent[i+1:]...)
		e.place(r)
		return nil
	}
	for p, page := range e.pages {
		i := indexOf(page, r.ID)
		if i < 0 {
			continue
		}
		if page[i].Date == r.Date {
			page[i] = r
			return nil
		}
		page = append(page[:i], page[i+1:]...)
		if len(page) == 0 {
			page = nil
		}
		e.pages[p] = page
		e.pageSizes[p]--
		e.place(r)
		return nil
	}
	if p := e.firstEvicted(); p >= 0 {
		e.truncatePages(p)
	}
	e.place(r)
	return nil
}

// DeleteRecord deletes r through the maintainer and drops it from the cache.
// The returned context restores it with UndoDelete.
func (e *Engine) DeleteRecord(ctx context.Context, r *models.Record) (*UndoContext, error) {
	e.mu.Lock()
	epoch, err := e.begin()
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	fresh, err := e.src.GetByID(ctx, r.ID)
	if errors.Is(err, storage.ErrNotFound) {
		fresh = r
	} else if err != nil {
		return nil, fmt.Errorf("load record %d: %w", r.ID, err)
	}

	if _, err := e.writer.Delete(ctx, r.ID); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch != e.epoch {
		return nil, ErrStaleSession
	}

	undo := &UndoContext{Record: fresh, Origin: Origin{PageIndex: -1}}
	if i := indexOf(e.recent, r.ID); i >= 0 {
		undo.Origin.InRecent = true
		e.recent = append(e.recent[:i], e.recent[i+1:]...)
		return undo, nil
	}
	for p, page := range e.pages {
		i := indexOf(page, r.ID)
		if i < 0 {
			continue
		}
		undo.Origin.PageIndex = p
		page = append(page[:i], page[i+1:]...)
		if len(page) == 0 {
			page = nil
		}
		e.pages[p] = page
		e.pageSizes[p]--
		return undo, nil
	}
	if e.filter.Matches(fresh.ExerciseID) {
		if p := e.firstEvicted(); p >= 0 {
			e.truncatePages(p)
		}
	}
	return undo, nil
}

// UndoDelete re-creates the record from its field values and puts it back
// into the cache slot it came from, or its canonical slot when that page
// is no longer cached. It gets a new ID and group index.
func (e *Engine) UndoDelete(ctx context.Context, undo *UndoContext) (*models.Record, error) {
	if undo == nil || undo.Record == nil {
		return nil, errors.New("undo context is empty")
	}

	e.mu.Lock()
	epoch, err := e.begin()
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	restored := undo.Record.Fields()
	if _, err := e.writer.Create(ctx, restored); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if epoch != e.epoch {
		return restored, ErrStaleSession
	}
	if !e.filter.Matches(restored.ExerciseID) {
		return restored, nil
	}

	if undo.Origin.InRecent {
		e.recent = models.InsertCanonical(e.recent, restored)
		return restored, nil
	}
	target := undo.Origin.PageIndex
	switch {
	case target < 0 || target >= len(e.pages):
		// The origin page is gone; find the slot again.
		e.place(restored)
	case e.pages[target] != nil:
		e.pages[target] = models.InsertCanonical(e.pages[target], restored)
		e.pageSizes[target]++
	case e.pageSizes[target] > 0:
		// Shows up when the page is reloaded.
		e.pageSizes[target]++
		delete(e.pageHeights, target)
		e.log.Debug("restored into evicted page", zap.Int("page", target), zap.Int64("id", restored.ID))
	default:
		e.place(restored)
	}
	return restored, nil
}

// RemoveOrphaned drops cached records whose exercise is no longer in
// validExerciseIDs. Pages left empty become evicted. Evicted pages cannot be
// counted, so the first of them and every page after it are forgotten and
// reloaded on demand. It returns the number of cached records removed.
func (e *Engine) RemoveOrphaned(validExerciseIDs []int64) int {
	valid := make(map[int64]struct{}, len(validExerciseIDs))
	for _, id := range validExerciseIDs {
		valid[id] = struct{}{}
	}
	keep := func(records []*models.Record) ([]*models.Record, int) {
		out := records[:0]
		for _, r := range records {
			if _, ok := valid[r.ExerciseID]; ok {
				out = append(out, r)
			}
		}
		return out, len(records) - len(out)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if p := e.firstEvicted(); p >= 0 {
		e.truncatePages(p)
	}

	var removed, n int
	e.recent, n = keep(e.recent)
	removed += n
	for i, page := range e.pages {
		page, n = keep(page)
		removed += n
		e.pageSizes[i] -= n
		if len(page) == 0 {
			page = nil
		}
		e.pages[i] = page
	}
	return removed
}
