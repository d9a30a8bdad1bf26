// ABOUTME: Badger KV implementation of Repository.
// ABOUTME: Records live under ordered index keys so paging is a prefix scan.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/fitlog/internal/models"
	"go.uber.org/zap"
)

// txnSource opens and commits badger transactions for a BadgerStore.
type txnSource interface {
	begin(update bool) (*badger.Txn, error)
	commit(txn *badger.Txn) error
	readOnly() bool
	close() error
}

type localBadger struct {
	db *badger.DB
}

func (l localBadger) begin(update bool) (*badger.Txn, error) {
	return l.db.NewTransaction(update), nil
}

func (l localBadger) commit(txn *badger.Txn) error {
	return txn.Commit()
}

func (l localBadger) readOnly() bool { return false }

func (l localBadger) close() error {
	return l.db.Close()
}

// BadgerStore keeps records and exercises in a badger database.
type BadgerStore struct {
	src txnSource
	txn *spillTxn
	mu  *sync.Mutex
	log *zap.Logger
	// afterCommit runs once a top-level write transaction has committed.
	afterCommit func() error
}

// OpenBadger opens or creates a badger database in dir.
// An empty dir opens an in-memory database.
func OpenBadger(dir string, log *zap.Logger) (*BadgerStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	return OpenBadgerWithOptions(opts, log)
}

// OpenBadgerWithOptions opens a badger database with explicit options.
func OpenBadgerWithOptions(opts badger.Options, log *zap.Logger) (*BadgerStore, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return newBadgerStore(localBadger{db: db}, log), nil
}

func newBadgerStore(src txnSource, log *zap.Logger) *BadgerStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &BadgerStore{src: src, mu: &sync.Mutex{}, log: log}
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	if s.txn != nil {
		return nil
	}
	return s.src.close()
}

// WithTransaction runs fn against a store bound to a single read-write txn.
func (s *BadgerStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	if s.txn != nil {
		return fn(s)
	}
	if s.src.readOnly() {
		return ErrReadOnly
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	txn, err := beginSpill(s.src, true)
	if err != nil {
		return wrapErr("begin transaction", err)
	}
	defer txn.discard()

	err = fn(&BadgerStore{src: s.src, txn: txn, mu: s.mu, log: s.log})
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		if txn.spilled > 0 {
			s.log.Warn("operation failed after partial commit; groups need repair",
				zap.Int("chunks", txn.spilled), zap.Error(err))
		}
		return err
	}
	if err := txn.commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	if txn.spilled > 0 {
		s.log.Debug("transaction spilled", zap.Int("chunks", txn.spilled))
	}
	return s.committed()
}

func (s *BadgerStore) committed() error {
	if s.afterCommit == nil {
		return nil
	}
	if err := s.afterCommit(); err != nil {
		s.log.Warn("post-commit hook failed", zap.Error(err))
	}
	return nil
}

// view runs fn in the bound txn or a fresh read-only one.
func (s *BadgerStore) view(fn func(txn *spillTxn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	txn, err := beginSpill(s.src, false)
	if err != nil {
		return err
	}
	defer txn.discard()
	return fn(txn)
}

// update runs fn in the bound txn or a fresh committed one.
func (s *BadgerStore) update(ctx context.Context, fn func(txn *spillTxn) error) error {
	if s.txn != nil {
		return fn(s.txn)
	}
	return s.WithTransaction(ctx, func(tx Store) error {
		return fn(tx.(*BadgerStore).txn)
	})
}

func getJSON(txn *spillTxn, key []byte, v any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return json.Unmarshal(val, v)
	})
}

func setJSON(txn *spillTxn, key []byte, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

func exists(txn *spillTxn, key []byte) (bool, error) {
	_, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func nextSeq(txn *spillTxn, key []byte) (int64, error) {
	var cur int64
	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
	case err != nil:
		return 0, err
	default:
		if err := item.Value(func(val []byte) error {
			cur = decodeID(val)
			return nil
		}); err != nil {
			return 0, err
		}
	}
	cur++
	return cur, txn.Set(key, be64(uint64(cur)))
}

// keysWithPrefix collects keys first so callers can rewrite them safely.
func keysWithPrefix(txn *spillTxn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

func putRecord(txn *spillTxn, r *models.Record) error {
	if err := setJSON(txn, recordKey(r.ID), r); err != nil {
		return err
	}
	if err := txn.Set(orderKey(r.Date, r.ID), orderValue(r.ID, r.ExerciseID)); err != nil {
		return err
	}
	return txn.Set(groupKey(r.GroupIndex, r.ID), nil)
}

func dropRecord(txn *spillTxn, r *models.Record) error {
	for _, k := range [][]byte{recordKey(r.ID), orderKey(r.Date, r.ID), groupKey(r.GroupIndex, r.ID)} {
		if err := txn.Delete(k); err != nil {
			return err
		}
	}
	return nil
}

func loadRecord(txn *spillTxn, id int64) (*models.Record, error) {
	var r models.Record
	if err := getJSON(txn, recordKey(id), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Insert stores a new record and assigns its ID.
func (s *BadgerStore) Insert(ctx context.Context, r *models.Record) (int64, error) {
	err := s.update(ctx, func(txn *spillTxn) error {
		ok, err := exists(txn, exerciseKey(r.ExerciseID))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("exercise %d does not exist", r.ExerciseID)
		}
		id, err := nextSeq(txn, keyRecordSeq)
		if err != nil {
			return err
		}
		stored := *r
		stored.ID = id
		if err := putRecord(txn, &stored); err != nil {
			return err
		}
		r.ID = id
		return nil
	})
	if err != nil {
		return 0, wrapErr("insert record", err)
	}
	return r.ID, nil
}

// Update rewrites the value fields of an existing record.
func (s *BadgerStore) Update(ctx context.Context, r *models.Record) error {
	return wrapErr("update record", s.update(ctx, func(txn *spillTxn) error {
		old, err := loadRecord(txn, r.ID)
		if err != nil {
			return err
		}
		if err := txn.Delete(orderKey(old.Date, old.ID)); err != nil {
			return err
		}
		next := *old
		next.Sets, next.Reps, next.Weight, next.Date = r.Sets, r.Reps, r.Weight, r.Date
		return putRecord(txn, &next)
	}))
}

// DeleteByID removes a record.
func (s *BadgerStore) DeleteByID(ctx context.Context, id int64) error {
	return wrapErr("delete record", s.update(ctx, func(txn *spillTxn) error {
		r, err := loadRecord(txn, id)
		if err != nil {
			return err
		}
		return dropRecord(txn, r)
	}))
}

// GetByID retrieves a record by ID.
func (s *BadgerStore) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	var r *models.Record
	err := s.view(func(txn *spillTxn) error {
		var err error
		r, err = loadRecord(txn, id)
		return err
	})
	return r, wrapErr("get record", err)
}

// FrontierRecord returns the newest record in canonical order.
func (s *BadgerStore) FrontierRecord(ctx context.Context) (*models.Record, error) {
	records, err := s.Page(ctx, 0, 1, nil)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records[0], nil
}

// CountInGroup returns the number of records carrying a group index.
func (s *BadgerStore) CountInGroup(ctx context.Context, group int64) (int, error) {
	var n int
	err := s.view(func(txn *spillTxn) error {
		n = len(keysWithPrefix(txn, groupPrefix(group)))
		return nil
	})
	return n, wrapErr("count group", err)
}

// OneRecordInGroup returns any record of a group.
func (s *BadgerStore) OneRecordInGroup(ctx context.Context, group int64) (*models.Record, error) {
	var r *models.Record
	err := s.view(func(txn *spillTxn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := groupPrefix(group)
		it := txn.NewIterator(opts)
		defer it.Close()

		it.Seek(prefix)
		if !it.ValidForPrefix(prefix) {
			return ErrNotFound
		}
		_, id := decodeGroupKey(it.Item().Key())
		var err error
		r, err = loadRecord(txn, id)
		return err
	})
	return r, wrapErr("get group record", err)
}

// moveGroups rewrites the group of every record whose group matches,
// mapping it through remap.
func moveGroups(txn *spillTxn, match func(group int64) bool, remap func(group int64) int64) error {
	for _, k := range keysWithPrefix(txn, prefixGroup) {
		group, id := decodeGroupKey(k)
		if !match(group) {
			continue
		}
		r, err := loadRecord(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(k); err != nil {
			return err
		}
		r.GroupIndex = remap(group)
		if err := setJSON(txn, recordKey(id), r); err != nil {
			return err
		}
		if err := txn.Set(groupKey(r.GroupIndex, id), nil); err != nil {
			return err
		}
	}
	return nil
}

// ReassignGroup moves every record of one group into another.
func (s *BadgerStore) ReassignGroup(ctx context.Context, from, to int64) error {
	return wrapErr("reassign group", s.update(ctx, func(txn *spillTxn) error {
		return moveGroups(txn,
			func(g int64) bool { return g == from },
			func(int64) int64 { return to })
	}))
}

// ShiftGroupIndicesAbove lowers every group index greater than above by delta.
func (s *BadgerStore) ShiftGroupIndicesAbove(ctx context.Context, above, delta int64) error {
	return wrapErr("shift groups", s.update(ctx, func(txn *spillTxn) error {
		return moveGroups(txn,
			func(g int64) bool { return g > above },
			func(g int64) int64 { return g - delta })
	}))
}

// AssignGroup sets the group index of a single record.
func (s *BadgerStore) AssignGroup(ctx context.Context, id, group int64) error {
	return wrapErr("assign group", s.update(ctx, func(txn *spillTxn) error {
		r, err := loadRecord(txn, id)
		if err != nil {
			return err
		}
		if r.GroupIndex == group {
			return nil
		}
		if err := txn.Delete(groupKey(r.GroupIndex, id)); err != nil {
			return err
		}
		r.GroupIndex = group
		if err := setJSON(txn, recordKey(id), r); err != nil {
			return err
		}
		return txn.Set(groupKey(group, id), nil)
	}))
}

// scanOrder visits order index entries matching filter in canonical order,
// skipping the first offset matches, until visit returns false.
func scanOrder(txn *spillTxn, offset int, filter models.Filter, visit func(id int64) bool) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefixOrder
	it := txn.NewIterator(opts)
	defer it.Close()

	skipped := 0
	for it.Seek(prefixOrder); it.ValidForPrefix(prefixOrder); it.Next() {
		var id, exerciseID int64
		if err := it.Item().Value(func(val []byte) error {
			if len(val) < 16 {
				return fmt.Errorf("corrupt order entry %x", it.Item().Key())
			}
			id, exerciseID = decodeOrderValue(val)
			return nil
		}); err != nil {
			return err
		}
		if !filter.Matches(exerciseID) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if !visit(id) {
			return nil
		}
	}
	return nil
}

// Page returns up to limit records starting at offset in canonical order.
func (s *BadgerStore) Page(ctx context.Context, offset, limit int, filter models.Filter) ([]*models.Record, error) {
	var records []*models.Record
	if limit <= 0 {
		return records, nil
	}
	err := s.view(func(txn *spillTxn) error {
		var ids []int64
		if err := scanOrder(txn, offset, filter, func(id int64) bool {
			ids = append(ids, id)
			return len(ids) < limit
		}); err != nil {
			return err
		}
		for _, id := range ids {
			r, err := loadRecord(txn, id)
			if err != nil {
				return err
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("page records", err)
	}
	return records, nil
}

// TotalCount returns the number of records matching filter.
func (s *BadgerStore) TotalCount(ctx context.Context, filter models.Filter) (int, error) {
	var n int
	err := s.view(func(txn *spillTxn) error {
		return scanOrder(txn, 0, filter, func(int64) bool {
			n++
			return true
		})
	})
	return n, wrapErr("count records", err)
}

// AllOrdered returns every record in canonical order.
func (s *BadgerStore) AllOrdered(ctx context.Context) ([]*models.Record, error) {
	var records []*models.Record
	err := s.view(func(txn *spillTxn) error {
		var ids []int64
		if err := scanOrder(txn, 0, nil, func(id int64) bool {
			ids = append(ids, id)
			return true
		}); err != nil {
			return err
		}
		for _, id := range ids {
			r, err := loadRecord(txn, id)
			if err != nil {
				return err
			}
			records = append(records, r)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("list records", err)
	}
	return records, nil
}

func deleteRecordsOf(txn *spillTxn, exerciseID int64) (int, error) {
	var ids []int64
	if err := scanOrder(txn, 0, models.NewFilter(exerciseID), func(id int64) bool {
		ids = append(ids, id)
		return true
	}); err != nil {
		return 0, err
	}
	for _, id := range ids {
		r, err := loadRecord(txn, id)
		if err != nil {
			return 0, err
		}
		if err := dropRecord(txn, r); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

// DeleteByExercise removes every record of an exercise.
func (s *BadgerStore) DeleteByExercise(ctx context.Context, exerciseID int64) (int, error) {
	var n int
	err := s.update(ctx, func(txn *spillTxn) error {
		var err error
		n, err = deleteRecordsOf(txn, exerciseID)
		return err
	})
	return n, wrapErr("delete exercise records", err)
}

// ExerciseExists reports whether an exercise exists.
func (s *BadgerStore) ExerciseExists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := s.view(func(txn *spillTxn) error {
		var err error
		ok, err = exists(txn, exerciseKey(id))
		return err
	})
	return ok, wrapErr("check exercise", err)
}

// CreateExercise stores a new exercise and assigns its ID.
func (s *BadgerStore) CreateExercise(ctx context.Context, e *models.Exercise) (int64, error) {
	e.Name = models.NormalizeName(e.Name)
	err := s.update(ctx, func(txn *spillTxn) error {
		taken, err := exists(txn, exerciseNameKey(models.NameKey(e.Name)))
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateExercise
		}
		id, err := nextSeq(txn, keyExerciseSeq)
		if err != nil {
			return err
		}
		stored := models.Exercise{ID: id, Name: e.Name}
		if err := setJSON(txn, exerciseKey(id), &stored); err != nil {
			return err
		}
		if err := txn.Set(exerciseNameKey(models.NameKey(e.Name)), be64(uint64(id))); err != nil {
			return err
		}
		e.ID = id
		return nil
	})
	if err != nil {
		return 0, wrapErr("create exercise", err)
	}
	return e.ID, nil
}

// GetExercise retrieves an exercise by ID.
func (s *BadgerStore) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	var e models.Exercise
	err := s.view(func(txn *spillTxn) error {
		return getJSON(txn, exerciseKey(id), &e)
	})
	if err != nil {
		return nil, wrapErr("get exercise", err)
	}
	return &e, nil
}

// ListExercises returns all exercises ordered by name.
func (s *BadgerStore) ListExercises(ctx context.Context) ([]*models.Exercise, error) {
	var exercises []*models.Exercise
	err := s.view(func(txn *spillTxn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefixExercise
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefixExercise); it.ValidForPrefix(prefixExercise); it.Next() {
			var e models.Exercise
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			}); err != nil {
				return err
			}
			exercises = append(exercises, &e)
		}
		return nil
	})
	if err != nil {
		return nil, wrapErr("list exercises", err)
	}
	sort.SliceStable(exercises, func(i, j int) bool {
		return models.NameKey(exercises[i].Name) < models.NameKey(exercises[j].Name)
	})
	return exercises, nil
}

// UpdateExercise renames an exercise.
func (s *BadgerStore) UpdateExercise(ctx context.Context, e *models.Exercise) error {
	e.Name = models.NormalizeName(e.Name)
	return wrapErr("update exercise", s.update(ctx, func(txn *spillTxn) error {
		var old models.Exercise
		if err := getJSON(txn, exerciseKey(e.ID), &old); err != nil {
			return err
		}
		oldKey, newKey := models.NameKey(old.Name), models.NameKey(e.Name)
		if oldKey != newKey {
			taken, err := exists(txn, exerciseNameKey(newKey))
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateExercise
			}
			if err := txn.Delete(exerciseNameKey(oldKey)); err != nil {
				return err
			}
			if err := txn.Set(exerciseNameKey(newKey), be64(uint64(e.ID))); err != nil {
				return err
			}
		}
		return setJSON(txn, exerciseKey(e.ID), &models.Exercise{ID: e.ID, Name: e.Name})
	}))
}

// DeleteExercise removes an exercise together with its records.
func (s *BadgerStore) DeleteExercise(ctx context.Context, id int64) error {
	return wrapErr("delete exercise", s.update(ctx, func(txn *spillTxn) error {
		var e models.Exercise
		if err := getJSON(txn, exerciseKey(id), &e); err != nil {
			return err
		}
		if _, err := deleteRecordsOf(txn, id); err != nil {
			return err
		}
		if err := txn.Delete(exerciseNameKey(models.NameKey(e.Name))); err != nil {
			return err
		}
		return txn.Delete(exerciseKey(id))
	}))
}

// ExerciseIDs returns the IDs of all exercises in ascending order.
func (s *BadgerStore) ExerciseIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := s.view(func(txn *spillTxn) error {
		for _, k := range keysWithPrefix(txn, prefixExercise) {
			ids = append(ids, decodeID(k[len(prefixExercise):]))
		}
		return nil
	})
	return ids, wrapErr("list exercise ids", err)
}
