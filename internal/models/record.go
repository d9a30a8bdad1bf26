// ABOUTME: Record model for logged exercise sets and its canonical ordering.
// ABOUTME: Canonical order is (date desc, id desc); Filter restricts by exercise.
package models

import (
	"sort"
	"time"
)

// Record is a single logged entry: sets x reps at a weight for one exercise.
type Record struct {
	ID         int64   `json:"id" yaml:"id" db:"id"`
	ExerciseID int64   `json:"exercise_id" yaml:"exercise_id" db:"exercise_id" validate:"gt=0"`
	Sets       int     `json:"sets" yaml:"sets" db:"sets" validate:"gt=0"`
	Reps       int     `json:"reps" yaml:"reps" db:"reps" validate:"gt=0"`
	Weight     float64 `json:"weight" yaml:"weight" db:"weight"`
	Date       int64   `json:"date" yaml:"date" db:"date"`
	GroupIndex int64   `json:"group_index" yaml:"group_index" db:"group_index" validate:"gte=0"`
}

// NewRecord creates an unsaved Record dated now.
func NewRecord(exerciseID int64, sets, reps int, weight float64) *Record {
	return &Record{
		ExerciseID: exerciseID,
		Sets:       sets,
		Reps:       reps,
		Weight:     weight,
		Date:       time.Now().UnixMilli(),
	}
}

// WithDate sets the record date from a time value.
func (r *Record) WithDate(t time.Time) *Record {
	r.Date = t.UnixMilli()
	return r
}

// Time returns the record date as a time.Time in local time.
func (r *Record) Time() time.Time {
	return time.UnixMilli(r.Date)
}

// Fields returns a copy of r carrying only caller-controlled fields,
// with ID and GroupIndex cleared so it can be created again.
func (r *Record) Fields() *Record {
	return &Record{
		ExerciseID: r.ExerciseID,
		Sets:       r.Sets,
		Reps:       r.Reps,
		Weight:     r.Weight,
		Date:       r.Date,
	}
}

// SameValues reports whether two records carry identical field values,
// ignoring ID and GroupIndex.
func (r *Record) SameValues(o *Record) bool {
	return r.ExerciseID == o.ExerciseID &&
		r.Sets == o.Sets &&
		r.Reps == o.Reps &&
		r.Weight == o.Weight &&
		r.Date == o.Date
}

// Before reports whether a sorts before b in canonical order,
// i.e. a is more recent than b.
func Before(a, b *Record) bool {
	if a.Date != b.Date {
		return a.Date > b.Date
	}
	return a.ID > b.ID
}

// SortCanonical sorts records newest first.
func SortCanonical(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return Before(records[i], records[j])
	})
}

// InsertCanonical inserts r into an already canonically sorted slice.
func InsertCanonical(records []*Record, r *Record) []*Record {
	idx := sort.Search(len(records), func(i int) bool {
		return Before(r, records[i])
	})
	records = append(records, nil)
	copy(records[idx+1:], records[idx:])
	records[idx] = r
	return records
}

// Filter restricts queries to a set of exercise IDs.
// The zero value matches every record.
type Filter map[int64]struct{}

// NewFilter builds a filter over the given exercise IDs.
func NewFilter(exerciseIDs ...int64) Filter {
	if len(exerciseIDs) == 0 {
		return nil
	}
	f := make(Filter, len(exerciseIDs))
	for _, id := range exerciseIDs {
		f[id] = struct{}{}
	}
	return f
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return len(f) == 0
}

// Matches reports whether a record's exercise passes the filter.
func (f Filter) Matches(exerciseID int64) bool {
	if f.IsEmpty() {
		return true
	}
	_, ok := f[exerciseID]
	return ok
}

// IDs returns the filtered exercise IDs in ascending order.
func (f Filter) IDs() []int64 {
	ids := make([]int64, 0, len(f))
	for id := range f {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
