// ABOUTME: Storage interfaces for records and exercises.
// ABOUTME: Implemented by the SQLite DB, BadgerStore and CharmStore backends.
package storage

import (
	"context"

	"github.com/harperreed/fitlog/internal/models"
)

//go:generate mockgen -source=repository.go -destination=../mocks/storage/mock_record_store.go -package=mock_storage RecordStore

// RecordStore is durable ordered storage of records.
// Ordering everywhere is canonical: date desc, id desc.
type RecordStore interface {
	// Insert stores r, assigns r.ID and returns it.
	Insert(ctx context.Context, r *models.Record) (int64, error)
	// Update rewrites sets, reps, weight and date of an existing record.
	Update(ctx context.Context, r *models.Record) error
	DeleteByID(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*models.Record, error)

	// FrontierRecord returns the newest record or ErrNotFound when empty.
	FrontierRecord(ctx context.Context) (*models.Record, error)
	CountInGroup(ctx context.Context, group int64) (int, error)
	// OneRecordInGroup returns any member of group or ErrNotFound.
	OneRecordInGroup(ctx context.Context, group int64) (*models.Record, error)
	ReassignGroup(ctx context.Context, from, to int64) error
	// ShiftGroupIndicesAbove lowers every group index greater than above by delta.
	ShiftGroupIndicesAbove(ctx context.Context, above, delta int64) error
	AssignGroup(ctx context.Context, id, group int64) error

	Page(ctx context.Context, offset, limit int, filter models.Filter) ([]*models.Record, error)
	TotalCount(ctx context.Context, filter models.Filter) (int, error)
	AllOrdered(ctx context.Context) ([]*models.Record, error)

	DeleteByExercise(ctx context.Context, exerciseID int64) (int, error)
	ExerciseExists(ctx context.Context, id int64) (bool, error)

	// WithTransaction runs fn against a store bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// Calls on a store that is already transactional run fn directly.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error
}

// ExerciseStore persists the exercises records refer to.
type ExerciseStore interface {
	// CreateExercise stores e, assigns e.ID and returns it.
	// Returns ErrDuplicateExercise when the name is taken.
	CreateExercise(ctx context.Context, e *models.Exercise) (int64, error)
	GetExercise(ctx context.Context, id int64) (*models.Exercise, error)
	// ListExercises returns all exercises ordered by name.
	ListExercises(ctx context.Context) ([]*models.Exercise, error)
	UpdateExercise(ctx context.Context, e *models.Exercise) error
	// DeleteExercise removes an exercise and any records still referring to it.
	DeleteExercise(ctx context.Context, id int64) error
	ExerciseIDs(ctx context.Context) ([]int64, error)
}

// Store is the full set of data operations, usable inside a transaction.
type Store interface {
	RecordStore
	ExerciseStore
}

// Repository is a Store owning an underlying connection.
type Repository interface {
	Store
	Close() error
}
