// ABOUTME: Exercise operations for the SQLite backend.
// ABOUTME: Name uniqueness is case-insensitive through the name_key column.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/jmoiron/sqlx"
)

// CreateExercise stores a new exercise and assigns its ID.
func (d *DB) CreateExercise(ctx context.Context, e *models.Exercise) (int64, error) {
	e.Name = models.NormalizeName(e.Name)
	taken, err := d.nameTaken(ctx, e.Name, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrDuplicateExercise
	}

	res, err := d.q.ExecContext(ctx,
		`INSERT INTO exercises (name, name_key) VALUES (?, ?)`, e.Name, models.NameKey(e.Name))
	if err != nil {
		return 0, wrapErr("create exercise", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("create exercise", err)
	}
	e.ID = id
	return id, nil
}

// GetExercise retrieves an exercise by ID.
func (d *DB) GetExercise(ctx context.Context, id int64) (*models.Exercise, error) {
	var e models.Exercise
	if err := sqlx.GetContext(ctx, d.q, &e, `SELECT id, name FROM exercises WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapErr("get exercise", err)
	}
	return &e, nil
}

// ListExercises returns all exercises ordered by name.
func (d *DB) ListExercises(ctx context.Context) ([]*models.Exercise, error) {
	var exercises []*models.Exercise
	if err := sqlx.SelectContext(ctx, d.q, &exercises,
		`SELECT id, name FROM exercises ORDER BY name_key, id`); err != nil {
		return nil, wrapErr("list exercises", err)
	}
	return exercises, nil
}

// UpdateExercise renames an exercise.
func (d *DB) UpdateExercise(ctx context.Context, e *models.Exercise) error {
	e.Name = models.NormalizeName(e.Name)
	taken, err := d.nameTaken(ctx, e.Name, e.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateExercise
	}

	res, err := d.q.ExecContext(ctx,
		`UPDATE exercises SET name = ?, name_key = ? WHERE id = ?`, e.Name, models.NameKey(e.Name), e.ID)
	if err != nil {
		return wrapErr("update exercise", err)
	}
	return requireAffected(res, "update exercise")
}

// DeleteExercise removes an exercise; foreign keys cascade to its records.
func (d *DB) DeleteExercise(ctx context.Context, id int64) error {
	res, err := d.q.ExecContext(ctx, `DELETE FROM exercises WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete exercise", err)
	}
	return requireAffected(res, "delete exercise")
}

// ExerciseIDs returns the IDs of all exercises in ascending order.
func (d *DB) ExerciseIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := sqlx.SelectContext(ctx, d.q, &ids, `SELECT id FROM exercises ORDER BY id`); err != nil {
		return nil, wrapErr("list exercise ids", err)
	}
	return ids, nil
}

// nameTaken reports whether another exercise already uses name.
func (d *DB) nameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, d.q, &n,
		`SELECT COUNT(*) FROM exercises WHERE name_key = ? AND id != ?`, models.NameKey(name), exceptID)
	if err != nil {
		return false, wrapErr("check exercise name", err)
	}
	return n > 0, nil
}
