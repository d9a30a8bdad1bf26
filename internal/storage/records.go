// ABOUTME: Record operations for the SQLite backend.
// ABOUTME: Group index queries back the contiguous-group maintenance.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/harperreed/fitlog/internal/models"
	"github.com/jmoiron/sqlx"
)

const recordColumns = `id, exercise_id, sets, reps, weight, date, group_index`

// Insert stores a new record and assigns its ID.
func (d *DB) Insert(ctx context.Context, r *models.Record) (int64, error) {
	res, err := d.q.ExecContext(ctx, `
		INSERT INTO records (exercise_id, sets, reps, weight, date, group_index)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ExerciseID, r.Sets, r.Reps, r.Weight, r.Date, r.GroupIndex)
	if err != nil {
		return 0, wrapErr("insert record", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, wrapErr("insert record", err)
	}
	r.ID = id
	return id, nil
}

// Update rewrites the value fields of an existing record.
func (d *DB) Update(ctx context.Context, r *models.Record) error {
	res, err := d.q.ExecContext(ctx, `
		UPDATE records SET sets = ?, reps = ?, weight = ?, date = ?
		WHERE id = ?`,
		r.Sets, r.Reps, r.Weight, r.Date, r.ID)
	if err != nil {
		return wrapErr("update record", err)
	}
	return requireAffected(res, "update record")
}

// DeleteByID removes a record.
func (d *DB) DeleteByID(ctx context.Context, id int64) error {
	res, err := d.q.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return wrapErr("delete record", err)
	}
	return requireAffected(res, "delete record")
}

// GetByID retrieves a record by ID.
func (d *DB) GetByID(ctx context.Context, id int64) (*models.Record, error) {
	return d.getRecord(ctx, "get record", `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
}

// FrontierRecord returns the newest record in canonical order.
func (d *DB) FrontierRecord(ctx context.Context) (*models.Record, error) {
	return d.getRecord(ctx, "get frontier record",
		`SELECT `+recordColumns+` FROM records ORDER BY date DESC, id DESC LIMIT 1`)
}

// CountInGroup returns the number of records carrying a group index.
func (d *DB) CountInGroup(ctx context.Context, group int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, d.q, &n, `SELECT COUNT(*) FROM records WHERE group_index = ?`, group); err != nil {
		return 0, wrapErr("count group", err)
	}
	return n, nil
}

// OneRecordInGroup returns any record of a group.
func (d *DB) OneRecordInGroup(ctx context.Context, group int64) (*models.Record, error) {
	return d.getRecord(ctx, "get group record",
		`SELECT `+recordColumns+` FROM records WHERE group_index = ? LIMIT 1`, group)
}

// ReassignGroup moves every record of one group into another.
func (d *DB) ReassignGroup(ctx context.Context, from, to int64) error {
	_, err := d.q.ExecContext(ctx, `UPDATE records SET group_index = ? WHERE group_index = ?`, to, from)
	return wrapErr("reassign group", err)
}

// ShiftGroupIndicesAbove lowers every group index greater than above by delta.
func (d *DB) ShiftGroupIndicesAbove(ctx context.Context, above, delta int64) error {
	_, err := d.q.ExecContext(ctx,
		`UPDATE records SET group_index = group_index - ? WHERE group_index > ?`, delta, above)
	return wrapErr("shift groups", err)
}

// AssignGroup sets the group index of a single record.
func (d *DB) AssignGroup(ctx context.Context, id, group int64) error {
	res, err := d.q.ExecContext(ctx, `UPDATE records SET group_index = ? WHERE id = ?`, group, id)
	if err != nil {
		return wrapErr("assign group", err)
	}
	return requireAffected(res, "assign group")
}

// Page returns up to limit records starting at offset in canonical order.
func (d *DB) Page(ctx context.Context, offset, limit int, filter models.Filter) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records`
	var args []any
	if !filter.IsEmpty() {
		q, inArgs, err := sqlx.In(` WHERE exercise_id IN (?)`, filter.IDs())
		if err != nil {
			return nil, wrapErr("page records", err)
		}
		query += q
		args = append(args, inArgs...)
	}
	query += ` ORDER BY date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	var records []*models.Record
	if err := sqlx.SelectContext(ctx, d.q, &records, d.q.Rebind(query), args...); err != nil {
		return nil, wrapErr("page records", err)
	}
	return records, nil
}

// TotalCount returns the number of records matching filter.
func (d *DB) TotalCount(ctx context.Context, filter models.Filter) (int, error) {
	query := `SELECT COUNT(*) FROM records`
	var args []any
	if !filter.IsEmpty() {
		q, inArgs, err := sqlx.In(` WHERE exercise_id IN (?)`, filter.IDs())
		if err != nil {
			return 0, wrapErr("count records", err)
		}
		query += q
		args = inArgs
	}

	var n int
	if err := sqlx.GetContext(ctx, d.q, &n, d.q.Rebind(query), args...); err != nil {
		return 0, wrapErr("count records", err)
	}
	return n, nil
}

// AllOrdered returns every record in canonical order.
func (d *DB) AllOrdered(ctx context.Context) ([]*models.Record, error) {
	var records []*models.Record
	err := sqlx.SelectContext(ctx, d.q, &records,
		`SELECT `+recordColumns+` FROM records ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, wrapErr("list records", err)
	}
	return records, nil
}

// DeleteByExercise removes every record of an exercise.
func (d *DB) DeleteByExercise(ctx context.Context, exerciseID int64) (int, error) {
	res, err := d.q.ExecContext(ctx, `DELETE FROM records WHERE exercise_id = ?`, exerciseID)
	if err != nil {
		return 0, wrapErr("delete exercise records", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, wrapErr("delete exercise records", err)
	}
	return int(n), nil
}

// ExerciseExists reports whether an exercise row exists.
func (d *DB) ExerciseExists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, d.q, &n, `SELECT COUNT(*) FROM exercises WHERE id = ?`, id); err != nil {
		return false, wrapErr("check exercise", err)
	}
	return n > 0, nil
}

func (d *DB) getRecord(ctx context.Context, op, query string, args ...any) (*models.Record, error) {
	var r models.Record
	if err := sqlx.GetContext(ctx, d.q, &r, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, wrapErr(op, err)
	}
	return &r, nil
}

func requireAffected(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr(op, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
