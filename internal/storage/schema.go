// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines the exercises and records tables with their ordering indexes.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS exercises (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		name_key TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		exercise_id INTEGER NOT NULL,
		sets INTEGER NOT NULL CHECK (sets > 0),
		reps INTEGER NOT NULL CHECK (reps > 0),
		weight REAL NOT NULL,
		date INTEGER NOT NULL,
		group_index INTEGER NOT NULL DEFAULT 0 CHECK (group_index >= 0),
		FOREIGN KEY (exercise_id) REFERENCES exercises(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_records_order ON records(date DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_records_exercise_order ON records(exercise_id, date DESC, id DESC);
	CREATE INDEX IF NOT EXISTS idx_records_group ON records(group_index);
	`

	_, err := d.db.Exec(schema)
	return err
}
