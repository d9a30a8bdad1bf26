// ABOUTME: SQLite database connection, lifecycle and transactions.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required) through sqlx.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// DB is the SQLite implementation of Repository.
type DB struct {
	db     *sqlx.DB
	q      sqlx.ExtContext
	dbPath string
	mu     *sync.Mutex
	inTx   bool
	log    *zap.Logger
}

// Option configures a DB.
type Option func(*DB)

// WithLogger sets the logger used for transaction diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(d *DB) {
		if log != nil {
			d.log = log
		}
	}
}

// Open opens or creates a SQLite database at the given path.
func Open(dbPath string, opts ...Option) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sqlx.Open(driverName, dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := Wrap(db, opts...)
	d.dbPath = dbPath

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if err := d.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return d, nil
}

// Wrap builds a DB over an existing connection without touching the schema.
func Wrap(db *sqlx.DB, opts ...Option) *DB {
	d := &DB{db: db, q: db, mu: &sync.Mutex{}, log: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OpenDefault opens the database at the default XDG data path.
func OpenDefault(opts ...Option) (*DB, error) {
	return Open(DefaultDBPath(), opts...)
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "fitlog")
}

// DefaultDBPath returns the default database path following XDG spec.
func DefaultDBPath() string {
	return filepath.Join(DataDir(), "fitlog.db")
}

// Path returns the database file path, empty for wrapped connections.
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.inTx {
		return nil
	}
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// WithTransaction runs fn inside one transaction. Write transactions are
// serialized through a mutex shared by every view of the same connection.
func (d *DB) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	if d.inTx {
		return fn(d)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	return runInTx(ctx, d.db, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(&DB{db: d.db, q: tx, dbPath: d.dbPath, mu: d.mu, inTx: true, log: d.log})
	}, d.log)
}

// runInTx runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back; otherwise, it is committed.
func runInTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error, log *zap.Logger) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return wrapErr("begin transaction", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Warn("rollback failed", zap.Error(rbErr), zap.NamedError("cause", err))
			return wrapErr("rollback transaction", fmt.Errorf("%w (original error: %v)", rbErr, err))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrapErr("commit transaction", err)
	}
	return nil
}

// dsn applies per-connection pragmas to every connection in the pool.
func dsn(dbPath string) string {
	return "file:" + dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// configurePragmas sets up SQLite for optimal performance.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}
