package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/musicschool-scheduler/internal/persistence"
	_ "modernc.org/sqlite"
)

// DefaultDSN opens a file-backed database with foreign keys enforced and
// write transactions acquiring the lock immediately. The immediate lock is
// what makes detect-then-persist safe against concurrent bookings.
const DefaultDSN = "file:musicschool.db?_txlock=immediate&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// Store implements persistence.Store on SQLite.
type Store struct {
	db *sql.DB
	q  queryer
}

// queryer abstracts *sql.DB and *sql.Tx so repository methods run unchanged
// inside and outside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to the SQLite database at dsn and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite allows a single writer; one connection avoids SQLITE_BUSY
	// churn between the pool's connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, q: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the raw handle for fixtures and directory repositories.
func (s *Store) DB() *sql.DB {
	return s.db
}

// InTransaction runs fn against a transaction-scoped view of the store. The
// transaction commits when fn returns nil and rolls back otherwise. Calls
// nested inside an open transaction reuse it.
func (s *Store) InTransaction(ctx context.Context, fn func(persistence.Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	scoped := &Store{db: s.db, q: tx}
	if err := fn(scoped); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapError translates SQLite driver errors into persistence sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if err == sql.ErrNoRows {
		return persistence.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrDuplicate, err)
	case strings.Contains(msg, "CHECK constraint failed"),
		strings.Contains(msg, "FOREIGN KEY constraint failed"),
		strings.Contains(msg, "NOT NULL constraint failed"):
		return fmt.Errorf("%w: %v", persistence.ErrConstraintViolation, err)
	}
	return err
}
