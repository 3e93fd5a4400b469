package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
)

// Store is a database/sql-backed dialect.Conn.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
	drop   frontbase.DropBehavior
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for executed statements.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDropBehavior overrides the clause of every DROP TABLE the store
// executes.
func WithDropBehavior(b frontbase.DropBehavior) Option {
	return func(s *Store) {
		s.drop = b
	}
}

// Open connects to dsn using the named database/sql driver.
//
// The connection is verified with a ping. For sqlite3 the pool is limited
// to a single connection, the package pragmas are applied and tables are
// dropped without a behavior clause.
func Open(driver, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		// SQLite only supports one writer at a time
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		if err := applyPragmas(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
		opts = append([]Option{WithDropBehavior(frontbase.DropUnqualified)}, opts...)
	}

	return New(db, opts...), nil
}

// New wraps an existing pool. The caller keeps ownership of db until
// Close is called.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     db,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}
