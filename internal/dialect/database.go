package dialect

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/roach88/fluentfrontbase/internal/frontbase"
	"github.com/roach88/fluentfrontbase/internal/ir"
	"github.com/roach88/fluentfrontbase/internal/queryir"
	"github.com/roach88/fluentfrontbase/internal/querysql"
)

// Conn is an open Frontbase connection.
type Conn interface {
	// Query runs stmt and calls fn for each result row, in order.
	Query(ctx context.Context, stmt frontbase.Statement, fn func(frontbase.Row) error) error

	// First runs raw SQL and returns its first row, or nil when there is none.
	First(ctx context.Context, sql string, binds ...any) (frontbase.Row, error)

	// WithTransaction runs fn inside a transaction on a connection bound to
	// it, committing when fn returns nil and rolling back otherwise.
	WithTransaction(ctx context.Context, fn func(Conn) error) error
}

// Handler receives each output row of a query together with the
// connection that produced it.
type Handler func(row frontbase.Row, conn Conn) error

// Supporting is the set of extension points the ORM calls on a dialect.
type Supporting interface {
	QueryExecute(ctx context.Context, conn Conn, q queryir.Query, handler Handler) error
	SchemaExecute(ctx context.Context, conn Conn, schema queryir.Schema) error
	SchemaField(ft queryir.FieldType, isIdentifier bool, field string) frontbase.ColumnDefinition
	ModelEvent(ctx context.Context, conn Conn, event queryir.ModelEvent, model queryir.Model) (queryir.Model, error)
	TransactionExecute(ctx context.Context, conn Conn, fn func(Conn) error) error
	NormalizeConstraintIdentifier(identifier string) string
	EnableReferences(ctx context.Context, conn Conn) error
	DisableReferences(ctx context.Context, conn Conn) error
}

var _ Supporting = (*Database)(nil)

// Database is the Frontbase dialect. It holds no mutable state and is
// safe for concurrent use.
type Database struct {
	logger  *slog.Logger
	newUUID func() uuid.UUID
}

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the logger used for statement tracing.
func WithLogger(l *slog.Logger) Option {
	return func(d *Database) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithUUIDGenerator replaces uuid.New for client-side identifiers.
func WithUUIDGenerator(gen func() uuid.UUID) Option {
	return func(d *Database) {
		if gen != nil {
			d.newUUID = gen
		}
	}
}

// New creates the dialect.
func New(opts ...Option) *Database {
	d := &Database{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		newUUID: uuid.New,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// trace logs a statement at debug level with its fingerprint.
func (d *Database) trace(ctx context.Context, stmt frontbase.Statement) {
	if !d.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	sql, binds, err := querysql.Serialize(stmt)
	if err != nil {
		d.logger.DebugContext(ctx, "statement not serializable", "type", stmtType(stmt), "error", err)
		return
	}
	fingerprint, err := ir.StatementFingerprint(sql, binds)
	if err != nil {
		fingerprint = ""
	}
	d.logger.DebugContext(ctx, "frontbase statement",
		"sql", sql,
		"binds", len(binds),
		"fingerprint", fingerprint,
	)
}

func stmtType(stmt frontbase.Statement) string {
	switch stmt.(type) {
	case frontbase.Insert:
		return "insert"
	case frontbase.Select:
		return "select"
	case frontbase.Update:
		return "update"
	case frontbase.Delete:
		return "delete"
	case frontbase.CreateTable:
		return "create table"
	case frontbase.AlterTable:
		return "alter table"
	case frontbase.DropTable:
		return "drop table"
	case frontbase.Raw:
		return "raw"
	default:
		return "unknown"
	}
}
