// Package store runs Frontbase statements over database/sql.
//
// Store implements dialect.Conn on a *sql.DB: statements are serialized
// by querysql, executed with QueryContext or ExecContext, and result rows
// are scanned into frontbase.Row cells keyed by column name.
//
// # Drivers
//
// Open takes a database/sql driver name and DSN. Production deployments
// register a Frontbase driver; tests use go-sqlite3 (for round trips over
// the Frontbase subset SQLite accepts) and go-sqlmock (for exact SQL).
// When the driver is sqlite3, Open applies the pragmas below.
//
//   - busy_timeout=5000: 5-second wait on lock contention
//   - foreign_keys=ON: referential integrity
//
// # Transactions
//
// WithTransaction binds a Conn to a *sql.Tx. Calling WithTransaction on
// that Conn again reuses the open transaction; Frontbase has no nested
// transactions.
package store
