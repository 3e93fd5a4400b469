package dialect

import "context"

// TransactionExecute runs fn in a transaction on conn. The result of fn,
// including its error, is returned unchanged.
func (d *Database) TransactionExecute(ctx context.Context, conn Conn, fn func(Conn) error) error {
	return conn.WithTransaction(ctx, fn)
}
