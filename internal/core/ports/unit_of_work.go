package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh unit of work per command, so a status
// change from the chat and a bulk action never share a transaction.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one transaction over the Order table. Callers Begin, defer
// Rollback and Commit on success; the deferred Rollback then fails harmlessly.
type UnitOfWork interface {
	// Begin opens the transaction.
	Begin(ctx context.Context) error

	// Commit makes the changes visible.
	// Returns an error when no transaction is open.
	Commit(ctx context.Context) error

	// Rollback discards the changes.
	Rollback(ctx context.Context) error

	// OrderRepository returns the repository bound to the open transaction.
	OrderRepository() OrderRepository
}
