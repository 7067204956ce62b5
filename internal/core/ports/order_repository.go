package ports

import (
	"context"
	"time"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"
)

// OrderRepository defines the mutation contract for orders. Orders are never
// added: the storefront owns creation. Every method keys on the order id.
type OrderRepository interface {
	// Get retrieves an order by id.
	// Returns errs.ObjectNotFoundError when no row matches.
	Get(ctx context.Context, id string) (*order.Order, error)

	// Update persists the mutable state (the status) of an existing order.
	// Returns errs.ObjectNotFoundError when the row no longer exists.
	Update(ctx context.Context, aggregate *order.Order) error

	// Delete removes an order.
	// Returns errs.ObjectNotFoundError when no row matches.
	Delete(ctx context.Context, id string) error

	// DeleteMany removes every order whose id is in ids in one statement and
	// returns how many rows were actually removed.
	DeleteMany(ctx context.Context, ids []string) (int64, error)

	// UpdateStatusMany sets status on every order whose id is in ids in one
	// statement and returns how many rows were actually changed.
	UpdateStatusMany(ctx context.Context, ids []string, status order.Status) (int64, error)
}

// OrderTotals are the aggregate figures over the whole order table.
type OrderTotals struct {
	Count   int64
	Sum     float64
	Average float64
}

// OrderReader defines the read-only queries the bot runs. Lists are ordered
// newest first unless stated otherwise; an empty result is an empty slice.
type OrderReader interface {
	// Get retrieves an order by id.
	// Returns errs.ObjectNotFoundError when no row matches.
	Get(ctx context.Context, id string) (*order.Order, error)

	// ListRecent returns at most limit orders.
	ListRecent(ctx context.Context, limit int) ([]*order.Order, error)

	// ListByStatus returns at most limit orders matching filter.
	ListByStatus(ctx context.Context, filter order.StatusFilter, limit int) ([]*order.Order, error)

	// SearchByContact returns every order whose contact email or phone equals query exactly.
	SearchByContact(ctx context.Context, query string) ([]*order.Order, error)

	// ListAll returns every order.
	ListAll(ctx context.Context) ([]*order.Order, error)

	// Newest returns the most recently created order.
	// Returns errs.ObjectNotFoundError when the table is empty.
	Newest(ctx context.Context) (*order.Order, error)

	// ListPendingCreatedBefore returns pending orders created strictly before cutoff.
	ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error)

	// Totals returns count, sum and average of the order totals.
	Totals(ctx context.Context) (OrderTotals, error)

	// ListItems returns the lines of every order, flattened.
	ListItems(ctx context.Context) ([]order.Item, error)

	// ListSales returns creation time and total of every order, oldest first.
	ListSales(ctx context.Context) ([]services.Sale, error)
}
