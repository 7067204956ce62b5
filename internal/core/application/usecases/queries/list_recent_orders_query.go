package queries

import (
	"context"
	"errors"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/errs"
	"orderbot/internal/pkg/guard"
)

const (
	DefaultRecentLimit = 10
	MaxRecentLimit     = 100
)

var ErrListRecentOrdersQueryIsNotConstructed = errors.New(
	"ListRecentOrdersQuery must be created via NewListRecentOrdersQuery constructor",
)

// ListRecentOrdersQuery asks for the newest orders, at most limit of them.
type ListRecentOrdersQuery struct {
	limit int
	guard guard.ConstructorGuard
}

// NewListRecentOrdersQuery accepts a limit between 1 and MaxRecentLimit.
func NewListRecentOrdersQuery(limit int) (ListRecentOrdersQuery, error) {
	if limit < 1 || limit > MaxRecentLimit {
		return ListRecentOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxRecentLimit)
	}
	return ListRecentOrdersQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListRecentOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListRecentOrdersQueryIsNotConstructed)
}

// Limit returns the maximum number of orders to return.
func (q ListRecentOrdersQuery) Limit() int {
	return q.limit
}

// ListRecentOrdersQueryHandler returns the newest orders first.
type ListRecentOrdersQueryHandler struct {
	reader ports.OrderReader
}

// NewListRecentOrdersQueryHandler creates the handler.
func NewListRecentOrdersQueryHandler(reader ports.OrderReader) ListRecentOrdersQueryHandler {
	return ListRecentOrdersQueryHandler{reader: reader}
}

// Handle returns at most query.Limit() orders; an empty table yields an empty slice.
func (h ListRecentOrdersQueryHandler) Handle(ctx context.Context, query ListRecentOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.reader.ListRecent(ctx, query.Limit())
}
