package queries

import (
	"context"
	"errors"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/guard"
)

// StatusFilterLimit caps how many orders a status filter returns.
const StatusFilterLimit = 20

var ErrListOrdersByStatusQueryIsNotConstructed = errors.New(
	"ListOrdersByStatusQuery must be created via NewListOrdersByStatusQuery constructor",
)

// ListOrdersByStatusQuery lists orders with one status, or all orders.
type ListOrdersByStatusQuery struct {
	filter order.StatusFilter
	guard  guard.ConstructorGuard
}

// NewListOrdersByStatusQuery parses raw as a status or the "all" sentinel.
func NewListOrdersByStatusQuery(raw string) (ListOrdersByStatusQuery, error) {
	filter, err := order.ParseStatusFilter(raw)
	if err != nil {
		return ListOrdersByStatusQuery{}, err
	}
	return ListOrdersByStatusQuery{filter: filter, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersByStatusQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersByStatusQueryIsNotConstructed)
}

// Filter returns the status filter.
func (q ListOrdersByStatusQuery) Filter() order.StatusFilter {
	return q.filter
}

// ListOrdersByStatusQueryHandler runs the status filter.
type ListOrdersByStatusQueryHandler struct {
	reader ports.OrderReader
}

// NewListOrdersByStatusQueryHandler creates the handler.
func NewListOrdersByStatusQueryHandler(reader ports.OrderReader) ListOrdersByStatusQueryHandler {
	return ListOrdersByStatusQueryHandler{reader: reader}
}

// Handle returns at most StatusFilterLimit matching orders, newest first.
func (h ListOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query ListOrdersByStatusQuery,
) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.reader.ListByStatus(ctx, query.Filter(), StatusFilterLimit)
}
