package queries

import (
	"context"
	"errors"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/guard"
)

var ErrGetNewestOrderQueryIsNotConstructed = errors.New(
	"GetNewestOrderQuery must be created via NewGetNewestOrderQuery constructor",
)

// GetNewestOrderQuery asks for the most recently created order.
type GetNewestOrderQuery struct {
	guard guard.ConstructorGuard
}

// NewGetNewestOrderQuery creates the parameterless query.
func NewGetNewestOrderQuery() GetNewestOrderQuery {
	return GetNewestOrderQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetNewestOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetNewestOrderQueryIsNotConstructed)
}

// GetNewestOrderQueryHandler reads the newest order.
type GetNewestOrderQueryHandler struct {
	reader ports.OrderReader
}

// NewGetNewestOrderQueryHandler creates the handler.
func NewGetNewestOrderQueryHandler(reader ports.OrderReader) GetNewestOrderQueryHandler {
	return GetNewestOrderQueryHandler{reader: reader}
}

// Handle returns the newest order or errs.ObjectNotFoundError for an empty table.
func (h GetNewestOrderQueryHandler) Handle(ctx context.Context, query GetNewestOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.reader.Newest(ctx)
}
