package queries

import (
	"context"
	"errors"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/guard"
)

var (
	ErrExportOrdersQueryIsNotConstructed = errors.New(
		"ExportOrdersQuery must be created via NewExportOrdersQuery constructor",
	)
	// ErrNothingToExport is returned when the order table is empty.
	ErrNothingToExport = errors.New("nothing to export")
)

// ExportOrdersQuery asks for every order, newest first, for serialization.
type ExportOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewExportOrdersQuery creates the parameterless export query.
func NewExportOrdersQuery() ExportOrdersQuery {
	return ExportOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q ExportOrdersQuery) Validate() error {
	return q.guard.Validate(ErrExportOrdersQueryIsNotConstructed)
}

// ExportOrdersQueryHandler loads the full order set.
type ExportOrdersQueryHandler struct {
	reader ports.OrderReader
}

// NewExportOrdersQueryHandler creates the handler.
func NewExportOrdersQueryHandler(reader ports.OrderReader) ExportOrdersQueryHandler {
	return ExportOrdersQueryHandler{reader: reader}
}

// Handle returns all orders or ErrNothingToExport when there are none.
func (h ExportOrdersQueryHandler) Handle(ctx context.Context, query ExportOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.reader.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return nil, ErrNothingToExport
	}

	return orders, nil
}
