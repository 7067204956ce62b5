package queries

import (
	"context"
	"errors"

	"orderbot/internal/core/domain/services"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/guard"
)

var ErrGetDailySalesQueryIsNotConstructed = errors.New(
	"GetDailySalesQuery must be created via NewGetDailySalesQuery constructor",
)

// GetDailySalesQuery asks for total sales per calendar day.
type GetDailySalesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetDailySalesQuery creates the parameterless daily sales query.
func NewGetDailySalesQuery() GetDailySalesQuery {
	return GetDailySalesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetDailySalesQuery) Validate() error {
	return q.guard.Validate(ErrGetDailySalesQueryIsNotConstructed)
}

// GetDailySalesQueryHandler builds the sales timeline.
type GetDailySalesQueryHandler struct {
	reader ports.OrderReader
}

// NewGetDailySalesQueryHandler creates the handler.
func NewGetDailySalesQueryHandler(reader ports.OrderReader) GetDailySalesQueryHandler {
	return GetDailySalesQueryHandler{reader: reader}
}

// Handle returns one entry per day in ascending order; no orders yields an empty series.
func (h GetDailySalesQueryHandler) Handle(
	ctx context.Context,
	query GetDailySalesQuery,
) ([]services.DailyTotal, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sales, err := h.reader.ListSales(ctx)
	if err != nil {
		return nil, err
	}

	return services.DailySales(sales), nil
}
