package queries

import (
	"context"
	"errors"

	"orderbot/internal/core/domain/services"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/guard"
)

var ErrGetStatisticsQueryIsNotConstructed = errors.New(
	"GetStatisticsQuery must be created via NewGetStatisticsQuery constructor",
)

// GetStatisticsQuery asks for the store-wide sales figures.
type GetStatisticsQuery struct {
	guard guard.ConstructorGuard
}

// NewGetStatisticsQuery creates the parameterless statistics query.
func NewGetStatisticsQuery() GetStatisticsQuery {
	return GetStatisticsQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetStatisticsQuery) Validate() error {
	return q.guard.Validate(ErrGetStatisticsQueryIsNotConstructed)
}

// GetStatisticsQueryResponse holds the totals and the best sellers.
// Average is zero when there are no orders.
type GetStatisticsQueryResponse struct {
	Count       int64
	Sum         float64
	Average     float64
	TopProducts []services.ProductQuantity
}

// GetStatisticsQueryHandler combines the store totals with the top products.
type GetStatisticsQueryHandler struct {
	reader ports.OrderReader
}

// NewGetStatisticsQueryHandler creates the handler.
func NewGetStatisticsQueryHandler(reader ports.OrderReader) GetStatisticsQueryHandler {
	return GetStatisticsQueryHandler{reader: reader}
}

// Handle computes the statistics.
func (h GetStatisticsQueryHandler) Handle(
	ctx context.Context,
	query GetStatisticsQuery,
) (GetStatisticsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetStatisticsQueryResponse{}, err
	}

	totals, err := h.reader.Totals(ctx)
	if err != nil {
		return GetStatisticsQueryResponse{}, err
	}

	lines, err := h.reader.ListItems(ctx)
	if err != nil {
		return GetStatisticsQueryResponse{}, err
	}

	return GetStatisticsQueryResponse{
		Count:       totals.Count,
		Sum:         totals.Sum,
		Average:     totals.Average,
		TopProducts: services.TopProducts(lines, services.TopProductsLimit),
	}, nil
}
