package queries

import (
	"context"
	"errors"
	"time"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/errs"
	"orderbot/internal/pkg/guard"
)

// DefaultOverdueAfter is how long an order may stay pending before it is overdue.
const DefaultOverdueAfter = 24 * time.Hour

var ErrGetOverdueOrdersQueryIsNotConstructed = errors.New(
	"GetOverdueOrdersQuery must be created via NewGetOverdueOrdersQuery constructor",
)

// GetOverdueOrdersQuery asks for pending orders created more than threshold before now.
type GetOverdueOrdersQuery struct {
	now       time.Time
	threshold time.Duration
	guard     guard.ConstructorGuard
}

// NewGetOverdueOrdersQuery requires a set reference time and a positive threshold.
func NewGetOverdueOrdersQuery(now time.Time, threshold time.Duration) (GetOverdueOrdersQuery, error) {
	q := GetOverdueOrdersQuery{guard: guard.NewConstructorGuard()}

	var errNow, errThreshold error
	if now.IsZero() {
		errNow = errs.NewValueIsRequiredError("now")
	}
	if threshold <= 0 {
		errThreshold = errs.NewValueIsInvalidError("overdue threshold")
	}
	if err := errors.Join(errNow, errThreshold); err != nil {
		return GetOverdueOrdersQuery{}, err
	}

	q.now = now
	q.threshold = threshold
	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOverdueOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOverdueOrdersQueryIsNotConstructed)
}

// Cutoff returns the creation time before which a pending order is overdue.
func (q GetOverdueOrdersQuery) Cutoff() time.Time {
	return q.now.Add(-q.threshold)
}

// GetOverdueOrdersQueryHandler scans for overdue orders.
type GetOverdueOrdersQueryHandler struct {
	reader ports.OrderReader
}

// NewGetOverdueOrdersQueryHandler creates the handler.
func NewGetOverdueOrdersQueryHandler(reader ports.OrderReader) GetOverdueOrdersQueryHandler {
	return GetOverdueOrdersQueryHandler{reader: reader}
}

// Handle returns the overdue orders, oldest first.
func (h GetOverdueOrdersQueryHandler) Handle(ctx context.Context, query GetOverdueOrdersQuery) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	return h.reader.ListPendingCreatedBefore(ctx, query.Cutoff())
}
