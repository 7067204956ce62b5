package queries

import (
	"context"
	"errors"
	"strings"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/guard"
)

var ErrSearchOrdersByContactQueryIsNotConstructed = errors.New(
	"SearchOrdersByContactQuery must be created via NewSearchOrdersByContactQuery constructor",
)

// SearchOrdersByContactQuery finds orders whose contact email or phone
// equals the query exactly. Matching is case-sensitive.
type SearchOrdersByContactQuery struct {
	contact string
	guard   guard.ConstructorGuard
}

// NewSearchOrdersByContactQuery trims surrounding whitespace from contact.
// An empty contact is valid and matches nothing.
func NewSearchOrdersByContactQuery(contact string) SearchOrdersByContactQuery {
	return SearchOrdersByContactQuery{
		contact: strings.TrimSpace(contact),
		guard:   guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q SearchOrdersByContactQuery) Validate() error {
	return q.guard.Validate(ErrSearchOrdersByContactQueryIsNotConstructed)
}

// Contact returns the value to match.
func (q SearchOrdersByContactQuery) Contact() string {
	return q.contact
}

// SearchOrdersByContactQueryHandler runs the exact-match contact search.
type SearchOrdersByContactQueryHandler struct {
	reader ports.OrderReader
}

// NewSearchOrdersByContactQueryHandler creates the handler.
func NewSearchOrdersByContactQueryHandler(reader ports.OrderReader) SearchOrdersByContactQueryHandler {
	return SearchOrdersByContactQueryHandler{reader: reader}
}

// Handle returns every match newest first, unbounded.
func (h SearchOrdersByContactQueryHandler) Handle(
	ctx context.Context,
	query SearchOrdersByContactQuery,
) ([]*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if query.Contact() == "" {
		return []*order.Order{}, nil
	}

	return h.reader.SearchByContact(ctx, query.Contact())
}
