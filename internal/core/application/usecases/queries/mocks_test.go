package queries_test

import (
	"context"
	"time"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"
	"orderbot/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderReader struct{ mock.Mock }

func (m *MockOrderReader) Get(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	return orderArg(args, 0), args.Error(1)
}

func (m *MockOrderReader) ListRecent(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderReader) ListByStatus(ctx context.Context, f order.StatusFilter, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, f, limit)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderReader) SearchByContact(ctx context.Context, query string) ([]*order.Order, error) {
	args := m.Called(ctx, query)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderReader) ListAll(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderReader) Newest(ctx context.Context) (*order.Order, error) {
	args := m.Called(ctx)
	return orderArg(args, 0), args.Error(1)
}

func (m *MockOrderReader) ListPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	return ordersArg(args, 0), args.Error(1)
}

func (m *MockOrderReader) Totals(ctx context.Context) (ports.OrderTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(ports.OrderTotals), args.Error(1)
}

func (m *MockOrderReader) ListItems(ctx context.Context) ([]order.Item, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]order.Item)
	return items, args.Error(1)
}

func (m *MockOrderReader) ListSales(ctx context.Context) ([]services.Sale, error) {
	args := m.Called(ctx)
	sales, _ := args.Get(0).([]services.Sale)
	return sales, args.Error(1)
}

func orderArg(args mock.Arguments, i int) *order.Order {
	o, _ := args.Get(i).(*order.Order)
	return o
}

func ordersArg(args mock.Arguments, i int) []*order.Order {
	orders, _ := args.Get(i).([]*order.Order)
	return orders
}
