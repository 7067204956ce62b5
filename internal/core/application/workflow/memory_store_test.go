package workflow_test

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"orderbot/internal/core/application/usecases/commands"
	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/errs"
)

// memoryStore is an in-memory order table. It counts every access so tests
// can assert that rejected callers never reach the store, and it fails every
// call with err when err is set.
type memoryStore struct {
	mu       sync.Mutex
	orders   map[string]*order.Order
	accesses int
	err      error
}

func newMemoryStore(orders ...*order.Order) *memoryStore {
	s := &memoryStore{orders: make(map[string]*order.Order)}
	for _, o := range orders {
		s.orders[o.ID()] = o
	}
	return s
}

func (s *memoryStore) touch() error {
	s.accesses++
	return s.err
}

func (s *memoryStore) sorted() []*order.Order {
	out := make([]*order.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, clone(o))
	}
	slices.SortFunc(out, func(a, b *order.Order) int {
		return cmp.Or(b.CreatedAt().Compare(a.CreatedAt()), cmp.Compare(b.ID(), a.ID()))
	})
	return out
}

func clone(o *order.Order) *order.Order {
	c, _ := order.RestoreOrder(o.ID(), o.Status(), o.TotalPrice(), o.CreatedAt(), o.Contact(), o.Items())
	return c
}

func (s *memoryStore) Get(_ context.Context, id string) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id)
	}
	return clone(o), nil
}

func (s *memoryStore) Update(_ context.Context, o *order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return err
	}
	if _, ok := s.orders[o.ID()]; !ok {
		return errs.NewObjectNotFoundError("order", o.ID())
	}
	s.orders[o.ID()] = clone(o)
	return nil
}

func (s *memoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return err
	}
	if _, ok := s.orders[id]; !ok {
		return errs.NewObjectNotFoundError("order", id)
	}
	delete(s.orders, id)
	return nil
}

func (s *memoryStore) DeleteMany(_ context.Context, ids []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		if _, ok := s.orders[id]; ok {
			delete(s.orders, id)
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) UpdateStatusMany(_ context.Context, ids []string, status order.Status) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		if o, ok := s.orders[id]; ok {
			_ = o.ChangeStatus(status)
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) ListRecent(_ context.Context, limit int) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	all := s.sorted()
	return all[:min(limit, len(all))], nil
}

func (s *memoryStore) ListByStatus(_ context.Context, f order.StatusFilter, limit int) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	out := make([]*order.Order, 0)
	for _, o := range s.sorted() {
		if f.IsAll() || o.Status() == f.Status() {
			out = append(out, o)
		}
	}
	return out[:min(limit, len(out))], nil
}

func (s *memoryStore) SearchByContact(_ context.Context, query string) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	out := make([]*order.Order, 0)
	for _, o := range s.sorted() {
		if o.Contact().Matches(query) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memoryStore) ListAll(_ context.Context) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	return s.sorted(), nil
}

func (s *memoryStore) Newest(_ context.Context) (*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	all := s.sorted()
	if len(all) == 0 {
		return nil, errs.NewObjectNotFoundError("order", "newest")
	}
	return all[0], nil
}

func (s *memoryStore) ListPendingCreatedBefore(_ context.Context, cutoff time.Time) ([]*order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	out := make([]*order.Order, 0)
	for _, o := range s.sorted() {
		if o.Status() == order.Pending && o.CreatedAt().Before(cutoff) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *memoryStore) Totals(_ context.Context) (ports.OrderTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return ports.OrderTotals{}, err
	}
	var t ports.OrderTotals
	for _, o := range s.orders {
		t.Count++
		t.Sum += o.TotalPrice()
	}
	if t.Count > 0 {
		t.Average = t.Sum / float64(t.Count)
	}
	return t, nil
}

func (s *memoryStore) ListItems(_ context.Context) ([]order.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	var lines []order.Item
	for _, o := range s.orders {
		lines = append(lines, o.Items().Lines...)
	}
	return lines, nil
}

func (s *memoryStore) ListSales(_ context.Context) ([]services.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.touch(); err != nil {
		return nil, err
	}
	var sales []services.Sale
	for _, o := range s.orders {
		sales = append(sales, services.Sale{CreatedAt: o.CreatedAt(), TotalPrice: o.TotalPrice()})
	}
	return sales, nil
}

// Create makes memoryStore its own unit of work factory; transactions are no-ops.
func (s *memoryStore) Create() commands.OrderUoW {
	return memoryUoW{store: s}
}

type memoryUoW struct {
	store *memoryStore
}

func (memoryUoW) Begin(context.Context) error    { return nil }
func (memoryUoW) Commit(context.Context) error   { return nil }
func (memoryUoW) Rollback(context.Context) error { return nil }

func (u memoryUoW) OrderRepository() ports.OrderRepository {
	return u.store
}
