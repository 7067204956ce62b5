// Package watch detects new and overdue orders and hands them to a notifier.
// One call to RunCycle is one poll; scheduling lives in internal/jobs.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderbot/internal/core/application/usecases/queries"
	"orderbot/internal/core/ports"
	"orderbot/internal/pkg/errs"

	"github.com/google/uuid"
)

// CycleReport summarizes what one poll cycle found.
type CycleReport struct {
	CycleID    string
	NewOrderID string
	Overdue    int
	Notified   int
}

// Option configures a Poller.
type Option func(*Poller)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Poller) {
		p.now = now
	}
}

// WithOverdueAfter sets how long an order may stay pending. Non-positive values are ignored.
func WithOverdueAfter(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.overdueAfter = d
		}
	}
}

// Poller compares the newest order with the last-seen marker and scans for
// overdue orders.
type Poller struct {
	newest   queries.GetNewestOrderQueryHandler
	overdue  queries.GetOverdueOrdersQueryHandler
	markers  ports.MarkerStore
	notifier ports.Notifier
	logger   *slog.Logger

	overdueAfter time.Duration
	now          func() time.Time
}

// NewPoller creates a poller with a one day overdue threshold.
func NewPoller(
	reader ports.OrderReader,
	markers ports.MarkerStore,
	notifier ports.Notifier,
	logger *slog.Logger,
	opts ...Option,
) *Poller {
	p := &Poller{
		newest:       queries.NewGetNewestOrderQueryHandler(reader),
		overdue:      queries.NewGetOverdueOrdersQueryHandler(reader),
		markers:      markers,
		notifier:     notifier,
		logger:       logger.With("component", "order_poller"),
		overdueAfter: queries.DefaultOverdueAfter,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunCycle runs one poll. The new-order check and the overdue scan are
// independent: a failure in one does not skip the other, and both failures
// are returned joined. Notification failures are logged here and not returned.
//
// The marker is written only after a different newest order was fetched
// successfully, and it is written even if the notification failed.
func (p *Poller) RunCycle(ctx context.Context) (CycleReport, error) {
	report := CycleReport{CycleID: uuid.NewString()}
	logger := p.logger.With("cycle_id", report.CycleID)

	newErr := p.checkNewest(ctx, logger, &report)
	overdueErr := p.checkOverdue(ctx, logger, &report)

	return report, errors.Join(newErr, overdueErr)
}

func (p *Poller) checkNewest(ctx context.Context, logger *slog.Logger, report *CycleReport) error {
	newest, err := p.newest.Handle(ctx, queries.NewGetNewestOrderQuery())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch newest order: %w", err)
	}

	marker, err := p.markers.Load(ctx)
	if err != nil {
		return fmt.Errorf("load marker: %w", err)
	}

	if newest.ID() == marker {
		return nil
	}

	report.NewOrderID = newest.ID()
	logger.InfoContext(ctx, "New order detected", "order_id", newest.ID(), "previous_order_id", marker)

	if err = p.notifier.Notify(ctx, ports.Notification{Kind: ports.NewOrderNotification, Order: newest}); err != nil {
		logger.ErrorContext(ctx, "Failed to notify about new order", "order_id", newest.ID(), "error", err)
	} else {
		report.Notified++
	}

	if err = p.markers.Save(ctx, newest.ID()); err != nil {
		return fmt.Errorf("save marker: %w", err)
	}

	return nil
}

func (p *Poller) checkOverdue(ctx context.Context, logger *slog.Logger, report *CycleReport) error {
	q, err := queries.NewGetOverdueOrdersQuery(p.now().UTC(), p.overdueAfter)
	if err != nil {
		return err
	}

	orders, err := p.overdue.Handle(ctx, q)
	if err != nil {
		return fmt.Errorf("fetch overdue orders: %w", err)
	}

	report.Overdue = len(orders)

	for _, o := range orders {
		if err = p.notifier.Notify(ctx, ports.Notification{Kind: ports.OverdueOrderNotification, Order: o}); err != nil {
			logger.ErrorContext(ctx, "Failed to notify about overdue order", "order_id", o.ID(), "error", err)
			continue
		}
		report.Notified++
	}

	return nil
}
