// Package workflow is the order workflow engine: the single entry point the
// chat front end uses to read and change orders. Every operation checks the
// caller against the access guard before touching the store, and every store
// failure is reported as ErrStoreUnavailable.
package workflow

import (
	"context"

	"orderbot/internal/core/application/usecases/commands"
	"orderbot/internal/core/application/usecases/queries"
	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"
	"orderbot/internal/core/ports"
)

// Statistics are the figures shown on the statistics screen.
type Statistics = queries.GetStatisticsQueryResponse

// BulkResult reports how many orders a bulk action was asked to touch and
// how many it actually affected.
type BulkResult struct {
	Action    commands.BulkAction
	Requested int
	Affected  int64
}

// Engine wires the access guard, the selection set and the order use cases.
type Engine struct {
	guard     services.AccessGuard
	selection *Selection

	listRecent   queries.ListRecentOrdersQueryHandler
	getOrder     queries.GetOrderQueryHandler
	search       queries.SearchOrdersByContactQueryHandler
	byStatus     queries.ListOrdersByStatusQueryHandler
	statistics   queries.GetStatisticsQueryHandler
	export       queries.ExportOrdersQueryHandler
	dailySales   queries.GetDailySalesQueryHandler
	changeStatus commands.ChangeOrderStatusCommandHandler
	deleteOrder  commands.DeleteOrderCommandHandler
	bulk         commands.ApplyBulkActionCommandHandler
}

// NewEngine creates an engine with an empty selection.
func NewEngine(
	guard services.AccessGuard,
	reader ports.OrderReader,
	uowFactory commands.OrderUoWFactory,
) *Engine {
	return &Engine{
		guard:     guard,
		selection: NewSelection(),

		listRecent:   queries.NewListRecentOrdersQueryHandler(reader),
		getOrder:     queries.NewGetOrderQueryHandler(reader),
		search:       queries.NewSearchOrdersByContactQueryHandler(reader),
		byStatus:     queries.NewListOrdersByStatusQueryHandler(reader),
		statistics:   queries.NewGetStatisticsQueryHandler(reader),
		export:       queries.NewExportOrdersQueryHandler(reader),
		dailySales:   queries.NewGetDailySalesQueryHandler(reader),
		changeStatus: commands.NewChangeOrderStatusCommandHandler(uowFactory),
		deleteOrder:  commands.NewDeleteOrderCommandHandler(uowFactory),
		bulk:         commands.NewApplyBulkActionCommandHandler(uowFactory),
	}
}

// IsAuthorized reports whether callerID is the admin.
func (e *Engine) IsAuthorized(callerID int64) bool {
	return e.guard.IsAuthorized(callerID)
}

func (e *Engine) authorize(callerID int64) error {
	if !e.guard.IsAuthorized(callerID) {
		return ErrNotAuthorized
	}
	return nil
}

// ListRecent returns at most limit orders, newest first.
func (e *Engine) ListRecent(ctx context.Context, callerID int64, limit int) ([]*order.Order, error) {
	if err := e.authorize(callerID); err != nil {
		return nil, err
	}

	q, err := queries.NewListRecentOrdersQuery(limit)
	if err != nil {
		return nil, err
	}

	orders, err := e.listRecent.Handle(ctx, q)
	return orders, classify(err)
}

// GetByID returns one order. A missing order is reported with an error
// matching IsNotFound.
func (e *Engine) GetByID(ctx context.Context, callerID int64, id string) (*order.Order, error) {
	if err := e.authorize(callerID); err != nil {
		return nil, err
	}

	q, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return nil, err
	}

	o, err := e.getOrder.Handle(ctx, q)
	return o, classify(err)
}

// SearchByContact returns orders whose contact email or phone equals query.
func (e *Engine) SearchByContact(ctx context.Context, callerID int64, query string) ([]*order.Order, error) {
	if err := e.authorize(callerID); err != nil {
		return nil, err
	}

	orders, err := e.search.Handle(ctx, queries.NewSearchOrdersByContactQuery(query))
	return orders, classify(err)
}

// SetStatus replaces the status of one order and returns the updated order.
// Any status may follow any other; unknown statuses are stored verbatim.
func (e *Engine) SetStatus(ctx context.Context, callerID int64, id, status string) (*order.Order, error) {
	if err := e.authorize(callerID); err != nil {
		return nil, err
	}

	s, err := order.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	cmd, err := commands.NewChangeOrderStatusCommand(id, s)
	if err != nil {
		return nil, err
	}

	o, err := e.changeStatus.Handle(ctx, cmd)
	return o, classify(err)
}

// DeleteOrder removes an order permanently.
func (e *Engine) DeleteOrder(ctx context.Context, callerID int64, id string) error {
	if err := e.authorize(callerID); err != nil {
		return err
	}

	cmd, err := commands.NewDeleteOrderCommand(id)
	if err != nil {
		return err
	}

	return classify(e.deleteOrder.Handle(ctx, cmd))
}

// ListByStatusFilter returns up to twenty orders with the given status, or
// any status for "all".
func (e *Engine) ListByStatusFilter(ctx context.Context, callerID int64, statusOrAll string) ([]*order.Order, error) {
	if err := e.authorize(callerID); err != nil {
		return nil, err
	}

	q, err := queries.NewListOrdersByStatusQuery(statusOrAll)
	if err != nil {
		return nil, err
	}

	orders, err := e.byStatus.Handle(ctx, q)
	return orders, classify(err)
}

// SelectForBulk adds id to the selection and returns its new size.
func (e *Engine) SelectForBulk(callerID int64, id string) (int, error) {
	if err := e.authorize(callerID); err != nil {
		return 0, err
	}
	if id == "" {
		return e.selection.Len(), nil
	}
	return e.selection.Add(id), nil
}

// Selected returns the current selection.
func (e *Engine) Selected(callerID int64) ([]string, error) {
	if err := e.authorize(callerID); err != nil {
		return nil, err
	}
	return e.selection.IDs(), nil
}

// ClearSelection empties the selection without running any action.
func (e *Engine) ClearSelection(callerID int64) error {
	if err := e.authorize(callerID); err != nil {
		return err
	}
	e.selection.Clear()
	return nil
}

// ExecuteBulkAction applies action ("delete" or "setstatus_<status>") to ids
// in one transaction. The affected count may be lower than the number of ids;
// that is not an error. The selection is cleared afterwards whatever the outcome.
func (e *Engine) ExecuteBulkAction(
	ctx context.Context,
	callerID int64,
	action string,
	ids []string,
) (BulkResult, error) {
	if err := e.authorize(callerID); err != nil {
		return BulkResult{}, err
	}
	defer e.selection.Clear()

	a, err := commands.ParseBulkAction(action)
	if err != nil {
		return BulkResult{}, err
	}

	cmd, err := commands.NewApplyBulkActionCommand(a, ids)
	if err != nil {
		return BulkResult{}, err
	}

	affected, err := e.bulk.Handle(ctx, cmd)
	if err != nil {
		return BulkResult{}, classify(err)
	}

	return BulkResult{Action: a, Requested: len(cmd.OrderIDs()), Affected: affected}, nil
}

// ComputeStatistics returns count, sum and average of order totals plus the
// five best-selling product titles.
func (e *Engine) ComputeStatistics(ctx context.Context, callerID int64) (Statistics, error) {
	if err := e.authorize(callerID); err != nil {
		return Statistics{}, err
	}

	stats, err := e.statistics.Handle(ctx, queries.NewGetStatisticsQuery())
	return stats, classify(err)
}

// ExportAll returns every order newest first, or ErrNothingToExport.
func (e *Engine) ExportAll(ctx context.Context, callerID int64) ([]*order.Order, error) {
	if err := e.authorize(callerID); err != nil {
		return nil, err
	}

	orders, err := e.export.Handle(ctx, queries.NewExportOrdersQuery())
	return orders, classify(err)
}

// ComputeDailySales returns total sales per calendar day in ascending order.
func (e *Engine) ComputeDailySales(ctx context.Context, callerID int64) ([]services.DailyTotal, error) {
	if err := e.authorize(callerID); err != nil {
		return nil, err
	}

	series, err := e.dailySales.Handle(ctx, queries.NewGetDailySalesQuery())
	return series, classify(err)
}
