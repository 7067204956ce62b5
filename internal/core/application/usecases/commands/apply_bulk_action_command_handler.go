package commands

import (
	"context"
)

// ApplyBulkActionCommandHandler runs a bulk delete or bulk status change as a
// single statement inside one transaction.
//
// Example:
//
//	action, _ := ParseBulkAction("setstatus_paid")
//	cmd, _ := NewApplyBulkActionCommand(action, []string{"a", "b", "c"})
//	affected, err := handler.Handle(ctx, cmd)
//	// affected may be less than 3 if some orders were already gone
type ApplyBulkActionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewApplyBulkActionCommandHandler creates a handler for bulk actions.
func NewApplyBulkActionCommandHandler(uowFactory OrderUoWFactory) ApplyBulkActionCommandHandler {
	return ApplyBulkActionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle returns how many orders were actually affected. Missing ids are not
// an error. An empty id list returns zero without touching the store.
func (h ApplyBulkActionCommandHandler) Handle(ctx context.Context, cmd ApplyBulkActionCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	ids := cmd.OrderIDs()
	if len(ids) == 0 {
		return 0, nil
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	var (
		affected int64
		err      error
	)
	switch cmd.Action().Kind() {
	case BulkDelete:
		affected, err = repo.DeleteMany(ctx, ids)
	case BulkSetStatus:
		affected, err = repo.UpdateStatusMany(ctx, ids, cmd.Action().Status())
	}
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return affected, nil
}
