package commands

import (
	"errors"

	"orderbot/internal/pkg/errs"
	"orderbot/internal/pkg/guard"
)

var ErrApplyBulkActionCommandIsNotConstructed = errors.New(
	"ApplyBulkActionCommand must be created via NewApplyBulkActionCommand constructor",
)

// ApplyBulkActionCommand applies one BulkAction to a set of orders.
// Duplicate ids are dropped; the first occurrence keeps its position.
type ApplyBulkActionCommand struct { //nolint:recvcheck //using for validation
	action   BulkAction
	orderIDs []string

	guard guard.ConstructorGuard
}

// NewApplyBulkActionCommand validates the action and the ids. An empty id
// list is allowed and affects nothing.
func NewApplyBulkActionCommand(action BulkAction, orderIDs []string) (ApplyBulkActionCommand, error) {
	cmd := ApplyBulkActionCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAction(action),
		cmd.setOrderIDs(orderIDs),
	); err != nil {
		return ApplyBulkActionCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ApplyBulkActionCommand) Validate() error {
	return c.guard.Validate(ErrApplyBulkActionCommandIsNotConstructed)
}

// Action returns the action to apply.
func (c ApplyBulkActionCommand) Action() BulkAction {
	return c.action
}

// OrderIDs returns a copy of the distinct ids.
func (c ApplyBulkActionCommand) OrderIDs() []string {
	return append([]string(nil), c.orderIDs...)
}

func (c *ApplyBulkActionCommand) setAction(action BulkAction) error {
	if action.Kind() != BulkDelete && action.Kind() != BulkSetStatus {
		return errs.NewValueIsRequiredError("bulk action")
	}

	c.action = action
	return nil
}

func (c *ApplyBulkActionCommand) setOrderIDs(orderIDs []string) error {
	seen := make(map[string]struct{}, len(orderIDs))
	ids := make([]string, 0, len(orderIDs))
	for _, id := range orderIDs {
		if id == "" {
			return errs.NewValueIsRequiredError("order id")
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	c.orderIDs = ids
	return nil
}
