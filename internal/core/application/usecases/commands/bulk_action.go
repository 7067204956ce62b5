package commands

import (
	"fmt"
	"strings"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/pkg/errs"
)

// BulkActionKind enumerates what a bulk action does to the selected orders.
type BulkActionKind int

const (
	BulkDelete BulkActionKind = iota + 1
	BulkSetStatus
)

const (
	bulkDeleteName    = "delete"
	bulkSetStatusName = "setstatus_"
)

// BulkAction is either a delete or a set-status to one target status.
type BulkAction struct {
	kind   BulkActionKind
	status order.Status
}

// NewBulkDeleteAction returns the delete action.
func NewBulkDeleteAction() BulkAction {
	return BulkAction{kind: BulkDelete}
}

// NewBulkSetStatusAction returns the action that sets status on every selected order.
func NewBulkSetStatusAction(status order.Status) (BulkAction, error) {
	if err := status.Validate(); err != nil {
		return BulkAction{}, err
	}
	return BulkAction{kind: BulkSetStatus, status: status}, nil
}

// ParseBulkAction accepts "delete" or "setstatus_<status>".
func ParseBulkAction(raw string) (BulkAction, error) {
	if raw == bulkDeleteName {
		return NewBulkDeleteAction(), nil
	}

	if rest, ok := strings.CutPrefix(raw, bulkSetStatusName); ok && rest != "" {
		return NewBulkSetStatusAction(order.Status(rest))
	}

	return BulkAction{}, errs.NewValueIsInvalidErrorWithCause(
		"bulk action",
		fmt.Errorf("%q is not %q or %q<status>", raw, bulkDeleteName, bulkSetStatusName),
	)
}

// Kind returns the action kind; zero for an unconstructed action.
func (a BulkAction) Kind() BulkActionKind {
	return a.kind
}

// Status returns the target status of a set-status action.
func (a BulkAction) Status() order.Status {
	return a.status
}

// String renders the action in the form ParseBulkAction accepts.
func (a BulkAction) String() string {
	switch a.kind {
	case BulkDelete:
		return bulkDeleteName
	case BulkSetStatus:
		return bulkSetStatusName + a.status.String()
	default:
		return ""
	}
}
