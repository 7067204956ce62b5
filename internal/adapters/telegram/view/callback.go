package view

import (
	"fmt"
	"strings"

	"orderbot/internal/pkg/errs"
)

// MaxCallbackData is the Telegram limit for inline button payloads, in bytes.
const MaxCallbackData = 64

// CallbackKind names what an inline button asks the bot to do.
type CallbackKind string

const (
	CallbackMainMenu      CallbackKind = "main_menu"
	CallbackOrders        CallbackKind = "orders"
	CallbackOrder         CallbackKind = "order"
	CallbackSetStatus     CallbackKind = "setstatus"
	CallbackDeleteConfirm CallbackKind = "deleteorder_confirm"
	CallbackDelete        CallbackKind = "deleteorder"
	CallbackFindMenu      CallbackKind = "find_menu"
	CallbackFindContact   CallbackKind = "find_contact"
	CallbackFindID        CallbackKind = "find_id"
	CallbackStats         CallbackKind = "stats"
	CallbackSalesGraph    CallbackKind = "sales_graph"
	CallbackFilterMenu    CallbackKind = "filter_menu"
	CallbackFilter        CallbackKind = "of"
	CallbackMassSelect    CallbackKind = "mass_select"
	CallbackMassPick      CallbackKind = "masspick"
	CallbackMassAction    CallbackKind = "ma"
	CallbackExport        CallbackKind = "export"
	CallbackHelp          CallbackKind = "help"
)

// argCount is the number of ':'-separated arguments each kind carries.
var argCount = map[CallbackKind]int{
	CallbackMainMenu:      0,
	CallbackOrders:        0,
	CallbackOrder:         1,
	CallbackSetStatus:     2,
	CallbackDeleteConfirm: 1,
	CallbackDelete:        1,
	CallbackFindMenu:      0,
	CallbackFindContact:   0,
	CallbackFindID:        0,
	CallbackStats:         0,
	CallbackSalesGraph:    0,
	CallbackFilterMenu:    0,
	CallbackFilter:        1,
	CallbackMassSelect:    0,
	CallbackMassPick:      1,
	CallbackMassAction:    1,
	CallbackExport:        0,
	CallbackHelp:          0,
}

// Callback is a decoded inline button payload.
type Callback struct {
	Kind CallbackKind
	Args []string
}

// Arg returns the i-th argument or "".
func (c Callback) Arg(i int) string {
	if i < 0 || i >= len(c.Args) {
		return ""
	}
	return c.Args[i]
}

// String encodes the callback back to its payload.
func (c Callback) String() string {
	if len(c.Args) == 0 {
		return string(c.Kind)
	}
	return string(c.Kind) + ":" + strings.Join(c.Args, ":")
}

// ParseCallback decodes a payload such as "setstatus:<id>:<status>". The last
// argument takes the rest of the payload, so statuses may contain ':'.
func ParseCallback(data string) (Callback, error) {
	if data == "" {
		return Callback{}, errs.NewValueIsRequiredError("callback data")
	}

	head, rest, hasArgs := strings.Cut(data, ":")
	kind := CallbackKind(head)
	n, ok := argCount[kind]
	if !ok {
		return Callback{}, errs.NewValueIsInvalidErrorWithCause(
			"callback data",
			fmt.Errorf("unknown action %q", head),
		)
	}

	if n == 0 {
		if hasArgs {
			return Callback{}, errs.NewValueIsInvalidErrorWithCause(
				"callback data",
				fmt.Errorf("%q takes no arguments", head),
			)
		}
		return Callback{Kind: kind}, nil
	}

	args := strings.SplitN(rest, ":", n)
	if !hasArgs || len(args) != n {
		return Callback{}, errs.NewValueIsInvalidErrorWithCause(
			"callback data",
			fmt.Errorf("%q expects %d argument(s)", head, n),
		)
	}
	for _, a := range args {
		if a == "" {
			return Callback{}, errs.NewValueIsRequiredError("callback argument")
		}
	}
	return Callback{Kind: kind, Args: args}, nil
}

func payload(kind CallbackKind, args ...string) string {
	return Callback{Kind: kind, Args: args}.String()
}

// OrderPayload opens the order card.
func OrderPayload(id string) string { return payload(CallbackOrder, id) }

// SetStatusPayload sets the order status.
func SetStatusPayload(id, status string) string { return payload(CallbackSetStatus, id, status) }

// DeleteConfirmPayload asks for delete confirmation.
func DeleteConfirmPayload(id string) string { return payload(CallbackDeleteConfirm, id) }

// DeletePayload deletes the order.
func DeletePayload(id string) string { return payload(CallbackDelete, id) }

// FilterPayload lists orders by status or "all".
func FilterPayload(statusOrAll string) string { return payload(CallbackFilter, statusOrAll) }

// MassPickPayload adds the order to the bulk selection.
func MassPickPayload(id string) string { return payload(CallbackMassPick, id) }

// MassActionPayload runs a bulk action over the current selection. Ids are
// not carried in the payload; the selection holds them.
func MassActionPayload(action string) string { return payload(CallbackMassAction, action) }
