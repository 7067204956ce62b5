package ports

import (
	"context"

	"orderbot/internal/core/domain/model/order"
)

// NotificationKind tells the transport how to present a notification.
type NotificationKind int

const (
	// NewOrderNotification announces an order the administrator has not seen.
	NewOrderNotification NotificationKind = iota + 1

	// OverdueOrderNotification reminds about an order stuck in pending.
	OverdueOrderNotification
)

func (k NotificationKind) String() string {
	switch k {
	case NewOrderNotification:
		return "new_order"
	case OverdueOrderNotification:
		return "overdue_order"
	default:
		return "unknown"
	}
}

// Notification is a transient event produced by the change poller.
type Notification struct {
	Kind  NotificationKind
	Order *order.Order
}

// Notifier delivers notifications to the administrator.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
