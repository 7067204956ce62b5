package order

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"orderbot/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// RestoreOrder. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via RestoreOrder constructor")
)

// Order is a customer purchase as stored by the storefront.
//
// Order follows these invariants:
//   - Must have a non-empty identifier
//   - Status is never empty
//   - Total price is not negative
//   - Creation time is set and never changes
//   - Can only be created through RestoreOrder
type Order struct {
	// id is the storefront identifier, opaque to this application
	id string

	// status is the current lifecycle label
	status Status

	// totalPrice is the order sum in roubles
	totalPrice float64

	// createdAt is the storefront creation time
	createdAt time.Time

	// contact is the customer contact, possibly empty
	contact Contact

	// items are the ordered lines, possibly empty
	items Items

	// isConstructed ensures the order was created via RestoreOrder
	isConstructed bool
}

// RestoreOrder rebuilds an Order from persisted values.
//
// Example:
//
//	o, err := RestoreOrder("cm1x9k2", Pending, 1500, createdAt, Contact{Phone: "+7 (999) 123-45-67"}, Items{})
//	if err != nil {
//	    // Handle corrupted row
//	}
func RestoreOrder(
	id string,
	status Status,
	totalPrice float64,
	createdAt time.Time,
	contact Contact,
	items Items,
) (*Order, error) {
	o := &Order{
		contact:       contact,
		items:         Items{Lines: slices.Clone(items.Lines), Raw: items.Raw},
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setStatus(status),
		o.setTotalPrice(totalPrice),
		o.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed through RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id == other.id
}

// ID returns the order identifier.
func (o *Order) ID() string {
	return o.id
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// TotalPrice returns the order sum.
func (o *Order) TotalPrice() float64 {
	return o.totalPrice
}

// CreatedAt returns the storefront creation time.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Contact returns the customer contact.
func (o *Order) Contact() Contact {
	return o.contact
}

// Items returns a copy of the order lines.
func (o *Order) Items() Items {
	return Items{Lines: slices.Clone(o.items.Lines), Raw: o.items.Raw}
}

// ChangeStatus replaces the status. No transition graph is enforced: this is
// an administrative override, so any status may follow any other, including
// itself.
func (o *Order) ChangeStatus(status Status) error {
	return o.setStatus(status)
}

// IsOverdue reports whether the order is still pending after threshold has
// elapsed since creation.
func (o *Order) IsOverdue(now time.Time, threshold time.Duration) bool {
	return o.status == Pending && o.createdAt.Before(now.Add(-threshold))
}

func (o *Order) setID(id string) error {
	if id == "" {
		return errs.NewValueIsRequiredError("order id")
	}
	o.id = id
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setTotalPrice(totalPrice float64) error {
	if totalPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"total price is invalid",
			fmt.Errorf("%v is negative", totalPrice),
		)
	}
	o.totalPrice = totalPrice
	return nil
}

func (o *Order) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("created at")
	}
	o.createdAt = createdAt
	return nil
}
