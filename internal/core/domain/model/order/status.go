package order

import (
	"fmt"
	"slices"

	"orderbot/internal/pkg/errs"
)

// Status is the lifecycle label of an order. The storefront stores it as free
// text, so Status is an open enum: the constants below are the known variants
// and any other non-empty value is an unknown status that is preserved and
// rendered verbatim.
type Status string

const (
	Pending   Status = "pending"
	Paid      Status = "paid"
	Cancelled Status = "cancelled"
	Done      Status = "done"
)

// AllStatuses is the sentinel accepted by ParseStatusFilter that selects every order.
const AllStatuses = "all"

// KnownStatuses returns the known variants in menu order.
func KnownStatuses() []Status {
	return []Status{Pending, Paid, Cancelled, Done}
}

// ParseStatus turns a raw value into a Status. Unknown values are accepted;
// only the empty string is rejected.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if err := s.Validate(); err != nil {
		return "", err
	}
	return s, nil
}

// Validate rejects the empty status.
func (s Status) Validate() error {
	if s == "" {
		return errs.NewValueIsRequiredError("status")
	}
	return nil
}

// IsKnown reports whether s is one of the known variants.
func (s Status) IsKnown() bool {
	return slices.Contains(KnownStatuses(), s)
}

func (s Status) String() string {
	return string(s)
}

// StatusFilter selects orders either by a single status or, for the "all"
// sentinel, without any status restriction.
type StatusFilter struct {
	status Status
	all    bool
}

// ParseStatusFilter accepts "all" or any non-empty status value.
func ParseStatusFilter(raw string) (StatusFilter, error) {
	if raw == AllStatuses {
		return StatusFilter{all: true}, nil
	}

	s, err := ParseStatus(raw)
	if err != nil {
		return StatusFilter{}, errs.NewValueIsInvalidErrorWithCause(
			"status filter",
			fmt.Errorf("%q is neither %q nor a status", raw, AllStatuses),
		)
	}
	return StatusFilter{status: s}, nil
}

// FilterByStatus builds a filter for one status.
func FilterByStatus(s Status) StatusFilter {
	return StatusFilter{status: s}
}

// IsAll reports whether the filter matches every order.
func (f StatusFilter) IsAll() bool {
	return f.all
}

// Status returns the filtered status; it is empty when IsAll is true.
func (f StatusFilter) Status() Status {
	return f.status
}

func (f StatusFilter) String() string {
	if f.all {
		return AllStatuses
	}
	return f.status.String()
}
