package workflow

import (
	"context"
	"errors"
	"fmt"

	"orderbot/internal/core/application/usecases/queries"
	"orderbot/internal/pkg/errs"
)

var (
	// ErrNotAuthorized is returned for every operation attempted by a caller
	// other than the configured admin. No store access happens in that case.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrStoreUnavailable wraps every failure that is not a domain outcome.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNothingToExport is returned by ExportAll for an empty order table.
	ErrNothingToExport = queries.ErrNothingToExport
)

// domainOutcomes are passed to callers unchanged; everything else is a store failure.
var domainOutcomes = []error{
	ErrNotAuthorized,
	ErrNothingToExport,
	errs.ErrObjectNotFound,
	errs.ErrValueIsRequired,
	errs.ErrValueIsInvalid,
	errs.ErrValueIsOutOfRange,
	context.Canceled,
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range domainOutcomes {
		if errors.Is(err, target) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

// IsNotFound reports whether err is the normal "no such order" outcome.
func IsNotFound(err error) bool {
	return errors.Is(err, errs.ErrObjectNotFound)
}

// IsInvalidInput reports whether err was caused by a malformed argument.
func IsInvalidInput(err error) bool {
	return errors.Is(err, errs.ErrValueIsRequired) ||
		errors.Is(err, errs.ErrValueIsInvalid) ||
		errors.Is(err, errs.ErrValueIsOutOfRange)
}
