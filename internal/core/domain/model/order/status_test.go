package order_test

import (
	"testing"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Known(t *testing.T) {
	t.Run("should list known statuses in menu order", func(t *testing.T) {
		assert.Equal(t,
			[]order.Status{order.Pending, order.Paid, order.Cancelled, order.Done},
			order.KnownStatuses())
	})

	t.Run("should recognise known statuses", func(t *testing.T) {
		for _, s := range order.KnownStatuses() {
			assert.True(t, s.IsKnown(), s.String())
		}
	})

	t.Run("should treat other values as unknown", func(t *testing.T) {
		assert.False(t, order.Status("processing").IsKnown())
		assert.False(t, order.Status("Paid").IsKnown())
	})
}

func TestParseStatus(t *testing.T) {
	t.Run("should keep unknown values verbatim", func(t *testing.T) {
		s, err := order.ParseStatus("refunded")

		require.NoError(t, err)
		assert.Equal(t, order.Status("refunded"), s)
		assert.Equal(t, "refunded", s.String())
	})

	t.Run("should parse known values", func(t *testing.T) {
		s, err := order.ParseStatus("paid")

		require.NoError(t, err)
		assert.Equal(t, order.Paid, s)
	})

	t.Run("should reject empty status", func(t *testing.T) {
		_, err := order.ParseStatus("")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Contains(t, err.Error(), "status")
	})
}

func TestParseStatusFilter(t *testing.T) {
	t.Run("should accept the all sentinel", func(t *testing.T) {
		f, err := order.ParseStatusFilter("all")

		require.NoError(t, err)
		assert.True(t, f.IsAll())
		assert.Empty(t, f.Status())
		assert.Equal(t, "all", f.String())
	})

	t.Run("should accept a single status", func(t *testing.T) {
		f, err := order.ParseStatusFilter("pending")

		require.NoError(t, err)
		assert.False(t, f.IsAll())
		assert.Equal(t, order.Pending, f.Status())
		assert.Equal(t, "pending", f.String())
	})

	t.Run("should reject empty filter", func(t *testing.T) {
		_, err := order.ParseStatusFilter("")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "status filter")
	})

	t.Run("should build filter from status", func(t *testing.T) {
		f := order.FilterByStatus(order.Done)

		assert.False(t, f.IsAll())
		assert.Equal(t, order.Done, f.Status())
	})
}
