package view

import (
	"strings"
	"testing"
	"time"

	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback_RoundTrip(t *testing.T) {
	tests := []struct {
		data string
		kind CallbackKind
		args []string
	}{
		{"main_menu", CallbackMainMenu, nil},
		{"orders", CallbackOrders, nil},
		{OrderPayload("cm1"), CallbackOrder, []string{"cm1"}},
		{SetStatusPayload("cm1", "paid"), CallbackSetStatus, []string{"cm1", "paid"}},
		{DeleteConfirmPayload("cm1"), CallbackDeleteConfirm, []string{"cm1"}},
		{DeletePayload("cm1"), CallbackDelete, []string{"cm1"}},
		{FilterPayload("all"), CallbackFilter, []string{"all"}},
		{MassPickPayload("cm1"), CallbackMassPick, []string{"cm1"}},
		{MassActionPayload("setstatus_done"), CallbackMassAction, []string{"setstatus_done"}},
		{"export", CallbackExport, nil},
		{"help", CallbackHelp, nil},
	}

	for _, tt := range tests {
		t.Run(tt.data, func(t *testing.T) {
			cb, err := ParseCallback(tt.data)

			require.NoError(t, err)
			assert.Equal(t, tt.kind, cb.Kind)
			assert.Equal(t, tt.args, cb.Args)
			assert.Equal(t, tt.data, cb.String())
		})
	}
}

func TestParseCallback_LastArgumentKeepsColons(t *testing.T) {
	cb, err := ParseCallback("setstatus:cm1:on:hold")

	require.NoError(t, err)
	assert.Equal(t, "cm1", cb.Arg(0))
	assert.Equal(t, "on:hold", cb.Arg(1))
	assert.Equal(t, "", cb.Arg(2))
}

func TestParseCallback_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"empty", "", errs.ErrValueIsRequired},
		{"unknown action", "refund:cm1", errs.ErrValueIsInvalid},
		{"missing argument", "order", errs.ErrValueIsInvalid},
		{"missing second argument", "setstatus:cm1", errs.ErrValueIsInvalid},
		{"unexpected argument", "orders:cm1", errs.ErrValueIsInvalid},
		{"empty argument", "order:", errs.ErrValueIsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCallback(tt.data)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestOrderKeyboard(t *testing.T) {
	kb := OrderKeyboard("cm1")

	require.Len(t, kb.InlineKeyboard, 4)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[1], 2)
	assert.Equal(t, "setstatus:cm1:pending", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "setstatus:cm1:done", *kb.InlineKeyboard[1][1].CallbackData)
	assert.Equal(t, "deleteorder_confirm:cm1", *kb.InlineKeyboard[2][0].CallbackData)
	assert.Equal(t, "main_menu", *kb.InlineKeyboard[3][0].CallbackData)
}

func TestOrderKeyboard_DropsOversizedPayloads(t *testing.T) {
	kb := OrderKeyboard(strings.Repeat("a", 60))

	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "main_menu", *kb.InlineKeyboard[0][0].CallbackData)
}

func TestMassSelectKeyboard_CapsAtTwenty(t *testing.T) {
	orders := make([]*order.Order, 0, 25)
	for i := 0; i < 25; i++ {
		o, err := order.RestoreOrder(
			"order-"+strings.Repeat("z", i+1),
			order.Pending,
			10,
			time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
			order.Contact{},
			order.Items{},
		)
		require.NoError(t, err)
		orders = append(orders, o)
	}

	kb := MassSelectKeyboard(orders)

	require.Len(t, kb.InlineKeyboard, 11)
	assert.Equal(t, "masspick:order-z", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "order-z... [🟡 Pending]", kb.InlineKeyboard[0][0].Text)
}

func TestMassActionKeyboard(t *testing.T) {
	kb := MassActionKeyboard()

	var payloads []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			payloads = append(payloads, *b.CallbackData)
		}
	}

	assert.Equal(t, []string{
		"ma:delete",
		"ma:setstatus_pending",
		"ma:setstatus_paid",
		"ma:setstatus_cancelled",
		"ma:setstatus_done",
		"main_menu",
	}, payloads)
}

func TestFilterMenuKeyboard(t *testing.T) {
	kb := FilterMenuKeyboard()

	require.Len(t, kb.InlineKeyboard, 4)
	assert.Equal(t, "of:all", *kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "All", kb.InlineKeyboard[0][0].Text)
}
