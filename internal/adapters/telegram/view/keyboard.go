package view

import (
	"orderbot/internal/core/domain/model/order"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	mainMenuLabel  = "🏠 Main menu"
	pickLimit      = 20
	shortIDLength  = 8
	detailsIDShort = 6
)

// buttonRows builds rows of at most perRow buttons. Buttons whose payload does
// not fit in MaxCallbackData are left out.
func buttonRows(perRow int, buttons ...tgbotapi.InlineKeyboardButton) [][]tgbotapi.InlineKeyboardButton {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(buttons)/perRow+1)
	row := make([]tgbotapi.InlineKeyboardButton, 0, perRow)
	for _, b := range buttons {
		if b.CallbackData != nil && len(*b.CallbackData) > MaxCallbackData {
			continue
		}
		row = append(row, b)
		if len(row) == perRow {
			rows = append(rows, row)
			row = make([]tgbotapi.InlineKeyboardButton, 0, perRow)
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func button(text, data string) tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardButtonData(text, data)
}

func mainMenuRow() []tgbotapi.InlineKeyboardButton {
	return tgbotapi.NewInlineKeyboardRow(button(mainMenuLabel, string(CallbackMainMenu)))
}

// MainMenuKeyboard is the root menu.
func MainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("📦 Recent orders", string(CallbackOrders))),
		tgbotapi.NewInlineKeyboardRow(button("🔍 Find order", string(CallbackFindMenu))),
		tgbotapi.NewInlineKeyboardRow(button("📊 Statistics", string(CallbackStats))),
		tgbotapi.NewInlineKeyboardRow(button("📈 Sales chart", string(CallbackSalesGraph))),
		tgbotapi.NewInlineKeyboardRow(button("🗂 Filter by status", string(CallbackFilterMenu))),
		tgbotapi.NewInlineKeyboardRow(button("🧩 Bulk actions", string(CallbackMassSelect))),
		tgbotapi.NewInlineKeyboardRow(button("📤 Export orders", string(CallbackExport))),
		tgbotapi.NewInlineKeyboardRow(button("❓ Help", string(CallbackHelp))),
	)
}

// BackKeyboard only leads back to the main menu.
func BackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(mainMenuRow())
}

// OrderKeyboard offers the known statuses and deletion for one order.
func OrderKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	statuses := make([]tgbotapi.InlineKeyboardButton, 0, len(order.KnownStatuses()))
	for _, s := range order.KnownStatuses() {
		statuses = append(statuses, button(StatusLabel(s), SetStatusPayload(id, s.String())))
	}

	rows := buttonRows(2, statuses...)
	rows = append(rows, buttonRows(1, button("❌ Delete order", DeleteConfirmPayload(id)))...)
	rows = append(rows, mainMenuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// DeleteConfirmKeyboard is the second step of deletion.
func DeleteConfirmKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	rows := buttonRows(1,
		button("❌ Confirm deletion", DeletePayload(id)),
		button("↩️ Cancel", OrderPayload(id)),
	)
	rows = append(rows, mainMenuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// RecentOrdersKeyboard links every listed order to its card.
func RecentOrdersKeyboard(orders []*order.Order) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(orders))
	for _, o := range orders {
		buttons = append(buttons, button("Details: "+shortID(o.ID(), detailsIDShort), OrderPayload(o.ID())))
	}
	rows := buttonRows(2, buttons...)
	rows = append(rows, mainMenuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// FindMenuKeyboard chooses the search mode.
func FindMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(button("🔎 By email or phone", string(CallbackFindContact))),
		tgbotapi.NewInlineKeyboardRow(button("🔎 By ID", string(CallbackFindID))),
		mainMenuRow(),
	)
}

// FilterMenuKeyboard offers "all" and every known status.
func FilterMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	buttons := []tgbotapi.InlineKeyboardButton{button("All", FilterPayload(order.AllStatuses))}
	for _, s := range order.KnownStatuses() {
		buttons = append(buttons, button(StatusLabel(s), FilterPayload(s.String())))
	}
	rows := buttonRows(2, buttons...)
	rows = append(rows, mainMenuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// MassSelectKeyboard lets the admin pick up to twenty orders for a bulk action.
func MassSelectKeyboard(orders []*order.Order) tgbotapi.InlineKeyboardMarkup {
	if len(orders) > pickLimit {
		orders = orders[:pickLimit]
	}
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(orders))
	for _, o := range orders {
		text := shortID(o.ID(), shortIDLength) + "... [" + StatusLabel(o.Status()) + "]"
		buttons = append(buttons, button(text, MassPickPayload(o.ID())))
	}
	rows := buttonRows(2, buttons...)
	rows = append(rows, mainMenuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// MassActionKeyboard lists the bulk actions for the current selection.
func MassActionKeyboard() tgbotapi.InlineKeyboardMarkup {
	buttons := []tgbotapi.InlineKeyboardButton{button("❌ Delete", MassActionPayload("delete"))}
	for _, s := range order.KnownStatuses() {
		buttons = append(buttons, button(StatusLabel(s), MassActionPayload("setstatus_"+s.String())))
	}
	rows := buttonRows(2, buttons...)
	rows = append(rows, mainMenuRow())
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func shortID(id string, n int) string {
	r := []rune(id)
	if len(r) <= n {
		return id
	}
	return string(r[:n])
}
