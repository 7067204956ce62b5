package telegram

import (
	"context"
	"strings"

	"orderbot/internal/adapters/telegram/view"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Slash commands understood by the bot.
const (
	cmdStart       = "start"
	cmdHelp        = "help"
	cmdOrders      = "orders"
	cmdOrder       = "order"
	cmdSetStatus   = "setstatus"
	cmdDeleteOrder = "deleteorder"
	cmdFind        = "find"
	cmdStats       = "stats"
	cmdExport      = "export"
	cmdSales       = "sales"
	cmdClear       = "clear"
)

// BotCommands is the command list registered with Telegram for the menu button.
func BotCommands() []tgbotapi.BotCommand {
	return []tgbotapi.BotCommand{
		{Command: cmdStart, Description: "Main menu"},
		{Command: cmdOrders, Description: "Recent orders"},
		{Command: cmdOrder, Description: "Order details"},
		{Command: cmdSetStatus, Description: "Change order status"},
		{Command: cmdDeleteOrder, Description: "Delete an order"},
		{Command: cmdFind, Description: "Find orders by email or phone"},
		{Command: cmdStats, Description: "Statistics"},
		{Command: cmdSales, Description: "Sales chart"},
		{Command: cmdExport, Description: "Export orders to CSV"},
		{Command: cmdClear, Description: "Clear bulk selection"},
		{Command: cmdHelp, Description: "Help"},
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Chat == nil {
		return nil
	}
	to := target{chatID: msg.Chat.ID}

	caller, ok, err := d.authorize(ctx, to, msg.From)
	if !ok || err != nil {
		return err
	}

	if msg.IsCommand() {
		d.sessions.await(to.chatID, awaitNothing)
		return d.handleCommand(ctx, to, caller, msg.Command(), msg.CommandArguments())
	}

	text := strings.TrimSpace(msg.Text)
	switch d.sessions.take(to.chatID) {
	case awaitContact:
		return d.searchContact(ctx, to.chatID, caller, text)
	case awaitOrderID:
		return d.showOrder(ctx, to, caller, text)
	default:
		return d.showMainMenu(to)
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, to target, caller int64, name, rawArgs string) error {
	args := strings.Fields(rawArgs)
	switch name {
	case cmdStart:
		return d.showMainMenu(to)
	case cmdHelp:
		return d.showHelp(to)
	case cmdOrders:
		return d.showRecent(ctx, to, caller)
	case cmdOrder:
		if len(args) != 1 {
			return d.show(to, view.UsageOrder, noKeyboard)
		}
		return d.showOrder(ctx, to, caller, args[0])
	case cmdSetStatus:
		if len(args) != 2 {
			return d.show(to, view.UsageSetStatus, noKeyboard)
		}
		_, err := d.setStatus(ctx, to, caller, args[0], args[1])
		return err
	case cmdDeleteOrder:
		if len(args) != 1 {
			return d.show(to, view.UsageDeleteOrder, noKeyboard)
		}
		_, err := d.deleteOrder(ctx, to, caller, args[0])
		return err
	case cmdFind:
		// phones may contain spaces, so the whole argument is the query
		query := strings.TrimSpace(rawArgs)
		if query == "" {
			d.sessions.await(to.chatID, awaitContact)
			return d.show(to, view.FindContactPrompt, view.BackKeyboard())
		}
		return d.searchContact(ctx, to.chatID, caller, query)
	case cmdStats:
		return d.showStatistics(ctx, to, caller)
	case cmdExport:
		return d.export(ctx, to.chatID, caller)
	case cmdSales:
		return d.sales(ctx, to.chatID, caller)
	case cmdClear:
		if err := d.engine.ClearSelection(caller); err != nil {
			return d.fail(ctx, to, err)
		}
		return d.show(to, view.SelectionCleared, noKeyboard)
	default:
		return d.show(to, view.UnknownCommand, noKeyboard)
	}
}
