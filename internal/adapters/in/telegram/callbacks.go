package telegram

import (
	"context"
	"fmt"

	"orderbot/internal/adapters/telegram/view"
	"orderbot/internal/core/domain/model/order"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// answer is the short toast shown on the button press.
type answer struct {
	text  string
	alert bool
}

func (d *Dispatcher) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q.Message == nil || q.Message.Chat == nil {
		d.answer(ctx, q.ID, answer{})
		return nil
	}
	to := target{chatID: q.Message.Chat.ID, messageID: q.Message.MessageID}

	caller, ok, err := d.authorize(ctx, to, q.From)
	if !ok || err != nil {
		d.answer(ctx, q.ID, answer{})
		return err
	}

	cb, err := view.ParseCallback(q.Data)
	if err != nil {
		d.logger.DebugContext(ctx, "ignoring callback", "data", q.Data, "error", err)
		d.answer(ctx, q.ID, answer{text: "Unknown action"})
		return nil
	}

	ans, err := d.route(ctx, to, caller, cb)
	d.answer(ctx, q.ID, ans)
	return err
}

// toast shows text only when the action went through.
func toast(text string, done bool) answer {
	if !done {
		return answer{}
	}
	return answer{text: text}
}

func (d *Dispatcher) route(ctx context.Context, to target, caller int64, cb view.Callback) (answer, error) {
	switch cb.Kind {
	case view.CallbackMainMenu:
		return answer{}, d.showMainMenu(to)
	case view.CallbackHelp:
		return answer{}, d.showHelp(to)
	case view.CallbackOrders:
		return answer{}, d.showRecent(ctx, to, caller)
	case view.CallbackOrder:
		return answer{}, d.showOrder(ctx, to, caller, cb.Arg(0))
	case view.CallbackSetStatus:
		done, err := d.setStatus(ctx, to, caller, cb.Arg(0), cb.Arg(1))
		return toast("✅ Status updated", done), err
	case view.CallbackDeleteConfirm:
		return answer{}, d.show(to, view.DeleteConfirm, view.DeleteConfirmKeyboard(cb.Arg(0)))
	case view.CallbackDelete:
		done, err := d.deleteOrder(ctx, to, caller, cb.Arg(0))
		return toast("🗑 Order deleted", done), err
	case view.CallbackFindMenu:
		d.sessions.await(to.chatID, awaitNothing)
		return answer{}, d.show(to, view.FindMenu, view.FindMenuKeyboard())
	case view.CallbackFindContact:
		d.sessions.await(to.chatID, awaitContact)
		return answer{}, d.show(to, view.FindContactPrompt, view.BackKeyboard())
	case view.CallbackFindID:
		d.sessions.await(to.chatID, awaitOrderID)
		return answer{}, d.show(to, view.FindIDPrompt, view.BackKeyboard())
	case view.CallbackStats:
		return answer{}, d.showStatistics(ctx, to, caller)
	case view.CallbackFilterMenu:
		return answer{}, d.show(to, view.FilterMenu, view.FilterMenuKeyboard())
	case view.CallbackFilter:
		return answer{}, d.showFiltered(ctx, to, caller, cb.Arg(0))
	case view.CallbackMassSelect:
		return answer{}, d.showMassSelect(ctx, to, caller)
	case view.CallbackMassPick:
		return d.pickForBulk(ctx, to, caller, cb.Arg(0))
	case view.CallbackMassAction:
		return d.runBulk(ctx, to, caller, cb.Arg(0))
	case view.CallbackExport:
		return answer{text: "📥 Preparing export..."}, d.export(ctx, to.chatID, caller)
	case view.CallbackSalesGraph:
		return answer{text: "📊 Building chart..."}, d.sales(ctx, to.chatID, caller)
	default:
		return answer{}, fmt.Errorf("unhandled callback %q", cb.Kind)
	}
}

func (d *Dispatcher) showMassSelect(ctx context.Context, to target, caller int64) error {
	orders, err := d.engine.ListByStatusFilter(ctx, caller, order.AllStatuses)
	if err != nil {
		return d.fail(ctx, to, err)
	}
	if len(orders) == 0 {
		return d.show(to, view.NoOrdersForBulk, view.BackKeyboard())
	}
	return d.show(to, view.MassSelectPrompt, view.MassSelectKeyboard(orders))
}

func (d *Dispatcher) pickForBulk(ctx context.Context, to target, caller int64, id string) (answer, error) {
	n, err := d.engine.SelectForBulk(caller, id)
	if err != nil {
		return answer{}, d.fail(ctx, to, err)
	}
	ids, err := d.engine.Selected(caller)
	if err != nil {
		return answer{}, d.fail(ctx, to, err)
	}
	return answer{text: fmt.Sprintf("✅ Selected: %d", n)},
		d.show(to, d.formatter.Selection(ids), view.MassActionKeyboard())
}

// runBulk applies action to the selection; the engine clears it afterwards.
func (d *Dispatcher) runBulk(ctx context.Context, to target, caller int64, action string) (answer, error) {
	ids, err := d.engine.Selected(caller)
	if err != nil {
		return answer{}, d.fail(ctx, to, err)
	}
	if len(ids) == 0 {
		return answer{}, d.show(to, view.NothingSelected, view.BackKeyboard())
	}

	res, err := d.engine.ExecuteBulkAction(ctx, caller, action, ids)
	if err != nil {
		return answer{}, d.fail(ctx, to, err)
	}
	d.logger.InfoContext(ctx, "bulk action applied",
		"action", res.Action.String(), "requested", res.Requested, "affected", res.Affected)

	return answer{text: fmt.Sprintf("Affected: %d", res.Affected), alert: true},
		d.show(to, d.formatter.BulkResult(res), view.BackKeyboard())
}

// answer acknowledges the button press. Failures are logged only: the
// press has already been handled.
func (d *Dispatcher) answer(ctx context.Context, id string, a answer) {
	cfg := tgbotapi.NewCallback(id, a.text)
	cfg.ShowAlert = a.alert
	if _, err := d.bot.Request(cfg); err != nil {
		d.logger.WarnContext(ctx, "failed to answer callback", "error", err)
	}
}
