// Package telegram turns chat updates (slash commands, inline button presses
// and search input) into workflow engine calls and renders the outcome back
// into the chat.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"orderbot/internal/adapters/out/chart"
	"orderbot/internal/adapters/out/csvexport"
	"orderbot/internal/adapters/telegram/view"
	"orderbot/internal/core/application/workflow"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const notModified = "message is not modified"

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRecentLimit sets how many orders the recent list shows.
func WithRecentLimit(limit int) Option {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.recentLimit = limit
		}
	}
}

// WithAlerter reports unexpected failures to the admin chat.
func WithAlerter(a Alerter) Option {
	return func(d *Dispatcher) {
		d.alerter = a
	}
}

// WithChartRenderer replaces the sales chart renderer.
func WithChartRenderer(r ChartRenderer) Option {
	return func(d *Dispatcher) {
		d.chart = r
	}
}

// Dispatcher handles one update at a time.
type Dispatcher struct {
	mu sync.Mutex

	bot       Bot
	engine    Workflow
	formatter *view.Formatter
	chart     ChartRenderer
	alerter   Alerter
	logger    *slog.Logger

	recentLimit int
	sessions    sessions
}

// NewDispatcher creates a dispatcher answering through bot.
func NewDispatcher(
	bot Bot,
	engine Workflow,
	formatter *view.Formatter,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		bot:         bot,
		engine:      engine,
		formatter:   formatter,
		chart:       chart.NewRenderer(),
		logger:      logger.With("component", "telegram_dispatcher"),
		recentLimit: 10,
		sessions:    make(sessions),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// target is where a reply goes: a new message, or an edit of messageID.
type target struct {
	chatID    int64
	messageID int
}

func (t target) isEdit() bool {
	return t.messageID != 0
}

// Handle processes one update. Unexpected failures are logged, reported to
// the admin through the alerter and returned.
func (d *Dispatcher) Handle(ctx context.Context, update tgbotapi.Update) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var err error
	switch {
	case update.Message != nil:
		err = d.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		err = d.handleCallback(ctx, update.CallbackQuery)
	default:
		return nil
	}
	if err == nil {
		return nil
	}

	d.logger.ErrorContext(ctx, "failed to handle update", "update_id", update.UpdateID, "error", err)
	if d.alerter != nil {
		if alertErr := d.alerter.Alert(ctx, err); alertErr != nil {
			d.logger.WarnContext(ctx, "failed to report error to admin", "error", alertErr)
		}
	}
	return err
}

// authorize replies with the rejection text to anyone but the admin.
func (d *Dispatcher) authorize(ctx context.Context, to target, from *tgbotapi.User) (int64, bool, error) {
	if from == nil {
		return 0, false, nil
	}
	if d.engine.IsAuthorized(from.ID) {
		return from.ID, true, nil
	}

	d.logger.WarnContext(ctx, "unauthorized access", "user_id", from.ID, "username", from.UserName)
	return from.ID, false, d.show(to, d.formatter.NotAdmin(), noKeyboard)
}

var noKeyboard = tgbotapi.InlineKeyboardMarkup{}

// show sends text or, for an edit target, replaces the message text.
func (d *Dispatcher) show(to target, text string, kb tgbotapi.InlineKeyboardMarkup) error {
	var c tgbotapi.Chattable
	if to.isEdit() {
		edit := tgbotapi.NewEditMessageText(to.chatID, to.messageID, text)
		edit.ParseMode = tgbotapi.ModeHTML
		if kb.InlineKeyboard != nil {
			edit.ReplyMarkup = &kb
		}
		c = edit
	} else {
		msg := tgbotapi.NewMessage(to.chatID, text)
		msg.ParseMode = tgbotapi.ModeHTML
		if kb.InlineKeyboard != nil {
			msg.ReplyMarkup = kb
		}
		c = msg
	}

	if _, err := d.bot.Send(c); err != nil && !isNotModified(err) {
		return fmt.Errorf("send reply to chat %d: %w", to.chatID, err)
	}
	return nil
}

// isNotModified matches the error Telegram returns when an edit would not
// change the message, e.g. setting the status an order already has.
func isNotModified(err error) bool {
	var apiErr *tgbotapi.Error
	return errors.As(err, &apiErr) && strings.Contains(apiErr.Message, notModified)
}

// fail renders domain outcomes for the user. Anything it cannot render is
// returned as unexpected.
func (d *Dispatcher) fail(ctx context.Context, to target, err error) error {
	back := view.BackKeyboard()
	switch {
	case errors.Is(err, workflow.ErrNotAuthorized):
		return d.show(to, d.formatter.NotAdmin(), noKeyboard)
	case workflow.IsNotFound(err):
		d.logger.DebugContext(ctx, "order not found", "error", err)
		return d.show(to, view.OrderNotFound, back)
	case errors.Is(err, workflow.ErrNothingToExport):
		return d.show(to, view.NothingToExport, back)
	case workflow.IsInvalidInput(err):
		return d.show(to, d.formatter.InvalidInput(err), back)
	case errors.Is(err, workflow.ErrStoreUnavailable):
		d.logger.ErrorContext(ctx, "order store unavailable", "error", err)
		return d.show(to, view.StoreUnavailable, back)
	default:
		return err
	}
}

func (d *Dispatcher) showMainMenu(to target) error {
	return d.show(to, d.formatter.MainMenu(), view.MainMenuKeyboard())
}

func (d *Dispatcher) showHelp(to target) error {
	return d.show(to, d.formatter.Help(), view.BackKeyboard())
}

func (d *Dispatcher) showRecent(ctx context.Context, to target, caller int64) error {
	orders, err := d.engine.ListRecent(ctx, caller, d.recentLimit)
	if err != nil {
		return d.fail(ctx, to, err)
	}
	if len(orders) == 0 {
		return d.show(to, view.NoOrders, view.BackKeyboard())
	}
	return d.show(to, d.formatter.RecentOrders(orders), view.RecentOrdersKeyboard(orders))
}

func (d *Dispatcher) showOrder(ctx context.Context, to target, caller int64, id string) error {
	o, err := d.engine.GetByID(ctx, caller, id)
	if err != nil {
		return d.fail(ctx, to, err)
	}
	return d.show(to, d.formatter.OrderCard(o), view.OrderKeyboard(o.ID()))
}

// setStatus reports whether the order was changed; a rendered failure is
// not an error.
func (d *Dispatcher) setStatus(ctx context.Context, to target, caller int64, id, status string) (bool, error) {
	o, err := d.engine.SetStatus(ctx, caller, id, status)
	if err != nil {
		return false, d.fail(ctx, to, err)
	}
	d.logger.InfoContext(ctx, "order status changed", "order_id", o.ID(), "status", o.Status().String())
	return true, d.show(to, d.formatter.StatusUpdated(o), view.OrderKeyboard(o.ID()))
}

func (d *Dispatcher) deleteOrder(ctx context.Context, to target, caller int64, id string) (bool, error) {
	if err := d.engine.DeleteOrder(ctx, caller, id); err != nil {
		return false, d.fail(ctx, to, err)
	}
	d.logger.InfoContext(ctx, "order deleted", "order_id", id)
	return true, d.show(to, d.formatter.OrderDeleted(id), view.BackKeyboard())
}

func (d *Dispatcher) showStatistics(ctx context.Context, to target, caller int64) error {
	stats, err := d.engine.ComputeStatistics(ctx, caller)
	if err != nil {
		return d.fail(ctx, to, err)
	}
	return d.show(to, d.formatter.Statistics(stats), view.BackKeyboard())
}

func (d *Dispatcher) showFiltered(ctx context.Context, to target, caller int64, statusOrAll string) error {
	orders, err := d.engine.ListByStatusFilter(ctx, caller, statusOrAll)
	if err != nil {
		return d.fail(ctx, to, err)
	}
	return d.show(to, d.formatter.FilteredOrders(statusOrAll, orders), view.BackKeyboard())
}

// searchContact sends one card per match as new messages.
func (d *Dispatcher) searchContact(ctx context.Context, chatID, caller int64, query string) error {
	to := target{chatID: chatID}
	orders, err := d.engine.SearchByContact(ctx, caller, query)
	if err != nil {
		return d.fail(ctx, to, err)
	}
	if len(orders) == 0 {
		return d.show(to, view.OrderNotFound, view.BackKeyboard())
	}
	for _, o := range orders {
		if err := d.show(to, d.formatter.OrderCard(o), view.OrderKeyboard(o.ID())); err != nil {
			return err
		}
	}
	return nil
}

// export sends every order as a CSV document.
func (d *Dispatcher) export(ctx context.Context, chatID, caller int64) error {
	to := target{chatID: chatID}
	orders, err := d.engine.ExportAll(ctx, caller)
	if err != nil {
		return d.fail(ctx, to, err)
	}

	data, err := csvexport.Encode(orders)
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: csvexport.FileName, Bytes: data})
	doc.Caption = d.formatter.ExportCaption(len(orders))
	if _, err := d.bot.Send(doc); err != nil {
		return fmt.Errorf("send export: %w", err)
	}
	d.logger.InfoContext(ctx, "orders exported", "rows", len(orders))
	return nil
}

// sales sends the chart as a photo, or a text listing when it cannot be drawn.
func (d *Dispatcher) sales(ctx context.Context, chatID, caller int64) error {
	to := target{chatID: chatID}
	series, err := d.engine.ComputeDailySales(ctx, caller)
	if err != nil {
		return d.fail(ctx, to, err)
	}
	if len(series) == 0 {
		return d.show(to, view.NoChartData, view.BackKeyboard())
	}

	png, err := d.chart.RenderPNG(series)
	if err != nil {
		if !errors.Is(err, chart.ErrNotEnoughPoints) {
			d.logger.WarnContext(ctx, "failed to render sales chart", "error", err)
		}
		return d.show(to, d.formatter.SalesListing(series), view.BackKeyboard())
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: chart.FileName, Bytes: png})
	photo.Caption = "📈 Sales by day"
	if _, err := d.bot.Send(photo); err != nil {
		return fmt.Errorf("send sales chart: %w", err)
	}
	return nil
}
