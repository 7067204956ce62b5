// Package telegram delivers poller notifications to the admin chat.
package telegram

import (
	"context"
	"errors"
	"fmt"

	"orderbot/internal/adapters/telegram/view"
	"orderbot/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender is the part of *tgbotapi.BotAPI the notifier needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// ErrUnknownNotification is returned for a notification kind the notifier cannot render.
var ErrUnknownNotification = errors.New("unknown notification kind")

var _ ports.Notifier = (*Notifier)(nil)

// Notifier sends order notifications to one chat.
type Notifier struct {
	sender    Sender
	chatID    int64
	formatter *view.Formatter
}

// NewNotifier creates a notifier posting to chatID.
func NewNotifier(sender Sender, chatID int64, formatter *view.Formatter) *Notifier {
	return &Notifier{
		sender:    sender,
		chatID:    chatID,
		formatter: formatter,
	}
}

// Notify renders the order card with status buttons and sends it.
func (n *Notifier) Notify(ctx context.Context, note ports.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if note.Order == nil {
		return fmt.Errorf("notify %s: order is nil", note.Kind)
	}

	var text string
	switch note.Kind {
	case ports.NewOrderNotification:
		text = n.formatter.NewOrderNotice(note.Order)
	case ports.OverdueOrderNotification:
		text = n.formatter.OverdueNotice(note.Order)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownNotification, note.Kind)
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = view.OrderKeyboard(note.Order.ID())

	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("send %s notification for order %s: %w", note.Kind, note.Order.ID(), err)
	}
	return nil
}

// Alert tells the chat that something failed unexpectedly. The text is fixed:
// err stays in the log, since transport errors can carry request URLs.
func (n *Notifier) Alert(ctx context.Context, _ error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	msg := tgbotapi.NewMessage(n.chatID, view.UnexpectedError)
	if _, sendErr := n.sender.Send(msg); sendErr != nil {
		return fmt.Errorf("send alert: %w", sendErr)
	}
	return nil
}
