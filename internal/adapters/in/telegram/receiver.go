package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Run handles updates until ctx is done or the channel is closed. Errors are
// already logged by Handle, so the loop never stops on them.
func (d *Dispatcher) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	d.logger.InfoContext(ctx, "update loop started")
	defer d.logger.InfoContext(ctx, "update loop stopped")

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			_ = d.Handle(ctx, update)
		}
	}
}
