package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"
)

// slogCronLogger adapts slog to cron.Logger so scheduler messages such as
// skipped runs and recovered panics end up in the application log.
type slogCronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = slogCronLogger{}

func (l slogCronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l slogCronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
