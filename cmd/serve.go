package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	httpadapter "orderbot/internal/adapters/in/http"
	intelegram "orderbot/internal/adapters/in/telegram"
	"orderbot/internal/adapters/telegram/redact"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

const (
	longPollTimeout = 60
	shutdownTimeout = 10 * time.Second
)

// NewServeCommand runs the bot, the order poller and the HTTP server until
// the process is interrupted.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "serve",
		Short:        "Run the bot, the order poller and the health endpoint",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := opts.cfg.RequireBot(); err != nil {
				return err
			}
			ctx := cmd.Context()

			root, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			bot, err := connectBot(opts.cfg, opts.logger)
			if err != nil {
				return err
			}
			return serve(ctx, opts.cfg, root, bot, opts.logger)
		},
	}
}

func serve(ctx context.Context, cfg Config, root *CompositionRoot, bot *tgbotapi.BotAPI, logger *slog.Logger) error {
	secret := redact.NewSecret(cfg.BotToken)
	client := redact.NewBot(bot, secret)

	notifier := root.CreateNotifier(client)
	dispatcher := root.CreateDispatcher(client, notifier)
	jobManager := root.CreateJobManager(root.CreatePoller(notifier))

	if _, err := client.Request(tgbotapi.NewSetMyCommands(intelegram.BotCommands()...)); err != nil {
		logger.WarnContext(ctx, "Failed to register bot commands", "error", err)
	}

	// A nil handler keeps the webhook route unregistered in polling mode.
	var updates httpadapter.UpdateHandler
	if cfg.UseWebhook() {
		if err := setWebhook(bot, cfg); err != nil {
			return secret.Error(err)
		}
		updates = dispatcher
	} else {
		if _, err := client.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
			return fmt.Errorf("delete webhook: %w", err)
		}
		u := tgbotapi.NewUpdate(0)
		u.Timeout = longPollTimeout
		go dispatcher.Run(ctx, bot.GetUpdatesChan(u))
		defer bot.StopReceivingUpdates()
	}

	server, err := root.CreateHTTPServer(updates)
	if err != nil {
		return err
	}

	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + cfg.HTTPPort)
	}()

	logger.InfoContext(ctx, "Order bot started",
		"admin_id", cfg.AdminID,
		"webhook", cfg.UseWebhook(),
		"poll_interval", cfg.PollInterval.String(),
	)

	select {
	case <-ctx.Done():
		logger.InfoContext(ctx, "Shutting down")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// setWebhook registers the webhook with its secret_token. WebhookConfig has
// no field for it, so the request is built by hand.
func setWebhook(bot *tgbotapi.BotAPI, cfg Config) error {
	params := tgbotapi.Params{"url": strings.TrimSuffix(cfg.WebhookURL, "/") + httpadapter.WebhookPath}
	params.AddNonEmpty("secret_token", cfg.WebhookSecret)

	if _, err := bot.MakeRequest("setWebhook", params); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

func connectBot(cfg Config, logger *slog.Logger) (*tgbotapi.BotAPI, error) {
	secret := redact.NewSecret(cfg.BotToken)
	_ = tgbotapi.SetLogger(botLogger{logger: logger.With("component", "telegram_api"), secret: secret})

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("connect to telegram: %w", secret.Error(err))
	}
	logger.Info("Connected to telegram", "bot", bot.Self.UserName)
	return bot, nil
}

// botLogger adapts slog to tgbotapi.BotLogger. The library logs raw
// transport errors, which carry the token in the request URL.
type botLogger struct {
	logger *slog.Logger
	secret redact.Secret
}

var _ tgbotapi.BotLogger = botLogger{}

func (l botLogger) Println(v ...any) {
	l.logger.Debug(l.secret.Text(strings.TrimSuffix(fmt.Sprintln(v...), "\n")))
}

func (l botLogger) Printf(format string, v ...any) {
	l.logger.Debug(l.secret.Text(fmt.Sprintf(format, v...)))
}
