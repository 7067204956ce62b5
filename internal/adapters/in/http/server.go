package http

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// WebhookPath is where Telegram posts updates in webhook mode.
const WebhookPath = "/telegram/webhook"

// SecretTokenHeader carries the secret_token given to setWebhook.
const SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

const healthTimeout = 2 * time.Second

// UpdateHandler processes one Telegram update.
type UpdateHandler interface {
	Handle(ctx context.Context, update tgbotapi.Update) error
}

// Pinger checks that the order store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server exposes the health check and, when an update handler is set, the
// Telegram webhook.
type Server struct {
	echo    *echo.Echo
	updates UpdateHandler
	secret  []byte
	store   Pinger
	logger  *slog.Logger
}

// NewServer creates the HTTP server. updates may be nil when the bot uses
// long polling; store may be nil to skip the store check. Webhook requests
// must carry secret in SecretTokenHeader; with an empty secret every
// webhook request is refused.
func NewServer(updates UpdateHandler, secret string, store Pinger, logger *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{
		echo:    e,
		updates: updates,
		secret:  []byte(secret),
		store:   store,
		logger:  logger.With("component", "http_server"),
	}

	e.GET("/health", s.Health)
	if updates != nil {
		e.POST(WebhookPath, s.Webhook)
	}
	return s
}

// Handler returns the underlying http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("http server listening", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()
		if err := s.store.PingContext(ctx); err != nil {
			s.logger.WarnContext(ctx, "health check failed", "error", err)
			return c.String(http.StatusServiceUnavailable, "Store unavailable")
		}
	}
	return c.String(http.StatusOK, "Healthy")
}

// Webhook handles POST /telegram/webhook. Requests without the secret token
// get 403 and reach no handler. Handling failures are already reported by
// the handler, so Telegram gets 200 for every authenticated well-formed
// update and does not redeliver it.
func (s *Server) Webhook(c echo.Context) error {
	if !s.authorized(c.Request().Header.Get(SecretTokenHeader)) {
		s.logger.WarnContext(c.Request().Context(), "webhook request rejected", "remote_ip", c.RealIP())
		return c.String(http.StatusForbidden, "Forbidden")
	}

	var update tgbotapi.Update
	if err := c.Bind(&update); err != nil {
		return c.String(http.StatusBadRequest, "Invalid update")
	}

	if err := s.updates.Handle(c.Request().Context(), update); err != nil {
		s.logger.DebugContext(c.Request().Context(), "webhook update failed", "update_id", update.UpdateID, "error", err)
	}
	return c.NoContent(http.StatusOK)
}

func (s *Server) authorized(token string) bool {
	if len(s.secret) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), s.secret) == 1
}
