// Package redact keeps the bot token out of errors and log lines. The
// Telegram client puts the token in every request URL, so a network failure
// surfaces it through *url.Error.
package redact

import (
	"errors"
	"net/url"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Mask replaces the token.
const Mask = "<redacted>"

// Secret hides one credential.
type Secret struct {
	value string
}

// NewSecret creates a Secret. An empty value redacts nothing.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// Text replaces every occurrence of the secret in s.
func (s Secret) Text(text string) string {
	if s.value == "" {
		return text
	}
	return strings.ReplaceAll(text, s.value, Mask)
}

// Error returns err unchanged unless its message contains the secret. A
// redacted error still unwraps to the network cause of a *url.Error when
// that cause is clean, so errors.Is keeps working for timeouts and
// cancellation.
func (s Secret) Error(err error) error {
	if err == nil || s.value == "" || !strings.Contains(err.Error(), s.value) {
		return err
	}

	var cause error
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil && !strings.Contains(urlErr.Err.Error(), s.value) {
		cause = urlErr.Err
	}
	return &redactedError{msg: s.Text(err.Error()), cause: cause}
}

type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string {
	return e.msg
}

func (e *redactedError) Unwrap() error {
	return e.cause
}

// Client is the part of *tgbotapi.BotAPI that sends requests.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot redacts the token from every error the wrapped client returns.
type Bot struct {
	client Client
	secret Secret
}

// NewBot wraps client.
func NewBot(client Client, secret Secret) *Bot {
	return &Bot{client: client, secret: secret}
}

func (b *Bot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	msg, err := b.client.Send(c)
	return msg, b.secret.Error(err)
}

func (b *Bot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	resp, err := b.client.Request(c)
	return resp, b.secret.Error(err)
}
