package telegram

import (
	"context"

	"orderbot/internal/core/application/workflow"
	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot is the part of *tgbotapi.BotAPI the dispatcher talks to.
type Bot interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Workflow is the order workflow engine as seen by the chat front end.
type Workflow interface {
	IsAuthorized(callerID int64) bool
	ListRecent(ctx context.Context, callerID int64, limit int) ([]*order.Order, error)
	GetByID(ctx context.Context, callerID int64, id string) (*order.Order, error)
	SearchByContact(ctx context.Context, callerID int64, query string) ([]*order.Order, error)
	SetStatus(ctx context.Context, callerID int64, id, status string) (*order.Order, error)
	DeleteOrder(ctx context.Context, callerID int64, id string) error
	ListByStatusFilter(ctx context.Context, callerID int64, statusOrAll string) ([]*order.Order, error)
	SelectForBulk(callerID int64, id string) (int, error)
	Selected(callerID int64) ([]string, error)
	ClearSelection(callerID int64) error
	ExecuteBulkAction(ctx context.Context, callerID int64, action string, ids []string) (workflow.BulkResult, error)
	ComputeStatistics(ctx context.Context, callerID int64) (workflow.Statistics, error)
	ExportAll(ctx context.Context, callerID int64) ([]*order.Order, error)
	ComputeDailySales(ctx context.Context, callerID int64) ([]services.DailyTotal, error)
}

var _ Workflow = (*workflow.Engine)(nil)

// ChartRenderer draws the daily sales series.
type ChartRenderer interface {
	RenderPNG(series []services.DailyTotal) ([]byte, error)
}

// Alerter reports unexpected failures to the admin.
type Alerter interface {
	Alert(ctx context.Context, err error) error
}
