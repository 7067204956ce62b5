package telegram_test

import (
	"context"
	"sync"

	"orderbot/internal/core/application/workflow"
	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
)

type MockWorkflow struct{ mock.Mock }

func (m *MockWorkflow) IsAuthorized(callerID int64) bool {
	return m.Called(callerID).Bool(0)
}

func (m *MockWorkflow) ListRecent(ctx context.Context, callerID int64, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, callerID, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockWorkflow) GetByID(ctx context.Context, callerID int64, id string) (*order.Order, error) {
	args := m.Called(ctx, callerID, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockWorkflow) SearchByContact(ctx context.Context, callerID int64, query string) ([]*order.Order, error) {
	args := m.Called(ctx, callerID, query)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockWorkflow) SetStatus(ctx context.Context, callerID int64, id, status string) (*order.Order, error) {
	args := m.Called(ctx, callerID, id, status)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockWorkflow) DeleteOrder(ctx context.Context, callerID int64, id string) error {
	return m.Called(ctx, callerID, id).Error(0)
}

func (m *MockWorkflow) ListByStatusFilter(ctx context.Context, callerID int64, statusOrAll string) ([]*order.Order, error) {
	args := m.Called(ctx, callerID, statusOrAll)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockWorkflow) SelectForBulk(callerID int64, id string) (int, error) {
	args := m.Called(callerID, id)
	return args.Int(0), args.Error(1)
}

func (m *MockWorkflow) Selected(callerID int64) ([]string, error) {
	args := m.Called(callerID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *MockWorkflow) ClearSelection(callerID int64) error {
	return m.Called(callerID).Error(0)
}

func (m *MockWorkflow) ExecuteBulkAction(
	ctx context.Context,
	callerID int64,
	action string,
	ids []string,
) (workflow.BulkResult, error) {
	args := m.Called(ctx, callerID, action, ids)
	res, _ := args.Get(0).(workflow.BulkResult)
	return res, args.Error(1)
}

func (m *MockWorkflow) ComputeStatistics(ctx context.Context, callerID int64) (workflow.Statistics, error) {
	args := m.Called(ctx, callerID)
	stats, _ := args.Get(0).(workflow.Statistics)
	return stats, args.Error(1)
}

func (m *MockWorkflow) ExportAll(ctx context.Context, callerID int64) ([]*order.Order, error) {
	args := m.Called(ctx, callerID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockWorkflow) ComputeDailySales(ctx context.Context, callerID int64) ([]services.DailyTotal, error) {
	args := m.Called(ctx, callerID)
	series, _ := args.Get(0).([]services.DailyTotal)
	return series, args.Error(1)
}

// recordingBot keeps everything the dispatcher sends.
type recordingBot struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	answers []tgbotapi.CallbackConfig
	sendErr error
}

func (b *recordingBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sendErr != nil {
		return tgbotapi.Message{}, b.sendErr
	}
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, nil
}

func (b *recordingBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := c.(tgbotapi.CallbackConfig); ok {
		b.answers = append(b.answers, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *recordingBot) last() tgbotapi.Chattable {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.sent) == 0 {
		return nil
	}
	return b.sent[len(b.sent)-1]
}

type MockAlerter struct{ mock.Mock }

func (m *MockAlerter) Alert(ctx context.Context, err error) error {
	return m.Called(ctx, err).Error(0)
}

type MockChart struct{ mock.Mock }

func (m *MockChart) RenderPNG(series []services.DailyTotal) ([]byte, error) {
	args := m.Called(series)
	png, _ := args.Get(0).([]byte)
	return png, args.Error(1)
}
