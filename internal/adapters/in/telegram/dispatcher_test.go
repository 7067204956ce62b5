package telegram_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"orderbot/internal/adapters/in/telegram"
	"orderbot/internal/adapters/telegram/view"
	"orderbot/internal/core/application/usecases/commands"
	"orderbot/internal/core/application/workflow"
	"orderbot/internal/core/domain/model/order"
	"orderbot/internal/core/domain/services"
	"orderbot/internal/pkg/errs"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"
)

const (
	adminID    int64 = 424242
	strangerID int64 = 1001
	messageID        = 77
)

func commandUpdate(from int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i >= 0 {
		cmdLen = i
	}
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			MessageID: messageID,
			From:      &tgbotapi.User{ID: from},
			Chat:      &tgbotapi.Chat{ID: from},
			Text:      text,
			Entities:  []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
		},
	}
}

func textUpdate(from int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 2,
		Message: &tgbotapi.Message{
			MessageID: messageID,
			From:      &tgbotapi.User{ID: from},
			Chat:      &tgbotapi.Chat{ID: from},
			Text:      text,
		},
	}
}

func callbackUpdate(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 3,
		CallbackQuery: &tgbotapi.CallbackQuery{
			ID:   "cb-1",
			From: &tgbotapi.User{ID: from},
			Data: data,
			Message: &tgbotapi.Message{
				MessageID: messageID,
				Chat:      &tgbotapi.Chat{ID: from},
			},
		},
	}
}

type DispatcherTestSuite struct {
	suite.Suite
	ctx        context.Context
	engine     *MockWorkflow
	bot        *recordingBot
	alerter    *MockAlerter
	dispatcher *telegram.Dispatcher
	order      *order.Order
}

func TestDispatcherTestSuite(t *testing.T) {
	suite.Run(t, new(DispatcherTestSuite))
}

func (s *DispatcherTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.engine = &MockWorkflow{}
	s.engine.On("IsAuthorized", adminID).Return(true).Maybe()
	s.engine.On("IsAuthorized", strangerID).Return(false).Maybe()
	s.bot = &recordingBot{}
	s.alerter = &MockAlerter{}
	s.dispatcher = s.newDispatcher()

	o, err := order.RestoreOrder(
		"cm1x9k2ab",
		order.Pending,
		750,
		time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC),
		order.Contact{Email: "anna@example.com", Phone: "+7 999 123"},
		order.Items{},
	)
	s.Require().NoError(err)
	s.order = o
}

func (s *DispatcherTestSuite) newDispatcher(opts ...telegram.Option) *telegram.Dispatcher {
	formatter := view.NewFormatter(
		view.WithLanguage(language.English),
		view.WithStorefrontURL("https://shop.example"),
	)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]telegram.Option{telegram.WithAlerter(s.alerter)}, opts...)
	return telegram.NewDispatcher(s.bot, s.engine, formatter, logger, opts...)
}

func (s *DispatcherTestSuite) lastMessage() tgbotapi.MessageConfig {
	msg, ok := s.bot.last().(tgbotapi.MessageConfig)
	s.Require().True(ok, "expected a new message, got %T", s.bot.last())
	return msg
}

func (s *DispatcherTestSuite) lastEdit() tgbotapi.EditMessageTextConfig {
	edit, ok := s.bot.last().(tgbotapi.EditMessageTextConfig)
	s.Require().True(ok, "expected an edit, got %T", s.bot.last())
	return edit
}

func (s *DispatcherTestSuite) TestStrangerIsRejectedWithStorefrontLink() {
	err := s.dispatcher.Handle(s.ctx, commandUpdate(strangerID, "/orders"))

	s.Require().NoError(err)
	msg := s.lastMessage()
	s.Equal(strangerID, msg.ChatID)
	s.Contains(msg.Text, "https://shop.example")
	s.engine.AssertNotCalled(s.T(), "ListRecent", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestStrangerCallbackIsRejected() {
	err := s.dispatcher.Handle(s.ctx, callbackUpdate(strangerID, "stats"))

	s.Require().NoError(err)
	s.Contains(s.lastEdit().Text, "You are not an administrator")
	s.Len(s.bot.answers, 1)
	s.engine.AssertNotCalled(s.T(), "ComputeStatistics", mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestStartShowsMainMenu() {
	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/start")))

	msg := s.lastMessage()
	s.Equal(tgbotapi.ModeHTML, msg.ParseMode)
	s.Contains(msg.Text, "Hello, admin!")
	s.IsType(tgbotapi.InlineKeyboardMarkup{}, msg.ReplyMarkup)
}

func (s *DispatcherTestSuite) TestOrdersUsesRecentLimit() {
	s.dispatcher = s.newDispatcher(telegram.WithRecentLimit(5))
	s.engine.On("ListRecent", mock.Anything, adminID, 5).Return([]*order.Order{s.order}, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/orders")))

	s.Contains(s.lastMessage().Text, "<b>Recent orders:</b>")
	s.engine.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestOrderNotFoundIsAUserMessage() {
	s.engine.On("GetByID", mock.Anything, adminID, "missing").
		Return(nil, errs.NewObjectNotFoundError("order", "missing")).Once()

	err := s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/order missing"))

	s.Require().NoError(err)
	s.Equal(view.OrderNotFound, s.lastMessage().Text)
	s.alerter.AssertNotCalled(s.T(), "Alert", mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestUsageOnMissingArguments() {
	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/order")))
	s.Equal(view.UsageOrder, s.lastMessage().Text)

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/setstatus cm1")))
	s.Equal(view.UsageSetStatus, s.lastMessage().Text)

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/deleteorder")))
	s.Equal(view.UsageDeleteOrder, s.lastMessage().Text)
}

func (s *DispatcherTestSuite) TestSetStatusCommand() {
	paid, err := order.RestoreOrder(s.order.ID(), order.Paid, 750, s.order.CreatedAt(), order.Contact{}, order.Items{})
	s.Require().NoError(err)
	s.engine.On("SetStatus", mock.Anything, adminID, "cm1x9k2ab", "paid").Return(paid, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/setstatus cm1x9k2ab paid")))

	text := s.lastMessage().Text
	s.Contains(text, "Status updated")
	s.Contains(text, "🟢 <b>Paid</b>")
}

func (s *DispatcherTestSuite) TestStoreUnavailableIsGenericAndNotAlerted() {
	storeErr := fmt.Errorf("%w: %w", workflow.ErrStoreUnavailable, errors.New("dial tcp: refused"))
	s.engine.On("ComputeStatistics", mock.Anything, adminID).Return(workflow.Statistics{}, storeErr).Once()

	err := s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/stats"))

	s.Require().NoError(err)
	s.Equal(view.StoreUnavailable, s.lastMessage().Text)
	s.NotContains(s.lastMessage().Text, "dial tcp")
	s.alerter.AssertNotCalled(s.T(), "Alert", mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestSendFailureIsReportedToAdmin() {
	s.bot.sendErr = errors.New("telegram timeout")
	s.alerter.On("Alert", mock.Anything, mock.Anything).Return(nil).Once()

	err := s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/help"))

	s.Require().Error(err)
	s.ErrorIs(err, s.bot.sendErr)
	s.alerter.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestNotModifiedEditIsIgnored() {
	s.bot.sendErr = &tgbotapi.Error{Code: 400, Message: "Bad Request: message is not modified"}

	err := s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "main_menu"))

	s.Require().NoError(err)
	s.alerter.AssertNotCalled(s.T(), "Alert", mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestSetStatusCallbackEditsCardAndAnswers() {
	s.engine.On("SetStatus", mock.Anything, adminID, "cm1x9k2ab", "done").Return(s.order, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "setstatus:cm1x9k2ab:done")))

	edit := s.lastEdit()
	s.Equal(messageID, edit.MessageID)
	s.Require().NotNil(edit.ReplyMarkup)
	s.Equal("setstatus:cm1x9k2ab:pending", *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
	s.Require().Len(s.bot.answers, 1)
	s.Equal("✅ Status updated", s.bot.answers[0].Text)
}

func (s *DispatcherTestSuite) TestSetStatusCallbackOnMissingOrderHasNoToast() {
	s.engine.On("SetStatus", mock.Anything, adminID, "gone", "paid").
		Return(nil, errs.NewObjectNotFoundError("order", "gone")).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "setstatus:gone:paid")))

	s.Equal(view.OrderNotFound, s.lastEdit().Text)
	s.Require().Len(s.bot.answers, 1)
	s.Empty(s.bot.answers[0].Text)
}

func (s *DispatcherTestSuite) TestDeleteNeedsConfirmation() {
	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "deleteorder_confirm:cm1x9k2ab")))
	s.Equal(view.DeleteConfirm, s.lastEdit().Text)
	s.engine.AssertNotCalled(s.T(), "DeleteOrder", mock.Anything, mock.Anything, mock.Anything)

	s.engine.On("DeleteOrder", mock.Anything, adminID, "cm1x9k2ab").Return(nil).Once()
	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "deleteorder:cm1x9k2ab")))
	s.Contains(s.lastEdit().Text, "deleted")
	s.engine.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestUnknownCallbackIsAnsweredAndIgnored() {
	err := s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "refund:cm1"))

	s.Require().NoError(err)
	s.Empty(s.bot.sent)
	s.Require().Len(s.bot.answers, 1)
	s.Equal("Unknown action", s.bot.answers[0].Text)
}

func (s *DispatcherTestSuite) TestFindByContactTakesNextMessage() {
	s.engine.On("SearchByContact", mock.Anything, adminID, "anna@example.com").
		Return([]*order.Order{s.order}, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "find_contact")))
	s.Equal(view.FindContactPrompt, s.lastEdit().Text)

	s.Require().NoError(s.dispatcher.Handle(s.ctx, textUpdate(adminID, "  anna@example.com ")))
	s.Contains(s.lastMessage().Text, "<code>cm1x9k2ab</code>")

	s.Require().NoError(s.dispatcher.Handle(s.ctx, textUpdate(adminID, "anna@example.com")))
	s.Contains(s.lastMessage().Text, "Hello, admin!", "the prompt is consumed once")
	s.engine.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestFindByIDTakesNextMessage() {
	s.engine.On("GetByID", mock.Anything, adminID, "cm1x9k2ab").Return(s.order, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "find_id")))
	s.Require().NoError(s.dispatcher.Handle(s.ctx, textUpdate(adminID, "cm1x9k2ab")))

	s.Contains(s.lastMessage().Text, "<code>cm1x9k2ab</code>")
	s.engine.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestCommandCancelsPendingPrompt() {
	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "find_id")))
	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/help")))
	s.Require().NoError(s.dispatcher.Handle(s.ctx, textUpdate(adminID, "cm1x9k2ab")))

	s.Contains(s.lastMessage().Text, "Hello, admin!")
	s.engine.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestFindCommandKeepsSpacesInQuery() {
	s.engine.On("SearchByContact", mock.Anything, adminID, "+7 999 123").Return([]*order.Order{}, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/find +7 999 123")))

	s.Equal(view.OrderNotFound, s.lastMessage().Text)
	s.engine.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestBulkFlow() {
	s.engine.On("SelectForBulk", adminID, "o1").Return(1, nil).Once()
	s.engine.On("Selected", adminID).Return([]string{"o1"}, nil).Twice()
	s.engine.On("ExecuteBulkAction", mock.Anything, adminID, "delete", []string{"o1"}).
		Return(workflow.BulkResult{Action: commands.NewBulkDeleteAction(), Requested: 1, Affected: 1}, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "masspick:o1")))
	s.Contains(s.lastEdit().Text, "<b>Selected orders:</b> 1")
	s.Equal("✅ Selected: 1", s.bot.answers[0].Text)

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "ma:delete")))
	s.Equal("✅ <b>Deleted orders:</b> 1 of 1", s.lastEdit().Text)
	s.True(s.bot.answers[1].ShowAlert)
	s.engine.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestBulkActionWithEmptySelection() {
	s.engine.On("Selected", adminID).Return([]string{}, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "ma:setstatus_paid")))

	s.Equal(view.NothingSelected, s.lastEdit().Text)
	s.engine.AssertNotCalled(s.T(), "ExecuteBulkAction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *DispatcherTestSuite) TestClearCommand() {
	s.engine.On("ClearSelection", adminID).Return(nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/clear")))

	s.Equal(view.SelectionCleared, s.lastMessage().Text)
}

func (s *DispatcherTestSuite) TestExportSendsCSVDocument() {
	s.engine.On("ExportAll", mock.Anything, adminID).Return([]*order.Order{s.order}, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/export")))

	doc, ok := s.bot.last().(tgbotapi.DocumentConfig)
	s.Require().True(ok)
	file, ok := doc.File.(tgbotapi.FileBytes)
	s.Require().True(ok)
	s.Equal("orders.csv", file.Name)
	s.True(strings.HasPrefix(string(file.Bytes), "id,status,totalPrice,createdAt,contact,items\n"))
	s.Equal("📤 Orders exported: 1", doc.Caption)
}

func (s *DispatcherTestSuite) TestExportOfEmptyTable() {
	s.engine.On("ExportAll", mock.Anything, adminID).Return(nil, workflow.ErrNothingToExport).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "export")))

	s.Equal(view.NothingToExport, s.lastMessage().Text)
}

func (s *DispatcherTestSuite) TestSalesSendsChartPhoto() {
	chart := &MockChart{}
	s.dispatcher = s.newDispatcher(telegram.WithChartRenderer(chart))
	series := []services.DailyTotal{
		{Day: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), Total: 99},
		{Day: time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), Total: 150},
	}
	s.engine.On("ComputeDailySales", mock.Anything, adminID).Return(series, nil).Once()
	chart.On("RenderPNG", series).Return([]byte("\x89PNG"), nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/sales")))

	photo, ok := s.bot.last().(tgbotapi.PhotoConfig)
	s.Require().True(ok)
	s.Equal(adminID, photo.ChatID)
	chart.AssertExpectations(s.T())
}

func (s *DispatcherTestSuite) TestSalesFallsBackToTextForSingleDay() {
	series := []services.DailyTotal{{Day: time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), Total: 99}}
	s.engine.On("ComputeDailySales", mock.Anything, adminID).Return(series, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, commandUpdate(adminID, "/sales")))

	s.Equal("<b>Sales by day:</b>\n03 March 2024: 99.00₽", s.lastMessage().Text)
}

func (s *DispatcherTestSuite) TestFilterByStatus() {
	s.engine.On("ListByStatusFilter", mock.Anything, adminID, "pending").Return([]*order.Order{s.order}, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "of:pending")))

	s.Contains(s.lastEdit().Text, "<b>Orders with status:</b> 🟡 <b>Pending</b>")
}

func (s *DispatcherTestSuite) TestMassSelectListsNewestOrders() {
	s.engine.On("ListByStatusFilter", mock.Anything, adminID, order.AllStatuses).Return([]*order.Order{s.order}, nil).Once()

	s.Require().NoError(s.dispatcher.Handle(s.ctx, callbackUpdate(adminID, "mass_select")))

	edit := s.lastEdit()
	s.Equal(view.MassSelectPrompt, edit.Text)
	s.Equal("masspick:cm1x9k2ab", *edit.ReplyMarkup.InlineKeyboard[0][0].CallbackData)
}

func TestDispatcher_RunStopsWhenChannelCloses(t *testing.T) {
	engine := &MockWorkflow{}
	engine.On("IsAuthorized", adminID).Return(true)
	bot := &recordingBot{}
	d := telegram.NewDispatcher(bot, engine, view.NewFormatter(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	updates := make(chan tgbotapi.Update, 2)
	updates <- commandUpdate(adminID, "/start")
	updates <- commandUpdate(adminID, "/help")
	close(updates)

	done := make(chan struct{})
	go func() {
		d.Run(t.Context(), updates)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the channel closed")
	}
	require.Len(t, bot.sent, 2)
}

func TestBotCommands(t *testing.T) {
	cmds := telegram.BotCommands()

	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Command)
	}
	require.ElementsMatch(t, []string{
		"start", "orders", "order", "setstatus", "deleteorder", "find",
		"stats", "sales", "export", "clear", "help",
	}, names)
}
