package cmd

import (
	"context"
	"fmt"
	"log/slog"

	httpadapter "orderbot/internal/adapters/in/http"
	intelegram "orderbot/internal/adapters/in/telegram"
	"orderbot/internal/adapters/out/markerfile"
	"orderbot/internal/adapters/out/postgres"
	"orderbot/internal/adapters/out/postgres/orderrepo"
	outtelegram "orderbot/internal/adapters/out/telegram"
	"orderbot/internal/adapters/telegram/view"
	"orderbot/internal/core/application/usecases/commands"
	"orderbot/internal/core/application/watch"
	"orderbot/internal/core/application/workflow"
	"orderbot/internal/core/domain/services"
	"orderbot/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	orders     *orderrepo.GormOrderRepository
	logger     *slog.Logger

	formatter *view.Formatter
	engine    *workflow.Engine
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		orders:     orderrepo.NewGormOrderRepository(gormDB),
		logger:     logger,
		formatter: view.NewFormatter(
			view.WithLanguage(cfg.Locale),
			view.WithStorefrontURL(cfg.StorefrontURL),
		),
	}

	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	c.engine = workflow.NewEngine(services.NewAccessGuard(cfg.AdminID), c.orders, f)
	return c
}

// CheckStore counts the orders once so a wrong DSN fails at startup
// instead of on the first poll.
func (c *CompositionRoot) CheckStore(ctx context.Context) error {
	totals, err := c.orders.Totals(ctx)
	if err != nil {
		return fmt.Errorf("order store unavailable: %w", err)
	}
	c.logger.InfoContext(ctx, "Order store reachable", "orders", totals.Count)
	return nil
}

func (c *CompositionRoot) Engine() *workflow.Engine {
	return c.engine
}

func (c *CompositionRoot) Formatter() *view.Formatter {
	return c.formatter
}

func (c *CompositionRoot) CreateNotifier(sender outtelegram.Sender) *outtelegram.Notifier {
	return outtelegram.NewNotifier(sender, c.cfg.AdminID, c.formatter)
}

func (c *CompositionRoot) CreatePoller(notifier *outtelegram.Notifier) *watch.Poller {
	return watch.NewPoller(
		c.orders,
		markerfile.NewStore(c.cfg.MarkerFile),
		notifier,
		c.logger,
		watch.WithOverdueAfter(c.cfg.OverdueAfter),
	)
}

func (c *CompositionRoot) CreateJobManager(poller *watch.Poller) *jobs.JobManager {
	return jobs.NewJobManager(poller, c.cfg.PollInterval, c.logger)
}

func (c *CompositionRoot) CreateDispatcher(bot intelegram.Bot, alerter intelegram.Alerter) *intelegram.Dispatcher {
	return intelegram.NewDispatcher(
		bot,
		c.engine,
		c.formatter,
		c.logger,
		intelegram.WithRecentLimit(c.cfg.RecentLimit),
		intelegram.WithAlerter(alerter),
	)
}

// CreateHTTPServer builds the health endpoint and, when updates is not nil,
// the webhook endpoint.
func (c *CompositionRoot) CreateHTTPServer(updates httpadapter.UpdateHandler) (*httpadapter.Server, error) {
	sqlDB, err := c.gormDB.DB()
	if err != nil {
		return nil, err
	}
	return httpadapter.NewServer(updates, c.cfg.WebhookSecret, sqlDB, c.logger), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
