package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultEnvFile is loaded before the configuration is read.
const DefaultEnvFile = ".env"

// RootOptions holds global flags and the state every subcommand shares.
type RootOptions struct {
	EnvFile string

	getenv func(string) string
	cfg    Config
	logger *slog.Logger
}

// NewRootCommand creates the orderbot command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Getenv)
}

func newRootCommand(getenv func(string) string) *cobra.Command {
	opts := &RootOptions{getenv: getenv}

	cmd := &cobra.Command{
		Use:   "orderbot",
		Short: "orderbot - storefront order admin bot",
		Long: "A Telegram bot for the storefront admin: it announces new and overdue orders\n" +
			"and lets the admin browse, search, change and export orders.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := LoadDotEnv(opts.EnvFile); err != nil {
				return err
			}
			cfg, err := LoadConfig(opts.getenv)
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			opts.cfg = cfg
			opts.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.LogLevel}))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", DefaultEnvFile, "dotenv file with configuration")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewPollCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

// openStore connects to Postgres and verifies the order table is readable.
// The returned func closes the connection pool.
func (o *RootOptions) openStore(ctx context.Context) (*CompositionRoot, func(), error) {
	gormDB, err := gorm.Open(postgres.Open(o.cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	closeStore := func() { _ = sqlDB.Close() }

	root := NewCompositionRoot(o.cfg, gormDB, o.logger)
	if err := root.CheckStore(ctx); err != nil {
		closeStore()
		return nil, nil, err
	}
	return root, closeStore, nil
}
