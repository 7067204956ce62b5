package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"orderbot/internal/adapters/out/csvexport"
	"orderbot/internal/adapters/telegram/redact"
	"orderbot/internal/adapters/telegram/view"
	"orderbot/internal/core/application/workflow"
	"orderbot/internal/core/domain/model/order"

	"github.com/spf13/cobra"
)

// NewPollCommand runs the order poller without the chat front end.
func NewPollCommand(opts *RootOptions) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:          "poll",
		Short:        "Watch for new and overdue orders",
		Long:         "Watch for new and overdue orders. With --once a single cycle runs and its report is printed.",
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
			poller := root.CreatePoller(root.CreateNotifier(redact.NewBot(bot, redact.NewSecret(opts.cfg.BotToken))))

			if once {
				report, err := poller.RunCycle(ctx)
				fmt.Fprintf(cmd.OutOrStdout(), "cycle %s: new order %q, overdue %d, notified %d\n",
					report.CycleID, report.NewOrderID, report.Overdue, report.Notified)
				return err
			}

			jobManager := root.CreateJobManager(poller)
			if err := jobManager.StartAll(); err != nil {
				return err
			}
			defer jobManager.StopAll()
			<-ctx.Done()
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single poll cycle and exit")
	return cmd
}

// NewExportCommand writes every order as CSV.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Export all orders to CSV",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			root, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			orders, err := root.Engine().ExportAll(ctx, opts.cfg.AdminID)
			if errors.Is(err, workflow.ErrNothingToExport) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No orders to export")
				return nil
			}
			if err != nil {
				return err
			}

			if out == "-" {
				return csvexport.Write(cmd.OutOrStdout(), orders)
			}
			if err := writeFile(out, orders); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d orders to %s\n", len(orders), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", csvexport.FileName, `output file, "-" for stdout`)
	return cmd
}

func writeFile(path string, orders []*order.Order) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := csvexport.Write(f, orders); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// NewStatsCommand prints the sales statistics.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "stats",
		Short:        "Print order statistics",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			root, closeStore, err := opts.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := root.Engine().ComputeStatistics(ctx, opts.cfg.AdminID)
			if err != nil {
				return err
			}
			printStatistics(cmd.OutOrStdout(), root.Formatter(), stats)
			return nil
		},
	}
}

func printStatistics(w io.Writer, f *view.Formatter, stats workflow.Statistics) {
	fmt.Fprintf(w, "Orders:  %d\n", stats.Count)
	fmt.Fprintf(w, "Revenue: %s\n", f.Price(stats.Sum))
	fmt.Fprintf(w, "Average: %s\n", f.Price(stats.Average))
	if len(stats.TopProducts) == 0 {
		return
	}
	fmt.Fprintln(w, "Top products:")
	for i, p := range stats.TopProducts {
		fmt.Fprintf(w, "  %d. %s x %d\n", i+1, p.Title, p.Quantity)
	}
}
