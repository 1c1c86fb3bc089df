package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/fluxo/pkg/config"
	"github.com/yurifrl/fluxo/pkg/csv"
	"github.com/yurifrl/fluxo/pkg/parser"
	"github.com/yurifrl/fluxo/pkg/report"
	"github.com/yurifrl/fluxo/pkg/server"
	"github.com/yurifrl/fluxo/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "fluxo",
	Short:         "Cash-flow dashboard over monthly spreadsheets",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

func newLogger(level string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fluxo",
	})
	lvl, err := log.ParseLevel(level)
	if err != nil {
		logger.Warn("unknown log level, using info", "level", level)
		lvl = log.InfoLevel
	}
	logger.SetLevel(lvl)
	return logger
}

// setup loads configuration (config file + env + flag overrides) and wires
// the ledger pipeline.
func setup(cmd *cobra.Command) (*service.Service, *config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg.LogLevel)
	svc, err := service.New(cmd.Context(), cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return svc, cfg, logger, nil
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard of a period (default latest)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, _, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		tables, _ := cmd.Flags().GetBool("tables")
		d, err := svc.Dashboard(cmd.Context(), cliFilters.period)
		if err != nil {
			return err
		}
		return report.TextRenderer{Tables: tables}.Render(cmd.OutOrStdout(), d)
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List transactions across every period",
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, err := cliFilters.toFilterFunc()
		if err != nil {
			return err
		}
		svc, _, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		l, err := svc.Load(cmd.Context())
		if err != nil {
			return err
		}
		if l.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), report.GuidanceMessage)
			return nil
		}

		out := cmd.OutOrStdout()
		if asCSV, _ := cmd.Flags().GetBool("csv"); asCSV {
			_, err := out.Write(csv.Create(l.Transactions, filter))
			return err
		}
		rows := report.Rows(l.Filter(filter))
		if dump, _ := cmd.Flags().GetBool("dump"); dump {
			printer := pp.New()
			printer.SetOutput(out)
			_, err := printer.Println(rows)
			return err
		}
		return report.RenderRows(out, rows)
	},
}

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the periods found in the folder",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, _, _, err := setup(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		l, err := svc.Load(cmd.Context())
		if err != nil {
			return err
		}
		if l.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), report.GuidanceMessage)
			return nil
		}
		for _, p := range l.Periods() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-24s %4d transactions\n", p.Key(), p.String(), len(l.InPeriod(p)))
		}
		return nil
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <filename>",
	Short: "Show the period a file name resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, _ := cmd.Flags().GetInt("year")
		marker, _ := cmd.Flags().GetString("marker")

		r := parser.NewResolver(year)
		r.Marker = marker
		p, err := r.Resolve(args[0])
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", p.Key(), p.String())
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "unresolved: %v\n", err)
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		addr := fmt.Sprintf("0.0.0.0:%s", cfg.Port)
		logger.Info("starting server", "addr", addr, "backend", cfg.Backend)
		return server.New(svc.Ledger, logger).Start(cmd.Context(), addr)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("backend", "drive", "File store backend (drive, gcs, local, memory)")
	rootCmd.PersistentFlags().String("folder", "", "Drive folder id, GCS prefix or local directory")

	periodFlag := func(cmd *cobra.Command) {
		cmd.Flags().StringVarP(&cliFilters.period, "period", "p", "", "Period as YYYY-MM (default latest)")
	}

	periodFlag(summaryCmd)
	summaryCmd.Flags().Bool("tables", false, "Also print the income and expense tables")

	periodFlag(ledgerCmd)
	ledgerCmd.Flags().StringVar(&cliFilters.startDate, "start", "", "Start date (YYYY-MM-DD)")
	ledgerCmd.Flags().StringVar(&cliFilters.endDate, "end", "", "End date (YYYY-MM-DD)")
	ledgerCmd.Flags().Float64Var(&cliFilters.minAmount, "min", 0, "Minimum amount")
	ledgerCmd.Flags().Float64Var(&cliFilters.maxAmount, "max", 0, "Maximum amount")
	ledgerCmd.Flags().StringVar(&cliFilters.description, "description", "", "Filter by description (case insensitive)")
	ledgerCmd.Flags().Bool("csv", false, "Print CSV instead of a table")
	ledgerCmd.Flags().Bool("dump", false, "Pretty-print the rows")

	resolveCmd.Flags().Int("year", 0, "Year used when the name carries none (default current year)")
	resolveCmd.Flags().String("marker", parser.DefaultMarker, "Phrase removed from the name")

	serveCmd.Flags().String("port", "3000", "Server port")

	rootCmd.AddCommand(summaryCmd, ledgerCmd, periodsCmd, resolveCmd, serveCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
