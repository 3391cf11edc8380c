package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"FinSpread/internal/di"
	"FinSpread/internal/domain/models"
	"FinSpread/pkg/config"
	applogger "FinSpread/pkg/logger"
	"FinSpread/pkg/util"

	"github.com/spf13/cobra"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "finspread",
		Short:         "Find profitable vertical option spreads",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "config file path")
	root.AddCommand(scanCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "finspread: %v\n", err)
		os.Exit(1)
	}
}

func scanCmd() *cobra.Command {
	var (
		symbols []string
		types   []string
		sinks   []string
		outDir  string
	)
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan each symbol once and write surviving spreads to the configured sinks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			if len(symbols) > 0 {
				cfg.Analysis.Symbols = symbols
			}
			if len(types) > 0 {
				cfg.Analysis.OptionTypes = types
			}
			if len(sinks) > 0 {
				cfg.Output.Sinks = sinks
			}
			if outDir != "" {
				cfg.Output.Dir = outDir
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			optionTypes, err := parseTypes(cfg.Analysis.OptionTypes)
			if err != nil {
				return err
			}

			app, cleanup, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			failed := 0
			for _, res := range app.Scan(ctx, util.NormalizeSymbols(cfg.Analysis.Symbols), optionTypes) {
				if res.Failed() {
					failed++
					app.Logger().Error("scan failed",
						applogger.String("symbol", res.Symbol),
						applogger.String("type", string(res.OptionType)),
						applogger.Error(res.Err))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d scan(s) failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&symbols, "symbols", nil, "underlying symbols, overrides analysis.symbols")
	cmd.Flags().StringSliceVar(&types, "types", nil, "option types (CALL, PUT), overrides analysis.option_types")
	cmd.Flags().StringSliceVar(&sinks, "sinks", nil, "output sinks (csv, json, clickhouse, kafka)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for file sinks")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve spread analysis over HTTP and run queued scans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadWithEnv(configPath)
			if err != nil {
				return fmt.Errorf("config load failed: %w", err)
			}
			app, cleanup, err := di.InitializeApp(cfg)
			if err != nil {
				return fmt.Errorf("app initialization failed: %w", err)
			}
			defer cleanup()
			app.Logger().Info("serving",
				applogger.Int("port", cfg.Server.Port),
				applogger.Bool("queue", cfg.Queue.Enabled),
				applogger.Bool("history", cfg.ClickHouse.Host != ""))
			return app.Serve()
		},
	}
}

func parseTypes(in []string) ([]models.OptionType, error) {
	out := make([]models.OptionType, 0, len(in))
	for _, s := range in {
		t, ok := models.ParseOptionType(s)
		if !ok {
			return nil, fmt.Errorf("unknown option type %q", s)
		}
		out = append(out, t)
	}
	return out, nil
}
