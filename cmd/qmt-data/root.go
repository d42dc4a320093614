package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"qmt-data/internal/app"
	"qmt-data/internal/metrics"
	"qmt-data/internal/slogx"
)

var overrides app.Overrides

var rootCMD = &cobra.Command{
	Use:   "qmt-data",
	Short: "Decode QMT DAT bar files into OHLCV tables",
	Long: `A CLI for decoding QMT terminal DAT files (daily and 5-minute bars) into
clean OHLCV tables with percent change, written as CSV, JSON, Parquet or XLSX
and optionally stored in Postgres and served over HTTP.`,
	SilenceUsage: true,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCMD.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCMD.PersistentFlags()
	pf.StringVar(&overrides.EnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	pf.StringVarP(&overrides.OutputDir, "output", "o", "", "output directory (overrides OUTPUT_DIR)")
	pf.StringVarP(&overrides.SaveFormat, "format", "f", "", "table format: csv, json, parquet, xlsx (overrides SAVE_FORMAT)")
	pf.IntVarP(&overrides.Workers, "workers", "w", 0, "files decoded concurrently (overrides WORKERS)")

	rootCMD.AddCommand(parseCMD, batchCMD, marketsCMD, serveCMD)
}

// bootstrap builds the application graph and switches to the configured log level.
func bootstrap() (*App, func(), error) {
	a, cleanup, err := InitializeApp(overrides)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(slogx.NewDefault(a.Config.LogLevel))
	return a, cleanup, nil
}

// startMetrics exposes /metrics on METRICS_PORT when it is set.
func startMetrics(a *App) func() {
	if a.Config.MetricsPort == 0 {
		return func() {}
	}
	srv := metrics.NewServer(a.Config.MetricsPort, metrics.Handler(a.Registry))
	srv.Start()
	slog.Info("metrics listening", "port", a.Config.MetricsPort)
	return func() { _ = srv.Close() }
}
