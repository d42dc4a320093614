package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"qmt-data/internal/batch"
	"qmt-data/internal/dat"
	"qmt-data/internal/metrics"
	"qmt-data/internal/saver"
	"qmt-data/internal/slogx"
	"qmt-data/internal/store"
)

// ProvideConfig loads config from environment and flag overrides (for Wire).
func ProvideConfig(o Overrides) (*Config, error) {
	return LoadConfig(o)
}

// ProvideParser creates the DAT parser from the decode thresholds (for Wire).
func ProvideParser(cfg *Config) (*dat.Parser, error) {
	opts, err := cfg.DecodeOptions()
	if err != nil {
		return nil, err
	}
	return dat.NewParser(opts), nil
}

// ProvideTableSaver creates TableSaver from config (for Wire).
// Returns error if SaveFormat is not supported.
func ProvideTableSaver(cfg *Config) (saver.TableSaver, error) {
	ts := saver.NewTableSaver(cfg.SaveFormat)
	if ts == nil {
		return nil, fmt.Errorf("unsupported SAVE_FORMAT %q (use: csv, json, parquet, xlsx)", cfg.SaveFormat)
	}
	return ts, nil
}

// ProvideStore opens the bar store when DB_DSN is set; otherwise it returns nil.
// The cleanup closes the connection pool.
func ProvideStore(cfg *Config) (*store.BarStore, func(), error) {
	if cfg.DBDSN == "" {
		return nil, func() {}, nil
	}
	st, err := store.Open(cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	slog.Info("bar store connected")
	return st, func() {
		if err := st.Close(); err != nil {
			slog.Warn("close store", "error", err)
		}
	}, nil
}

// ProvideRegistry creates the Prometheus registry with runtime collectors (for Wire).
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// ProvideMetrics registers the decoder collectors on reg (for Wire).
func ProvideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

// ProvideRunner wires the batch runner. A nil store leaves the sink unset.
func ProvideRunner(cfg *Config, p *dat.Parser, ts saver.TableSaver, st *store.BarStore, m *metrics.Metrics) *batch.Runner {
	r := &batch.Runner{
		Parser:    p,
		Saver:     ts,
		Metrics:   m,
		Workers:   cfg.Workers,
		Heartbeat: cfg.Heartbeat,
		LogLevel:  slogx.ParseLevel(cfg.LogLevel),
		LogOutput: os.Stderr,
	}
	if st != nil {
		r.Sink = st
	}
	return r
}
