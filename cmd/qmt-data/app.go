package main

import (
	"github.com/prometheus/client_golang/prometheus"

	"qmt-data/internal/app"
	"qmt-data/internal/batch"
	"qmt-data/internal/dat"
	"qmt-data/internal/metrics"
	"qmt-data/internal/saver"
	"qmt-data/internal/store"
)

// App holds application dependencies built by Wire.
// Store is nil when DB_DSN is not set.
type App struct {
	Config   *app.Config
	Parser   *dat.Parser
	Saver    saver.TableSaver
	Store    *store.BarStore
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics
	Runner   *batch.Runner
}
