package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "qmt"

// File outcomes recorded by FilesTotal.
const (
	OutcomeOK     = "ok"
	OutcomeEmpty  = "empty"
	OutcomeFailed = "failed"
)

// Metrics groups the decoder counters. A nil *Metrics is a no-op.
type Metrics struct {
	FilesTotal      *prometheus.CounterVec
	BarsTotal       prometheus.Counter
	RejectionsTotal *prometheus.CounterVec
	ParseSeconds    prometheus.Histogram
}

// New creates and registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		FilesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "DAT files processed, by outcome.",
		}, []string{"outcome"}),
		BarsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bars_total",
			Help:      "Bars accepted across all files.",
		}),
		RejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejections_total",
			Help:      "Record pairs rejected, by reason.",
		}, []string{"reason"}),
		ParseSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_seconds",
			Help:      "Time to read and decode one file.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
	}
	reg.MustRegister(m.FilesTotal, m.BarsTotal, m.RejectionsTotal, m.ParseSeconds)
	return m
}

// ObserveFile records one processed file.
func (m *Metrics) ObserveFile(outcome string, bars int, took time.Duration) {
	if m == nil {
		return
	}
	m.FilesTotal.WithLabelValues(outcome).Inc()
	m.BarsTotal.Add(float64(bars))
	m.ParseSeconds.Observe(took.Seconds())
}

// AddRejections adds n rejections for reason.
func (m *Metrics) AddRejections(reason string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.RejectionsTotal.WithLabelValues(reason).Add(float64(n))
}

// Handler exposes the collectors gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Server exposes Prometheus metrics on its own port.
type Server struct {
	srv *http.Server
}

func NewServer(port int, h http.Handler) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	return &Server{srv: &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

func (s *Server) Start() {
	go func() { _ = s.srv.ListenAndServe() }()
}

func (s *Server) Close() error { return s.srv.Close() }
