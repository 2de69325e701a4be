package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatpulse_command_runs_total",
		Help: "Total CLI command runs",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatpulse_command_errors_total",
		Help: "Total CLI command failures",
	}, []string{"command"})
	RowsDecoded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatpulse_rows_decoded_total",
		Help: "Rows decoded from CSV exports",
	})
	RowsStored = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatpulse_rows_stored_total",
		Help: "New rows written to the record store",
	})
	AnalyzeRuns = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chatpulse_analyze_runs_total",
		Help: "Total aggregation passes",
	})
	AnalyzeEmpty = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatpulse_analyze_empty_total",
		Help: "Aggregation requests that selected no messages",
	}, []string{"reason"})
	AnalyzeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "chatpulse_analyze_duration_seconds",
		Help:    "Aggregation duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	RecordsProcessed = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chatpulse_records_processed",
		Help: "Records in the most recent aggregation pass",
	})
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chatpulse_http_requests_total",
		Help: "HTTP API requests",
	}, []string{"route", "code"})
)

func init() {
	prometheus.MustRegister(CommandRuns, CommandErrors, RowsDecoded, RowsStored,
		AnalyzeRuns, AnalyzeEmpty, AnalyzeDuration, RecordsProcessed, HTTPRequests)
}

// Handler exposes the default registry.
func Handler() http.Handler { return promhttp.Handler() }

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, mux) }()
}

// ObserveAnalyzeDuration records a pass duration.
func ObserveAnalyzeDuration(start time.Time) {
	AnalyzeDuration.Observe(time.Since(start).Seconds())
}

func IncCommandRun(cmd string)   { CommandRuns.WithLabelValues(cmd).Inc() }
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }
