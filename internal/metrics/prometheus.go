package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

// JobName identifies the updater when pushing to a Pushgateway
const JobName = "youtube_info_updater"

// Prometheus metrics for the updater

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_updater_api_calls_total",
			Help: "Total number of YouTube search API calls",
		},
		[]string{"league", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtube_updater_api_call_duration_seconds",
			Help:    "Duration of YouTube search API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"league"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_updater_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "youtube_updater_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	LeaguesUpdated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_updater_leagues_updated_total",
			Help: "Total number of league rows written",
		},
		[]string{"league"},
	)

	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_updater_runs_total",
			Help: "Total number of update runs",
		},
		[]string{"status"},
	)

	RunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "youtube_updater_run_duration_seconds",
			Help:    "Duration of update runs in seconds",
			Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "youtube_updater_last_successful_run_timestamp",
			Help: "Timestamp of last successful update run",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_updater_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(league, status string, duration float64) {
	APICallsTotal.WithLabelValues(league, status).Inc()
	APICallDuration.WithLabelValues(league).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordLeagueUpdated records a written league row
func RecordLeagueUpdated(league string) {
	LeaguesUpdated.WithLabelValues(league).Inc()
}

// RecordRun records an update run
func RecordRun(status string, duration float64) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}

// Push sends the default registry to a Pushgateway. One-shot runs exit before
// anything could scrape them.
func Push(ctx context.Context, url string) error {
	err := push.New(url, JobName).
		Gatherer(prometheus.DefaultGatherer).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
