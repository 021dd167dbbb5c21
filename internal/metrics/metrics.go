// Package metrics exposes prometheus collectors for the dashboard API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IngestionBatches counts ingestion batches by final status
	IngestionBatches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_ingestion_batches_total",
			Help: "Total number of ingestion batches by status",
		},
		[]string{"status"},
	)

	// IngestionDuration tracks end-to-end ingestion time
	IngestionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_ingestion_duration_seconds",
			Help:    "Ingestion batch processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// CoinUpserts counts per-coin metric writes by outcome
	CoinUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_coin_upserts_total",
			Help: "Total number of daily-metric upserts by outcome",
		},
		[]string{"outcome"},
	)

	// ExtractorCalls counts calls to the text-extraction service
	ExtractorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_extractor_calls_total",
			Help: "Total number of extraction service calls by result",
		},
		[]string{"result"},
	)

	// ExtractorRetries counts retried extraction attempts
	ExtractorRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_extractor_retries_total",
			Help: "Total number of retried extraction attempts",
		},
	)

	// HTTPRequestDuration tracks request latency by route and status
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// statusRecorder captures the response status for the duration metric.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Middleware records request durations for every route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		HTTPRequestDuration.
			WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}
