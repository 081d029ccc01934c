// Package metrics defines Prometheus metrics for ecofinder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecofinder"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})
)

// Health metrics.
var (
	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last liveness check succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last readiness check succeeded, 0 otherwise.",
	})
)

// MercadoLibre API metrics.
var (
	MeliAPICallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meli_api_calls_total",
		Help:      "Total MercadoLibre API calls by endpoint and response status.",
	}, []string{"endpoint", "status"})

	MeliRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meli_retries_total",
		Help:      "Total MercadoLibre API retries by reason.",
	}, []string{"reason"})

	MeliDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "meli_daily_usage",
		Help:      "Current daily MercadoLibre API call count within the rolling 24-hour window.",
	})

	MeliDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "meli_daily_limit_hits_total",
		Help:      "Total number of times the daily MercadoLibre API limit was reached.",
	})
)

// Token metrics.
var (
	TokenRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total OAuth token refresh attempts by result (success, error, adopted).",
	}, []string{"result"})

	TokenExpiryTimestamp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "token_expiry_timestamp_seconds",
		Help:      "Unix timestamp at which the current access token expires.",
	})
)

// Search pipeline metrics.
var (
	PipelineStrategyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_strategy_total",
		Help:      "Search strategy attempts by strategy and outcome (hit, empty, error).",
	}, []string{"strategy", "outcome"})

	PipelineExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_exhausted_total",
		Help:      "Total searches that exhausted every strategy without results.",
	})

	PipelineSearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_search_duration_seconds",
		Help:      "Duration of full pipeline searches in seconds.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
	})
)

// Notification metrics.
var (
	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notification_failures_total",
		Help:      "Total number of notification send failures.",
	})

	NotificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of notification webhook calls in seconds.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)
