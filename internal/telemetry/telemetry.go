// Package telemetry exposes Prometheus metrics for the review-risk
// service: heuristic scoring volume, AI pipeline behavior, and the
// failure modes the operator needs to see (rate limiting, sentinel
// substitutions, billing aborts).
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "reviewrisk"

// Metrics holds all service Prometheus metrics.
type Metrics struct {
	// Heuristic scorers
	ReviewsScored *prometheus.CounterVec // labels: scorer
	ScoreCategory *prometheus.CounterVec // labels: scorer, category
	ScoreDuration *prometheus.HistogramVec

	// AI pipeline
	VerdictsReturned  prometheus.Counter
	SentinelVerdicts  prometheus.Counter
	RateLimitHits     prometheus.Counter
	BillingAborts     prometheus.Counter
	RetriedRequests   prometheus.Counter
	BatchDuration     prometheus.Histogram
	PipelineBatchSize prometheus.Histogram
}

// NewMetrics registers and returns the service metrics on the default
// registry.
func NewMetrics() *Metrics {
	return &Metrics{
		ReviewsScored: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_scored_total",
			Help:      "Reviews scored by the heuristic engines",
		}, []string{"scorer"}),
		ScoreCategory: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_category_total",
			Help:      "Risk category distribution per scorer",
		}, []string{"scorer", "category"}),
		ScoreDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score_duration_seconds",
			Help:      "Heuristic scoring latency",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"scorer"}),
		VerdictsReturned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_verdicts_total",
			Help:      "Verdicts produced by the AI pipeline, sentinels included",
		}),
		SentinelVerdicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_sentinel_verdicts_total",
			Help:      "Fallback verdicts substituted after classification failures",
		}),
		RateLimitHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_rate_limit_hits_total",
			Help:      "HTTP 429 responses from the model endpoint",
		}),
		BillingAborts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_billing_aborts_total",
			Help:      "Runs aborted because model credits were exhausted",
		}),
		RetriedRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ai_retried_requests_total",
			Help:      "Per-review classification attempts beyond the first",
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_batch_duration_seconds",
			Help:      "Duration of one fan-out/fan-in batch",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		PipelineBatchSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ai_pipeline_input_size",
			Help:      "Number of reviews per ClassifyBatch call",
			Buckets:   prometheus.LinearBuckets(5, 10, 10),
		}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
