// Package metrics defines and registers all custom Prometheus metrics for the
// PrivyTune backend. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "privytune"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts register and login attempts.
// Labels:
//   - operation: "register" or "authenticate"
//   - result: "success", "invalid_credentials", "conflict", "invalid_input", "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and authenticate attempts, by outcome.",
	},
	[]string{"operation", "result"},
)

// IdentityResolutionsTotal counts how the identity gate resolved each request.
// Label:
//   - outcome: "anonymous", "invalid_token", "unknown_subject", "store_error", "authenticated"
var IdentityResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "identity_resolutions_total",
		Help:      "Total number of requests seen by the identity gate, by outcome.",
	},
	[]string{"outcome"},
)

// RateLimitedTotal counts requests rejected by the per-client rate limiter.
var RateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected by the rate limiter.",
	},
)

// ── Model metrics ─────────────────────────────────────────────────────────────

// ManifestRequestsTotal counts manifest lookups.
// Label:
//   - result: "ok", "not_found", "invalid", "upstream_error", "error"
var ManifestRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "manifest_requests_total",
		Help:      "Total number of manifest requests, by result.",
	},
	[]string{"result"},
)

// ── Download metrics ──────────────────────────────────────────────────────────

// DownloadReportsTotal counts shard-download reports handled by the workers.
// Labels:
//   - status: the reported download status ("completed" or "failed")
//   - result: "processed" or "error"
var DownloadReportsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "download_reports_total",
		Help:      "Total number of shard-download reports handled by the dispatcher.",
	},
	[]string{"status", "result"},
)

// DownloadQueueDepth tracks the number of reports waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var DownloadQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "download_queue_depth",
		Help:      "Current number of reports pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// DownloadProcessingDuration measures how long a single report takes from
// dequeue to persistence.
var DownloadProcessingDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "download_processing_duration_seconds",
		Help:      "Duration of download report processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
)
