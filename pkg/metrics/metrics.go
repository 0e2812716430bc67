package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ShareCardRequests counts share-card resolutions by entity type and
	// outcome (hit|miss|stale|refresh).
	ShareCardRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixlparade_share_card_requests_total",
			Help: "Total number of share card resolutions",
		},
		[]string{"entity_type", "outcome"},
	)

	// Renders counts card render attempts by entity type and result (success|failure).
	Renders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixlparade_share_card_renders_total",
			Help: "Total number of share card renders",
		},
		[]string{"entity_type", "result"},
	)

	// RenderDuration measures how long the render collaborator takes.
	RenderDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pixlparade_share_card_render_duration_seconds",
			Help:    "Share card render latency",
			Buckets: prometheus.DefBuckets,
		},
	)

	// MetadataFailures counts cache metadata store errors by operation
	// (read|write). Reads fail open to a miss; a rising read rate means the
	// store is degraded and every request is re-rendering.
	MetadataFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pixlparade_share_card_metadata_failures_total",
			Help: "Total number of cache metadata store failures",
		},
		[]string{"operation"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pixlparade_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
