package prometheus

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(nil, registry)

var (
	commonLabels = []string{"community_id"}

	// Latency buckets in milliseconds. Classifier calls dominate, so the
	// range runs from sub-100ms fallback paths to the multi-second SLA edge.
	latencyBuckets = []float64{
		10, 25, 50,
		100, 250, 500,
		1000, 2500, 5000,
		10000, 15000,
	}

	ModerationRunsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuega_moderation_runs_total",
			Help: "Total number of moderation pipeline runs",
		},
		append(commonLabels, "content_type", "final_decision", "stopped_at_tier"),
	)

	ModerationPipelineLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuega_moderation_pipeline_latency_ms",
			Help:    "End-to-end moderation pipeline latency in milliseconds",
			Buckets: latencyBuckets,
		},
		commonLabels,
	)

	ModerationTierLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fuega_moderation_tier_latency_ms",
			Help:    "Per-tier policy agent latency in milliseconds",
			Buckets: latencyBuckets,
		},
		append(commonLabels, "agent_level"),
	)

	ModerationFallbackTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuega_moderation_fallback_total",
			Help: "Tier decisions produced by the heuristic fallback instead of a model",
		},
		append(commonLabels, "agent_level"),
	)

	ModerationInjectionTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "fuega_moderation_injection_detected_total",
			Help: "Moderation runs where a prompt injection pattern matched",
		},
		append(commonLabels, "content_type"),
	)

	ModerationLogFailures = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "fuega_moderation_log_write_failures_total",
			Help: "Audit log writes that failed and were surfaced to the caller",
		},
	)
)

var initOnce sync.Once

// Initialize is idempotent; the process collector must only register once.
func Initialize() {
	initOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}
