package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Lifecycle monitor
	MonitorState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "overlay_monitor_state",
		Help: "Current lifecycle state (0=not_running, 1=running, 2=exit_pending, 3=resetting)",
	})
	MonitorTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "overlay_monitor_transitions_total",
		Help: "Lifecycle state transitions",
	}, []string{"from", "to"})
	ProbeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "overlay_probe_failures_total",
		Help: "Presence probes that returned an error and were treated as absent",
	})

	// Reset coordinator
	ResetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "overlay_resets_total",
		Help: "Reset sequences by outcome",
	}, []string{"outcome"}) // completed, failed, rejected
	ResetDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "overlay_reset_duration_seconds",
		Help:    "Duration of completed reset sequences",
		Buckets: []float64{0.1, 0.5, 1, 1.5, 2, 5},
	})

	// Metadata cache
	MetadataCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "overlay_metadata_cache_hits_total",
		Help: "Presentation artifacts served from the metadata cache",
	})
	MetadataCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "overlay_metadata_cache_misses_total",
		Help: "Presentation artifacts built because no equal snapshot was cached",
	})
	MetadataCacheEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "overlay_metadata_cache_entries",
		Help: "Cached presentation artifacts",
	})

	// Card database
	CardLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "overlay_card_lookups_total",
		Help: "Card database lookups by result",
	}, []string{"result"}) // found, not_found, error
	CardDatabaseSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "overlay_card_database_size",
		Help: "Cards in the local card database",
	})
	CardLocalizationsByLocale = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "overlay_card_localizations",
		Help: "Localized card entries by locale",
	}, []string{"locale"})

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "overlay_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "path", "status"})
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "overlay_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
