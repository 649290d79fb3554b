package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscan_scan_seconds",
		Help:    "Time spent resolving one root module's dependency graph.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	FrontendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "depscan_frontend_seconds",
		Help:    "Time spent in the frontend collaborator per module.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_cache_hits_total",
		Help: "Module resolutions answered from the dependency cache.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_cache_misses_total",
		Help: "Module resolutions that required invoking the frontend.",
	})

	CachedModules = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_cached_modules_total",
		Help: "Number of module records held by the dependency cache.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_graph_nodes_total",
		Help: "Node count of the most recently resolved dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "depscan_graph_edges_total",
		Help: "Edge count of the most recently resolved dependency graph.",
	})

	BatchEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "depscan_batch_entries_total",
		Help: "Batch scan entries processed, by outcome.",
	}, []string{"outcome"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "depscan_watcher_events_total",
		Help: "File system events received while in watch mode.",
	})
)
