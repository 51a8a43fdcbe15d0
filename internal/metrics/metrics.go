package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threatmap_events_generated_total",
		Help: "Total number of synthetic live attack events generated.",
	})

	StreamClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "threatmap_stream_clients",
		Help: "Currently connected live-stream subscribers, labelled by transport.",
	}, []string{"transport"})

	HistoryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threatmap_history_cache_hits_total",
		Help: "Total number of history lookups served from the in-memory cache.",
	})

	HistoryCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threatmap_history_cache_misses_total",
		Help: "Total number of history lookups that triggered a fetch.",
	})

	IntelFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "threatmap_intel_fetch_failures_total",
		Help: "Total number of external intel fetches that fell back to synthetic data.",
	})

	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "threatmap_history_fetch_duration_ms",
		Help:    "Latency of fetch-or-synthesize operations in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	})
)
