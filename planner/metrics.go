package planner

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchTotal counts root searches by outcome: found, not_found, canceled, limit, error
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "circleplanner_searches_total",
		Help: "Total root searches by side and result",
	}, []string{"side", "result"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "circleplanner_search_duration_seconds",
		Help:    "Root search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14), // 10µs to ~80ms
	}, []string{"side"})

	searchExpanded = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "circleplanner_search_expanded_nodes",
		Help:    "Number of nodes popped per root search",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
	})
)
