package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search metrics are registered explicitly from the composition root
// (no init()) so library-style reuse of the repositories does not drag
// collectors into foreign registries.
var (
	// SearchCacheTotal counts result-cache lookups, labeled "hit"/"miss".
	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sponsorscope",
			Name:      "search_cache_total",
			Help:      "Search result cache lookups by outcome",
		},
		[]string{"result"},
	)

	// SearchDuration observes store-side search latency.
	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "sponsorscope",
			Name:      "search_duration_seconds",
			Help:      "Company search duration in seconds (count + page fetch)",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)
)

// RegisterSearchMetrics registers search collectors with the default
// prometheus registry.
func RegisterSearchMetrics() {
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(SearchDuration)
}
