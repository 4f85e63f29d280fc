package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	VerticesDiscovered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weaver_vertices_discovered_total",
			Help: "Article vertices added to crawl graphs.",
		},
	)

	EdgesRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "weaver_edges_recorded_total",
			Help: "Edge observations written to crawl graphs.",
		},
	)

	PagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weaver_pages_total",
			Help: "Page expansions by outcome.",
		},
		[]string{"outcome"},
	)

	FetchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "weaver_page_fetch_duration_seconds",
			Help:    "Duration of successful page fetches.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 8), // 50ms to ~6.4s
		},
	)
)

func init() {
	prometheus.MustRegister(
		VerticesDiscovered,
		EdgesRecorded,
		PagesTotal,
		FetchDuration,
	)
}

// WriteTextfile dumps every registered metric in the text exposition format,
// for pickup by a node exporter textfile collector
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write prometheus textfile: %w", err)
	}
	return nil
}
