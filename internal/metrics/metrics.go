// Package metrics counts crawl progress for the JSON run summary and Prometheus.
package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alvmarrod/wiki-weaver/internal/storage"
)

// Tracker holds and manages crawl metrics.
// It implements crawler.Recorder.
type Tracker struct {
	mu               sync.Mutex
	data             storage.Metrics
	totalFetchTimeMs int64
	fetchCount       int
}

// NewTracker creates a new metrics tracker
func NewTracker() *Tracker {
	return &Tracker{
		data: storage.Metrics{
			StartTime: time.Now(),
		},
	}
}

// SetRunID tags the exported metrics with the stored snapshot id
func (t *Tracker) SetRunID(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.RunID = id
}

// VertexDiscovered counts a new vertex
func (t *Tracker) VertexDiscovered() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.VerticesDiscovered++
	VerticesDiscovered.Inc()
}

// EdgeRecorded counts an edge observation
func (t *Tracker) EdgeRecorded() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.EdgesRecorded++
	EdgesRecorded.Inc()
}

// PageExpanded counts a successful page expansion and its fetch duration
func (t *Tracker) PageExpanded(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesExpanded++
	t.totalFetchTimeMs += duration.Milliseconds()
	t.fetchCount++

	PagesTotal.WithLabelValues("expanded").Inc()
	FetchDuration.Observe(duration.Seconds())
}

// PageFailed counts a page whose fetch failed
func (t *Tracker) PageFailed() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.PagesFailed++
	PagesTotal.WithLabelValues("failed").Inc()
}

// GetSnapshot returns a copy of current metrics
func (t *Tracker) GetSnapshot() storage.Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.data
	snapshot.TotalFetchTimeMs = t.totalFetchTimeMs
	if t.fetchCount > 0 {
		snapshot.AvgFetchTimeMs = t.totalFetchTimeMs / int64(t.fetchCount)
	}

	return snapshot
}

// WriteToFile exports metrics to a JSON file
func (t *Tracker) WriteToFile(path, reason string) error {
	t.mu.Lock()
	t.data.EndTime = time.Now()
	t.data.TerminationReason = reason
	t.mu.Unlock()

	jsonData, err := json.MarshalIndent(t.GetSnapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}

	return nil
}

// LogProgress formats current metrics for the console
func (t *Tracker) LogProgress() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fmt.Sprintf("Vertices: %d discovered | Edges: %d | Pages: %d expanded, %d failed",
		t.data.VerticesDiscovered,
		t.data.EdgesRecorded,
		t.data.PagesExpanded,
		t.data.PagesFailed,
	)
}
