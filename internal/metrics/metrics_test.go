package metrics

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alvmarrod/wiki-weaver/internal/crawler"
	"github.com/alvmarrod/wiki-weaver/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ crawler.Recorder = (*Tracker)(nil)

// counterValue sums every series of a registered counter family
func counterValue(t *testing.T, name string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total float64
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
		return total
	}
	return 0
}

func TestTracker_Counts(t *testing.T) {
	tr := NewTracker()

	tr.VertexDiscovered()
	tr.VertexDiscovered()
	tr.EdgeRecorded()
	tr.PageExpanded(100 * time.Millisecond)
	tr.PageExpanded(300 * time.Millisecond)
	tr.PageFailed()

	snap := tr.GetSnapshot()
	assert.Equal(t, 2, snap.VerticesDiscovered)
	assert.Equal(t, 1, snap.EdgesRecorded)
	assert.Equal(t, 2, snap.PagesExpanded)
	assert.Equal(t, 1, snap.PagesFailed)
	assert.Equal(t, int64(400), snap.TotalFetchTimeMs)
	assert.Equal(t, int64(200), snap.AvgFetchTimeMs)

	assert.Equal(t, "Vertices: 2 discovered | Edges: 1 | Pages: 2 expanded, 1 failed", tr.LogProgress())
}

func TestTracker_FeedsPrometheus(t *testing.T) {
	vertices := counterValue(t, "weaver_vertices_discovered_total")
	edges := counterValue(t, "weaver_edges_recorded_total")
	pages := counterValue(t, "weaver_pages_total")

	tr := NewTracker()
	tr.VertexDiscovered()
	tr.EdgeRecorded()
	tr.EdgeRecorded()
	tr.PageExpanded(time.Millisecond)
	tr.PageFailed()

	assert.Equal(t, vertices+1, counterValue(t, "weaver_vertices_discovered_total"))
	assert.Equal(t, edges+2, counterValue(t, "weaver_edges_recorded_total"))
	assert.Equal(t, pages+2, counterValue(t, "weaver_pages_total"))
}

func TestTracker_WriteToFile(t *testing.T) {
	tr := NewTracker()
	tr.SetRunID("run-1")
	tr.VertexDiscovered()
	tr.PageExpanded(50 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "metrics.json")
	require.NoError(t, tr.WriteToFile(path, "budget_exhausted"))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got storage.Metrics
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "budget_exhausted", got.TerminationReason)
	assert.Equal(t, 1, got.VerticesDiscovered)
	assert.Equal(t, int64(50), got.AvgFetchTimeMs)
	assert.False(t, got.EndTime.Before(got.StartTime))
}

func TestWriteTextfile(t *testing.T) {
	NewTracker().PageFailed()

	path := filepath.Join(t.TempDir(), "weaver.prom")
	require.NoError(t, WriteTextfile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(raw)
	assert.True(t, strings.Contains(text, `weaver_pages_total{outcome="failed"}`), text)
	assert.Contains(t, text, "weaver_vertices_discovered_total")
}

func TestWriteTextfile_BadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "weaver.prom"))
	assert.Error(t, err)
}
