package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alvmarrod/wiki-weaver/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := NewStorage(filepath.Join(t.TempDir(), "weaver.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func weightedView() graph.View {
	g := graph.New[float64]()
	g.AddVertex("Horse", "https://en.wikipedia.org/wiki/Horse")
	g.AddVertex("Pony", "https://en.wikipedia.org/wiki/Pony")
	g.AddVertex("Mule", "https://en.wikipedia.org/wiki/Mule")
	_ = g.AddEdge("Horse", "Pony", 2.5)
	_ = g.AddEdge("Horse", "Mule", 4)
	return g.Export()
}

func TestStorage_SaveAndLoadRun(t *testing.T) {
	s := newTestStorage(t)
	started := time.Now().Add(-time.Minute)
	finished := time.Now()

	run := &Run{
		Seed:          "Horse",
		StartURL:      "https://en.wikipedia.org/wiki/Horse",
		Weighted:      true,
		TotalBudget:   2,
		PerPageBudget: 0,
		Reason:        "budget_exhausted",
		PagesExpanded: 1,
		StartedAt:     started,
		FinishedAt:    finished,
	}
	view := weightedView()

	id, err := s.SaveRun(run, view)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, run.ID)

	got, loaded, err := s.LoadRun(id)
	require.NoError(t, err)
	assert.Equal(t, "Horse", got.Seed)
	assert.True(t, got.Weighted)
	assert.Equal(t, "budget_exhausted", got.Reason)
	assert.Equal(t, 3, got.NodeCount)
	assert.Equal(t, 2, got.EdgeCount)
	assert.Equal(t, 1, got.PagesExpanded)
	assert.WithinDuration(t, started, got.StartedAt, time.Millisecond)
	assert.WithinDuration(t, finished, got.FinishedAt, time.Millisecond)

	assert.Equal(t, view, loaded)
}

func TestStorage_UnweightedEdgesHaveNoWeight(t *testing.T) {
	s := newTestStorage(t)

	g := graph.New[graph.Unit]()
	g.AddVertex("A", "https://en.wikipedia.org/wiki/A")
	g.AddVertex("B", "https://en.wikipedia.org/wiki/B")
	require.NoError(t, g.AddEdge("A", "B", graph.Unit{}))

	id, err := s.SaveRun(&Run{Seed: "A", StartURL: "https://en.wikipedia.org/wiki/A", StartedAt: time.Now(), FinishedAt: time.Now()}, g.Export())
	require.NoError(t, err)

	_, view, err := s.LoadRun(id)
	require.NoError(t, err)
	require.Len(t, view.Edges, 1)
	assert.Nil(t, view.Edges[0].Weight)
	assert.Equal(t, "A to B", view.Edges[0].Label)
}

func TestStorage_ListRuns(t *testing.T) {
	s := newTestStorage(t)

	older := &Run{ID: "older", Seed: "A", StartURL: "a", StartedAt: time.Now().Add(-time.Hour), FinishedAt: time.Now()}
	newer := &Run{ID: "newer", Seed: "B", StartURL: "b", StartedAt: time.Now(), FinishedAt: time.Now()}

	_, err := s.SaveRun(older, graph.View{})
	require.NoError(t, err)
	_, err = s.SaveRun(newer, graph.View{})
	require.NoError(t, err)

	runs, err := s.ListRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "newer", runs[0].ID)
	assert.Equal(t, "older", runs[1].ID)
}

func TestStorage_RunNotFound(t *testing.T) {
	s := newTestStorage(t)

	_, _, err := s.LoadRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	_, err = s.GetRun("missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	assert.ErrorIs(t, s.DeleteRun("missing"), ErrRunNotFound)
}

func TestStorage_DuplicateIDRollsBack(t *testing.T) {
	s := newTestStorage(t)

	run := &Run{ID: "same", Seed: "Horse", StartURL: "h", StartedAt: time.Now(), FinishedAt: time.Now()}
	_, err := s.SaveRun(run, weightedView())
	require.NoError(t, err)

	_, err = s.SaveRun(&Run{ID: "same", Seed: "Other", StartURL: "o"}, graph.View{})
	require.Error(t, err)

	got, view, err := s.LoadRun("same")
	require.NoError(t, err)
	assert.Equal(t, "Horse", got.Seed)
	assert.Len(t, view.Nodes, 3)
}

func TestStorage_DeleteRun(t *testing.T) {
	s := newTestStorage(t)

	id, err := s.SaveRun(&Run{Seed: "Horse", StartURL: "h", StartedAt: time.Now(), FinishedAt: time.Now()}, weightedView())
	require.NoError(t, err)

	require.NoError(t, s.DeleteRun(id))

	_, _, err = s.LoadRun(id)
	assert.ErrorIs(t, err, ErrRunNotFound)

	var orphans int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM nodes WHERE run_id = ?", id).Scan(&orphans))
	assert.Zero(t, orphans)
}
