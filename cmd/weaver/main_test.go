package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alvmarrod/wiki-weaver/internal/config"
	"github.com/alvmarrod/wiki-weaver/internal/graph"
	"github.com/alvmarrod/wiki-weaver/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCrawlFlags_OnlyChangedFlagsOverride(t *testing.T) {
	c := config.Default()
	c.PerPageBudget = 7

	cmd := newCrawlCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--budget", "12", "--weighted=false", "--prom", "out.prom"}))
	require.NoError(t, applyCrawlFlags(cmd, c))

	assert.Equal(t, 12, c.TotalBudget)
	assert.Equal(t, 7, c.PerPageBudget, "unset flags keep config values")
	assert.False(t, c.Weighted)
	assert.Equal(t, "out.prom", c.PromMetricsPath)
}

func TestApplyCrawlFlags_Validates(t *testing.T) {
	cmd := newCrawlCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--per-page", "-1"}))
	assert.Error(t, applyCrawlFlags(cmd, config.Default()))
}

func TestLoadConfig_DefaultPathMayBeMissing(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	flagConfig, flagLogLevel, flagDBPath = defaultConfigPath, "debug", "custom.db"
	t.Cleanup(func() { flagConfig, flagLogLevel, flagDBPath = defaultConfigPath, "", "" })

	cmd := newRunsCmd()
	require.NoError(t, loadConfig(cmd))
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30, cfg.TotalBudget)
}

func TestWriteView(t *testing.T) {
	g := graph.New[float64]()
	g.AddVertex("Horse", "https://en.wikipedia.org/wiki/Horse")
	g.AddVertex("Pony", "https://en.wikipedia.org/wiki/Pony")
	require.NoError(t, g.AddEdge("Horse", "Pony", 3))

	path := filepath.Join(t.TempDir(), "view.json")
	require.NoError(t, writeView(path, g.Export()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var got graph.View
	require.NoError(t, json.Unmarshal(raw, &got))
	require.Len(t, got.Edges, 1)
	assert.Equal(t, "Horse to Pony", got.Edges[0].Label)
	require.NotNil(t, got.Edges[0].Weight)
	assert.Equal(t, 3.0, *got.Edges[0].Weight)
}

func TestHeaderForRun(t *testing.T) {
	h := headerForRun(&storage.Run{Seed: "Horse", StartURL: "u", TotalBudget: 10, PerPageBudget: 2})
	assert.Equal(t, "Horse", h.Title)
	assert.Equal(t, "u", h.URL)
	assert.Equal(t, 10, h.Sources)
	assert.Equal(t, 2, h.SourcesPerPage)
}
