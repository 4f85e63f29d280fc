package report

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alvmarrod/wiki-weaver/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummaries struct {
	mu      sync.Mutex
	text    map[string]string
	failing map[string]bool
	calls   int
}

func (f *fakeSummaries) Summary(url string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failing[url] {
		return "", errors.New("boom")
	}
	return f.text[url], nil
}

const base = "https://en.wikipedia.org/wiki/"

func horseView() graph.View {
	return graph.View{
		Nodes: []graph.NodeRecord{
			{ID: base + "Horse", Label: "Horse"},
			{ID: base + "Pony", Label: "Pony"},
			{ID: base + "Mule", Label: "Mule"},
			{ID: base + "Zebra", Label: "Zebra"},
		},
	}
}

func TestWriter_Build(t *testing.T) {
	src := &fakeSummaries{
		text: map[string]string{
			base + "Horse": "The horse is a mammal.",
			base + "Pony":  "A pony is a small horse.",
		},
		failing: map[string]bool{base + "Zebra": true},
	}
	w := NewWriter(src, 2)

	text, err := w.Build(context.Background(), Header{
		Title:          "Horse",
		URL:            base + "Horse",
		Sources:        3,
		SourcesPerPage: 2,
	}, horseView())
	require.NoError(t, err)

	expected := "Wikipedia Article Network Research Summary of Horse\n\n" +
		"Wikipedia URL: " + base + "Horse\n" +
		"Number of Sources: 3\n" +
		"Sources Per Page: 2\n" +
		"\nThe horse is a mammal.\n" +
		"\n" + divider + "\n" +
		"results" +
		"\n" + divider + "\n" +
		"Pony\n\n" + base + "Pony\n\nA pony is a small horse.\n\n" + divider + "\n" +
		"Mule\n\n" + base + "Mule\n\n" + emptySummary + "\n\n" + divider + "\n" +
		"Zebra\n\n" + base + "Zebra\n\n" + emptySummary + "\n\n" + divider + "\n"

	assert.Equal(t, expected, text)
	assert.Equal(t, 4, src.calls)
}

func TestWriter_OmitsSourcesPerPageWhenUnlimited(t *testing.T) {
	w := NewWriter(&fakeSummaries{}, 0)

	text, err := w.Build(context.Background(), Header{Title: "Horse", URL: base + "Horse", Sources: 30}, graph.View{})
	require.NoError(t, err)
	assert.NotContains(t, text, "Sources Per Page")
	assert.True(t, strings.HasSuffix(text, "results\n"+divider+"\n"))
}

func TestWriter_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWriter(&fakeSummaries{}, 1).Build(ctx, Header{URL: base + "Horse"}, horseView())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriter_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "research_summary.txt")
	w := NewWriter(&fakeSummaries{text: map[string]string{base + "Pony": "Small."}}, 4)

	require.NoError(t, w.WriteFile(context.Background(), path, Header{Title: "Horse", URL: base + "Horse", Sources: 3}, horseView()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Pony\n\n"+base+"Pony\n\nSmall.\n")
}
