// Package report renders a plain-text research summary of a crawl graph.
package report

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/alvmarrod/wiki-weaver/internal/graph"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const emptySummary = "Wikipedia article is empty."

var divider = strings.Repeat("=", 100)

// SummarySource provides the lead text of an article
type SummarySource interface {
	Summary(url string) (string, error)
}

// Header describes the crawl the report is about
type Header struct {
	Title          string
	URL            string
	Sources        int // total budget of the crawl
	SourcesPerPage int // per-page budget, omitted when 0
}

// Writer renders reports, fetching article summaries concurrently
type Writer struct {
	summaries SummarySource
	workers   int
}

// NewWriter creates a report writer using at most workers concurrent summary fetches
func NewWriter(summaries SummarySource, workers int) *Writer {
	if workers < 1 {
		workers = 1
	}
	return &Writer{summaries: summaries, workers: workers}
}

// Build renders the report: a header for the seed article followed by one
// entry per other node of the view, in view order
func (w *Writer) Build(ctx context.Context, h Header, view graph.View) (string, error) {
	var entries []graph.NodeRecord
	for _, n := range view.Nodes {
		if n.ID != h.URL {
			entries = append(entries, n)
		}
	}

	// Slot 0 holds the seed summary
	summaries := make([]string, len(entries)+1)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	fetch := func(i int, url string) {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			summary, err := w.summaries.Summary(url)
			if err != nil {
				logrus.Warnf("Summary unavailable for %s: %v", url, err)
				return nil
			}
			summaries[i] = summary
			return nil
		})
	}

	fetch(0, h.URL)
	for i, n := range entries {
		fetch(i+1, n.ID)
	}

	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("failed to collect summaries: %w", err)
	}

	var b strings.Builder
	writeHeader(&b, h, summaries[0])
	for i, n := range entries {
		writeEntry(&b, n, summaries[i+1])
	}
	return b.String(), nil
}

// WriteFile renders the report to path
func (w *Writer) WriteFile(ctx context.Context, path string, h Header, view graph.View) error {
	text, err := w.Build(ctx, h, view)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func writeHeader(b *strings.Builder, h Header, summary string) {
	b.WriteString("Wikipedia Article Network Research Summary of " + h.Title + "\n\n")
	b.WriteString("Wikipedia URL: " + h.URL + "\n")
	b.WriteString("Number of Sources: " + strconv.Itoa(h.Sources) + "\n")
	if h.SourcesPerPage > 0 {
		b.WriteString("Sources Per Page: " + strconv.Itoa(h.SourcesPerPage) + "\n")
	}
	b.WriteString("\n" + summary + "\n")
	b.WriteString("\n" + divider + "\n")
	b.WriteString("results")
	b.WriteString("\n" + divider + "\n")
}

func writeEntry(b *strings.Builder, n graph.NodeRecord, summary string) {
	if summary == "" {
		summary = emptySummary
	}
	b.WriteString(n.Label + "\n\n")
	b.WriteString(n.ID + "\n\n")
	b.WriteString(summary + "\n")
	b.WriteString("\n" + divider + "\n")
}
