package crawler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alvmarrod/wiki-weaver/internal/graph"
	"github.com/sirupsen/logrus"
)

// ErrInvalidConfig is returned by NewBuilder for an unusable CrawlConfig
var ErrInvalidConfig = errors.New("invalid crawl config")

// Termination reasons reported in Result.Reason
const (
	ReasonFrontierExhausted = "frontier_exhausted"
	ReasonBudgetExhausted   = "budget_exhausted"
	ReasonPageLimit         = "page_limit"
	ReasonCanceled          = "canceled"
)

// CrawlConfig holds the immutable parameters of one crawl
type CrawlConfig struct {
	Start         string // URL of the seed page
	TotalBudget   int    // max new vertices beyond the seed
	PerPageBudget int    // max new vertices from one page expansion, 0 = unlimited
	MaxPages      int    // max page expansions, 0 = unlimited
}

func (c CrawlConfig) validate() error {
	if c.Start == "" {
		return fmt.Errorf("%w: start url is required", ErrInvalidConfig)
	}
	if c.TotalBudget < 0 {
		return fmt.Errorf("%w: total budget must be >= 0", ErrInvalidConfig)
	}
	if c.PerPageBudget < 0 {
		return fmt.Errorf("%w: per-page budget must be >= 0", ErrInvalidConfig)
	}
	if c.MaxPages < 0 {
		return fmt.Errorf("%w: max pages must be >= 0", ErrInvalidConfig)
	}
	return nil
}

// Result is the outcome of a crawl
type Result[W graph.Weight] struct {
	Graph         *graph.Graph[W]
	Seed          string // canonical name of the seed page
	Reason        string
	PagesExpanded int
	PagesFailed   int
}

// Builder drives a bounded breadth-first crawl from a seed page
type Builder struct {
	cfg      CrawlConfig
	source   PageSource
	recorder Recorder
}

// NewBuilder creates a builder; recorder may be nil
func NewBuilder(cfg CrawlConfig, source PageSource, recorder Recorder) (*Builder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, fmt.Errorf("%w: page source is required", ErrInvalidConfig)
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}

	return &Builder{
		cfg:      cfg,
		source:   source,
		recorder: recorder,
	}, nil
}

// Config returns the crawl parameters
func (b *Builder) Config() CrawlConfig {
	return b.cfg
}

// candidate is an outbound link considered during a page expansion
type candidate struct {
	url   string
	name  string
	count int
}

// Build crawls in page order and returns an unweighted graph
func (b *Builder) Build(ctx context.Context) (*Result[graph.Unit], error) {
	expand := func(url string) ([]candidate, error) {
		links, err := b.source.FetchLinks(url, 0)
		if err != nil {
			return nil, err
		}
		candidates := make([]candidate, 0, len(links))
		for _, link := range links {
			candidates = append(candidates, candidate{url: link, name: b.source.ResolveName(link), count: 1})
		}
		return candidates, nil
	}

	connect := func(g *graph.Graph[graph.Unit], from, to string, _ int) error {
		return g.AddEdge(from, to, graph.Unit{})
	}

	return crawl(ctx, b, expand, connect)
}

// BuildWeighted crawls the most frequent links first and returns a graph
// weighted by the mean of the two one-sided occurrence counts
func (b *Builder) BuildWeighted(ctx context.Context) (*Result[float64], error) {
	expand := func(url string) ([]candidate, error) {
		links, err := b.source.FetchLinksWeighted(url)
		if err != nil {
			return nil, err
		}
		candidates := make([]candidate, 0, len(links))
		for _, link := range links {
			name := link.Name
			if name == "" {
				name = b.source.ResolveName(link.URL)
			}
			candidates = append(candidates, candidate{url: link.URL, name: name, count: link.Count})
		}
		return candidates, nil
	}

	weights := newWeightAccumulator()
	connect := func(g *graph.Graph[float64], from, to string, count int) error {
		return g.AddEdge(from, to, weights.observe(from, to, count))
	}

	return crawl(ctx, b, expand, connect)
}

// crawl is the BFS loop shared by both graph flavors
func crawl[W graph.Weight](
	ctx context.Context,
	b *Builder,
	expand func(url string) ([]candidate, error),
	connect func(g *graph.Graph[W], from, to string, count int) error,
) (*Result[W], error) {
	g := graph.New[W]()
	frontier := NewFrontier()
	limits := newBudget(b.cfg.TotalBudget, b.cfg.PerPageBudget)

	// Seed
	seedName := b.source.ResolveName(b.cfg.Start)
	g.AddVertex(seedName, b.cfg.Start)
	frontier.Push(Entry{URL: b.cfg.Start, Name: seedName})

	res := &Result[W]{Graph: g, Seed: seedName}

	logrus.Infof("Crawl seeded with %q (total budget=%d, per-page budget=%d)",
		seedName, b.cfg.TotalBudget, b.cfg.PerPageBudget)

	for {
		if limits.exhausted() {
			res.Reason = ReasonBudgetExhausted
			break
		}
		if frontier.IsEmpty() {
			res.Reason = ReasonFrontierExhausted
			break
		}
		if b.cfg.MaxPages > 0 && res.PagesExpanded+res.PagesFailed >= b.cfg.MaxPages {
			res.Reason = ReasonPageLimit
			break
		}
		if ctx.Err() != nil {
			res.Reason = ReasonCanceled
			break
		}

		current, _ := frontier.Pop()
		name := current.Name

		started := time.Now()
		candidates, err := expand(current.URL)
		if err != nil {
			logrus.Warnf("Fetch failed for %s, treating as page without links: %v", current.URL, err)
			res.PagesFailed++
			b.recorder.PageFailed()
			continue
		}
		res.PagesExpanded++
		b.recorder.PageExpanded(time.Since(started))

		logrus.Debugf("Expanding %q (depth=%d): %d candidate links, %d queued",
			name, current.Depth, len(candidates), frontier.Size())

		limits.startPage()
		for _, c := range candidates {
			if !limits.canAdd() {
				break
			}
			if c.name == "" || c.name == name {
				continue
			}

			frontier.Push(Entry{URL: c.url, Name: c.name, Depth: current.Depth + 1})

			if !g.HasVertex(c.name) {
				g.AddVertex(c.name, c.url)
				limits.add()
				b.recorder.VertexDiscovered()
			}

			if err := connect(g, name, c.name, c.count); err != nil {
				return nil, fmt.Errorf("failed to connect %q to %q: %w", name, c.name, err)
			}
			b.recorder.EdgeRecorded()
		}
	}

	logrus.Infof("Crawl finished (%s): %d vertices, %d edges, %d pages expanded, %d failed",
		res.Reason, g.Len(), g.EdgeCount(), res.PagesExpanded, res.PagesFailed)

	return res, nil
}
