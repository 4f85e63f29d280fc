package crawler

import "time"

// Link is an outbound link with the number of times its page name occurs on the source page
type Link struct {
	URL   string
	Name  string
	Count int
}

// PageSource resolves and fetches pages for the builder.
// A returned error and an empty result both mean the page contributes no edges.
type PageSource interface {
	// ResolveName derives the canonical page name from its URL
	ResolveName(url string) string
	// FetchLinks returns outbound page URLs in page order, at most limit when limit > 0
	FetchLinks(url string, limit int) ([]string, error)
	// FetchLinksWeighted returns outbound links by descending occurrence count
	FetchLinksWeighted(url string) ([]Link, error)
}

// Recorder receives crawl progress events
type Recorder interface {
	PageExpanded(d time.Duration)
	PageFailed()
	VertexDiscovered()
	EdgeRecorded()
}

type nopRecorder struct{}

func (nopRecorder) PageExpanded(time.Duration) {}
func (nopRecorder) PageFailed()                {}
func (nopRecorder) VertexDiscovered()          {}
func (nopRecorder) EdgeRecorded()              {}
