// Package wiki fetches Wikipedia articles and extracts their links, title, summary and image.
package wiki

import (
	"cmp"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/alvmarrod/wiki-weaver/internal/crawler"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultBaseURL is the English Wikipedia origin
	DefaultBaseURL          = "https://en.wikipedia.org"
	defaultUserAgent        = "wiki-weaver/1.0 (+https://github.com/alvmarrod/wiki-weaver)"
	defaultRequestTimeout   = 10 * time.Second
	defaultSummarySentences = 2
)

// ErrFetch is returned when a page cannot be retrieved
var ErrFetch = errors.New("fetch failed")

// Options configures a Client
type Options struct {
	BaseURL          string
	UserAgent        string
	RequestTimeout   time.Duration
	SummarySentences int
}

// Client retrieves articles with a colly collector.
// It is safe for concurrent use; every fetch runs on its own collector clone.
type Client struct {
	baseURL   string
	sentences int
	collector *colly.Collector
}

// page holds everything extracted from one article response
type page struct {
	hrefs      []string
	body       string
	title      string
	paragraphs []string
	image      string
}

// NewClient creates a new article client
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if parsed, err := url.Parse(base); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", opts.BaseURL)
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	sentences := opts.SummarySentences
	if sentences <= 0 {
		sentences = defaultSummarySentences
	}

	collector := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(timeout)

	return &Client{
		baseURL:   base,
		sentences: sentences,
		collector: collector,
	}, nil
}

// BaseURL returns the origin article URLs are built from
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ArticleURL returns the URL of the article with the given title
func (c *Client) ArticleURL(title string) string {
	return c.baseURL + articlePrefix + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
}

// ResolveName derives the article title from its URL without fetching it
func (c *Client) ResolveName(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	article := ArticleFromHref(parsed.EscapedPath())
	if article == "" {
		return pageURL
	}
	return TitleFromArticle(article)
}

// FetchLinks returns the article links of a page in page order, at most limit when limit > 0
func (c *Client) FetchLinks(pageURL string, limit int) ([]string, error) {
	p, err := c.fetch(pageURL)
	if err != nil {
		return nil, err
	}

	links := FilterLinks(c.baseURL, pageURL, p.hrefs)
	if limit > 0 && len(links) > limit {
		links = links[:limit]
	}
	return links, nil
}

// FetchLinksWeighted returns the article links of a page with the number of times each
// linked title occurs in the page HTML, most frequent first
func (c *Client) FetchLinksWeighted(pageURL string) ([]crawler.Link, error) {
	p, err := c.fetch(pageURL)
	if err != nil {
		return nil, err
	}

	links := FilterLinks(c.baseURL, pageURL, p.hrefs)
	weighted := make([]crawler.Link, 0, len(links))
	for _, link := range links {
		name := c.ResolveName(link)
		weighted = append(weighted, crawler.Link{
			URL:   link,
			Name:  name,
			Count: strings.Count(p.body, name),
		})
	}

	// Stable sort keeps page order among equal counts
	slices.SortStableFunc(weighted, func(a, b crawler.Link) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return weighted, nil
}

// Title returns the displayed article heading, falling back to the URL-derived name
func (c *Client) Title(pageURL string) (string, error) {
	p, err := c.fetch(pageURL)
	if err != nil {
		return "", err
	}
	if p.title == "" {
		return c.ResolveName(pageURL), nil
	}
	return p.title, nil
}

// Summary returns the first sentences of the article body
func (c *Client) Summary(pageURL string) (string, error) {
	p, err := c.fetch(pageURL)
	if err != nil {
		return "", err
	}
	return summarize(p.paragraphs, c.sentences), nil
}

// Image returns the lead image URL of the article, or "" if it has none
func (c *Client) Image(pageURL string) (string, error) {
	p, err := c.fetch(pageURL)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(p.image, "//") {
		return "https:" + p.image, nil
	}
	return p.image, nil
}

// fetch visits pageURL synchronously and collects the parts of the page we use
func (c *Client) fetch(pageURL string) (*page, error) {
	p := &page{}
	collector := c.collector.Clone()

	collector.OnHTML("a[href]", func(e *colly.HTMLElement) {
		p.hrefs = append(p.hrefs, e.Attr("href"))
	})

	collector.OnHTML("h1#firstHeading", func(e *colly.HTMLElement) {
		if p.title == "" {
			p.title = strings.TrimSpace(e.Text)
		}
	})

	collector.OnHTML("p", func(e *colly.HTMLElement) {
		p.paragraphs = append(p.paragraphs, paragraphText(e.DOM))
	})

	collector.OnHTML(`meta[property="og:image"]`, func(e *colly.HTMLElement) {
		if p.image == "" {
			p.image = e.Attr("content")
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		p.body = string(r.Body)
		logrus.Debugf("Fetched %s (status=%d, %d bytes)", pageURL, r.StatusCode, len(r.Body))
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, pageURL, err)
	}

	return p, nil
}

// paragraphText returns the text of a paragraph without footnote markers
func paragraphText(s *goquery.Selection) string {
	clean := s.Clone()
	clean.Find("sup").Remove()
	return strings.TrimSpace(clean.Text())
}

// summarize joins paragraphs until it holds the wanted number of sentences and
// cuts the text after the last of them
func summarize(paragraphs []string, sentences int) string {
	var b strings.Builder
	for _, para := range paragraphs {
		if para == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(para)
		if strings.Count(b.String(), ".") >= sentences {
			break
		}
	}

	text := b.String()
	seen := 0
	for i, r := range text {
		if r != '.' {
			continue
		}
		seen++
		if seen == sentences {
			return text[:i+1]
		}
	}
	return text
}
