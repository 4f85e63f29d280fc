package wiki

import (
	"net/url"
	"regexp"
	"strings"
)

const articlePrefix = "/wiki/"

// Excluded article patterns (namespaces, media files, disambiguation, main page)
var excludedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`:`), // namespaced pages: Special:, File:, Talk:, Category:, ...
	regexp.MustCompile(`(?i)^Wikipedia`),
	regexp.MustCompile(`(?i)\.(jpe?g|svg|png|gif)$`),
	regexp.MustCompile(`\(disambiguation\)`),
	regexp.MustCompile(`^Main_Page$`),
}

// IsExcluded checks if an article path segment matches any excluded pattern
func IsExcluded(article string) bool {
	for _, pattern := range excludedPatterns {
		if pattern.MatchString(article) {
			return true
		}
	}
	return false
}

// ArticleFromHref returns the article segment of a "/wiki/..." href with any fragment removed.
// Returns "" for hrefs that are not article links.
func ArticleFromHref(href string) string {
	if !strings.HasPrefix(href, articlePrefix) {
		return ""
	}

	article := strings.TrimPrefix(href, articlePrefix)
	if i := strings.IndexAny(article, "#?"); i >= 0 {
		article = article[:i]
	}
	return article
}

// TitleFromArticle converts an article segment such as "Cade_(horse)" to "Cade (horse)"
func TitleFromArticle(article string) string {
	if unescaped, err := url.PathUnescape(article); err == nil {
		article = unescaped
	}
	return strings.ReplaceAll(article, "_", " ")
}

// FilterLinks extracts article links from raw hrefs, drops excluded and duplicate
// articles and the source page itself, and returns absolute URLs in page order
func FilterLinks(baseURL, sourceURL string, hrefs []string) []string {
	seen := make(map[string]bool)
	var filtered []string

	for _, href := range hrefs {
		article := ArticleFromHref(strings.TrimSpace(href))
		if article == "" || IsExcluded(article) {
			continue
		}

		link := baseURL + articlePrefix + article
		if link == sourceURL || seen[link] {
			continue
		}

		seen[link] = true
		filtered = append(filtered, link)
	}

	return filtered
}
