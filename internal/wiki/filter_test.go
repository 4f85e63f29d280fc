package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsExcluded(t *testing.T) {
	excluded := []string{
		"Special:Random",
		"File:Horse.jpg",
		"Talk:Horse",
		"Category:Horses",
		"Wikipedia_Commons",
		"Horse.svg",
		"Photo.JPEG",
		"Mercury_(disambiguation)",
		"Main_Page",
	}
	for _, article := range excluded {
		assert.True(t, IsExcluded(article), article)
	}

	kept := []string{"Horse", "Cade_(horse)", "Main_Street", "History_of_Wikipedia"}
	for _, article := range kept {
		assert.False(t, IsExcluded(article), article)
	}
}

func TestArticleFromHref(t *testing.T) {
	assert.Equal(t, "Horse", ArticleFromHref("/wiki/Horse"))
	assert.Equal(t, "Horse", ArticleFromHref("/wiki/Horse#History"))
	assert.Equal(t, "Horse", ArticleFromHref("/wiki/Horse?action=edit"))
	assert.Equal(t, "", ArticleFromHref("/w/index.php?title=Horse"))
	assert.Equal(t, "", ArticleFromHref("#cite_note-1"))
	assert.Equal(t, "", ArticleFromHref("https://example.com/wiki/Horse"))
}

func TestTitleFromArticle(t *testing.T) {
	assert.Equal(t, "Cade (horse)", TitleFromArticle("Cade_(horse)"))
	assert.Equal(t, "Cade (horse)", TitleFromArticle("Cade_%28horse%29"))
	assert.Equal(t, "Bald Galloway", TitleFromArticle("Bald_Galloway"))
	assert.Equal(t, "100% bad", TitleFromArticle("100%_bad"), "invalid escapes are kept")
}

func TestFilterLinks(t *testing.T) {
	base := "https://en.wikipedia.org"
	source := base + "/wiki/Horse"
	hrefs := []string{
		"/wiki/Thoroughbred",
		"/wiki/Horse",
		"/wiki/File:Horse.png",
		"#top",
		"/wiki/Pony#Size",
		"/wiki/Thoroughbred",
		"https://example.com/",
		" /wiki/Mule ",
		"/wiki/Main_Page",
	}

	got := FilterLinks(base, source, hrefs)
	assert.Equal(t, []string{
		base + "/wiki/Thoroughbred",
		base + "/wiki/Pony",
		base + "/wiki/Mule",
	}, got)
}

func TestFilterLinks_Empty(t *testing.T) {
	assert.Empty(t, FilterLinks("https://en.wikipedia.org", "https://en.wikipedia.org/wiki/A", nil))
}
