package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// Cima4uActor is the cima4u.forum mirror. It runs the MyCima grid theme
// without the AJAX player, listing its hosts as plain links.
func Cima4uActor() Site {
	return Site{
		Name:    "Cima4uActor",
		BaseURL: "https://cima4u.forum/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "movies", Name: "أفلام جديدة", Path: "movies/"},
			{Key: "episodes", Name: "آخر الحلقات", Path: "episodes/"},
			{Key: "series", Name: "مسلسلات جديدة", Path: "series/"},
		},
		Item: ItemSelectors{
			Container: "div#MainFiltar > a.GridItem, .GridItem",
			Title:     "strong",
		},
		Detail: DetailSelectors{
			Title:  "h1",
			Poster: ".Img--Poster--Single-begin",
			Plot:   "div.story p",
			Year:   `a[href*="release-year"]`,
			Tags:   `a[href*="/genre/"]`,
		},
		Classify: Classifier{
			SeriesPaths:      []string{"/series/", "/episode"},
			EpisodeContainer: "div.seasons, div.episodes-list",
		},
		Episodes: EpisodeSelectors{
			Item:          "div.episodes-list a, div.season-episodes a, a:has(span.episode)",
			Name:          "strong",
			Number:        "span.episode",
			Seasons:       `a[href*="/season/"]`,
			SelfWhenEmpty: true,
		},
		Servers: ServerSelectors{
			Iframes: "iframe[src]",
			Items: `ul#watch li[data-watch], a[href*="filemoon"], a[href*="streamhg"], a[href*="earnvids"], ` +
				`a[href*="mixdrop"], a[href*="dood"], a[href*="forafile"]`,
			Attrs: []string{"data-watch", "href"},
		},
		TitleNoise: []string{"سيما فور يو", "Cima4u"},
	}
}
