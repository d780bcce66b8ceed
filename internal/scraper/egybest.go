package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// EgyBest cards are bare anchors. Servers load through an inline
// loadIframe(this, '...') handler instead of a data attribute.
func EgyBest() Site {
	return Site{
		Name:    "EgyBest",
		BaseURL: "https://egibest.net/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "recent", Name: "أحدث الاضافات", Path: "recent/"},
			{Key: "movies", Name: "أفلام", Path: "category/movies/"},
			{Key: "series", Name: "مسلسلات", Path: "series/"},
			{Key: "anime", Name: "انمي", Path: "category/anime/"},
		},
		Item: ItemSelectors{
			Container:   ".postBlock, .postBlockCol",
			Title:       ".title",
			PosterAttrs: []string{"data-img", "data-src", "src"},
		},
		Search: []SearchEndpoint{{Path: "explore/?q={query}"}},
		Detail: DetailSelectors{
			Title:  ".postTitle h1, h1.title, h1",
			Poster: ".postImg, .postCover",
			Plot:   "p.description, .postStory, .story",
			Year:   `table.postTable tr:contains("سنة") td, table.postTable`,
			Tags:   `table.postTable tr:contains("النوع") a`,
		},
		Classify: Classifier{
			MoviePaths:       []string{"/movie/", "/masrahiya/"},
			SeriesPaths:      []string{"/series/", "/season/", "/episode/"},
			EpisodeContainer: ".all-episodes",
		},
		Episodes: EpisodeSelectors{
			Item:    ".all-episodes a",
			Seasons: ".h_scroll a",
		},
		Servers: ServerSelectors{
			Iframes: "iframe#videoPlayer",
			Items:   "ul#watch-servers-list li, .servList li",
			Attrs:   []string{"data-link", "data-url", "onclick"},
		},
		TitleNoise: []string{"ايجي بست", "EgyBest"},
	}
}
