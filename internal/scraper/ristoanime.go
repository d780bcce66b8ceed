package scraper

import (
	"time"

	"github.com/arabstream/arabstream/internal/models"
)

// RistoAnime links separate watch and download pages from every title and is
// quick to rate limit, so it gets a long jittered interval.
func RistoAnime() Site {
	return Site{
		Name:       "RistoAnime",
		BaseURL:    "https://ristoanime.org/",
		Kinds:      []models.MediaKind{models.KindMovie, models.KindAnime},
		SeriesKind: models.KindAnime,
		Categories: []Category{
			{Key: "latest", Name: "المضاف حديثا", Path: "?page={page}"},
			{Key: "movies", Name: "افلام انمي", Path: "movies/"},
		},
		Item: ItemSelectors{
			Container: ".MovieItem, article",
			Title:     "h4, .title p",
			Poster:    ".poster img, img",
		},
		Search: []SearchEndpoint{{Path: "search?q={query}"}},
		Detail: DetailSelectors{
			Title: "h1",
			Plot:  ".description",
			Tags:  `a[href*="/genre/"]`,
		},
		Classify: Classifier{
			MoviePaths:       []string{"فيلم"},
			SeriesPaths:      []string{"/series/"},
			EpisodeContainer: ".EpisodesList",
		},
		Episodes: EpisodeSelectors{
			Item:          ".EpisodesList a",
			SelfWhenEmpty: true,
		},
		Servers: ServerSelectors{
			Iframes:  "iframe[src], iframe[data-src]",
			Items:    "li[data-watch], button[data-watch], a[data-watch], li[data-link]",
			Attrs:    []string{"data-watch", "data-link"},
			SubPages: `a:contains("المشاهدة الان"), a:contains("التحميل الان")`,
		},
		Downloads: `a[href*=".mp4"], a[href*=".m3u8"]`,
		Throttle:  Throttle{MinInterval: 1200 * time.Millisecond, Jitter: 1400 * time.Millisecond},
	}
}
