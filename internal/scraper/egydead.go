package scraper

import (
	"time"

	"github.com/arabstream/arabstream/internal/models"
)

// EgyDead lists movies, series and anime. Its watch page is the detail page
// posted with View=1, and episode pages link back to their series through the breadcrumb.
func EgyDead() Site {
	return Site{
		Name:    "EgyDead",
		BaseURL: "https://egydead.rip/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "movies", Name: "احدث الافلام", Path: "page/movies/"},
			{Key: "episodes", Name: "احدث الحلقات", Path: "episode/?page={page}"},
			{Key: "seasons", Name: "احدث المواسم", Path: "season/?page={page}"},
			{Key: "series", Name: "احدث المسلسلات", Path: "serie/?page={page}"},
		},
		Item: ItemSelectors{
			Container: "li.movieItem, div.BlockItem",
			Title:     "h1, h2, h3, .BottomTitle",
		},
		Detail: DetailSelectors{
			Title:           "div.singleTitle em, h1.singleTitle, h1",
			Poster:          "div.single-thumbnail, div.Poster",
			Plot:            "div.Story p, div.extra-content p",
			Year:            `li:contains("السنة") a, li:contains("السنه") a`,
			Tags:            `li:contains("النوع") a`,
			Recommendations: "div.related-posts",
		},
		Classify: Classifier{
			SeriesPaths:      []string{"/serie/", "/season/", "/episode/"},
			EpisodeContainer: "div.episodes-list",
		},
		Episodes: EpisodeSelectors{
			Item:           "div.episodes-list a",
			Seasons:        "div.seasons-list a",
			MaxSeasonPages: 12,
		},
		Redirect: Redirect{
			When:    []string{"/episode/"},
			Links:   ".breadcrumbs-single a",
			Targets: []string{"/serie/", "/season/"},
		},
		Watch: WatchPage{Form: map[string]string{"View": "1"}},
		Servers: ServerSelectors{
			Items: "ul.serversList > li, div.ServersList li",
			Attrs: []string{"data-link"},
		},
		Downloads: ".donwload-servers-list > li a, ul.download a",
		Throttle:  Throttle{MinInterval: time.Second, Jitter: time.Second},
	}
}
