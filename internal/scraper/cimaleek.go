package scraper

import (
	"time"

	"github.com/arabstream/arabstream/internal/models"
)

// CimaLeek is a DooPlay theme: servers come from admin-ajax.php and episode
// URLs carry the season and episode as "NxM".
func CimaLeek() Site {
	return Site{
		Name:    "CimaLeek",
		BaseURL: "https://cimalek.art/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "recent", Name: "المضاف حديثاً", Path: "recent-89541/"},
			{Key: "movies", Name: "أحدث الأفلام", Path: "movies-list/"},
			{Key: "series", Name: "أحدث المسلسلات", Path: "series-list/"},
			{Key: "seasons", Name: "المواسم", Path: "seasons-list/"},
		},
		Item: ItemSelectors{
			Container: ".item",
			Title:     ".data .title, .title",
			Poster:    ".poster img, img",
		},
		Search: []SearchEndpoint{{Path: "search/?s={query}"}},
		Detail: DetailSelectors{
			Title: "h1.film-name, h2.film-name, h1",
			Plot:  ".film-description .text, .story, .m_desc",
			Year:  `a[href*="/release/"]`,
			Tags:  `a[href*="/genre/"]`,
		},
		Classify: Classifier{
			MoviePaths:  []string{"/movies/"},
			SeriesPaths: []string{"/series/", "/seasons/", "/episodes/"},
		},
		Episodes: EpisodeSelectors{
			Item:           `a[href*="/episodes/"]`,
			Seasons:        `a[href*="/seasons/"]`,
			MaxSeasonPages: 10,
		},
		Redirect: Redirect{
			When:    []string{"/episodes/"},
			Links:   `a[href*="/series/"]`,
			Targets: []string{"/series/"},
		},
		Watch:   WatchPage{Suffix: "watch/"},
		DooPlay: DooPlay{Options: ".lalaplay_player_option, [data-post][data-nume]"},
		Servers: ServerSelectors{
			Items: ".serversList li, .server-item, [data-server], a[href][data-link]",
			Attrs: []string{"data-link", "data-url", "data-src"},
		},
		Downloads: "a.download, .download-links a",
		Throttle:  Throttle{MinInterval: 900 * time.Millisecond, Jitter: 1100 * time.Millisecond},
	}
}
