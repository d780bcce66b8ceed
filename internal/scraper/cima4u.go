package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// Cima4U marks series by "مسلسل" in the path or the breadcrumb, and pages
// long episode lists instead of splitting them by season.
func Cima4U() Site {
	return Site{
		Name:    "Cima4U",
		BaseURL: "https://cfu.cam/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "foreign-movies", Name: "افلام اجنبي", Path: "category/افلام-اجنبي/"},
			{Key: "arabic-movies", Name: "افلام عربي", Path: "category/افلام-عربي/"},
			{Key: "foreign-series", Name: "مسلسلات اجنبي", Path: "category/مسلسلات-اجنبي/"},
			{Key: "arabic-series", Name: "مسلسلات عربي", Path: "category/مسلسلات-عربي/"},
			{Key: "anime", Name: "انمي", Path: "category/مسلسلات-انمي/"},
		},
		Item: ItemSelectors{
			Container: "li.MovieBlock",
			Title:     ".BoxTitle, .Title",
		},
		Detail: DetailSelectors{
			Title:  ".SingleContent h1, h1.Title, .PageTitle h1, h1",
			Poster: ".SinglePoster, .Thumb, figure",
			Plot:   ".Story, .story",
			Year:   `a[href*="/release-year/"], li:contains("السنة") a`,
			Tags:   `a[href*="/genre/"]`,
		},
		Classify: Classifier{
			SeriesPaths:      []string{"مسلسل"},
			EpisodeContainer: "ul.insert_ep, ul.Episodes, div.Episodes",
			Markers:          "h1, .breadcrumb",
		},
		Episodes: EpisodeSelectors{
			Item:           "#related a, ul.insert_ep a, ul.Episodes a",
			Seasons:        ".pagination a, .wp-pagenavi a, a.page-numbers",
			MaxSeasonPages: 10,
		},
		Redirect: Redirect{
			When:    []string{"الحلقة"},
			Links:   ".breadcrumb a",
			Targets: []string{"مسلسل"},
		},
		Watch: WatchPage{Suffix: "watch/"},
		Servers: ServerSelectors{
			Iframes: "iframe[src]",
			Items:   ".serversWatchSide li",
			Attrs:   []string{"data-url", "url", "data-src"},
		},
		Downloads:  ".DownloadServers a, a.DownloadLink",
		TitleNoise: []string{"Cima4u", "سيما فور يو"},
	}
}
