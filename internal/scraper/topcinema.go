package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

const topCinemaPosts = "wp-json/wp/v2/posts?per_page=20&_embed&page={page}"

// TopCinema lists and searches through the WordPress REST API; pages are only
// scraped for details and servers.
func TopCinema() Site {
	return Site{
		Name:    "TopCinema",
		BaseURL: "https://topcima.online/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "latest", Name: "الأحدث", Path: topCinemaPosts, Format: FormatWPJSON},
			{Key: "foreign-movies", Name: "أفلام أجنبية", Path: topCinemaPosts + "&categories=1207", Format: FormatWPJSON},
			{Key: "arabic-movies", Name: "أفلام عربية", Path: topCinemaPosts + "&categories=20349", Format: FormatWPJSON},
			{Key: "anime-movies", Name: "أفلام أنمي", Path: topCinemaPosts + "&categories=1895", Format: FormatWPJSON},
			{Key: "foreign-series", Name: "مسلسلات أجنبية", Path: topCinemaPosts + "&categories=4", Format: FormatWPJSON},
			{Key: "arabic-series", Name: "مسلسلات عربية", Path: topCinemaPosts + "&categories=17979", Format: FormatWPJSON},
			{Key: "anime-series", Name: "مسلسلات أنمي", Path: topCinemaPosts + "&categories=38", Format: FormatWPJSON},
			{Key: "korean-series", Name: "مسلسلات كورية", Path: topCinemaPosts + "&categories=59186", Format: FormatWPJSON},
		},
		SeriesCategories: []int{70137, 4, 17979, 53293, 56428, 53911, 53256, 56302, 76, 38, 59186, 67},
		Search: []SearchEndpoint{
			{Path: "wp-json/wp/v2/posts?search={query}&per_page=20&_embed", Format: FormatWPJSON},
		},
		Item: ItemSelectors{
			Container: ".Small--Box, .Block--Item, .GridItem",
			Title:     "h3",
		},
		Detail: DetailSelectors{
			Title:           "h1.title, .movie-title, .PostTitle, h1",
			Plot:            ".description, .plot, .summary, .StoryArea, .Story",
			Year:            ".year, .release-year, a[href*='/release-year/']",
			Tags:            ".genre a, .categories a",
			Recommendations: ".related-movies, aside",
		},
		Classify: Classifier{
			SeriesPaths:      []string{"/series/", "/مسلسل"},
			EpisodeContainer: ".allepcont, .EpisodesList, .list-episodes, .seasonslist",
		},
		Episodes: EpisodeSelectors{
			Item:           ".allepcont .row a, .EpisodesList .row a",
			Name:           ".ep-info h2",
			Number:         ".epnum",
			Seasons:        ".seasonslist a[href]",
			MaxSeasonPages: 8,
		},
		Redirect: Redirect{
			When:    []string{"/episode", "الحلقة"},
			Links:   ".breadcrumbs a",
			Targets: []string{"/series/", "مسلسل"},
		},
		Watch: WatchPage{Suffix: "watch/"},
		Servers: ServerSelectors{
			Iframes: "div.WatchIframe iframe, .player-embed iframe",
			Items:   "ul#watch > li, .servers-list li, [data-watch]",
			Attrs:   []string{"data-watch"},
		},
		TitleNoise: []string{"الموسم", "الحلقة"},
	}
}
