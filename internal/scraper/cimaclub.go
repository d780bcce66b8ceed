package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// CimaClub lists single episodes as their own titles, so an episode page
// without an episode list is its own only episode.
func CimaClub() Site {
	return Site{
		Name:    "CimaClub",
		BaseURL: "https://ciimaclub.us/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "movies", Name: "أحدث الأفلام", Path: "movies/"},
			{Key: "series", Name: "أحدث المسلسلات", Path: "series/"},
			{Key: "anime", Name: "أحدث الانمي", Path: "anime/"},
		},
		Item: ItemSelectors{
			Container: ".Small--Box",
			Title:     "h2",
		},
		Search: []SearchEndpoint{{Path: "search?q={query}"}},
		Detail: DetailSelectors{
			Title: "h1",
			Plot:  ".StoryArea, .story",
			Year:  `a[href*="release-year"]`,
			Tags:  `a[href*="/genre/"]`,
		},
		Classify: Classifier{
			SeriesPaths:      []string{"/series/", "/anime/", "/episode/"},
			EpisodeContainer: ".allepcont, .EpisodesList",
		},
		Episodes: EpisodeSelectors{
			Item:          ".allepcont a, .EpisodesList a",
			Number:        ".epnum, em",
			SelfWhenEmpty: true,
		},
		Servers: ServerSelectors{
			Iframes: "iframe[src]",
			Items:   "#watch li[data-watch]",
			Attrs:   []string{"data-watch"},
		},
		Downloads:  ".DownloadArea ul li a[href]",
		TitleNoise: []string{"سيما كلوب", "CimaClub"},
	}
}
