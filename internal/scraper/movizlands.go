package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// MovizLands calls its films "عرض" as often as "فيلم", and reaches the
// servers through a watch button on the detail page.
func MovizLands() Site {
	return Site{
		Name:    "MovizLands",
		BaseURL: "https://en.movizlands.com/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "latest", Name: "أضيف حديثا", Path: "last/"},
			{Key: "foreign-movies", Name: "افلام اجنبي", Path: "category/افلام-اجنبي/"},
			{Key: "asian-movies", Name: "افلام اسيوي", Path: "category/افلام-اسيوي/"},
			{Key: "asian-series", Name: "مسلسلات اسيوية", Path: "category/مسلسلات-اسيوية/"},
			{Key: "foreign-series", Name: "مسلسلات اجنبي", Path: "category/مسلسلات-اجنبي/"},
			{Key: "anime", Name: "مسلسلات انمي", Path: "category/مسلسلات-انمي/"},
		},
		Item: ItemSelectors{
			Container: "div.Small--Box, .BlockItem",
			Title:     "h3, .BlockTitle",
		},
		Detail: DetailSelectors{
			Title:           "h1, h2.postTitle",
			Poster:          ".SingleDetails",
			Plot:            "section.story",
			Year:            `a[href*="release-year"]`,
			Tags:            `a[href*="/genre/"]`,
			Recommendations: ".related--Posts",
		},
		Classify: Classifier{
			Markers:          "h1, h2.postTitle",
			MovieWords:       []string{"عرض"},
			EpisodeContainer: ".EpisodesList, .allepcont",
		},
		Episodes: EpisodeSelectors{
			Item:   ".EpisodesList .EpisodeItem, .allepcont a",
			Number: "em, .epnum",
		},
		DropUnnumbered: true,
		Watch:          WatchPage{Button: `.BTNSDownWatch a.watch, .WatchBar a, a[href*="/watch/"]`},
		Servers: ServerSelectors{
			Iframes: "iframe[src]",
			Items:   "ul#watch li",
			Attrs:   []string{"data-watch"},
		},
		TitleNoise: []string{"موفيز لاند", "MovizLand"},
	}
}
