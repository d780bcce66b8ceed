package scraper

import (
	"regexp"
	"time"

	"github.com/arabstream/arabstream/internal/models"
)

// CimaNow hides its servers behind the theme's core.php switch action: the
// watch page only carries the post id and the player of each slot is fetched
// by index.
func CimaNow() Site {
	return Site{
		Name:    "CimaNow",
		BaseURL: "https://cimanow.cc/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindShow},
		Categories: []Category{
			{Key: "latest", Name: "أحدث الإضافات", Path: "الاحدث/"},
			{Key: "arabic-series", Name: "مسلسلات عربية", Path: "category/مسلسلات-عربية/"},
			{Key: "foreign-series", Name: "مسلسلات اجنبية", Path: "category/مسلسلات-اجنبية/"},
			{Key: "turkish-series", Name: "مسلسلات تركية", Path: "category/مسلسلات-تركية/"},
			{Key: "arabic-movies", Name: "افلام عربية", Path: "category/افلام-عربية/"},
			{Key: "foreign-movies", Name: "افلام اجنبية", Path: "category/افلام-اجنبية/"},
			{Key: "turkish-movies", Name: "افلام تركية", Path: "category/افلام-تركية/"},
			{Key: "indian-movies", Name: "افلام هندية", Path: "category/افلام-هندية/"},
			{Key: "animation", Name: "افلام انيميشن", Path: "category/افلام-انيميشن/"},
			{Key: "tv", Name: "البرامج التلفزيونية", Path: "category/البرامج-التلفزيونية/"},
			{Key: "plays", Name: "مسرحيات", Path: "category/مسرحيات/"},
			{Key: "concerts", Name: "حفلات", Path: "category/حفلات/"},
		},
		Item: ItemSelectors{
			Container: `section > article[aria-label="post"]`,
			Title:     `li[aria-label="title"]`,
		},
		Search: []SearchEndpoint{{Path: "page/1/?s={query}"}},
		Detail: DetailSelectors{
			Plot: `ul#details li:contains("لمحة") p`,
			Year: `ul#details li:contains("سنة") a, a[href*="release-year"]`,
			Tags: `ul#details li:contains("النوع") a`,
		},
		Classify: Classifier{
			SeriesPaths:      []string{"/selary/"},
			EpisodeContainer: "ul#eps",
		},
		Episodes: EpisodeSelectors{
			Item:    "ul#eps li",
			Link:    "a",
			Number:  "em",
			Seasons: `section[aria-label="seasons"] ul li a`,
		},
		Watch: WatchPage{Suffix: "watching/"},
		Servers: ServerSelectors{
			Iframes: "ul#watch iframe, .player iframe",
		},
		PlayerAjax: PlayerAjax{
			Path:    "wp-content/themes/Cima%20Now%20New/core.php?action=switch&index={index}&id={post}",
			Indexes: []string{"00", "33", "34", "35", "31", "66", "32", "7", "30", "12"},
			Embed:   regexp.MustCompile(`https://[^"'\s]+cimanowtv\.com/e/[^"'\s]+`),
		},
		Downloads:  `ul#download li[aria-label="quality"] a`,
		TitleNoise: []string{"سيما ناو", "Cima Now", "CimaNow"},
		Throttle:   Throttle{MinInterval: 500 * time.Millisecond},
	}
}
