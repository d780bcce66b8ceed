package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// FajerShow is a DooPlay theme behind an interactive challenge. Listing and
// detail pages are refused, while search results and the player ajax still answer.
func FajerShow() Site {
	return Site{
		Name:    "FajerShow",
		BaseURL: "https://fajer.show/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries},
		Blocked: true,
		Categories: []Category{
			{Key: "movies", Name: "أفلام", Path: "genre/movies/page/{page}/"},
			{Key: "series", Name: "مسلسلات", Path: "genre/series/page/{page}/"},
			{Key: "ramadan", Name: "رمضان", Path: "genre/ramadan/page/{page}/"},
		},
		Item: ItemSelectors{
			Container: ".result-item > article, div.items article.item",
			Link:      ".title a, .poster a, a",
			Title:     ".title a, h3",
			Year:      ".meta .year, span.year",
		},
		Detail: DetailSelectors{
			Title:  ".sheader .data h1",
			Poster: ".sheader .poster",
			Plot:   ".wp-content p",
			Year:   ".sheader .date",
			Tags:   ".sgeneros a",
		},
		Classify: Classifier{
			MoviePaths:       []string{"/movies/"},
			SeriesPaths:      []string{"/tvshows/", "/episodes/", "/seasons/"},
			EpisodeContainer: "ul.episodios",
		},
		Episodes: EpisodeSelectors{
			Item: "ul.episodios li",
			Link: ".episodiotitle a",
			Name: ".episodiotitle a",
		},
		DooPlay: DooPlay{Options: `li.vid_source_option:not([data-nume="trailer"])`},
	}
}
