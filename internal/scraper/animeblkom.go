package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// AnimeBlkom only serves anime. Films have no episode list and are their own
// single episode; direct downloads sit in panels below the player.
func AnimeBlkom() Site {
	return Site{
		Name:       "AnimeBlkom",
		BaseURL:    "https://animeblkom.net/",
		Kinds:      []models.MediaKind{models.KindAnime},
		SeriesKind: models.KindAnime,
		Categories: []Category{
			{Key: "rated", Name: "الأعلى تقييما", Path: "anime-list?sort_by=rate&page={page}"},
			{Key: "latest", Name: "أضيف حديثا", Path: "anime-list?sort_by=created_at&page={page}"},
			{Key: "completed", Name: "مكتمل", Path: "anime-list?states=finished&page={page}"},
		},
		Item: ItemSelectors{
			Container:   "div.recent-episode, div.item.episode, div.content-inner, div.content.ratable",
			Title:       "div.name",
			Poster:      "div.poster img, div.image img",
			PosterAttrs: []string{"data-original", "data-src", "src"},
			Year:        `div[title="سنة الانتاج"]`,
		},
		Search: []SearchEndpoint{{Path: "search?query={query}"}},
		Detail: DetailSelectors{
			Title:  "span h1",
			Poster: "div.poster",
			Plot:   ".story p",
			Year:   `.info-table div:contains("تاريخ الانتاج") span.info`,
			Tags:   "p.genres a",
		},
		Episodes: EpisodeSelectors{
			Item:          ".episode-link",
			Link:          "a",
			Number:        "a span:not(.pull-left)",
			SelfWhenEmpty: true,
		},
		Servers: ServerSelectors{
			Items: "div.item a[data-src]",
			Attrs: []string{"data-src"},
		},
		Downloads: ".panel .panel-body a",
	}
}
