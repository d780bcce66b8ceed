package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// FaselHD embeds one player page per title. The FaselHD extractor reads the
// playlist out of it, so the site itself only lists the player iframe.
func FaselHD() Site {
	return Site{
		Name:    "FaselHD",
		BaseURL: "https://web13018x.faselhdx.bid/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime, models.KindShow},
		Categories: []Category{
			{Key: "latest", Name: "المضاف حديثا", Path: "most_recent/"},
			{Key: "series", Name: "مسلسلات", Path: "series/"},
			{Key: "movies", Name: "أفلام", Path: "movies/"},
			{Key: "asian-series", Name: "مسلسلات آسيوية", Path: "asian-series/"},
			{Key: "anime", Name: "الأنمي", Path: "anime/"},
			{Key: "tvshows", Name: "البرامج التلفزيونية", Path: "tvshows/"},
			{Key: "dubbed-movies", Name: "أفلام مدبلجة", Path: "dubbed-movies/"},
			{Key: "hindi", Name: "أفلام هندية", Path: "hindi/"},
			{Key: "asian-movies", Name: "أفلام آسيوية", Path: "asian-movies/"},
			{Key: "anime-movies", Name: "أفلام أنمي", Path: "anime-movies/"},
		},
		Item: ItemSelectors{
			Container:   "div.postDiv",
			Title:       "div.postInner > div.h1, div.h1",
			Poster:      "div.imgdiv-class img, img",
			PosterAttrs: []string{"data-src", "data-original", "data-image", "data-srcset", "src"},
		},
		Detail: DetailSelectors{
			Title:  "div.title",
			Poster: "div.posterImg",
			Plot:   "div.singleDesc p",
			Year:   `div#singleList .col-xl-6:contains("سنة الإنتاج")`,
			Tags:   `div#singleList .col-xl-6:contains("تصنيف") a`,
		},
		Classify: Classifier{
			SeriesPaths:      []string{"/seasons/", "/episodes/"},
			EpisodeContainer: "div.epAll, div#epAll, div.seasonLoop",
		},
		Episodes: EpisodeSelectors{
			Item:    "div#epAll a",
			Seasons: "div.seasonLoop .seasonDiv a, div.seasonLoop a[href]",
		},
		Servers: ServerSelectors{
			Iframes: `iframe[name="player_iframe"], iframe[src*="video_player"]`,
			Items:   `ul.tabs-ul li[onclick]`,
			Attrs:   []string{"onclick"},
		},
		TitleNoise: []string{"فاصل إعلاني", "FaselHD"},
	}
}
