package scraper

import (
	"github.com/arabstream/arabstream/internal/models"
)

// Shahid4u spreads the servers of a title over separate play and download
// pages. Movies are told apart by the "افلام" breadcrumb.
func Shahid4u() Site {
	return Site{
		Name:    "Shahid4u",
		BaseURL: "https://shahhid4u.boats/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime, models.KindShow},
		Categories: []Category{
			{Key: "home", Name: "جديد الموقع", Path: "home1"},
			{Key: "movies", Name: "أحدث الأفلام", Path: "movies.php?&page={page}"},
			{Key: "series", Name: "أحدث المسلسلات", Path: "all-series.php?&page={page}"},
		},
		Item: ItemSelectors{
			Container: "li.col-xs-6, div.content-box",
			Link:      "a.fullClick, a.ellipsis, .caption h3 a",
			Title:     ".caption h3, div.title",
		},
		Search: []SearchEndpoint{
			{Path: "?s={query}&category=&type=movie"},
			{Path: "?s={query}&type=series"},
		},
		Detail: DetailSelectors{
			Title:           "h1.post-title, h1",
			Poster:          ".video-bibplayer-poster, .poster-image, .poster",
			Plot:            `div.description p, div[itemprop="description"], div.post-story p`,
			Year:            `ul.half-tags:contains("السنة") li:nth-child(2)`,
			Tags:            "dl.dl-horizontal dd a",
			Recommendations: "div.MediaGrid",
		},
		Classify: Classifier{
			Markers:          "ul.breadcrumbNav, dl.dl-horizontal dd a",
			MovieWords:       []string{"افلام"},
			EpisodeContainer: ".Tab .tablinks, div.tabcontent, div.btns",
		},
		Episodes: EpisodeSelectors{
			Item:    "div.tabcontent a[href], .episode-block, div.row > div.content-box",
			Number:  "div.number em",
			Seasons: `div.btns:contains("جميع الحلقات") a`,
		},
		Servers: ServerSelectors{
			Iframes:  "iframe[src]",
			Items:    `ul.list_servers li, ul.list_embedded li, ul.downloadlist li, li[id^="server_"], a[data-embed], a[data-url], a[data-link]`,
			Attrs:    []string{"data-embed", "data-url", "data-link", "data-src"},
			SubPages: `a[href*="play.php"], a.btnDowns[href*="downloads.php"], a.xtgo`,
			Skip: []string{
				"google", "mediafire", "mega.nz", "uptobox", "4shared", "facebook",
				"userscloud", "nitroflare", "rapidgator", "uploaded", "turbobit", "uploadgi",
			},
		},
		Downloads:  ".download-sec a",
		TitleNoise: []string{"شاهد فور يو", "Shahid4u"},
	}
}
