package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/arabstream/arabstream/internal/models"
)

// ArabSeed searches through two theme POST endpoints, one per kind, and groups
// its watch servers under quality headings.
func ArabSeed() Site {
	const searchPath = "wp-content/themes/Elshaikh2021/Ajaxat/SearchingTwo.php"
	return Site{
		Name:    "ArabSeed",
		BaseURL: "https://a.asd.homes/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries},
		Categories: []Category{
			{Key: "foreign-movies", Name: "أفلام أجنبي", Path: "category/foreign-movies-10/"},
			{Key: "arabic-movies", Name: "أفلام عربي", Path: "category/arabic-movies-10/"},
			{Key: "foreign-series", Name: "مسلسلات أجنبي", Path: "category/foreign-series-3/"},
			{Key: "arabic-series", Name: "مسلسلات عربي", Path: "category/arabic-series-8/"},
		},
		Item: ItemSelectors{
			Container: "a.movie__block",
			Title:     "h3",
			Poster:    "img.images__loader, img",
		},
		Search: []SearchEndpoint{
			{Path: searchPath, Form: map[string]string{"search": "{query}", "type": "series"}},
			{Path: searchPath, Form: map[string]string{"search": "{query}", "type": "movies"}},
		},
		Detail: DetailSelectors{
			Title:           ".post__name, h1",
			Poster:          ".images__loader",
			Plot:            ".single__contents",
			Year:            "a[href*='/release-year/']",
			Tags:            "a[href*='/genre/']",
			Recommendations: ".related__movies, .Blocks__Section",
		},
		Classify: Classifier{
			SeriesPaths:      []string{"مسلسل", "/series/"},
			EpisodeContainer: ".ContainerEpisodesList",
			Markers:          ".breadcrumbs, h1",
		},
		Episodes: EpisodeSelectors{
			Item:    "a[href*='الحلقة']",
			Number:  "b",
			Seasons: ".SeasonsListHolder ul > li[data-season] a, .seasons__list a",
		},
		Watch:      WatchPage{Button: ".watch__btn"},
		TitleNoise: []string{"عرب سيد"},
		Hooks:      Hooks{Candidates: arabSeedServers},
	}
}

// arabSeedServers walks the server list in document order, prefixing every
// server with the quality heading above it.
func arabSeedServers(in HookInput) []Candidate {
	if in.Doc == nil {
		return nil
	}
	var (
		out     []Candidate
		heading string
	)
	in.Doc.Find("ul > li[data-link], ul > h3").Each(func(_ int, s *goquery.Selection) {
		if goquery.NodeName(s) == "h3" {
			heading = collapse(s.Text())
			return
		}
		label := collapse(s.Text())
		if heading != "" {
			label = strings.TrimSpace(heading + " - " + label)
		}
		out = append(out, Candidate{URL: s.AttrOr("data-link", ""), Label: label})
	})
	return out
}
