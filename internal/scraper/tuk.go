package scraper

import (
	"encoding/base64"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/arabstream/arabstream/internal/models"
)

// Tuk runs the same theme as TopCinema, but its servers carry their embed
// base64 encoded in data-linkbase64.
func Tuk() Site {
	return Site{
		Name:    "Tuk",
		BaseURL: "https://tuk.cam/",
		Kinds:   []models.MediaKind{models.KindMovie, models.KindSeries, models.KindAnime},
		Categories: []Category{
			{Key: "recent", Name: "المضاف حديثاً", Path: "recent/"},
			{Key: "movies", Name: "أفلام", Path: "category/movies/"},
			{Key: "series", Name: "مسلسلات", Path: "category/series/"},
			{Key: "anime", Name: "أنمي", Path: "category/anime/"},
		},
		Item: ItemSelectors{
			Container: ".Block--Item",
			Title:     ".Block--Info h3",
			Poster:    ".Poster--Block img, img",
		},
		Detail: DetailSelectors{
			Title:  "h1.post-title, h1",
			Poster: ".MainSingle .image",
			Plot:   ".story p",
			Year:   `.RightTaxContent a[href*="release-year"]`,
			Tags:   `.RightTaxContent a[href*="/genre/"]`,
		},
		Classify: Classifier{
			SeriesPaths:      []string{"/series/"},
			EpisodeContainer: ".Episodes--Box, .Episodes--List, .allepcont",
		},
		Episodes: EpisodeSelectors{
			Item:   ".allepcont .row a",
			Name:   ".ep-info h2",
			Number: ".epnum",
			Poster: ".image img",
		},
		Redirect: Redirect{
			When:    []string{"/episode"},
			Links:   ".breadcrumb a",
			Targets: []string{"/series/"},
		},
		Watch: WatchPage{Suffix: "watch/"},
		Servers: ServerSelectors{
			Iframes: "iframe[src]",
			Items:   ".watch--servers--list .server--item[data-link]",
			Attrs:   []string{"data-link"},
		},
		Hooks: Hooks{Candidates: base64Servers},
	}
}

// base64Servers decodes the data-linkbase64 servers
func base64Servers(in HookInput) []Candidate {
	if in.Doc == nil {
		return nil
	}
	var out []Candidate
	in.Doc.Find("[data-linkbase64]").Each(func(_ int, s *goquery.Selection) {
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s.AttrOr("data-linkbase64", "")))
		if err != nil || len(raw) == 0 {
			return
		}
		out = append(out, Candidate{URL: strings.TrimSpace(string(raw)), Label: collapse(s.Text())})
	})
	return out
}
