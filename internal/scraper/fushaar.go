package scraper

import (
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/arabstream/arabstream/internal/models"
)

var (
	fushaarHashRe   = regexp.MustCompile(`hash=([^&\s]+)`)
	fushaarServerRe = regexp.MustCompile(`(.*?)\s*[=\-][>?]\s*(https?://[^\s]+)`)
)

// Fushaar only serves movies. The play button leads to a page whose hash=
// parameter is a base64 list of "label => url" servers.
func Fushaar() Site {
	return Site{
		Name:    "Fushaar",
		BaseURL: "https://s.fushar.video/m1/",
		Kinds:   []models.MediaKind{models.KindMovie},
		Categories: []Category{
			{Key: "movies", Name: "أفلام", Path: "category/افلام-اون-لاين-online-movies/page/{page}/"},
			{Key: "english", Name: "أفلام أجنبية", Path: "category/افلام-اجنبية-اون-لاين/page/{page}/"},
			{Key: "arabic", Name: "أفلام عربية", Path: "category/افلام-عربية-arabic-movies/page/{page}/"},
		},
		Item: ItemSelectors{
			Container: "li.video-grid, article.poster",
			Link:      "div.thumb > a",
		},
		Detail: DetailSelectors{
			Title:           "div.info-warpper h1",
			Year:            "div.date",
			Plot:            "div.details > p",
			Recommendations: "ul, section",
		},
		Watch:   WatchPage{Button: "a.video-play-button, a#play-video"},
		Servers: ServerSelectors{Iframes: "iframe"},
		Hooks:   Hooks{Candidates: fushaarHashServers},
	}
}

// fushaarHashServers decodes the hash= server list of the data or watch URL
func fushaarHashServers(in HookInput) []Candidate {
	var out []Candidate
	for _, raw := range []string{in.DataURL, in.PageURL} {
		m := fushaarHashRe.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		decoded, ok := decodeFushaarHash(m[1])
		if !ok {
			continue
		}
		for _, s := range fushaarServerRe.FindAllStringSubmatch(decoded, -1) {
			out = append(out, Candidate{URL: strings.TrimSpace(s[2]), Label: strings.TrimSpace(s[1])})
		}
	}
	return out
}

// decodeFushaarHash reverses the URL-safe substitutions ("__" for "/", "_" for "+")
func decodeFushaarHash(hash string) (string, bool) {
	clean := strings.ReplaceAll(strings.ReplaceAll(hash, "__", "/"), "_", "+")
	clean = strings.TrimRight(clean, "=")
	b, err := base64.RawStdEncoding.DecodeString(clean)
	if err != nil {
		return "", false
	}
	return string(b), true
}
