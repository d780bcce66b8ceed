package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/arabstream/arabstream/internal/models"
)

// Anime4up and WitAnime run the same theme. Every title is treated as an
// anime with an episode list; episode cards lead back to the anime page.
func Anime4up() Site {
	return animeTheme("Anime4up", "https://w1.anime4up.rest/")
}

func WitAnime() Site {
	return animeTheme("WitAnime", "https://witanime.com/")
}

func animeTheme(name, baseURL string) Site {
	return Site{
		Name:       name,
		BaseURL:    baseURL,
		Kinds:      []models.MediaKind{models.KindAnime},
		SeriesKind: models.KindAnime,
		Categories: []Category{
			{Key: "latest", Name: "أحدث الحلقات", Path: "episode/page/{page}/"},
			{Key: "anime", Name: "قائمة الأنمي", Path: "anime-list-3/"},
			{Key: "movies", Name: "أفلام الأنمي", Path: "anime-type/movie-3/"},
			{Key: "tv", Name: "أنمي TV", Path: "anime-type/tv2/"},
		},
		Item: ItemSelectors{
			Container: "div.anime-card-container, div.episodes-card-container",
			Link:      "div.hover > a, h3 > a",
			Poster:    "div.hover > img, img",
		},
		Search: []SearchEndpoint{{Path: "?search_param=animes&s={query}"}},
		Detail: DetailSelectors{
			Title:  "h1.anime-details-title",
			Poster: "div.anime-thumbnail",
			Plot:   "p.anime-story",
			Year:   `div.anime-info:contains("بداية العرض")`,
			Tags:   "ul.anime-genres a, .anime-info:contains(\"النوع\") a",
		},
		Classify: Classifier{EpisodeContainer: "#episodesList"},
		Episodes: EpisodeSelectors{
			Item:   "#episodesList .themexblock",
			Link:   ".pinned-card > a, a",
			Name:   ".pinned-card .info h3",
			Number: ".badge.light-soft span",
			Poster: "img",
		},
		Redirect: Redirect{
			When:    []string{"/episode/"},
			Links:   `.anime-page-link a, a[href*="/anime/"]`,
			Targets: []string{"/anime/"},
		},
		Servers: ServerSelectors{
			Items: "ul#episode-servers li[data-watch]",
			Attrs: []string{"data-watch"},
		},
		TitleNoise: []string{"مترجم", "مدبلج"},
		Hooks:      Hooks{Candidates: megamaxEmbeds},
	}
}

// megamaxEmbeds adds the /e/ variant of every megamax.me iframe server
func megamaxEmbeds(in HookInput) []Candidate {
	if in.Doc == nil {
		return nil
	}
	var out []Candidate
	in.Doc.Find("ul#episode-servers li[data-watch]").Each(func(_ int, li *goquery.Selection) {
		link := li.AttrOr("data-watch", "")
		_, id, ok := strings.Cut(link, "megamax.me/iframe/")
		if !ok {
			return
		}
		id, _, _ = strings.Cut(id, "?")
		id = strings.Trim(id, `/"'`)
		if id == "" {
			return
		}
		out = append(out, Candidate{URL: "https://megamax.me/e/" + id, Label: collapse(li.Text())})
	})
	return out
}
