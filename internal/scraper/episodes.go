package scraper

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/urlutil"
)

var (
	sxeRe         = regexp.MustCompile(`(?i)(?:^|[^a-z0-9])s(\d{1,2})[\s._-]*e(\d{1,4})(?:[^0-9]|$)`)
	nxmRe         = regexp.MustCompile(`(?:^|[^0-9])(\d{1,2})x(\d{1,4})(?:[^0-9]|$)`)
	episodeRe     = regexp.MustCompile(`(?i)(?:الحلقة|حلقة|episode|ep)[\s._:#-]*(\d{1,4})`)
	seasonRe      = regexp.MustCompile(`(?i)(?:الموسم|موسم|season)[\s._:#-]*(\d{1,3})`)
	seasonWordRe  = regexp.MustCompile(`(?i)(?:الموسم|موسم|season)[\s._-]+(\p{L}+)`)
	episodeWordRe = regexp.MustCompile(`(?i)(?:الحلقة|حلقة|episode)[\s._-]+(\p{L}+)`)
	numberRe      = regexp.MustCompile(`\d+`)
)

// ordinals maps Arabic and English ordinal words to numbers
var ordinals = map[string]int{
	"الاول": 1, "الأول": 1, "الاولى": 1, "الأولى": 1, "first": 1,
	"الثاني": 2, "الثانية": 2, "second": 2,
	"الثالث": 3, "الثالثة": 3, "third": 3,
	"الرابع": 4, "الرابعة": 4, "fourth": 4,
	"الخامس": 5, "الخامسة": 5, "fifth": 5,
	"السادس": 6, "السادسة": 6, "sixth": 6,
	"السابع": 7, "السابعة": 7, "seventh": 7,
	"الثامن": 8, "الثامنة": 8, "eighth": 8,
	"التاسع": 9, "التاسعة": 9, "ninth": 9,
	"العاشر": 10, "العاشرة": 10, "tenth": 10,
}

func atoiOption(s string) mo.Option[int] {
	n, err := strconv.Atoi(s)
	if err != nil {
		return mo.None[int]()
	}
	return mo.Some(n)
}

func ordinalOption(re *regexp.Regexp, text string) mo.Option[int] {
	if m := re.FindStringSubmatch(text); m != nil {
		if n, ok := ordinals[strings.ToLower(m[1])]; ok {
			return mo.Some(n)
		}
	}
	return mo.None[int]()
}

// ParseSeasonNumber reads a season number from text such as "الموسم ٣",
// "الموسم الثاني", "Season 4", "S02E05" or "2x07".
func ParseSeasonNumber(text string) mo.Option[int] {
	text = NormalizeDigits(text)
	if m := sxeRe.FindStringSubmatch(text); m != nil {
		return atoiOption(m[1])
	}
	if m := nxmRe.FindStringSubmatch(text); m != nil {
		return atoiOption(m[1])
	}
	if m := seasonRe.FindStringSubmatch(text); m != nil {
		return atoiOption(m[1])
	}
	return ordinalOption(seasonWordRe, text)
}

// ParseEpisodeNumber reads an episode number from text such as "الحلقة ١٢",
// "Episode 3", "S01E05", "1x05", or a bare number.
func ParseEpisodeNumber(text string) mo.Option[int] {
	text = NormalizeDigits(text)
	if m := sxeRe.FindStringSubmatch(text); m != nil {
		return atoiOption(m[2])
	}
	if m := nxmRe.FindStringSubmatch(text); m != nil {
		return atoiOption(m[2])
	}
	if m := episodeRe.FindStringSubmatch(text); m != nil {
		return atoiOption(m[1])
	}
	if o := ordinalOption(episodeWordRe, text); o.IsPresent() {
		return o
	}
	if t := strings.TrimSpace(text); t != "" && numberRe.FindString(t) == t {
		return atoiOption(t)
	}
	return mo.None[int]()
}

// slugText turns a URL path into words so the number patterns can run on it
func slugText(raw string) string {
	return strings.NewReplacer("-", " ", "_", " ", "/", " ").Replace(decodedPath(raw))
}

func orOption(opts ...mo.Option[int]) mo.Option[int] {
	for _, o := range opts {
		if o.IsPresent() {
			return o
		}
	}
	return mo.None[int]()
}

// episodes collects the episodes of a series page and its season sub-pages.
// A complete list is cached per normalised series URL, so a second load skips
// the season fetches. A list missing a season that failed transiently, or cut
// short by ctx, is returned but not cached; a missing (404) season page counts
// as complete.
func (p *Provider) episodes(ctx context.Context, doc *goquery.Document, pageURL, poster string) []models.EpisodeRef {
	key := urlutil.NormalizeSeriesURL(pageURL)
	if cached, ok := p.cache.get(key); ok {
		p.log.Debug("Episode cache hit", "url", key, "episodes", len(cached))
		return cached
	}

	pageSeason := ParseSeasonNumber(slugText(pageURL))
	list := p.parseEpisodes(doc.Selection, pageURL, pageSeason, poster)

	complete := true
	for _, season := range p.seasonLinks(doc, pageURL) {
		if ctx.Err() != nil {
			complete = false
			break
		}
		sdoc, seasonURL, err := p.document(ctx, season.url, fetch.WithReferer(pageURL))
		if err != nil {
			p.log.Debug("Season page failed", "url", season.url, "error", err)
			if !errors.Is(err, fetch.ErrEmpty) {
				complete = false
			}
			continue
		}
		list = append(list, p.parseEpisodes(sdoc.Selection, seasonURL, season.number, poster)...)
	}

	if p.site.DropUnnumbered {
		list = lo.Filter(list, func(e models.EpisodeRef, _ int) bool { return e.Episode.IsPresent() })
	}
	list = models.NormalizeEpisodes(list)
	if len(list) == 0 && p.site.Episodes.SelfWhenEmpty {
		list = []models.EpisodeRef{selfEpisode(pageURL, pageSeason, poster)}
	}
	if complete && ctx.Err() == nil {
		p.cache.put(key, list)
	} else {
		p.log.Debug("Episode list incomplete, not cached", "url", key, "episodes", len(list))
	}
	return list
}

// selfEpisode stands for a page that is its own single episode
func selfEpisode(pageURL string, season mo.Option[int], poster string) models.EpisodeRef {
	ep := ParseEpisodeNumber(slugText(pageURL))
	name := "مشاهدة"
	if n, ok := ep.Get(); ok {
		name = "الحلقة " + strconv.Itoa(n)
	}
	return models.EpisodeRef{Name: name, URL: pageURL, Season: season, Episode: ep, PosterURL: poster}
}

type seasonLink struct {
	url    string
	number mo.Option[int]
}

// seasonLinks lists the season sub-pages of a series, capped at MaxSeasonPages
func (p *Provider) seasonLinks(doc *goquery.Document, pageURL string) []seasonLink {
	sel := p.site.Episodes
	if sel.Seasons == "" {
		return nil
	}
	self := urlutil.NormalizeSeriesURL(pageURL)
	seen := map[string]bool{self: true}

	var links []seasonLink
	doc.Find(sel.Seasons).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := usableHref(pageURL, a.AttrOr("href", ""))
		if href == "" || seen[urlutil.NormalizeSeriesURL(href)] {
			return true
		}
		seen[urlutil.NormalizeSeriesURL(href)] = true
		text := collapse(a.Text())
		number := orOption(ParseSeasonNumber(text), ParseSeasonNumber(slugText(href)))
		if !number.IsPresent() {
			number = atoiOption(numberRe.FindString(NormalizeDigits(text)))
		}
		links = append(links, seasonLink{url: href, number: number})
		return len(links) < sel.MaxSeasonPages
	})
	return links
}

// parseEpisodes reads the episode items under scope. season is used when
// neither the item text nor its URL names a season.
func (p *Provider) parseEpisodes(scope *goquery.Selection, pageURL string, season mo.Option[int], poster string) []models.EpisodeRef {
	sel := p.site.Episodes
	if sel.Item == "" {
		return nil
	}

	var list []models.EpisodeRef
	scope.Find(sel.Item).Each(func(_ int, item *goquery.Selection) {
		anchor := anchorOf(item, sel.Link)
		link := usableHref(pageURL, anchor.AttrOr("href", ""))
		if link == "" {
			return
		}

		name := textOf(item, sel.Name)
		if name == "" {
			name = collapse(anchor.Text())
		}
		if name == "" {
			name = firstAttr(anchor, "title")
		}

		slug := slugText(link)
		ep := orOption(ParseEpisodeNumber(name), ParseEpisodeNumber(slug))
		if sel.Number != "" {
			if n := atoiOption(numberRe.FindString(NormalizeDigits(textOf(item, sel.Number)))); n.IsPresent() {
				ep = n
			}
		}
		if !ep.IsPresent() {
			ep = atoiOption(numberRe.FindString(NormalizeDigits(name)))
		}

		ref := models.EpisodeRef{
			Name:    name,
			URL:     link,
			Season:  orOption(ParseSeasonNumber(slug), ParseSeasonNumber(name), season),
			Episode: ep,
		}
		if ref.Name == "" {
			if n, ok := ep.Get(); ok {
				ref.Name = "الحلقة " + strconv.Itoa(n)
			}
		}
		ref.PosterURL = poster
		if sel.Poster != "" {
			if img := imageOf(item, sel.Poster, p.site.Item.PosterAttrs, pageURL); img != "" {
				ref.PosterURL = img
			}
		}
		list = append(list, ref)
	})
	return list
}
