package scraper

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/urlutil"
	"github.com/arabstream/arabstream/internal/util"
)

// Arabic lexical markers. Movie markers are checked first so "فيلم انمي" stays a movie.
var (
	movieMarkers  = []string{"فيلم", "فلم"}
	animeMarkers  = []string{"انمي", "أنمي", "إنمي"}
	showMarkers   = []string{"برنامج", "عرض تلفزيوني"}
	seriesMarkers = []string{"مسلسل", "الموسم", "الحلقة"}
)

func containsAny(s string, words []string) bool {
	return lo.SomeBy(words, func(w string) bool { return strings.Contains(s, w) })
}

// decodedPath returns the lower-cased, unescaped path of raw so Arabic slugs can be matched
func decodedPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	if p, err := url.PathUnescape(u.EscapedPath()); err == nil {
		return strings.ToLower(p)
	}
	return strings.ToLower(u.Path)
}

// seriesKindFor picks the episodic kind suggested by the title
func (p *Provider) seriesKindFor(title string) models.MediaKind {
	switch {
	case containsAny(title, animeMarkers):
		return models.KindAnime
	case containsAny(title, showMarkers):
		return models.KindShow
	default:
		return p.site.SeriesKind
	}
}

// markerKind classifies by Arabic words alone; ok is false when no marker matched
func (p *Provider) markerKind(text string) (models.MediaKind, bool) {
	switch {
	case containsAny(text, movieMarkers):
		return models.KindMovie, true
	case containsAny(text, animeMarkers), containsAny(text, showMarkers), containsAny(text, seriesMarkers):
		return p.seriesKindFor(text), true
	}
	return "", false
}

// classify decides movie vs series from the URL path, the episode container
// and the Arabic markers, in that order. Inconclusive pages are movies.
// doc may be nil for catalog cards.
func (p *Provider) classify(pageURL string, doc *goquery.Document, title string) models.MediaKind {
	if len(p.site.Kinds) == 1 {
		return p.site.Kinds[0]
	}
	c := p.site.Classify

	path := decodedPath(pageURL)
	if containsAny(path, c.MoviePaths) {
		return models.KindMovie
	}
	if containsAny(path, c.SeriesPaths) {
		if kind, ok := p.markerKind(title); ok && kind != models.KindMovie {
			return kind
		}
		return p.site.SeriesKind
	}

	text := title
	if doc != nil {
		if c.Markers != "" {
			markers := collapse(doc.Find(c.Markers).Text())
			if containsAny(markers, c.MovieWords) {
				return models.KindMovie
			}
			text += " " + markers
		}
		if c.EpisodeContainer != "" && doc.Find(c.EpisodeContainer).Length() > 0 {
			return p.seriesKindFor(title)
		}
	}
	if kind, ok := p.markerKind(text); ok {
		return kind
	}
	return models.KindMovie
}

func (p *Provider) entryKind(link, title string) models.MediaKind {
	return p.classify(link, nil, title)
}

// LoadDetail fetches and parses a detail page. Episode pages are redirected to
// their series when the site declares a breadcrumb.
func (p *Provider) LoadDetail(ctx context.Context, rawURL string) (*models.Detail, error) {
	if p.site.Blocked {
		return nil, p.blocked()
	}
	defer util.Track("detail:" + p.site.Name)()

	doc, pageURL, err := p.document(ctx, p.abs(rawURL))
	if err != nil {
		return nil, err
	}
	if target := p.seriesRedirect(doc, pageURL); target != "" {
		p.log.Debug("Following breadcrumb to series", "from", pageURL, "to", target)
		doc, pageURL, err = p.document(ctx, target, fetch.WithReferer(pageURL))
		if err != nil {
			return nil, err
		}
	}

	sel := p.site.Detail
	raw := textOf(doc.Selection, sel.Title)
	if raw == "" {
		raw = metaContent(doc, "og:title")
	}
	if raw == "" {
		raw = collapse(doc.Find("title").First().Text())
	}

	detail := &models.Detail{
		Title:     p.cleanTitle(raw),
		URL:       pageURL,
		PosterURL: p.detailPoster(doc, pageURL),
		Plot:      p.detailPlot(doc),
		Year:      parseYear(raw),
		Tags:      p.detailTags(doc),
		Kind:      p.classify(pageURL, doc, raw),
	}
	if y := parseYear(textOf(doc.Selection, sel.Year)); y.IsPresent() {
		detail.Year = y
	}
	if sel.Recommendations != "" {
		detail.Recommendations = lo.Filter(p.parseItems(doc.Find(sel.Recommendations), pageURL), func(e models.CatalogEntry, _ int) bool {
			return e.URL != pageURL
		})
	}

	if !detail.IsSeries() {
		detail.DataURL = p.movieDataURL(doc, pageURL)
		p.log.Debug("Loaded movie", "title", detail.Title, "data", detail.DataURL)
		return detail, nil
	}

	detail.Episodes = p.episodes(ctx, doc, pageURL, detail.PosterURL)
	p.log.Debug("Loaded series", "title", detail.Title, "episodes", len(detail.Episodes))
	return detail, nil
}

// seriesRedirect returns the series URL linked from an episode page, or ""
func (p *Provider) seriesRedirect(doc *goquery.Document, pageURL string) string {
	r := p.site.Redirect
	if r.Links == "" || !containsAny(decodedPath(pageURL), r.When) {
		return ""
	}
	var target string
	doc.Find(r.Links).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := usableHref(pageURL, a.AttrOr("href", ""))
		if href == "" || urlutil.NormalizeSeriesURL(href) == urlutil.NormalizeSeriesURL(pageURL) {
			return true
		}
		path := decodedPath(href)
		if containsAny(path, r.When) && !containsAny(path, r.Targets) {
			return true
		}
		if len(r.Targets) == 0 || containsAny(path, r.Targets) {
			target = href
			return false
		}
		return true
	})
	return target
}

func (p *Provider) detailPoster(doc *goquery.Document, pageURL string) string {
	if sel := p.site.Detail.Poster; sel != "" {
		if v := imageOf(doc.Find(sel).First(), "img", p.site.Item.PosterAttrs, pageURL); v != "" {
			return v
		}
	}
	return urlutil.Resolve(pageURL, metaContent(doc, "og:image"))
}

func (p *Provider) detailPlot(doc *goquery.Document) string {
	if plot := textOf(doc.Selection, p.site.Detail.Plot); plot != "" {
		return plot
	}
	if plot := metaContent(doc, "og:description"); plot != "" {
		return plot
	}
	return metaContent(doc, "description")
}

func (p *Provider) detailTags(doc *goquery.Document) []string {
	if p.site.Detail.Tags == "" {
		return nil
	}
	tags := doc.Find(p.site.Detail.Tags).Map(func(_ int, s *goquery.Selection) string {
		return collapse(s.Text())
	})
	return lo.Uniq(lo.Compact(tags))
}

// movieDataURL is the watch-button target when the site has one, else the page itself
func (p *Provider) movieDataURL(doc *goquery.Document, pageURL string) string {
	if p.site.Watch.Button == "" {
		return pageURL
	}
	if href := usableHref(pageURL, doc.Find(p.site.Watch.Button).First().AttrOr("href", "")); href != "" {
		return href
	}
	return pageURL
}
