package scraper

import (
	"context"
	"html"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/urlutil"
	"github.com/arabstream/arabstream/internal/util"
)

// ListCatalog fetches one page of a category. Malformed cards are skipped;
// a failed page fetch is returned as an error.
func (p *Provider) ListCatalog(ctx context.Context, category string, page int) ([]models.CatalogEntry, error) {
	if p.site.Blocked {
		return nil, p.blocked()
	}
	cat, ok := p.category(category)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownCategory, "%s has no category %q", p.site.Name, category)
	}
	defer util.Track("catalog:" + p.site.Name)()

	target := p.abs(pageURL(cat.Path, max(page, 1)))
	p.log.Debug("Listing catalog", "category", cat.Key, "page", page, "url", target)

	if cat.Format == FormatWPJSON {
		return p.wpPosts(ctx, target)
	}
	doc, finalURL, err := p.document(ctx, target)
	if err != nil {
		return nil, err
	}
	return p.parseItems(doc.Selection, finalURL), nil
}

// pageURL expands the page placeholder of a category path. Paths without a
// placeholder are WordPress archives paginated with a "page/N/" suffix.
func pageURL(path string, page int) string {
	if strings.Contains(path, "{page}") {
		return strings.ReplaceAll(path, "{page}", strconv.Itoa(page))
	}
	if page <= 1 {
		return path
	}
	return urlutil.JoinSuffix(path, "page/"+strconv.Itoa(page)+"/")
}

// Search queries every search endpoint of the site one after the other.
// Results of several endpoints are merged and sorted by title. The call fails
// only when every endpoint failed.
func (p *Provider) Search(ctx context.Context, query string) ([]models.CatalogEntry, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	defer util.Track("search:" + p.site.Name)()

	var (
		results  []models.CatalogEntry
		firstErr error
		failed   int
	)
	for _, ep := range p.site.Search {
		entries, err := p.searchEndpoint(ctx, ep, query)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			p.log.Debug("Search endpoint failed", "path", ep.Path, "error", err)
			failed++
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, entries...)
	}
	if failed == len(p.site.Search) {
		return nil, firstErr
	}

	results = lo.UniqBy(results, func(e models.CatalogEntry) string { return e.URL })
	if len(p.site.Search) > 1 {
		slices.SortStableFunc(results, func(a, b models.CatalogEntry) int {
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		})
	}
	return results, nil
}

func (p *Provider) searchEndpoint(ctx context.Context, ep SearchEndpoint, query string) ([]models.CatalogEntry, error) {
	target := p.abs(strings.ReplaceAll(ep.Path, "{query}", url.QueryEscape(query)))

	if ep.Format == FormatWPJSON {
		return p.wpPosts(ctx, target)
	}

	var (
		res *fetch.Result
		err error
	)
	if ep.Form != nil {
		form := url.Values{}
		for k, v := range ep.Form {
			form.Set(k, strings.ReplaceAll(v, "{query}", query))
		}
		res, err = p.client.PostForm(ctx, target, form, fetch.WithReferer(p.site.BaseURL))
	} else {
		res, err = p.client.Get(ctx, target)
	}
	if err != nil {
		return nil, err
	}
	doc, err := res.Document()
	if err != nil {
		return nil, err
	}
	return p.parseItems(doc.Selection, res.URL), nil
}

// parseItems parses every card under scope, dropping malformed cards and duplicate URLs
func (p *Provider) parseItems(scope *goquery.Selection, pageURL string) []models.CatalogEntry {
	var entries []models.CatalogEntry
	scope.Find(p.site.Item.Container).Each(func(_ int, card *goquery.Selection) {
		if e, ok := p.parseItem(card, pageURL); ok {
			entries = append(entries, e)
		}
	})
	return lo.UniqBy(entries, func(e models.CatalogEntry) string { return e.URL })
}

// parseItem reads one card. A card without a URL or a title is rejected whole.
func (p *Provider) parseItem(card *goquery.Selection, pageURL string) (models.CatalogEntry, bool) {
	sel := p.site.Item
	anchor := anchorOf(card, sel.Link)
	link := usableHref(pageURL, anchor.AttrOr("href", ""))
	if link == "" {
		return models.CatalogEntry{}, false
	}

	raw := textOf(card, sel.Title)
	if raw == "" {
		raw = firstAttr(anchor, "title")
	}
	if raw == "" {
		raw = firstAttr(card.Find("img").First(), "alt", "title")
	}
	if raw == "" {
		raw = collapse(anchor.Text())
	}
	if raw == "" {
		return models.CatalogEntry{}, false
	}

	entry := models.CatalogEntry{
		Title:     p.cleanTitle(raw),
		URL:       link,
		PosterURL: imageOf(card, sel.Poster, sel.PosterAttrs, pageURL),
		Kind:      p.entryKind(link, raw),
		Year:      parseYear(raw),
	}
	if y := parseYear(textOf(card, sel.Year)); y.IsPresent() {
		entry.Year = y
	}
	return entry, true
}

// wpPost is the subset of a WordPress REST post the catalog needs
type wpPost struct {
	Link  string `json:"link"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Categories []int `json:"categories"`
	Embedded   struct {
		Media []struct {
			SourceURL string `json:"source_url"`
		} `json:"wp:featuredmedia"`
	} `json:"_embedded"`
	Yoast struct {
		OGImage []struct {
			URL string `json:"url"`
		} `json:"og_image"`
	} `json:"yoast_head_json"`
}

// wpPosts decodes a /wp-json/wp/v2/posts response into catalog entries
func (p *Provider) wpPosts(ctx context.Context, target string) ([]models.CatalogEntry, error) {
	res, err := p.client.Get(ctx, target, fetch.WithHeader("Accept", "application/json"))
	if err != nil {
		return nil, err
	}
	var posts []wpPost
	if err := res.JSON(&posts); err != nil {
		return nil, err
	}

	entries := lo.FilterMap(posts, func(post wpPost, _ int) (models.CatalogEntry, bool) {
		raw := collapse(html.UnescapeString(post.Title.Rendered))
		link := usableHref(p.site.BaseURL, post.Link)
		if raw == "" || link == "" {
			return models.CatalogEntry{}, false
		}
		poster := ""
		if len(post.Embedded.Media) > 0 {
			poster = post.Embedded.Media[0].SourceURL
		} else if len(post.Yoast.OGImage) > 0 {
			poster = post.Yoast.OGImage[0].URL
		}
		kind := p.entryKind(link, raw)
		if lo.Some(post.Categories, p.site.SeriesCategories) {
			kind = p.seriesKindFor(raw)
		}
		return models.CatalogEntry{
			Title:     p.cleanTitle(raw),
			URL:       link,
			PosterURL: poster,
			Kind:      kind,
			Year:      parseYear(raw),
		}, true
	})
	return lo.UniqBy(entries, func(e models.CatalogEntry) string { return e.URL }), nil
}
