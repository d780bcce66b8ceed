package extractor

import (
	"context"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/urlutil"
	"github.com/arabstream/arabstream/internal/util"
)

var (
	aflamySourceRe = regexp.MustCompile(`(?i)(?:hls|playlist|file|src)["']?\s*:\s*["']([^"']+)["']`)
	aflamyIframeRe = regexp.MustCompile(`(?i)<iframe\s+[^>]*src=["']([^"']+)["']`)
)

// Aflamy walks the server tabs of an aflamy page and the players they embed
type Aflamy struct {
	Base
	hosts hostMatcher
}

// NewAflamy creates the Aflamy extractor
func NewAflamy(client *fetch.Client) *Aflamy {
	return &Aflamy{Base: NewBase("Aflamy", client), hosts: hostMatcher{"aflamy"}}
}

func (e *Aflamy) CanExtract(url string) bool { return e.hosts.match(url) }

func (e *Aflamy) Extract(ctx context.Context, req Request) ([]models.ExtractedLink, error) {
	res, err := e.page(ctx, req)
	if err != nil {
		return nil, err
	}
	doc, err := res.Document()
	if err != nil {
		return nil, err
	}
	servers := doc.Find("a.aplr-link").Map(func(_ int, a *goquery.Selection) string {
		return urlutil.Resolve(res.URL, a.AttrOr("href", ""))
	})
	servers = lo.Uniq(lo.Filter(servers, func(s string, _ int) bool { return strings.HasPrefix(s, "http") }))
	if len(servers) == 0 {
		servers = []string{res.URL}
	}

	var links []models.ExtractedLink
	for _, server := range servers {
		if ctx.Err() != nil {
			break
		}
		page, err := e.client.Get(ctx, server, fetch.WithReferer(res.URL))
		if err != nil {
			util.Debug("Aflamy server failed", "url", server, "error", err)
			continue
		}
		links = append(links, e.links(page.URL, aflamySources(page.Text()))...)

		for _, m := range aflamyIframeRe.FindAllStringSubmatch(page.Text(), -1) {
			src := m[1]
			if !strings.Contains(src, ".cyou") && !strings.Contains(src, "embed") && !strings.Contains(src, "player") {
				continue
			}
			src = urlutil.Resolve(page.URL, src)
			player, err := e.client.Get(ctx, src, fetch.WithReferer(page.URL))
			if err != nil {
				util.Debug("Aflamy player failed", "url", src, "error", err)
				continue
			}
			links = append(links, e.links(player.URL, aflamySources(player.Text()))...)
		}
	}

	links = lo.UniqBy(links, func(l models.ExtractedLink) string { return l.URL })
	slices.SortStableFunc(links, func(a, b models.ExtractedLink) int {
		switch {
		case a.Kind == models.LinkHLS && b.Kind != models.LinkHLS:
			return -1
		case a.Kind != models.LinkHLS && b.Kind == models.LinkHLS:
			return 1
		}
		return 0
	})
	return links, nil
}

// aflamySources reads the player settings, skipping scripts and subtitle tracks
func aflamySources(page string) []Candidate {
	var out []Candidate
	for _, m := range aflamySourceRe.FindAllStringSubmatch(normalizePage(page), -1) {
		src := m[1]
		if !strings.Contains(src, "http") || strings.Contains(src, ".vtt") || strings.Contains(src, ".js") {
			continue
		}
		c := Candidate{URL: src}
		if strings.Contains(src, ".m3u8") || strings.Contains(src, "playlist") {
			c.Kind = models.LinkHLS
		}
		out = append(out, c)
	}
	return out
}
