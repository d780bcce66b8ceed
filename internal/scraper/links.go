package scraper

import (
	"context"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/arabstream/arabstream/internal/extractor"
	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/urlutil"
	"github.com/arabstream/arabstream/internal/util"
)

var (
	iframeSrcRe     = regexp.MustCompile(`(?i)<iframe[^>]+src\s*=\s*["']([^"']+)["']`)
	quotedURLRe     = regexp.MustCompile(`['"]((?:https?:)?//[^'"\s]+)['"]`)
	shortlinkPostRe = regexp.MustCompile(`[?&]p=(\d+)`)
	bodyPostRe      = regexp.MustCompile(`postid-(\d+)`)
)

// wrapperKeys are the query keys embed wrappers use to carry the media URL
var wrapperKeys = []string{"source", "file"}

// candidate is one server entry of a watch page. DooPlay options carry the
// admin-ajax form and PlayerAjax servers the endpoint to GET until they are
// resolved. page is where the server was listed and serves as referer.
type candidate struct {
	url   string
	label string
	page  string
	ajax  url.Values
	get   string
}

func (c candidate) key() string {
	switch {
	case c.ajax != nil:
		return "ajax:" + c.ajax.Encode()
	case c.get != "":
		return "get:" + c.get
	}
	return c.url
}

// ResolveLinks implements Adapter
func (p *Provider) ResolveLinks(ctx context.Context, dataURL string, casting bool, sink Sink) (bool, error) {
	rep, err := p.Resolve(ctx, dataURL, casting, sink)
	return rep.Candidates > 0, err
}

// Resolve fetches the watch page of dataURL and resolves every server
// candidate concurrently. Failures are per candidate and only counted in the
// Report; the error is reserved for the watch page fetch.
func (p *Provider) Resolve(ctx context.Context, dataURL string, casting bool, sink Sink) (Report, error) {
	defer util.Track("links:" + p.site.Name)()

	dataURL = p.abs(dataURL)
	doc, pageURL, err := p.watchPage(ctx, dataURL)
	if err != nil {
		return Report{}, err
	}

	p.emitSubtitles(doc, pageURL, sink)

	candidates := p.candidates(doc, dataURL, pageURL)
	candidates = append(candidates, p.subPageCandidates(ctx, doc, dataURL, pageURL, sink)...)
	candidates = lo.UniqBy(candidates, func(c candidate) string { return c.key() })
	rep := Report{Candidates: len(candidates)}
	if len(candidates) == 0 {
		p.log.Debug("No server candidates", "page", pageURL)
		return rep, nil
	}

	var emitted, failed atomic.Int64
	tasks := lo.Map(candidates, func(c candidate, _ int) func() {
		return func() {
			links, err := p.resolveCandidate(ctx, c, casting)
			if err != nil || len(links) == 0 {
				failed.Add(1)
				p.log.Debug("Server produced no link", "server", c.label, "url", c.url, "error", err)
				return
			}
			for _, l := range links {
				sink.Link(l)
			}
			emitted.Add(int64(len(links)))
		}
	})
	util.ParallelExecute(p.maxWorkers, tasks...)

	rep.Emitted = int(emitted.Load())
	rep.Failed = int(failed.Load())
	p.log.Debug("Resolved links", "candidates", rep.Candidates, "emitted", rep.Emitted, "failed", rep.Failed)
	return rep, nil
}

// watchPage reaches the page listing the servers: the data URL itself, the
// data URL plus a suffix, or the target of a watch button. Sites with a form
// get a POST.
func (p *Provider) watchPage(ctx context.Context, dataURL string) (*goquery.Document, string, error) {
	w := p.site.Watch
	target := dataURL
	if w.Suffix != "" && !strings.Contains(decodedPath(dataURL), "/"+strings.Trim(w.Suffix, "/")+"/") {
		target = urlutil.JoinSuffix(dataURL, w.Suffix)
	}
	referer := p.site.BaseURL

	if w.Button != "" {
		doc, pageURL, err := p.document(ctx, target, fetch.WithReferer(referer))
		if err != nil {
			return nil, "", err
		}
		next := usableHref(pageURL, doc.Find(w.Button).First().AttrOr("href", ""))
		if next == "" || urlutil.NormalizeSeriesURL(next) == urlutil.NormalizeSeriesURL(pageURL) {
			if w.Form == nil {
				return doc, pageURL, nil
			}
		} else {
			target, referer = next, pageURL
		}
	}

	if w.Form == nil {
		return p.document(ctx, target, fetch.WithReferer(referer))
	}
	form := url.Values{}
	for k, v := range w.Form {
		form.Set(k, v)
	}
	res, err := p.client.PostForm(ctx, target, form, fetch.WithReferer(target))
	if err != nil {
		return nil, "", err
	}
	doc, err := res.Document()
	if err != nil {
		return nil, "", err
	}
	return doc, res.URL, nil
}

// candidates enumerates the servers of a watch page, de-duplicated by absolute URL
func (p *Provider) candidates(doc *goquery.Document, dataURL, pageURL string) []candidate {
	var out []candidate
	add := func(raw, label string) {
		if u := p.serverURL(pageURL, raw); u != "" {
			out = append(out, candidate{url: u, label: collapse(label), page: pageURL})
		}
	}

	s := p.site.Servers
	if s.Iframes != "" {
		doc.Find(s.Iframes).Each(func(_ int, f *goquery.Selection) {
			add(firstAttr(f, "src", "data-src", "data-lazy-src"), "")
		})
	}
	if s.Items != "" {
		doc.Find(s.Items).Each(func(_ int, item *goquery.Selection) {
			raw := firstAttr(item, s.Attrs...)
			if raw == "" {
				raw = firstAttr(item.Find("iframe").First(), "src", "data-src")
			}
			if raw == "" {
				raw = item.Find("a[href]").First().AttrOr("href", "")
			}
			add(raw, item.Text())
		})
	}
	if d := p.site.DooPlay; d.Options != "" {
		doc.Find(d.Options).Each(func(_ int, opt *goquery.Selection) {
			post, nume := opt.AttrOr("data-post", ""), opt.AttrOr("data-nume", "")
			if post == "" || nume == "" {
				return
			}
			label := collapse(opt.Text())
			if label == "" {
				label = "Server " + nume
			}
			out = append(out, candidate{label: label, page: pageURL, ajax: url.Values{
				"action": {"doo_player_ajax"},
				"post":   {post},
				"nume":   {nume},
				"type":   {opt.AttrOr("data-type", "")},
			}})
		})
	}
	if p.site.PlayerAjax.Path != "" {
		out = append(out, p.ajaxCandidates(doc, pageURL)...)
	}
	if p.site.Downloads != "" {
		doc.Find(p.site.Downloads).Each(func(_ int, a *goquery.Selection) {
			add(a.AttrOr("href", ""), a.Text())
		})
	}
	if hook := p.site.Hooks.Candidates; hook != nil {
		for _, c := range hook(HookInput{DataURL: dataURL, PageURL: pageURL, Doc: doc}) {
			add(c.URL, c.Label)
		}
	}

	return lo.UniqBy(out, func(c candidate) string { return c.key() })
}

// subPageCandidates follows the SubPages links of a watch page, one level
// deep, and collects the servers and subtitles listed there
func (p *Provider) subPageCandidates(ctx context.Context, doc *goquery.Document, dataURL, pageURL string, sink Sink) []candidate {
	s := p.site.Servers
	if s.SubPages == "" {
		return nil
	}
	seen := map[string]bool{subPageKey(pageURL): true}
	var (
		out     []candidate
		fetched int
	)
	doc.Find(s.SubPages).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if ctx.Err() != nil {
			return false
		}
		href := usableHref(pageURL, a.AttrOr("href", ""))
		if href == "" || seen[subPageKey(href)] {
			return true
		}
		seen[subPageKey(href)] = true
		fetched++

		sdoc, subURL, err := p.document(ctx, href, fetch.WithReferer(pageURL))
		if err != nil {
			p.log.Debug("Server sub-page failed", "url", href, "error", err)
			return fetched < s.MaxSubPages
		}
		p.emitSubtitles(sdoc, subURL, sink)
		out = append(out, p.candidates(sdoc, dataURL, subURL)...)
		return fetched < s.MaxSubPages
	})
	return out
}

// subPageKey identifies a sub page by path and query, ignoring the fragment
func subPageKey(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.Fragment = ""
	return urlutil.NormalizeSeriesURL(u.String()) + "?" + u.RawQuery
}

// ajaxCandidates builds one endpoint URL per PlayerAjax server item and per fixed index
func (p *Provider) ajaxCandidates(doc *goquery.Document, pageURL string) []candidate {
	a := p.site.PlayerAjax
	post := postID(doc)
	endpoint := func(id, index string) string {
		return p.abs(strings.NewReplacer("{id}", url.QueryEscape(id), "{post}", post, "{index}", index).Replace(a.Path))
	}

	var out []candidate
	if a.Items != "" {
		doc.Find(a.Items).Each(func(_ int, item *goquery.Selection) {
			id := strings.TrimSpace(item.AttrOr(a.IDAttr, ""))
			if id == "" {
				return
			}
			label := collapse(item.Text())
			if label == "" {
				label = "Server " + id
			}
			out = append(out, candidate{label: label, page: pageURL, get: endpoint(id, "")})
		})
	}
	if len(a.Indexes) == 0 {
		return out
	}
	if post == "" {
		p.log.Debug("No post id for player slots", "page", pageURL)
		return out
	}
	for i, index := range a.Indexes {
		out = append(out, candidate{label: "Server " + strconv.Itoa(i+1), page: pageURL, get: endpoint("", index)})
	}
	return out
}

// postID reads the WordPress post id from the shortlink or the body class
func postID(doc *goquery.Document) string {
	if m := shortlinkPostRe.FindStringSubmatch(doc.Find(`link[rel="shortlink"]`).AttrOr("href", "")); m != nil {
		return m[1]
	}
	if m := bodyPostRe.FindStringSubmatch(doc.Find("body").AttrOr("class", "")); m != nil {
		return m[1]
	}
	return ""
}

// embeddedURL returns the quoted URL of an attribute holding markup or a JS
// call. Plain values are returned unchanged.
func embeddedURL(raw string) string {
	if !strings.ContainsAny(raw, `<('"`) {
		return raw
	}
	if m := iframeSrcRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	if m := quotedURLRe.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return ""
}

// serverURL resolves a server reference, applies the site rewrite and drops skipped hosts
func (p *Provider) serverURL(pageURL, raw string) string {
	u := usableHref(pageURL, embeddedURL(raw))
	if u == "" {
		return ""
	}
	if rewrite := p.site.Hooks.Rewrite; rewrite != nil {
		u = rewrite(u)
	}
	if p.skipped(u) {
		return ""
	}
	return u
}

func (p *Provider) skipped(u string) bool {
	host := urlutil.Host(u)
	return lo.SomeBy(p.site.Servers.Skip, func(fragment string) bool { return strings.Contains(host, fragment) })
}

// resolveCandidate turns one server into links: direct media first, then
// wrapped media, then a host extractor, then the generic strategy chain.
func (p *Provider) resolveCandidate(ctx context.Context, c candidate, casting bool) ([]models.ExtractedLink, error) {
	target := c.url
	if c.ajax != nil || c.get != "" {
		var (
			embed string
			err   error
		)
		if c.ajax != nil {
			embed, err = p.dooPlayEmbed(ctx, c.ajax, c.page)
		} else {
			embed, err = p.ajaxEmbed(ctx, c.get, c.page)
		}
		if err != nil {
			return nil, err
		}
		if target = p.serverURL(c.page, embed); target == "" {
			return nil, errors.Errorf("player %s is on a skipped host", embed)
		}
	}

	if urlutil.IsDirectMedia(target) {
		return []models.ExtractedLink{p.directLink(target, c.label, c.page)}, nil
	}
	for _, key := range wrapperKeys {
		if v := urlutil.QueryParam(target, key); v != "" && urlutil.IsDirectMedia(v) {
			return []models.ExtractedLink{p.directLink(urlutil.Resolve(target, v), c.label, c.page)}, nil
		}
	}

	req := extractor.Request{URL: target, Referer: c.page, Casting: casting}
	if e, ok := p.extractors.Match(target); ok {
		links, err := e.Extract(ctx, req)
		return labelLinks(links, c.label), err
	}
	fallback := p.extractors.Fallback()
	if fallback == nil {
		return nil, nil
	}
	links, err := fallback.Extract(ctx, req)
	if err != nil {
		p.log.Debug("Generic extraction failed", "url", target, "error", err)
		return nil, nil
	}
	return labelLinks(links, c.label), nil
}

// dooPlayEmbed asks admin-ajax.php for the embed URL of a DooPlay option
func (p *Provider) dooPlayEmbed(ctx context.Context, form url.Values, pageURL string) (string, error) {
	endpoint := p.abs(p.site.DooPlay.Endpoint)
	res, err := p.client.PostForm(ctx, endpoint, form, fetch.WithReferer(pageURL), fetch.WithXHR())
	if err != nil {
		return "", err
	}
	if embed := embedFromAnswer(res, pageURL, nil); embed != "" {
		return embed, nil
	}
	return "", errors.Errorf("doo_player_ajax returned no embed for post %s option %s", form.Get("post"), form.Get("nume"))
}

// ajaxEmbed GETs a PlayerAjax endpoint the way the theme's player script does
func (p *Provider) ajaxEmbed(ctx context.Context, endpoint, pageURL string) (string, error) {
	res, err := p.client.Get(ctx, endpoint, fetch.WithReferer(pageURL), fetch.WithXHR())
	if err != nil {
		return "", err
	}
	if embed := embedFromAnswer(res, pageURL, p.site.PlayerAjax.Embed); embed != "" {
		return embed, nil
	}
	return "", errors.Errorf("%s returned no player", endpoint)
}

// embedFromAnswer reads a player URL from an AJAX answer: the JSON
// {embed_url} field first, then an iframe, then the site pattern.
func embedFromAnswer(res *fetch.Result, pageURL string, pattern *regexp.Regexp) string {
	var payload struct {
		EmbedURL string `json:"embed_url"`
	}
	body := res.Text()
	if res.JSON(&payload) == nil && payload.EmbedURL != "" {
		body = payload.EmbedURL
		if !strings.Contains(body, "<iframe") {
			return urlutil.Resolve(pageURL, body)
		}
	}
	if m := iframeSrcRe.FindStringSubmatch(body); m != nil {
		return urlutil.Resolve(pageURL, html.UnescapeString(m[1]))
	}
	if pattern != nil {
		return pattern.FindString(body)
	}
	return ""
}

func (p *Provider) directLink(u, label, pageURL string) models.ExtractedLink {
	quality := models.ParseQuality(label)
	if quality == models.QualityUnknown {
		quality = models.ParseQuality(u)
	}
	name := p.site.Name
	if label != "" {
		name += " - " + label
	}
	return models.ExtractedLink{
		Source:  p.site.Name,
		Name:    name,
		URL:     u,
		Kind:    urlutil.LinkKind(u),
		Quality: quality,
		Referer: pageURL,
	}
}

// labelLinks fills the quality of extractor links from the server label when the host gave none
func labelLinks(links []models.ExtractedLink, label string) []models.ExtractedLink {
	q := models.ParseQuality(label)
	if q == models.QualityUnknown {
		return links
	}
	for i := range links {
		if links[i].Quality == models.QualityUnknown {
			links[i].Quality = q
		}
	}
	return links
}

func (p *Provider) emitSubtitles(doc *goquery.Document, pageURL string, sink Sink) {
	doc.Find(p.site.Servers.Subtitles).Each(func(_ int, t *goquery.Selection) {
		kind := strings.ToLower(t.AttrOr("kind", "subtitles"))
		if kind != "subtitles" && kind != "captions" {
			return
		}
		u := usableHref(pageURL, t.AttrOr("src", ""))
		if u == "" {
			return
		}
		lang := firstAttr(t, "label", "srclang")
		if lang == "" {
			lang = "Arabic"
		}
		sink.Subtitle(models.Subtitle{Language: lang, URL: u})
	})
}
