package extractor

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/urlutil"
	"github.com/arabstream/arabstream/internal/util"
)

// Fichier submits the download form of 1fichier and reads the links of the answer
type Fichier struct {
	Base
	hosts hostMatcher
	chain []Strategy
}

// NewFichier creates the 1Fichier extractor
func NewFichier(client *fetch.Client) *Fichier {
	return &Fichier{
		Base:  NewBase("1Fichier", client),
		hosts: hostMatcher{"1fichier"},
		chain: pick("download-anchor", "mp4-url", "m3u8-url"),
	}
}

func (e *Fichier) CanExtract(url string) bool { return e.hosts.match(url) }

func (e *Fichier) Extract(ctx context.Context, req Request) ([]models.ExtractedLink, error) {
	res, err := e.page(ctx, req)
	if err != nil {
		return nil, err
	}
	doc, err := res.Document()
	if err != nil {
		return nil, err
	}
	form := doc.Find("form").First()
	if form.Length() == 0 {
		return nil, nil
	}

	action := urlutil.Resolve(res.URL, form.AttrOr("action", ""))
	if action == "" {
		action = res.URL
	}
	values := url.Values{}
	form.Find(`input[type="hidden"]`).Each(func(_ int, in *goquery.Selection) {
		if name := in.AttrOr("name", ""); name != "" {
			values.Set(name, in.AttrOr("value", ""))
		}
	})
	values.Set("submit", "download")

	answer, err := e.client.PostForm(ctx, action, values, fetch.WithReferer(res.URL))
	if err != nil {
		return nil, err
	}
	strategy, found := RunChain(e.chain, answer.Text())
	util.Debug("extractor chain finished", "extractor", e.name, "url", action, "strategy", strategy, "found", len(found))
	return e.links(answer.URL, found), nil
}
