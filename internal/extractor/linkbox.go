package extractor

import (
	"context"
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
)

// LinkBox asks the file API of a share link for its resolutions
type LinkBox struct {
	Base
	hosts hostMatcher
}

// NewLinkBox creates the LinkBox extractor
func NewLinkBox(client *fetch.Client) *LinkBox {
	return &LinkBox{Base: NewBase("LinkBox", client), hosts: hostMatcher{"linkbox", "lbx.to"}}
}

func (e *LinkBox) CanExtract(url string) bool { return e.hosts.match(url) }

type linkBoxDetail struct {
	Data struct {
		ItemInfo struct {
			Resolutions []struct {
				Resolution string  `json:"resolution"`
				Size       float64 `json:"size"`
				URL        string  `json:"url"`
			} `json:"resolutionList"`
		} `json:"itemInfo"`
	} `json:"data"`
}

func (e *LinkBox) Extract(ctx context.Context, req Request) ([]models.ExtractedLink, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, errors.Wrap(err, "linkbox url")
	}
	_, id, ok := strings.Cut(u.Path, "/file/")
	id = strings.Trim(id, "/")
	if !ok || id == "" {
		return nil, nil
	}

	api := u.Scheme + "://" + u.Host + "/api/file/detail?itemId=" + url.QueryEscape(id)
	res, err := e.client.Get(ctx, api, fetch.WithReferer(req.URL), fetch.WithXHR())
	if err != nil {
		return nil, err
	}
	var detail linkBoxDetail
	if err := res.JSON(&detail); err != nil {
		return nil, errors.Wrap(err, "linkbox detail")
	}

	var links []models.ExtractedLink
	for _, r := range detail.Data.ItemInfo.Resolutions {
		if r.URL == "" {
			continue
		}
		found := e.links(req.URL, []Candidate{{URL: r.URL, Label: r.Resolution, Kind: models.LinkVideo}})
		for i := range found {
			if r.Size > 0 {
				found[i].Name += " (" + humanize.IBytes(uint64(r.Size)) + ")"
			}
		}
		links = append(links, found...)
	}
	return links, nil
}
