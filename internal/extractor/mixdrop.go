package extractor

import (
	"context"
	"regexp"
	"strings"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
)

var wurlRe = regexp.MustCompile(`wurl\s*=\s*['"]([^'"]+)['"]`)

// MixDrop reads MDCore.wurl, usually from a packed script
type MixDrop struct {
	Base
	hosts hostMatcher
}

// NewMixDrop creates the MixDrop extractor
func NewMixDrop(client *fetch.Client) *MixDrop {
	return &MixDrop{
		Base:  NewBase("MixDrop", client),
		hosts: hostMatcher{"mixdrop", "mixdrp", "mdbekjwqa", "mdy48tn97"},
	}
}

func (e *MixDrop) CanExtract(url string) bool { return e.hosts.match(url) }

func (e *MixDrop) Extract(ctx context.Context, req Request) ([]models.ExtractedLink, error) {
	// the file page has no player, the embed page does
	req.URL = strings.Replace(req.URL, "/f/", "/e/", 1)

	res, err := e.page(ctx, req)
	if err != nil {
		return nil, err
	}
	page := res.Text()

	for _, src := range []string{UnpackAll(page), page} {
		if m := wurlRe.FindStringSubmatch(src); m != nil {
			link := m[1]
			if strings.HasPrefix(link, "//") {
				link = "https:" + link
			}
			return e.links(res.URL, []Candidate{{URL: link, Kind: models.LinkVideo}}), nil
		}
	}

	_, found := RunChain(pick("video-tag"), page)
	return e.links(res.URL, found), nil
}
