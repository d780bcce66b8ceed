package extractor

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
)

var (
	voeHLSRe      = regexp.MustCompile(`['"]hls['"]\s*:\s*['"]([^'"]+)['"]`)
	voeMP4Re      = regexp.MustCompile(`['"]mp4['"]\s*:\s*['"]([^'"]+)['"]`)
	voeRedirectRe = regexp.MustCompile(`window\.location\.href\s*=\s*['"](https?://[^'"]+)['"]`)
)

// Voe reads the hls and mp4 keys of the player config.
// Newer mirrors store the values base64 encoded and sit behind a JS redirect.
type Voe struct {
	Base
	hosts hostMatcher
}

// NewVoe creates the Voe extractor
func NewVoe(client *fetch.Client) *Voe {
	return &Voe{
		Base:  NewBase("Voe", client),
		hosts: hostMatcher{"voe.sx", "voe-", "voeun", "voeunblock"},
	}
}

func (e *Voe) CanExtract(url string) bool { return e.hosts.match(url) }

func (e *Voe) Extract(ctx context.Context, req Request) ([]models.ExtractedLink, error) {
	res, err := e.page(ctx, req)
	if err != nil {
		return nil, err
	}

	found := voeCandidates(res.Text())
	if len(found) == 0 {
		if m := voeRedirectRe.FindStringSubmatch(res.Text()); m != nil {
			res, err = e.page(ctx, Request{URL: m[1], Referer: req.URL, Casting: req.Casting})
			if err != nil {
				return nil, err
			}
			found = voeCandidates(res.Text())
		}
	}
	return e.links(res.URL, found), nil
}

func voeCandidates(page string) []Candidate {
	var out []Candidate
	if m := voeHLSRe.FindStringSubmatch(page); m != nil {
		out = append(out, Candidate{URL: voeValue(m[1]), Kind: models.LinkHLS})
	}
	if m := voeMP4Re.FindStringSubmatch(page); m != nil {
		out = append(out, Candidate{URL: voeValue(m[1]), Kind: models.LinkVideo})
	}
	return out
}

func voeValue(v string) string {
	if strings.Contains(v, "://") {
		return v
	}
	if decoded, err := base64.StdEncoding.DecodeString(v); err == nil && strings.Contains(string(decoded), "://") {
		return string(decoded)
	}
	return v
}
