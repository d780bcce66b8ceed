package extractor

import (
	"context"
	"regexp"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
)

var moshahdaEmbedRe = regexp.MustCompile(`^(https?://[^/]+)/embed-(\w+)`)

// moshahdaVariants maps the download suffixes to their labels, lowest first
var moshahdaVariants = []struct{ key, label string }{
	{"download_l", "240p"},
	{"download_n", "360p"},
	{"download_h", "480p"},
	{"download_x", "720p"},
	{"download_o", "1080p"},
}

// Moshahda builds the per-quality download links from the embed code
type Moshahda struct {
	Base
	hosts hostMatcher
}

// NewMoshahda creates the Moshahda extractor
func NewMoshahda(client *fetch.Client) *Moshahda {
	return &Moshahda{Base: NewBase("Moshahda", client), hosts: hostMatcher{"moshahda"}}
}

func (e *Moshahda) CanExtract(url string) bool { return e.hosts.match(url) }

func (e *Moshahda) Extract(_ context.Context, req Request) ([]models.ExtractedLink, error) {
	m := moshahdaEmbedRe.FindStringSubmatch(req.URL)
	if m == nil {
		return nil, nil
	}
	found := make([]Candidate, 0, len(moshahdaVariants))
	for _, v := range moshahdaVariants {
		found = append(found, Candidate{URL: m[1] + "/" + m[2] + ".html?" + v.key, Label: v.label, Kind: models.LinkVideo})
	}
	return e.links(req.URL, found), nil
}
