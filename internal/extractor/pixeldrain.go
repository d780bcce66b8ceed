package extractor

import (
	"context"
	"regexp"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
)

var pixelDrainIDRe = regexp.MustCompile(`pixeldrain\.[a-z]+/(?:u|api/file)/([A-Za-z0-9]+)`)

// PixelDrain maps a share page to the file API without fetching anything
type PixelDrain struct {
	Base
	hosts hostMatcher
}

// NewPixelDrain creates the PixelDrain extractor
func NewPixelDrain(client *fetch.Client) *PixelDrain {
	return &PixelDrain{Base: NewBase("PixelDrain", client), hosts: hostMatcher{"pixeldrain"}}
}

func (e *PixelDrain) CanExtract(url string) bool { return e.hosts.match(url) }

func (e *PixelDrain) Extract(_ context.Context, req Request) ([]models.ExtractedLink, error) {
	m := pixelDrainIDRe.FindStringSubmatch(req.URL)
	if m == nil {
		return nil, nil
	}
	return e.links(req.URL, []Candidate{{URL: "https://pixeldrain.com/api/file/" + m[1], Kind: models.LinkVideo}}), nil
}
