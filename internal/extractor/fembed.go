package extractor

import (
	"context"
	"encoding/json"
	"net/url"
	"regexp"
	"strings"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/urlutil"
)

var fembedIDRe = regexp.MustCompile(`/(?:v|f|e|embed)/([A-Za-z0-9_-]+)`)

// Fembed covers the players that serve their sources from POST /api/source/{id},
// including the fajer.live player used by FajerShow.
type Fembed struct {
	Base
	hosts hostMatcher
}

// NewFembed creates the Fembed-style extractor
func NewFembed(client *fetch.Client) *Fembed {
	return &Fembed{
		Base:  NewBase("Fembed", client),
		hosts: hostMatcher{"fembed", "feurl", "fajer.live", "diasfem", "fembad", "vanfem", "femax20", "fcdn.stream"},
	}
}

func (e *Fembed) CanExtract(url string) bool { return e.hosts.match(url) }

type fembedSource struct {
	File  string `json:"file"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

type fembedResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func (e *Fembed) Extract(ctx context.Context, req Request) ([]models.ExtractedLink, error) {
	m := fembedIDRe.FindStringSubmatch(req.URL)
	origin := urlutil.Origin(req.URL)
	if m == nil || origin == "" {
		return nil, nil
	}

	form := url.Values{"r": {req.Referer}, "d": {urlutil.Host(req.URL)}}
	res, err := e.client.PostForm(ctx, origin+"api/source/"+m[1], form, fetch.WithReferer(req.URL), fetch.WithXHR())
	if err != nil {
		return nil, err
	}

	var payload fembedResponse
	if err := res.JSON(&payload); err != nil {
		return nil, err
	}
	var sources []fembedSource
	// on failure data is an error string instead of a list
	if !payload.Success || json.Unmarshal(payload.Data, &sources) != nil {
		return nil, nil
	}

	found := make([]Candidate, 0, len(sources))
	for _, s := range sources {
		c := Candidate{URL: s.File, Label: s.Label, Kind: models.LinkVideo}
		if strings.EqualFold(s.Type, "hls") || strings.Contains(s.File, ".m3u8") {
			c.Kind = models.LinkHLS
		}
		found = append(found, c)
	}
	return e.links(req.URL, found), nil
}
