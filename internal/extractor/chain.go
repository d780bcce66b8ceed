package extractor

import (
	"context"
	"regexp"

	"github.com/samber/lo"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/util"
)

// chainExtractor fetches the embed page and runs a strategy chain over it.
// Hosts whose players only differ by domain share this type.
type chainExtractor struct {
	Base
	hosts   hostMatcher
	chain   []Strategy
	rewrite func(string) string
}

func (e *chainExtractor) CanExtract(url string) bool {
	return len(e.hosts) > 0 && e.hosts.match(url)
}

func (e *chainExtractor) Extract(ctx context.Context, req Request) ([]models.ExtractedLink, error) {
	if e.rewrite != nil {
		req.URL = e.rewrite(req.URL)
	}
	res, err := e.page(ctx, req)
	if err != nil {
		return nil, err
	}
	strategy, found := RunChain(e.chain, res.Text())
	util.Debug("extractor chain finished", "extractor", e.name, "url", req.URL, "strategy", strategy, "found", len(found))
	return e.links(res.URL, found), nil
}

// pick returns the named strategies, in the given order
func pick(names ...string) []Strategy {
	all := append(DefaultChain(), hostStrategies()...)
	return lo.FilterMap(names, func(name string, _ int) (Strategy, bool) {
		return lo.Find(all, func(s Strategy) bool { return s.Name == name })
	})
}

// NewVidmoly handles vidmoly embeds, which expose a JWPlayer sources array
func NewVidmoly(client *fetch.Client) Extractor {
	return &chainExtractor{
		Base:  NewBase("Vidmoly", client),
		hosts: hostMatcher{"vidmoly"},
		chain: pick("sources-array", "video-tag", "m3u8-url"),
	}
}

// NewJWPlayer builds an extractor for a JWPlayer based host
func NewJWPlayer(name string, client *fetch.Client, hosts ...string) Extractor {
	return &chainExtractor{
		Base:  NewBase(name, client),
		hosts: hosts,
		chain: pick("sources-array", "file-key", "video-tag"),
	}
}

var govadEmbedRe = regexp.MustCompile(`^(https?://[^/]+)/embed-(\w+)`)

// NewGovad handles govad, whose embed page must be rewritten to the watch page first
func NewGovad(client *fetch.Client) Extractor {
	return &chainExtractor{
		Base:  NewBase("Govad", client),
		hosts: hostMatcher{"govad"},
		chain: pick("sources-array", "file-key"),
		rewrite: func(u string) string {
			if m := govadEmbedRe.FindStringSubmatch(u); m != nil {
				return m[1] + "/" + m[2]
			}
			return u
		},
	}
}

// NewFileMoon handles filemoon, which hides its JWPlayer setup in packed JS
func NewFileMoon(client *fetch.Client) Extractor {
	return &chainExtractor{
		Base:  NewBase("FileMoon", client),
		hosts: hostMatcher{"filemoon", "kerapoxy", "moonplayer"},
		chain: pick("packed-js", "hls-object", "m3u8-url"),
	}
}

// NewFileHost builds an extractor for a file locker whose page links the file directly
func NewFileHost(name string, client *fetch.Client, hosts ...string) Extractor {
	return &chainExtractor{
		Base:  NewBase(name, client),
		hosts: hosts,
		chain: pick("download-anchor", "video-tag", "m3u8-url", "mp4-url"),
	}
}

// NewVidGuard handles vidguard, which hides the stream as base64 or escaped URLs
func NewVidGuard(client *fetch.Client) Extractor {
	return &chainExtractor{
		Base:  NewBase("VidGuard", client),
		hosts: hostMatcher{"vidguard", "vgembed", "vgfplay"},
		chain: pick("video-tag", "encoded-url", "sources-array", "m3u8-url"),
	}
}

// NewMyVid handles myviid, a packed JWPlayer setup
func NewMyVid(client *fetch.Client) Extractor {
	return &chainExtractor{
		Base:  NewBase("MyVid", client),
		hosts: hostMatcher{"myviid", "myvid"},
		chain: pick("packed-js", "sources-array", "file-key", "m3u8-url", "mp4-url"),
	}
}

// NewFaselHD handles the FaselHD player page, which assembles its playlist
// URL from string fragments and lists the other qualities as buttons
func NewFaselHD(client *fetch.Client) Extractor {
	return &chainExtractor{
		Base:  NewBase("FaselHD", client),
		hosts: hostMatcher{"faselhd"},
		chain: pick("joined-m3u8", "download-anchor", "sources-array"),
	}
}

// NewGeneric returns the fallback extractor: it matches no host itself and
// runs the full strategy chain on whatever page it is given.
func NewGeneric(client *fetch.Client) Extractor {
	return &chainExtractor{
		Base:  NewBase("Generic", client),
		chain: DefaultChain(),
	}
}
