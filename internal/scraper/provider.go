package scraper

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"

	"github.com/arabstream/arabstream/internal/config"
	"github.com/arabstream/arabstream/internal/extractor"
	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/urlutil"
	"github.com/arabstream/arabstream/internal/util"
)

// Options wires a Provider to the shared infrastructure. Zero values select the defaults.
type Options struct {
	Config     *config.Config
	HTTPClient *http.Client
	Extractors *extractor.Registry
}

// Provider runs the scraping pipeline for one Site. It implements Adapter.
type Provider struct {
	site       Site
	client     *fetch.Client
	extractors *extractor.Registry
	cache      *episodeCache
	maxWorkers int
	titles     *strings.Replacer
	log        util.SiteLog
}

var _ Adapter = (*Provider)(nil)

// NewProvider creates a Provider for site. Per-site overrides from the
// config replace the built-in base URL and throttle.
func NewProvider(site Site, opts Options) *Provider {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	override := cfg.Site(site.Name)
	if override.BaseURL != "" {
		site.BaseURL = override.BaseURL
	}
	if override.MinInterval > 0 {
		site.Throttle.MinInterval = override.MinInterval
	}
	if override.MaxConcurrent > 0 {
		site.Throttle.MaxConcurrent = override.MaxConcurrent
	}
	if override.Jitter > 0 {
		site.Throttle.Jitter = override.Jitter
	}
	site = site.withDefaults()
	site.BaseURL = urlutil.EnsureTrailingSlash(site.BaseURL)

	client := fetch.New(fetch.Options{
		Name:          site.Name,
		BaseURL:       site.BaseURL,
		HTTPClient:    opts.HTTPClient,
		UserAgents:    cfg.UserAgents,
		Timeout:       cfg.Timeout,
		Retries:       cfg.Retries,
		RetryDelay:    cfg.RetryDelay,
		MinInterval:   site.Throttle.MinInterval,
		MaxConcurrent: site.Throttle.MaxConcurrent,
		Jitter:        site.Throttle.Jitter,
	})

	registry := opts.Extractors
	if registry == nil {
		registry = extractor.NewDefaultRegistry(fetch.New(fetch.Options{
			Name:       site.Name + "-extractors",
			HTTPClient: opts.HTTPClient,
			UserAgents: cfg.UserAgents,
			Timeout:    cfg.Timeout,
		}))
	}

	return &Provider{
		site:       site,
		client:     client,
		extractors: registry,
		cache:      newEpisodeCache(cfg.CacheSize),
		maxWorkers: cfg.MaxWorkers,
		titles:     newTitleCleaner(site.TitleNoise),
		log:        util.SiteLog(site.Name),
	}
}

// Name returns the site name
func (p *Provider) Name() string { return p.site.Name }

// Site returns the effective site settings, overrides applied
func (p *Provider) Site() Site { return p.site }

// Categories returns the browsable listings of the site
func (p *Provider) Categories() []Category {
	out := make([]Category, len(p.site.Categories))
	copy(out, p.site.Categories)
	return out
}

func (p *Provider) category(key string) (Category, bool) {
	for _, c := range p.site.Categories {
		if strings.EqualFold(c.Key, key) {
			return c, true
		}
	}
	return Category{}, false
}

func (p *Provider) abs(ref string) string {
	return urlutil.Resolve(p.site.BaseURL, ref)
}

func (p *Provider) blocked() error {
	return errors.Wrapf(fetch.ErrBlocked, "%s", p.site.Name)
}

// document fetches rawURL and parses it. The returned URL is the final one after redirects.
func (p *Provider) document(ctx context.Context, rawURL string, opts ...fetch.RequestOption) (*goquery.Document, string, error) {
	res, err := p.client.Get(ctx, rawURL, opts...)
	if err != nil {
		return nil, "", err
	}
	doc, err := res.Document()
	if err != nil {
		return nil, "", err
	}
	return doc, res.URL, nil
}
