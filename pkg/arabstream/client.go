// Package arabstream provides a public API over the bundled Arabic streaming
// site scrapers. This package can be used as a library in other Go projects.
package arabstream

import (
	"context"

	"github.com/arabstream/arabstream/internal/config"
	"github.com/arabstream/arabstream/internal/scraper"
	"github.com/arabstream/arabstream/internal/util"
)

// Client is the main entry point for browsing, searching and resolving links
type Client struct {
	manager *scraper.Manager
}

// NewClient creates a client with every bundled provider not disabled in cfg.
// A nil cfg selects the defaults.
func NewClient(cfg *config.Config) *Client {
	return &Client{manager: scraper.NewDefaultManager(cfg)}
}

// NewClientWithManager wraps an existing manager, e.g. one holding custom adapters
func NewClientWithManager(m *scraper.Manager) *Client {
	return &Client{manager: m}
}

// Manager exposes the underlying provider registry
func (c *Client) Manager() *scraper.Manager {
	return c.manager
}

// Providers returns the registered providers in registration order
func (c *Client) Providers() []Provider {
	adapters := c.manager.Adapters()
	out := make([]Provider, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, Provider{Name: a.Name(), Categories: a.Categories()})
	}
	return out
}

// Catalog returns one page of a provider category
func (c *Client) Catalog(ctx context.Context, provider, category string, page int) ([]CatalogEntry, error) {
	a, err := c.manager.Get(provider)
	if err != nil {
		return nil, err
	}
	entries, err := a.ListCatalog(ctx, category, page)
	return tag(entries, a.Name()), err
}

// Search queries a single provider
func (c *Client) Search(ctx context.Context, provider, query string) ([]CatalogEntry, error) {
	a, err := c.manager.Get(provider)
	if err != nil {
		return nil, err
	}
	entries, err := a.Search(ctx, query)
	return tag(entries, a.Name()), err
}

// SearchAll queries every provider concurrently. Providers that fail are
// skipped; an error is returned only when all of them failed.
func (c *Client) SearchAll(ctx context.Context, query string) ([]CatalogEntry, error) {
	return c.manager.SearchAll(ctx, query)
}

// Load fetches the detail page of a catalog entry or episode
func (c *Client) Load(ctx context.Context, provider, url string) (*Detail, error) {
	a, err := c.manager.Get(provider)
	if err != nil {
		return nil, err
	}
	return a.LoadDetail(ctx, url)
}

// resolver is implemented by adapters able to report per-candidate outcomes
type resolver interface {
	Resolve(ctx context.Context, dataURL string, casting bool, sink scraper.Sink) (scraper.Report, error)
}

// Links resolves the playable links of a movie data URL or an episode URL.
// An empty result with a nil error means the page listed no usable server.
func (c *Client) Links(ctx context.Context, provider, dataURL string, casting bool) (*Links, error) {
	a, err := c.manager.Get(provider)
	if err != nil {
		return nil, err
	}

	sink := scraper.NewCollector()
	var rep Report
	if r, ok := a.(resolver); ok {
		rep, err = r.Resolve(ctx, dataURL, casting, sink)
	} else {
		var found bool
		found, err = a.ResolveLinks(ctx, dataURL, casting, sink)
		rep.Emitted = len(sink.Links())
		if found {
			rep.Candidates = max(rep.Emitted, 1)
		}
	}
	if err != nil {
		return nil, err
	}
	if rep.AllFailed() {
		util.SiteLog(a.Name()).Debug("Every server failed", "url", dataURL, "candidates", rep.Candidates)
	}

	return &Links{
		Links:     sink.Best(),
		Subtitles: sink.Subtitles(),
		Report:    rep,
	}, nil
}

func tag(entries []CatalogEntry, provider string) []CatalogEntry {
	for i := range entries {
		entries[i].Provider = provider
	}
	return entries
}
