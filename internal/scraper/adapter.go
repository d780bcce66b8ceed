// Package scraper turns Arabic streaming sites into catalog entries, details and playable links.
//
// Every bundled site runs through the same pipeline; a Site value carries the
// selectors, URL templates and hooks that differ from one site to the next.
package scraper

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/pkg/errors"

	"github.com/arabstream/arabstream/internal/models"
)

var (
	// ErrUnknownCategory is returned by ListCatalog for a category key the site does not list
	ErrUnknownCategory = errors.New("unknown category")
	// ErrProviderNotFound is returned by Manager.Get for an unregistered provider name
	ErrProviderNotFound = errors.New("provider not found")
)

// Category is one browsable listing of a site
type Category struct {
	Key    string // identifier passed to ListCatalog
	Name   string // display name, usually Arabic
	Path   string // relative URL; "{page}" is replaced by the page number
	Format Format
}

// Format tells the pipeline how to parse a listing response
type Format int

const (
	// FormatHTML parses cards with the site's item selectors
	FormatHTML Format = iota
	// FormatWPJSON decodes a WordPress REST /wp-json/wp/v2/posts array
	FormatWPJSON
)

// Adapter is the contract every provider implements
type Adapter interface {
	Name() string
	Categories() []Category
	ListCatalog(ctx context.Context, category string, page int) ([]models.CatalogEntry, error)
	Search(ctx context.Context, query string) ([]models.CatalogEntry, error)
	LoadDetail(ctx context.Context, url string) (*models.Detail, error)
	// ResolveLinks streams links for dataURL into sink. It reports whether the
	// watch page had any server candidate; only a failure to fetch the watch
	// page itself is returned as an error.
	ResolveLinks(ctx context.Context, dataURL string, casting bool, sink Sink) (bool, error)
}

// Sink receives links and subtitles as they are resolved. Calls may come from
// several goroutines at once.
type Sink interface {
	Link(models.ExtractedLink)
	Subtitle(models.Subtitle)
}

// Report counts what happened during one link resolution
type Report struct {
	Candidates int // server candidates found on the watch page
	Emitted    int // links handed to the sink
	Failed     int // candidates that produced no link
}

// AllFailed reports whether there were candidates but none produced a link
func (r Report) AllFailed() bool {
	return r.Candidates > 0 && r.Emitted == 0
}

// Collector is a Sink that keeps links and subtitles in memory.
// Links and subtitles sharing a URL are kept once. The zero value is ready to use.
type Collector struct {
	mu        sync.Mutex
	links     []models.ExtractedLink
	subtitles []models.Subtitle
	seen      map[string]struct{}
}

// NewCollector creates an empty Collector
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) firstSeen(key string) bool {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, ok := c.seen[key]; ok {
		return false
	}
	c.seen[key] = struct{}{}
	return true
}

// Link records l unless a link with the same URL was already recorded
func (c *Collector) Link(l models.ExtractedLink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.firstSeen("link:" + l.URL) {
		c.links = append(c.links, l)
	}
}

// Subtitle records s unless a subtitle with the same URL was already recorded
func (c *Collector) Subtitle(s models.Subtitle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.firstSeen("sub:" + s.URL) {
		c.subtitles = append(c.subtitles, s)
	}
}

// Links returns the recorded links in arrival order
func (c *Collector) Links() []models.ExtractedLink {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.links)
}

// Best returns the recorded links, highest quality first
func (c *Collector) Best() []models.ExtractedLink {
	links := c.Links()
	slices.SortStableFunc(links, func(a, b models.ExtractedLink) int {
		return cmp.Compare(b.Quality, a.Quality)
	})
	return links
}

// Subtitles returns the recorded subtitles in arrival order
func (c *Collector) Subtitles() []models.Subtitle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.subtitles)
}
