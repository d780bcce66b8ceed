// Package extractor resolves embed pages of video hosts into playable links.
//
// To add a host:
//  1. Create a file for it (e.g. myhost.go)
//  2. Implement the Extractor interface, usually by embedding Base
//  3. Register it in NewDefaultRegistry
package extractor

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/urlutil"
)

// Request describes one embed page to resolve
type Request struct {
	URL     string
	Referer string
	Casting bool
}

// Extractor turns an embed URL into playable links.
// A page that does not match the expected layout yields an empty slice and a nil error.
type Extractor interface {
	Name() string
	CanExtract(url string) bool
	Extract(ctx context.Context, req Request) ([]models.ExtractedLink, error)
}

// Registry keeps extractors in registration order
type Registry struct {
	mu         sync.RWMutex
	extractors []Extractor
	byName     map[string]Extractor
	fallback   Extractor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Extractor)}
}

// Register adds an extractor. Earlier registrations win when several match.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extractors = append(r.extractors, e)
	r.byName[strings.ToLower(e.Name())] = e
}

// SetFallback sets the extractor used when no host matches
func (r *Registry) SetFallback(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = e
}

// Fallback returns the fallback extractor, possibly nil
func (r *Registry) Fallback() Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fallback
}

// Match returns the first extractor whose CanExtract accepts url, without the fallback
func (r *Registry) Match(url string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Find(r.extractors, func(e Extractor) bool { return e.CanExtract(url) })
}

// Get returns the matching extractor or the fallback
func (r *Registry) Get(url string) Extractor {
	if e, ok := r.Match(url); ok {
		return e
	}
	return r.Fallback()
}

// GetByName returns an extractor by its case-insensitive name
func (r *Registry) GetByName(name string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byName[strings.ToLower(name)]
	return e, ok
}

// All returns all registered extractors
func (r *Registry) All() []Extractor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Extractor, len(r.extractors))
	copy(out, r.extractors)
	return out
}

// Resolve runs the extractor selected by Get. With no extractor it returns nothing.
func (r *Registry) Resolve(ctx context.Context, req Request) ([]models.ExtractedLink, error) {
	e := r.Get(req.URL)
	if e == nil {
		return nil, nil
	}
	return e.Extract(ctx, req)
}

// Base carries the fetch client shared by the host extractors
type Base struct {
	name   string
	client *fetch.Client
}

// NewBase creates a Base named name
func NewBase(name string, client *fetch.Client) Base {
	return Base{name: name, client: client}
}

// Name returns the extractor name
func (b Base) Name() string { return b.name }

// page fetches the embed page with the caller's referer
func (b Base) page(ctx context.Context, req Request) (*fetch.Result, error) {
	return b.client.Get(ctx, req.URL, fetch.WithReferer(req.Referer))
}

// links converts candidates into extracted links named after the extractor
func (b Base) links(pageURL string, found []Candidate) []models.ExtractedLink {
	return toLinks(b.name, pageURL, found)
}

func toLinks(source, pageURL string, found []Candidate) []models.ExtractedLink {
	referer := urlutil.Origin(pageURL)
	out := make([]models.ExtractedLink, 0, len(found))
	for _, c := range lo.UniqBy(found, func(c Candidate) string { return c.URL }) {
		u := urlutil.Resolve(pageURL, c.URL)
		if u == "" {
			continue
		}
		quality := models.ParseQuality(c.Label)
		if quality == models.QualityUnknown {
			quality = models.ParseQuality(u)
		}
		name := source
		if quality != models.QualityUnknown {
			name += " " + quality.String()
		}
		kind := c.Kind
		if kind == "" {
			kind = urlutil.LinkKind(u)
		}
		out = append(out, models.ExtractedLink{
			Source:  source,
			Name:    name,
			URL:     u,
			Kind:    kind,
			Quality: quality,
			Referer: referer,
		})
	}
	return out
}

// hostMatcher matches URLs whose host contains one of the fragments
type hostMatcher []string

func (m hostMatcher) match(raw string) bool {
	host := urlutil.Host(raw)
	if host == "" {
		return false
	}
	return lo.SomeBy(m, func(fragment string) bool { return strings.Contains(host, fragment) })
}
