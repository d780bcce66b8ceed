package scraper

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/arabstream/arabstream/internal/config"
	"github.com/arabstream/arabstream/internal/extractor"
	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/util"
)

// searchTimeout is the maximum time to wait for all providers
const searchTimeout = 15 * time.Second

// Manager keeps the registered adapters by case-insensitive name
type Manager struct {
	mu            sync.RWMutex
	adapters      map[string]Adapter
	order         []string
	searchTimeout time.Duration
}

// NewManager creates an empty manager
func NewManager() *Manager {
	return &Manager{
		adapters:      make(map[string]Adapter),
		searchTimeout: searchTimeout,
	}
}

// NewDefaultManager registers every bundled site not disabled in cfg. All
// providers share one HTTP client and one extractor registry.
func NewDefaultManager(cfg *config.Config) *Manager {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	var httpClient *http.Client
	if cfg.BrowserTLS {
		httpClient = util.GetBrowserClient()
	} else {
		httpClient = util.GetSharedClient()
	}

	registry := extractor.NewDefaultRegistry(fetch.New(fetch.Options{
		Name:       "extractors",
		HTTPClient: httpClient,
		UserAgents: cfg.UserAgents,
		Timeout:    cfg.Timeout,
		Retries:    cfg.Retries,
		RetryDelay: cfg.RetryDelay,
	}))

	manager := NewManager()
	for _, site := range BundledSites() {
		if cfg.Site(site.Name).Disabled {
			util.SiteLog(site.Name).Debug("Provider disabled by config")
			continue
		}
		manager.Register(NewProvider(site, Options{
			Config:     cfg,
			HTTPClient: httpClient,
			Extractors: registry,
		}))
	}
	return manager
}

// SetSearchTimeout changes the overall SearchAll deadline
func (m *Manager) SetSearchTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchTimeout = d
}

// Register adds an adapter. One with the same name is replaced in place.
func (m *Manager) Register(a Adapter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.ToLower(a.Name())
	if _, exists := m.adapters[key]; !exists {
		m.order = append(m.order, key)
	}
	m.adapters[key] = a
}

// Get returns a provider by its case-insensitive name
func (m *Manager) Get(name string) (Adapter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.adapters[strings.ToLower(strings.TrimSpace(name))]; ok {
		return a, nil
	}
	return nil, errors.Wrapf(ErrProviderNotFound, "%q", name)
}

// Names returns the provider names in registration order
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.order))
	for _, key := range m.order {
		names = append(names, m.adapters[key].Name())
	}
	return names
}

// Adapters returns the providers in registration order
func (m *Manager) Adapters() []Adapter {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Adapter, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, m.adapters[key])
	}
	return out
}

type searchResult struct {
	index   int
	name    string
	entries []models.CatalogEntry
	err     error
}

// SearchAll searches every provider concurrently. Results are tagged with
// their provider and merged in registration order. Failing providers are
// logged and skipped; the call fails only when every provider failed.
func (m *Manager) SearchAll(ctx context.Context, query string) ([]models.CatalogEntry, error) {
	adapters := m.Adapters()
	if len(adapters) == 0 {
		return nil, errors.Wrap(ErrProviderNotFound, "no providers registered")
	}
	m.mu.RLock()
	timeout := m.searchTimeout
	m.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so late providers never block after a timeout
	resultChan := make(chan searchResult, len(adapters))
	for i, a := range adapters {
		go func() {
			entries, err := a.Search(ctx, query)
			resultChan <- searchResult{index: i, name: a.Name(), entries: entries, err: err}
		}()
	}

	perProvider := make([][]models.CatalogEntry, len(adapters))
	var (
		failures []string
		failed   int
	)
	for pending := len(adapters); pending > 0; {
		select {
		case r := <-resultChan:
			pending--
			if r.err != nil {
				util.SiteLog(r.name).Warn("Search source unavailable", "error", r.err)
				failures = append(failures, r.name+": "+r.err.Error())
				failed++
				continue
			}
			for i := range r.entries {
				r.entries[i].Provider = r.name
			}
			perProvider[r.index] = r.entries
		case <-ctx.Done():
			util.Warn("Search timed out", "pending", pending, "timeout", timeout)
			failures = append(failures, "timed out waiting for "+strconv.Itoa(pending)+" providers")
			failed += pending
			pending = 0
		}
	}

	var all []models.CatalogEntry
	for _, entries := range perProvider {
		all = append(all, entries...)
	}

	util.Debug("Search summary", "query", query, "providers", len(adapters), "failed", failed, "total", len(all))

	if len(all) == 0 && failed == len(adapters) {
		return nil, errors.Errorf("no results for %q (all providers failed: %s)", query, strings.Join(failures, "; "))
	}
	return all, nil
}
