package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arabstream/arabstream/internal/config"
	"github.com/arabstream/arabstream/internal/models"
)

type fakeAdapter struct {
	name    string
	entries []models.CatalogEntry
	err     error
	delay   time.Duration
}

func (f *fakeAdapter) Name() string           { return f.name }
func (f *fakeAdapter) Categories() []Category { return nil }

func (f *fakeAdapter) ListCatalog(context.Context, string, int) ([]models.CatalogEntry, error) {
	return f.entries, f.err
}

func (f *fakeAdapter) Search(ctx context.Context, _ string) ([]models.CatalogEntry, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	out := make([]models.CatalogEntry, len(f.entries))
	copy(out, f.entries)
	return out, f.err
}

func (f *fakeAdapter) LoadDetail(context.Context, string) (*models.Detail, error) {
	return nil, f.err
}

func (f *fakeAdapter) ResolveLinks(context.Context, string, bool, Sink) (bool, error) {
	return false, f.err
}

func entries(titles ...string) []models.CatalogEntry {
	out := make([]models.CatalogEntry, len(titles))
	for i, title := range titles {
		out[i] = models.CatalogEntry{Title: title, URL: "https://site.example/" + title}
	}
	return out
}

func TestManagerRegistry(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Register(&fakeAdapter{name: "EgyDead"})
	m.Register(&fakeAdapter{name: "CimaLeek"})
	replacement := &fakeAdapter{name: "egydead"}
	m.Register(replacement)

	assert.Equal(t, []string{"egydead", "CimaLeek"}, m.Names(), "replacement keeps its slot")

	a, err := m.Get("  EGYDEAD ")
	require.NoError(t, err)
	assert.Same(t, replacement, a)

	_, err = m.Get("FaselHD")
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestSearchAllPartialFailure(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Register(&fakeAdapter{name: "A", entries: entries("a1", "a2"), delay: 20 * time.Millisecond})
	m.Register(&fakeAdapter{name: "B", err: errors.New("boom")})
	m.Register(&fakeAdapter{name: "C", entries: entries("c1")})

	got, err := m.SearchAll(context.Background(), "x")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a1", "a2", "c1"}, titles(got), "registration order, not arrival order")
	assert.Equal(t, "A", got[0].Provider)
	assert.Equal(t, "C", got[2].Provider)
}

func TestSearchAllEveryProviderFailed(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Register(&fakeAdapter{name: "A", err: errors.New("down")})
	m.Register(&fakeAdapter{name: "B", err: errors.New("blocked")})

	_, err := m.SearchAll(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all providers failed")

	_, err = NewManager().SearchAll(context.Background(), "x")
	require.ErrorIs(t, err, ErrProviderNotFound)
}

func TestSearchAllNoResultsIsNotAnError(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.Register(&fakeAdapter{name: "A"})
	m.Register(&fakeAdapter{name: "B", err: errors.New("down")})

	got, err := m.SearchAll(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchAllTimeout(t *testing.T) {
	t.Parallel()

	m := NewManager()
	m.SetSearchTimeout(50 * time.Millisecond)
	m.Register(&fakeAdapter{name: "Fast", entries: entries("f1")})
	m.Register(&fakeAdapter{name: "Slow", entries: entries("s1"), delay: 5 * time.Second})

	start := time.Now()
	got, err := m.SearchAll(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, titles(got))
	assert.Less(t, time.Since(start), 2*time.Second)

	slow := NewManager()
	slow.SetSearchTimeout(50 * time.Millisecond)
	slow.Register(&fakeAdapter{name: "Slow", entries: entries("s1"), delay: 5 * time.Second})
	_, err = slow.SearchAll(context.Background(), "x")
	require.Error(t, err)
}

func TestNewDefaultManager(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Sites["fajershow"] = config.SiteConfig{Disabled: true}

	m := NewDefaultManager(cfg)
	names := m.Names()
	assert.Len(t, names, len(BundledSites())-1)
	assert.NotContains(t, names, "FajerShow")
	assert.Equal(t, "EgyDead", names[0])

	a, err := m.Get("witanime")
	require.NoError(t, err)
	assert.Equal(t, "WitAnime", a.Name())
}
