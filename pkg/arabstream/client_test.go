package arabstream_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arabstream/arabstream/internal/config"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/pkg/arabstream"
)

const seriesListing = `<html><body><ul>
<li class="movieItem"><a href="/serie/dark/"><h3>مسلسل Dark</h3></a></li>
<li class="movieItem"><a href="/serie/lost/"><h3>مسلسل Lost</h3></a></li>
<li class="movieItem"><h3>no link</h3></li>
</ul></body></html>`

const moviePage = `<html><body>
<div class="singleTitle"><em>فيلم Inception 2010</em></div>
<div class="Story"><p>A thief who steals secrets.</p></div>
</body></html>`

const watchPage = `<html><body><ul class="serversList">
<li data-link="%[1]s/media/movie-720.mp4">سيرفر 720p</li>
<li data-link="%[1]s/media/movie-1080.mp4">سيرفر 1080p</li>
</ul></body></html>`

// newEgyDeadClient points the EgyDead provider at a local server
func newEgyDeadClient(t *testing.T) *arabstream.Client {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/serie/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, seriesListing)
	})
	mux.HandleFunc("/movie-one/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.FormValue("View") == "1" {
			fmt.Fprintf(w, watchPage, srv.URL)
			return
		}
		fmt.Fprint(w, moviePage)
	})

	cfg := config.DefaultConfig()
	cfg.Timeout = 5 * time.Second
	cfg.RetryDelay = 0
	cfg.Sites["EgyDead"] = config.SiteConfig{
		BaseURL:     srv.URL + "/",
		MinInterval: time.Millisecond,
		Jitter:      time.Millisecond,
	}
	return arabstream.NewClient(cfg)
}

func TestNewClientProviders(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Sites["fajershow"] = config.SiteConfig{Disabled: true}
	client := arabstream.NewClient(cfg)

	providers := client.Providers()
	require.Len(t, providers, 19)
	assert.Equal(t, "EgyDead", providers[0].Name)
	assert.NotEmpty(t, providers[0].Categories)
	for _, p := range providers {
		assert.NotEqual(t, "FajerShow", p.Name)
	}

	assert.Len(t, arabstream.NewClient(nil).Providers(), 20)
}

func TestClientCatalog(t *testing.T) {
	t.Parallel()

	client := newEgyDeadClient(t)
	entries, err := client.Catalog(context.Background(), "egydead", "series", 1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Dark", entries[0].Title)
	assert.Equal(t, "EgyDead", entries[0].Provider)
	assert.Equal(t, models.KindSeries, entries[0].Kind)

	_, err = client.Catalog(context.Background(), "egydead", "nope", 1)
	assert.ErrorIs(t, err, arabstream.ErrUnknownCategory)
}

func TestClientUnknownProvider(t *testing.T) {
	t.Parallel()

	client := arabstream.NewClient(nil)
	ctx := context.Background()

	_, err := client.Search(ctx, "nope", "dark")
	assert.ErrorIs(t, err, arabstream.ErrProviderNotFound)
	_, err = client.Load(ctx, "nope", "https://example.com/")
	assert.ErrorIs(t, err, arabstream.ErrProviderNotFound)
	_, err = client.Links(ctx, "nope", "https://example.com/", false)
	assert.ErrorIs(t, err, arabstream.ErrProviderNotFound)
}

func TestClientLoadAndLinks(t *testing.T) {
	t.Parallel()

	client := newEgyDeadClient(t)
	ctx := context.Background()

	detail, err := client.Load(ctx, "EgyDead", "/movie-one/")
	require.NoError(t, err)
	assert.Equal(t, "Inception 2010", detail.Title)
	assert.Equal(t, models.KindMovie, detail.Kind)
	assert.True(t, strings.HasSuffix(detail.DataURL, "/movie-one/"))

	links, err := client.Links(ctx, "EgyDead", detail.DataURL, false)
	require.NoError(t, err)
	assert.Equal(t, arabstream.Report{Candidates: 2, Emitted: 2}, links.Report)
	require.Len(t, links.Links, 2)
	assert.Equal(t, models.Quality1080, links.Links[0].Quality)
	assert.Equal(t, models.Quality720, links.Links[1].Quality)
	assert.Empty(t, links.Subtitles)
}
