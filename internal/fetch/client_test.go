package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const challengePage = `<!DOCTYPE html><html><head><title>Just a moment...</title></head>
<body><script>window._cf_chl_opt={cvId:'3'};</script></body></html>`

func newTestClient(srv *httptest.Server, opts Options) *Client {
	opts.HTTPClient = srv.Client()
	opts.BaseURL = srv.URL
	if opts.Name == "" {
		opts.Name = "test"
	}
	return New(opts)
}

func TestGetStatusTagging(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><div class="item">x</div></body></html>`)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/blank", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "   \n")
	})
	mux.HandleFunc("/challenge", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, challengePage)
	})
	mux.HandleFunc("/challenge-200", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, challengePage)
	})
	mux.HandleFunc("/forbidden", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, "no")
	})
	mux.HandleFunc("/down", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/mitigated", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("cf-mitigated", "challenge")
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv, Options{})

	tests := []struct {
		path   string
		status Status
		err    error
	}{
		{"/ok", StatusOK, nil},
		{"/missing", StatusEmpty, ErrEmpty},
		{"/blank", StatusEmpty, ErrEmpty},
		{"/challenge", StatusBlocked, ErrBlocked},
		{"/challenge-200", StatusBlocked, ErrBlocked},
		{"/mitigated", StatusBlocked, ErrBlocked},
		{"/forbidden", StatusTransient, nil},
		{"/down", StatusTransient, nil},
	}

	for _, tt := range tests {
		res, err := c.Get(context.Background(), srv.URL+tt.path)
		require.NotNil(t, res, tt.path)
		assert.Equal(t, tt.status, res.Status, tt.path)
		switch {
		case tt.status == StatusOK:
			assert.NoError(t, err, tt.path)
		case tt.err != nil:
			assert.ErrorIs(t, err, tt.err, tt.path)
		default:
			assert.Error(t, err, tt.path)
			assert.NotErrorIs(t, err, ErrBlocked, tt.path)
			assert.NotErrorIs(t, err, ErrEmpty, tt.path)
		}
	}
}

func TestGetNetworkErrorIsTransient(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	target := srv.URL
	srv.Close()

	c := New(Options{Name: "closed"})
	res, err := c.Get(context.Background(), target)
	require.Error(t, err)
	assert.Equal(t, StatusTransient, res.Status)
}

func TestGetRetriesTransientOnly(t *testing.T) {
	t.Parallel()

	var flaky, missing atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/flaky", func(w http.ResponseWriter, _ *http.Request) {
		if flaky.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "fine")
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		missing.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv, Options{Retries: 2, RetryDelay: time.Millisecond})

	res, err := c.Get(context.Background(), srv.URL+"/flaky")
	require.NoError(t, err)
	assert.Equal(t, "fine", res.Text())
	assert.Equal(t, int32(3), flaky.Load())

	_, err = c.Get(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrEmpty)
	assert.Equal(t, int32(1), missing.Load())
}

func TestGetDefaultsToNoRetry(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := newTestClient(srv, Options{}).Get(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRequestHeaders(t *testing.T) {
	t.Parallel()

	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{UserAgents: []string{"agent-a"}, Headers: map[string]string{"X-Site": "1"}})
	_, err := c.Get(context.Background(), srv.URL, WithReferer("https://ref.example/"), WithXHR())
	require.NoError(t, err)

	assert.Equal(t, "agent-a", got.Get("User-Agent"))
	assert.Contains(t, got.Get("Accept-Language"), "ar")
	assert.Equal(t, "https://ref.example/", got.Get("Referer"))
	assert.Equal(t, "XMLHttpRequest", got.Get("X-Requested-With"))
	assert.Equal(t, "1", got.Get("X-Site"))
}

func TestPostFormAndJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "doo_player_ajax", r.PostForm.Get("action"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"embed_url":"https://vidmoly.to/embed-abc.html","type":"iframe"}`)
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{})
	res, err := c.PostForm(context.Background(), srv.URL+"/wp-admin/admin-ajax.php", url.Values{"action": {"doo_player_ajax"}})
	require.NoError(t, err)

	var payload struct {
		EmbedURL string `json:"embed_url"`
	}
	require.NoError(t, res.JSON(&payload))
	assert.Equal(t, "https://vidmoly.to/embed-abc.html", payload.EmbedURL)
}

func TestDocumentCarriesFinalURL(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<h1 class="title">عنوان</h1>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	res, err := newTestClient(srv, Options{}).Get(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	doc, err := res.Document()
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/new/", doc.Url.String())
	assert.Equal(t, "عنوان", doc.Find("h1.title").Text())
}

func TestThrottleMinInterval(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{MinInterval: 40 * time.Millisecond})
	start := time.Now()
	for range 3 {
		_, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestThrottleMaxConcurrent(t *testing.T) {
	t.Parallel()

	var inFlight, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	c := newTestClient(srv, Options{MaxConcurrent: 2})
	var wg sync.WaitGroup
	for range 6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Get(context.Background(), srv.URL)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := newTestClient(srv, Options{Retries: 3}).Get(ctx, srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, StatusTransient, res.Status)
}
