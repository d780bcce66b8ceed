package util

import (
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// connectProxy answers CONNECT for target with greeting, then closes the tunnel
func connectProxy(t *testing.T, target, greeting string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodConnect || r.Host != target {
			http.Error(w, "unexpected "+r.Method+" "+r.Host, http.StatusBadGateway)
			return
		}
		if r.Header.Get("Proxy-Authorization") != "Basic "+base64.StdEncoding.EncodeToString([]byte("user:secret")) {
			w.Header().Set("Proxy-Authenticate", `Basic realm="test"`)
			w.WriteHeader(http.StatusProxyAuthRequired)
			return
		}
		conn, rw, err := w.(http.Hijacker).Hijack()
		if !assert.NoError(t, err) {
			return
		}
		defer conn.Close()
		_, _ = rw.WriteString("HTTP/1.1 200 Connection established\r\n\r\n" + greeting)
		_ = rw.Flush()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestBrowserTransportTunnelsThroughProxy(t *testing.T) {
	t.Parallel()

	srv := connectProxy(t, "films.example:443", "tunnel open")
	proxyURL, err := url.Parse(srv.URL)
	require.NoError(t, err)
	proxyURL.User = url.UserPassword("user", "secret")

	bt := newBrowserTransport(http.ProxyURL(proxyURL))
	req := httptest.NewRequest(http.MethodGet, "https://films.example/movie/", nil)

	conn, err := bt.dial(context.Background(), req, "films.example:443")
	require.NoError(t, err)
	defer conn.Close()

	got, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, "tunnel open", string(got))
}

func TestBrowserTransportProxyRefused(t *testing.T) {
	t.Parallel()

	srv := connectProxy(t, "films.example:443", "")
	proxyURL, err := url.Parse(srv.URL)
	require.NoError(t, err)

	bt := newBrowserTransport(http.ProxyURL(proxyURL))
	_, err = bt.connect(context.Background(), proxyURL, "films.example:443")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "407")
}

func TestBrowserTransportDirectDial(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		_, _ = conn.Write([]byte("direct"))
		conn.Close()
	}()

	bt := newBrowserTransport(func(*http.Request) (*url.URL, error) { return nil, nil })
	conn, err := bt.dial(context.Background(), httptest.NewRequest(http.MethodGet, "https://films.example/", nil), ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	got, err := io.ReadAll(conn)
	require.NoError(t, err)
	assert.Equal(t, "direct", string(got))
}

func TestBrowserTransportUnsupportedProxy(t *testing.T) {
	t.Parallel()

	bt := newBrowserTransport(http.ProxyURL(&url.URL{Scheme: "ftp", Host: "proxy.example:21"}))
	_, err := bt.dial(context.Background(), httptest.NewRequest(http.MethodGet, "https://films.example/", nil), "films.example:443")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ftp")
}

func TestRewindBody(t *testing.T) {
	t.Parallel()

	get, err := http.NewRequest(http.MethodGet, "https://films.example/", nil)
	require.NoError(t, err)
	same, err := rewindBody(get, io.ErrUnexpectedEOF)
	require.NoError(t, err)
	assert.Same(t, get, same)

	post, err := http.NewRequest(http.MethodPost, "https://films.example/search", strings.NewReader("q=dune"))
	require.NoError(t, err)
	_, _ = io.ReadAll(post.Body)
	retry, err := rewindBody(post, io.ErrUnexpectedEOF)
	require.NoError(t, err)
	body, err := io.ReadAll(retry.Body)
	require.NoError(t, err)
	assert.Equal(t, "q=dune", string(body))

	post.GetBody = nil
	_, err = rewindBody(post, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
