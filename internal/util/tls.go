package util

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
	"golang.org/x/net/proxy"
)

// browserTransport implements http.RoundTripper with a Chrome TLS fingerprint.
// Connections go through the proxy from the environment when one is set
// (HTTP CONNECT or SOCKS5). HTTP/2 connections are kept per host and shared;
// HTTP/1.1 connections serve a single request.
type browserTransport struct {
	dialer   *net.Dialer
	proxy    func(*http.Request) (*url.URL, error)
	h2       *http2.Transport
	fallback http.RoundTripper

	mu    sync.Mutex
	conns map[string]*http2.ClientConn
}

// NewBrowserTransport returns a round tripper that performs a uTLS Chrome 120
// handshake for https URLs and plain pooled transport for http.
func NewBrowserTransport() http.RoundTripper {
	return newBrowserTransport(http.ProxyFromEnvironment)
}

func newBrowserTransport(proxyFunc func(*http.Request) (*url.URL, error)) *browserTransport {
	return &browserTransport{
		dialer: &net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		},
		proxy:    proxyFunc,
		h2:       &http2.Transport{},
		fallback: createTransport(defaultConfig()),
		conns:    make(map[string]*http2.ClientConn),
	}
}

func (t *browserTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		return t.fallback.RoundTrip(req)
	}

	addr := req.URL.Host
	if req.URL.Port() == "" {
		addr = net.JoinHostPort(req.URL.Hostname(), "443")
	}

	if cc := t.idleH2(addr); cc != nil {
		resp, err := cc.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		t.dropH2(addr, cc)
		if req, err = rewindBody(req, err); err != nil {
			return nil, err
		}
	}

	conn, err := t.dial(req.Context(), req, addr)
	if err != nil {
		return nil, err
	}

	uconn := utls.UClient(conn, &utls.Config{ServerName: req.URL.Hostname()}, utls.HelloChrome_120)
	if err := uconn.HandshakeContext(req.Context()); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "tls handshake with %s", req.URL.Hostname())
	}

	if uconn.ConnectionState().NegotiatedProtocol == http2.NextProtoTLS {
		cc, err := t.h2.NewClientConn(uconn)
		if err != nil {
			_ = uconn.Close()
			return nil, errors.Wrap(err, "http2 client conn")
		}
		t.keepH2(addr, cc)
		resp, err := cc.RoundTrip(req)
		if err != nil {
			t.dropH2(addr, cc)
			return nil, err
		}
		return resp, nil
	}

	return roundTripHTTP1(uconn, req)
}

// rewindBody prepares req for a second attempt on a fresh connection.
// Requests whose body cannot be replayed return the original error.
func rewindBody(req *http.Request, cause error) (*http.Request, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return req, nil
	}
	if req.GetBody == nil {
		return nil, cause
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, cause
	}
	retry := req.Clone(req.Context())
	retry.Body = body
	return retry, nil
}

func (t *browserTransport) idleH2(addr string) *http2.ClientConn {
	t.mu.Lock()
	defer t.mu.Unlock()
	cc := t.conns[addr]
	if cc == nil {
		return nil
	}
	if !cc.CanTakeNewRequest() {
		delete(t.conns, addr)
		return nil
	}
	return cc
}

func (t *browserTransport) keepH2(addr string, cc *http2.ClientConn) {
	t.mu.Lock()
	old := t.conns[addr]
	t.conns[addr] = cc
	t.mu.Unlock()
	if old != nil && old != cc {
		// in-flight streams on the old connection finish before it closes
		_ = old.Shutdown(context.Background())
	}
}

func (t *browserTransport) dropH2(addr string, cc *http2.ClientConn) {
	t.mu.Lock()
	if t.conns[addr] == cc {
		delete(t.conns, addr)
	}
	t.mu.Unlock()
	_ = cc.Close()
}

// dial opens the TCP stream to addr, tunnelled through the request's proxy if any
func (t *browserTransport) dial(ctx context.Context, req *http.Request, addr string) (net.Conn, error) {
	var proxyURL *url.URL
	if t.proxy != nil {
		u, err := t.proxy(req)
		if err != nil {
			return nil, errors.Wrap(err, "proxy from environment")
		}
		proxyURL = u
	}
	if proxyURL == nil {
		conn, err := t.dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, errors.Wrapf(err, "dial %s", addr)
		}
		return conn, nil
	}

	switch strings.ToLower(proxyURL.Scheme) {
	case "http", "https":
		return t.connect(ctx, proxyURL, addr)
	case "socks5", "socks5h":
		d, err := proxy.FromURL(proxyURL, t.dialer)
		if err != nil {
			return nil, errors.Wrapf(err, "socks proxy %s", proxyURL.Host)
		}
		var conn net.Conn
		if cd, ok := d.(proxy.ContextDialer); ok {
			conn, err = cd.DialContext(ctx, "tcp", addr)
		} else {
			conn, err = d.Dial("tcp", addr)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dial %s through %s", addr, proxyURL.Host)
		}
		return conn, nil
	}
	return nil, errors.Errorf("unsupported proxy scheme %q", proxyURL.Scheme)
}

// connect opens an HTTP CONNECT tunnel to addr through proxyURL
func (t *browserTransport) connect(ctx context.Context, proxyURL *url.URL, addr string) (net.Conn, error) {
	proxyAddr := proxyURL.Host
	if proxyURL.Port() == "" {
		port := "80"
		if proxyURL.Scheme == "https" {
			port = "443"
		}
		proxyAddr = net.JoinHostPort(proxyURL.Hostname(), port)
	}

	conn, err := t.dialer.DialContext(ctx, "tcp", proxyAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "dial proxy %s", proxyAddr)
	}
	if proxyURL.Scheme == "https" {
		tconn := tls.Client(conn, &tls.Config{ServerName: proxyURL.Hostname(), MinVersion: tls.VersionTLS12})
		if err := tconn.HandshakeContext(ctx); err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "tls handshake with proxy %s", proxyAddr)
		}
		conn = tconn
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
		defer func() { _ = conn.SetDeadline(time.Time{}) }()
	}

	connectReq := &http.Request{
		Method: http.MethodConnect,
		URL:    &url.URL{Opaque: addr},
		Host:   addr,
		Header: make(http.Header),
	}
	if u := proxyURL.User; u != nil {
		pass, _ := u.Password()
		connectReq.Header.Set("Proxy-Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(u.Username()+":"+pass)))
	}
	if err := connectReq.Write(conn); err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "CONNECT %s", addr)
	}

	br := bufio.NewReader(conn)
	resp, err := http.ReadResponse(br, connectReq)
	if err != nil {
		_ = conn.Close()
		return nil, errors.Wrapf(err, "read CONNECT answer from %s", proxyAddr)
	}
	if resp.StatusCode != http.StatusOK {
		_ = conn.Close()
		return nil, errors.Errorf("proxy %s refused CONNECT %s: %s", proxyAddr, addr, resp.Status)
	}
	if br.Buffered() > 0 {
		return &bufferedConn{Conn: conn, r: br}, nil
	}
	return conn, nil
}

// bufferedConn replays bytes the proxy sent right after its CONNECT answer
type bufferedConn struct {
	net.Conn
	r *bufio.Reader
}

func (c *bufferedConn) Read(p []byte) (int, error) { return c.r.Read(p) }

func roundTripHTTP1(conn net.Conn, req *http.Request) (*http.Response, error) {
	if err := req.Write(conn); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "write request")
	}
	resp, err := http.ReadResponse(bufio.NewReader(conn), req)
	if err != nil {
		_ = conn.Close()
		if strings.Contains(err.Error(), "malformed HTTP") {
			return nil, errors.Wrap(err, "server answered with a non HTTP/1.1 response")
		}
		return nil, errors.Wrap(err, "read response")
	}
	resp.Body = &closeWith{ReadCloser: resp.Body, close: conn.Close}
	return resp, nil
}

// closeWith closes the underlying connection together with the body
type closeWith struct {
	io.ReadCloser
	close func() error
}

func (c *closeWith) Close() error {
	err := c.ReadCloser.Close()
	if cerr := c.close(); err == nil {
		err = cerr
	}
	return err
}
