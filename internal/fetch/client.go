// Package fetch performs throttled HTTP requests on behalf of one site and
// tags every response as ok, empty, blocked or transient.
package fetch

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"golang.org/x/time/rate"

	"github.com/arabstream/arabstream/internal/config"
	"github.com/arabstream/arabstream/internal/util"
)

const maxBodySize = 16 << 20

// Options configures a Client. Zero values select the defaults.
type Options struct {
	Name          string
	BaseURL       string
	HTTPClient    *http.Client
	UserAgents    []string
	Headers       map[string]string
	Timeout       time.Duration
	Retries       int
	RetryDelay    time.Duration
	MinInterval   time.Duration
	MaxConcurrent int
	Jitter        time.Duration
}

// Client fetches pages of one site. The throttle is shared by every call made
// through the same Client, so adapters keep one Client for their lifetime.
type Client struct {
	name       string
	baseURL    string
	client     *http.Client
	userAgents []string
	headers    map[string]string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
	limiter    *rate.Limiter
	slots      chan struct{}
	jitter     time.Duration
	log        util.SiteLog
}

// New creates a Client from opts
func New(opts Options) *Client {
	c := &Client{
		name:       opts.Name,
		baseURL:    opts.BaseURL,
		client:     opts.HTTPClient,
		userAgents: opts.UserAgents,
		headers:    opts.Headers,
		timeout:    opts.Timeout,
		maxRetries: max(opts.Retries, 0),
		retryDelay: opts.RetryDelay,
		jitter:     opts.Jitter,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		log:        util.SiteLog(opts.Name),
	}
	if c.client == nil {
		c.client = util.GetSharedClient()
	}
	if len(c.userAgents) == 0 {
		c.userAgents = config.DefaultUserAgents
	}
	if opts.MinInterval > 0 {
		c.limiter = rate.NewLimiter(rate.Every(opts.MinInterval), 1)
	}
	if opts.MaxConcurrent > 0 {
		c.slots = make(chan struct{}, opts.MaxConcurrent)
	}
	return c
}

// Name returns the site name used in logs
func (c *Client) Name() string { return c.name }

// BaseURL returns the site root
func (c *Client) BaseURL() string { return c.baseURL }

// RequestOption adjusts an outgoing request
type RequestOption func(*http.Request)

// WithReferer sets the Referer header
func WithReferer(ref string) RequestOption {
	return func(r *http.Request) {
		if ref != "" {
			r.Header.Set("Referer", ref)
		}
	}
}

// WithHeader sets an arbitrary header
func WithHeader(key, value string) RequestOption {
	return func(r *http.Request) { r.Header.Set(key, value) }
}

// WithXHR marks the request as an AJAX call, which admin-ajax.php endpoints expect
func WithXHR() RequestOption {
	return func(r *http.Request) {
		r.Header.Set("X-Requested-With", "XMLHttpRequest")
		r.Header.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	}
}

// Get fetches rawURL. The returned Result is never nil; the error equals Result.Err().
func (c *Client) Get(ctx context.Context, rawURL string, opts ...RequestOption) (*Result, error) {
	res := c.do(ctx, http.MethodGet, rawURL, "", "", opts)
	return res, res.Err()
}

// PostForm submits form as application/x-www-form-urlencoded
func (c *Client) PostForm(ctx context.Context, rawURL string, form url.Values, opts ...RequestOption) (*Result, error) {
	res := c.do(ctx, http.MethodPost, rawURL, form.Encode(), "application/x-www-form-urlencoded; charset=UTF-8", opts)
	return res, res.Err()
}

func (c *Client) decorateRequest(req *http.Request) {
	req.Header.Set("User-Agent", lo.Sample(c.userAgents))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ar,en-US;q=0.8,en;q=0.6")
	if c.baseURL != "" {
		req.Header.Set("Referer", c.baseURL)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
}

func (c *Client) shouldRetry(ctx context.Context, res *Result, attempt int) bool {
	return res.Status == StatusTransient && attempt < c.maxRetries && ctx.Err() == nil
}

func (c *Client) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// acquire waits for a concurrency slot, the rate limiter and the jitter delay
func (c *Client) acquire(ctx context.Context) (func(), error) {
	release := func() {}
	if c.slots != nil {
		select {
		case c.slots <- struct{}{}:
			release = func() { <-c.slots }
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		release()
		return nil, err
	}
	if c.jitter > 0 {
		if err := c.sleep(ctx, rand.N(c.jitter)); err != nil {
			release()
			return nil, err
		}
	}
	return release, nil
}

func (c *Client) do(ctx context.Context, method, rawURL, body, contentType string, opts []RequestOption) *Result {
	defer util.Track("fetch:" + c.name)()

	var res *Result
	for attempt := 0; ; attempt++ {
		res = c.attempt(ctx, method, rawURL, body, contentType, opts)
		c.log.Debug("fetch", "method", method, "url", rawURL,
			"code", res.StatusCode, "status", res.Status, "attempt", attempt+1)

		if !c.shouldRetry(ctx, res, attempt) {
			break
		}
		if err := c.sleep(ctx, c.retryDelay); err != nil {
			break
		}
	}
	if res.Status == StatusBlocked {
		c.log.Warn("site answered with an anti-bot challenge", "url", rawURL)
	}
	return res
}

func (c *Client) attempt(ctx context.Context, method, rawURL, body, contentType string, opts []RequestOption) *Result {
	res := &Result{Method: method, URL: rawURL, Status: StatusTransient}

	release, err := c.acquire(ctx)
	if err != nil {
		res.cause = err
		return res
	}
	defer release()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		res.cause = errors.Wrap(err, "failed to create request")
		return res
	}
	c.decorateRequest(req)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, opt := range opts {
		opt(req)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		res.cause = errors.Wrap(err, "failed to make request")
		return res
	}
	defer func() { _ = resp.Body.Close() }()

	res.StatusCode = resp.StatusCode
	res.Header = resp.Header
	if resp.Request != nil && resp.Request.URL != nil {
		res.URL = resp.Request.URL.String()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		res.cause = errors.Wrap(err, "failed to read body")
		return res
	}
	res.Body = data
	res.Status = classify(resp.StatusCode, resp.Header, data)
	return res
}
