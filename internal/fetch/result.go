package fetch

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

// Status tags the outcome of a request
type Status int

const (
	StatusOK Status = iota
	// StatusEmpty means the page does not exist or has no content (404, 410, empty body)
	StatusEmpty
	// StatusBlocked means an anti-bot challenge answered instead of the site
	StatusBlocked
	// StatusTransient covers network failures, timeouts, 5xx, 429 and unexpected 4xx
	StatusTransient
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusBlocked:
		return "blocked"
	default:
		return "transient"
	}
}

var (
	// ErrBlocked is returned when a Cloudflare or DDoS-Guard challenge page is served
	ErrBlocked = errors.New("blocked by Cloudflare or DDoS-Guard, open the site in a WebView to pass the challenge")
	// ErrEmpty is returned for missing pages and empty bodies
	ErrEmpty = errors.New("empty response")
)

// Result is the tagged outcome of one fetch. It is never nil.
type Result struct {
	Method     string
	URL        string // final URL after redirects
	StatusCode int
	Status     Status
	Header     http.Header
	Body       []byte
	cause      error
}

// OK reports whether the request succeeded with content
func (r *Result) OK() bool {
	return r.Status == StatusOK
}

// Err maps the status to an error; nil for StatusOK
func (r *Result) Err() error {
	switch r.Status {
	case StatusOK:
		return nil
	case StatusEmpty:
		return errors.Wrapf(ErrEmpty, "%s %s", r.Method, r.URL)
	case StatusBlocked:
		return errors.Wrapf(ErrBlocked, "%s %s", r.Method, r.URL)
	}
	if r.cause != nil {
		return errors.Wrapf(r.cause, "%s %s", r.Method, r.URL)
	}
	return errors.Errorf("%s %s: server returned %d %s", r.Method, r.URL, r.StatusCode, http.StatusText(r.StatusCode))
}

// Text returns the body as a string
func (r *Result) Text() string {
	return string(r.Body)
}

// Document parses the body as HTML. The document URL is the final request URL
// so relative links can be resolved against it.
func (r *Result) Document() (*goquery.Document, error) {
	if err := r.Err(); err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		return nil, errors.Wrapf(err, "parse HTML from %s", r.URL)
	}
	if u, err := url.Parse(r.URL); err == nil {
		doc.Url = u
	}
	return doc, nil
}

// JSON decodes the body into v
func (r *Result) JSON(v any) error {
	if err := r.Err(); err != nil {
		return err
	}
	if err := json.Unmarshal(bytes.TrimSpace(r.Body), v); err != nil {
		return errors.Wrapf(err, "decode JSON from %s", r.URL)
	}
	return nil
}

// challengeMarkers are fragments of Cloudflare and DDoS-Guard interstitial pages.
// strictMarkers only appear on the interstitial itself; the others can show up
// in regular pages served behind the same CDN, so they count only on 403/503.
var (
	strictMarkers = []string{
		"<title>just a moment...</title>",
		"cf_chl_opt",
		"checking your browser before accessing",
		"<title>ddos-guard</title>",
	}
	challengeMarkers = append([]string{
		"cf-challenge",
		"challenge-platform",
		"ddos-guard",
		"attention required! | cloudflare",
	}, strictMarkers...)
)

// isChallenge reports whether the response is an anti-bot interstitial
func isChallenge(header http.Header, body []byte, markers []string) bool {
	if strings.EqualFold(header.Get("cf-mitigated"), "challenge") {
		return true
	}
	head := body
	if len(head) > 32<<10 {
		head = head[:32<<10]
	}
	lower := strings.ToLower(string(head))
	for _, m := range markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// classify turns a status code and body into a Status
func classify(code int, header http.Header, body []byte) Status {
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return StatusEmpty
	case code == http.StatusForbidden || code == http.StatusServiceUnavailable:
		if isChallenge(header, body, challengeMarkers) || strings.Contains(strings.ToLower(header.Get("Server")), "ddos-guard") {
			return StatusBlocked
		}
		return StatusTransient
	case code >= 200 && code < 300:
		if len(bytes.TrimSpace(body)) == 0 {
			return StatusEmpty
		}
		if isChallenge(header, body, strictMarkers) {
			return StatusBlocked
		}
		return StatusOK
	default:
		return StatusTransient
	}
}
