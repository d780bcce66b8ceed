// Package urlutil normalizes the site-relative and protocol-relative links found in scraped markup.
package urlutil

import (
	"net/url"
	"path"
	"strings"

	"github.com/arabstream/arabstream/internal/models"
)

// Resolve turns ref into an absolute URL using base.
// Absolute refs are returned unchanged, "//host/p" takes the scheme of base,
// "/p" joins the scheme and host of base, anything else is resolved against
// the directory of base. Empty refs resolve to "".
func Resolve(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return ref
	}

	parsed, err := url.Parse(strings.TrimSpace(base))
	if err != nil || parsed.Host == "" {
		return ref
	}
	scheme := parsed.Scheme
	if scheme == "" {
		scheme = "https"
	}

	if strings.HasPrefix(ref, "//") {
		return scheme + ":" + ref
	}
	origin := scheme + "://" + parsed.Host

	if strings.HasPrefix(ref, "/") {
		return origin + "/" + strings.TrimLeft(ref, "/")
	}
	if strings.HasPrefix(ref, "?") || strings.HasPrefix(ref, "#") {
		return origin + parsed.EscapedPath() + ref
	}

	dir := parsed.EscapedPath()
	if !strings.HasSuffix(dir, "/") {
		dir = path.Dir(dir)
		if dir == "." {
			dir = "/"
		}
		if !strings.HasSuffix(dir, "/") {
			dir += "/"
		}
	}

	// Keep the original escaping of ref; ResolveReference would re-encode Arabic slugs.
	refPath, tail := ref, ""
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		refPath, tail = ref[:i], ref[i:]
	}
	joined := path.Clean(dir + refPath)
	if strings.HasSuffix(refPath, "/") && joined != "/" {
		joined += "/"
	}
	return origin + joined + tail
}

// Host returns the lower-cased host of raw without a "www." prefix
func Host(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
}

// Origin returns "scheme://host/" for raw, or "" when raw has no host
func Origin(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host + "/"
}

// cleanPath strips the query and fragment so suffix checks only look at the path
func cleanPath(raw string) string {
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return strings.ToLower(raw)
}

// IsDirectMedia reports whether the path of raw ends with a playable media suffix.
// "embed.php?s=video.mp4" is not direct media.
func IsDirectMedia(raw string) bool {
	p := cleanPath(raw)
	return strings.HasSuffix(p, ".mp4") || strings.HasSuffix(p, ".m3u8") ||
		strings.HasSuffix(p, ".mkv") || strings.HasSuffix(p, ".webm")
}

// LinkKind infers the link kind from the URL path
func LinkKind(raw string) models.LinkKind {
	if strings.HasSuffix(cleanPath(raw), ".m3u8") || strings.Contains(strings.ToLower(raw), ".m3u8") {
		return models.LinkHLS
	}
	return models.LinkVideo
}

// EnsureTrailingSlash appends "/" to the path when missing
func EnsureTrailingSlash(raw string) string {
	if strings.HasSuffix(raw, "/") {
		return raw
	}
	return raw + "/"
}

// JoinSuffix appends a path suffix such as "watch/" to a page URL without doubling slashes
func JoinSuffix(page, suffix string) string {
	if suffix == "" {
		return page
	}
	return EnsureTrailingSlash(page) + strings.TrimLeft(suffix, "/")
}

// NormalizeSeriesURL produces a cache key for a series page: lower-cased host,
// no query or fragment, single trailing slash.
func NormalizeSeriesURL(raw string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Host == "" {
		return strings.TrimSpace(raw)
	}
	p := parsed.EscapedPath()
	if p == "" {
		p = "/"
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host) + EnsureTrailingSlash(p)
}

// QueryParam returns the decoded value of key in raw, or ""
func QueryParam(raw, key string) string {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return parsed.Query().Get(key)
}
