// Package models contains the request-scoped records produced by the providers
package models

import (
	"fmt"
	"strings"

	"github.com/samber/mo"
)

// MediaKind represents the type of media content
type MediaKind string

const (
	KindMovie   MediaKind = "movie"
	KindSeries  MediaKind = "series"
	KindAnime   MediaKind = "anime"
	KindShow    MediaKind = "show"
	KindUnknown MediaKind = "unknown"
)

// IsEpisodic reports whether the kind is listed as episodes rather than a single video
func (k MediaKind) IsEpisodic() bool {
	return k == KindSeries || k == KindAnime || k == KindShow
}

// CatalogEntry is one card of a listing or search page.
// It has no identity beyond its URL.
type CatalogEntry struct {
	Title     string
	URL       string
	PosterURL string
	Kind      MediaKind
	Year      mo.Option[int]
	Provider  string // set by the manager when results from several sites are merged
}

// Detail is the parsed detail page of a movie or a series.
// Movies carry a DataURL and no episodes; series carry episodes.
type Detail struct {
	Title           string
	URL             string
	PosterURL       string
	Plot            string
	Year            mo.Option[int]
	Tags            []string
	Kind            MediaKind
	DataURL         string
	Episodes        []EpisodeRef
	Recommendations []CatalogEntry
}

// IsSeries reports whether the detail lists episodes
func (d *Detail) IsSeries() bool {
	return d.Kind.IsEpisodic()
}

// EpisodeRef points to one playable episode
type EpisodeRef struct {
	Name      string
	URL       string
	Season    mo.Option[int]
	Episode   mo.Option[int]
	PosterURL string
}

// Label returns a short display label such as "S02E05 - name"
func (e EpisodeRef) Label() string {
	var b strings.Builder
	if s, ok := e.Season.Get(); ok {
		fmt.Fprintf(&b, "S%02d", s)
	}
	if n, ok := e.Episode.Get(); ok {
		fmt.Fprintf(&b, "E%02d", n)
	}
	if e.Name != "" {
		if b.Len() > 0 {
			b.WriteString(" - ")
		}
		b.WriteString(e.Name)
	}
	if b.Len() == 0 {
		return e.URL
	}
	return b.String()
}

// LinkKind tells the player how to open a link
type LinkKind string

const (
	LinkVideo LinkKind = "video"
	LinkHLS   LinkKind = "hls"
)

// ExtractedLink is the terminal artifact handed to the player
type ExtractedLink struct {
	Source  string
	Name    string
	URL     string
	Kind    LinkKind
	Quality Quality
	Referer string
	Headers map[string]string
}

// Subtitle represents a subtitle track for video playback
type Subtitle struct {
	Language string
	URL      string
}
