package scraper

import (
	"regexp"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/arabstream/arabstream/internal/models"
)

// Site describes one streaming website. Selectors left empty disable the
// feature they drive.
type Site struct {
	Name    string
	BaseURL string
	// Kinds lists the media kinds the site serves. A single kind skips classification.
	Kinds []models.MediaKind
	// SeriesKind is reported for episodic pages without a more specific marker
	SeriesKind models.MediaKind
	Categories []Category
	// Blocked sites sit behind an interactive challenge; catalog and detail
	// calls fail with fetch.ErrBlocked without touching the network.
	Blocked bool

	Item     ItemSelectors
	Search   []SearchEndpoint
	Detail   DetailSelectors
	Classify Classifier
	Episodes EpisodeSelectors
	Redirect Redirect

	Watch      WatchPage
	Servers    ServerSelectors
	DooPlay    DooPlay
	PlayerAjax PlayerAjax
	Downloads  string

	// SeriesCategories are WordPress category ids holding series, used by FormatWPJSON
	SeriesCategories []int
	// TitleNoise lists site-specific words stripped from titles
	TitleNoise []string
	// DropUnnumbered drops episodes whose number could not be parsed
	DropUnnumbered bool

	Throttle Throttle
	Hooks    Hooks
}

// ItemSelectors locate the cards of listing and search pages
type ItemSelectors struct {
	Container string
	// Link selects the anchor inside a card. Empty uses the card itself when
	// it is an anchor, otherwise its first a[href].
	Link string
	// Title selects the title text. Empty falls back to the anchor title,
	// the image alt and the anchor text.
	Title       string
	Poster      string
	PosterAttrs []string
	Year        string
}

// SearchEndpoint is one query URL of a site. A non-nil Form turns it into a POST.
type SearchEndpoint struct {
	Path   string // "{query}" is replaced by the escaped query
	Form   map[string]string
	Format Format
}

// DetailSelectors locate the fields of a detail page.
// Title and Poster fall back to og:title and og:image.
type DetailSelectors struct {
	Title           string
	Poster          string
	Plot            string
	Year            string
	Tags            string
	Recommendations string // scope searched with the item selectors
}

// Classifier holds the movie vs series signals of a site
type Classifier struct {
	MoviePaths       []string
	SeriesPaths      []string
	EpisodeContainer string
	// Markers selects extra text, such as breadcrumbs, scanned for Arabic markers
	Markers string
	// MovieWords found in the Markers text settle a page as a movie before
	// the episode container is looked at
	MovieWords []string
}

// EpisodeSelectors locate episodes on detail and season pages
type EpisodeSelectors struct {
	Item   string
	Link   string
	Name   string
	Number string
	Poster string
	// Seasons selects links to season sub-pages, fetched one after the other
	Seasons        string
	MaxSeasonPages int
	// SelfWhenEmpty lists the page itself as the only episode when none were found
	SelfWhenEmpty bool
}

// Redirect sends an episode page to its parent series
type Redirect struct {
	When    []string // path fragments marking an episode page
	Links   string   // candidate anchors, usually the breadcrumb
	Targets []string // path fragments a series link must contain
}

// WatchPage tells how to reach the page listing the servers
type WatchPage struct {
	Suffix string            // appended to the data URL, e.g. "watch/"
	Button string            // anchor followed from the data page
	Form   map[string]string // POST this form instead of a GET
}

// ServerSelectors locate server candidates on the watch page.
// Attribute values holding markup or a JS call, such as
// onclick="loadIframe(this, 'https://...')", give up their quoted URL.
type ServerSelectors struct {
	Iframes   string
	Items     string
	Attrs     []string
	Subtitles string
	// SubPages selects links to more server lists (play and download pages),
	// fetched one after the other and scanned with the same selectors
	SubPages    string
	MaxSubPages int
	// Skip lists host fragments never worth resolving, such as file lockers
	Skip []string
}

// DooPlay configures the admin-ajax.php player options of DooPlay themes
type DooPlay struct {
	Options  string
	Endpoint string
}

// PlayerAjax configures players served by a GET to a theme endpoint. Path
// placeholders: {id} is IDAttr of each Items match, {post} the WordPress post
// id of the watch page and {index} each entry of Indexes.
type PlayerAjax struct {
	Path    string
	Items   string
	IDAttr  string
	Indexes []string
	// Embed matches the player URL in answers without an iframe
	Embed *regexp.Regexp
}

// Throttle bounds the outbound requests of a site
type Throttle struct {
	MinInterval   time.Duration
	MaxConcurrent int
	Jitter        time.Duration
}

// Candidate is a server entry contributed by a site hook
type Candidate struct {
	URL   string
	Label string
}

// HookInput is handed to site hooks
type HookInput struct {
	DataURL string
	PageURL string
	Doc     *goquery.Document
}

// Hooks carry the site-specific logic that selectors cannot express
type Hooks struct {
	Candidates func(in HookInput) []Candidate
	// Rewrite maps every server URL before it is resolved, e.g. to unwrap a redirector
	Rewrite func(string) string
}

const (
	defaultMaxSeasonPages = 10
	defaultMaxSubPages    = 4
	defaultDooPlayPath    = "wp-admin/admin-ajax.php"
)

var (
	defaultPosterAttrs  = []string{"data-src", "data-lazy-src", "data-image", "src"}
	defaultServerAttrs  = []string{"data-link", "data-watch", "data-src", "data-embed", "data-url"}
	defaultSubtitleSel  = "track[src]"
	defaultSearchTarget = SearchEndpoint{Path: "?s={query}"}
)

// withDefaults fills the optional fields left empty
func (s Site) withDefaults() Site {
	if s.SeriesKind == "" {
		s.SeriesKind = models.KindSeries
	}
	if len(s.Item.PosterAttrs) == 0 {
		s.Item.PosterAttrs = defaultPosterAttrs
	}
	if s.Item.Poster == "" {
		s.Item.Poster = "img"
	}
	if len(s.Search) == 0 {
		s.Search = []SearchEndpoint{defaultSearchTarget}
	}
	if s.Episodes.Seasons != "" && s.Episodes.MaxSeasonPages <= 0 {
		s.Episodes.MaxSeasonPages = defaultMaxSeasonPages
	}
	if s.Servers.Items != "" && len(s.Servers.Attrs) == 0 {
		s.Servers.Attrs = defaultServerAttrs
	}
	if s.Servers.Subtitles == "" {
		s.Servers.Subtitles = defaultSubtitleSel
	}
	if s.Servers.SubPages != "" && s.Servers.MaxSubPages <= 0 {
		s.Servers.MaxSubPages = defaultMaxSubPages
	}
	if s.DooPlay.Options != "" && s.DooPlay.Endpoint == "" {
		s.DooPlay.Endpoint = defaultDooPlayPath
	}
	return s
}
