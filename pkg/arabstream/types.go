package arabstream

import (
	"github.com/arabstream/arabstream/internal/fetch"
	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/scraper"
)

// Public names for the values returned by the Client
type (
	CatalogEntry  = models.CatalogEntry
	Detail        = models.Detail
	EpisodeRef    = models.EpisodeRef
	ExtractedLink = models.ExtractedLink
	Subtitle      = models.Subtitle
	MediaKind     = models.MediaKind
	Quality       = models.Quality
	Category      = scraper.Category
	Report        = scraper.Report
)

const (
	KindMovie  = models.KindMovie
	KindSeries = models.KindSeries
	KindAnime  = models.KindAnime
	KindShow   = models.KindShow
)

var (
	// ErrProviderNotFound is returned for an unknown provider name
	ErrProviderNotFound = scraper.ErrProviderNotFound
	// ErrUnknownCategory is returned for a category the provider does not list
	ErrUnknownCategory = scraper.ErrUnknownCategory
	// ErrBlocked means the site answered with an anti-bot challenge. The caller
	// has to pass it in a real browser before retrying.
	ErrBlocked = fetch.ErrBlocked
	// ErrEmpty means the page was missing or empty
	ErrEmpty = fetch.ErrEmpty
)

// Provider describes one registered site
type Provider struct {
	Name       string
	Categories []Category
}

// Links is the outcome of one link resolution
type Links struct {
	// Links are ordered best quality first
	Links     []ExtractedLink
	Subtitles []Subtitle
	Report    Report
}
