// Package appflow drives the interactive terminal session: search, pick a
// title, pick an episode and print its links.
package appflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/pkg/errors"

	"github.com/arabstream/arabstream/internal/models"
	"github.com/arabstream/arabstream/internal/util"
	"github.com/arabstream/arabstream/pkg/arabstream"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00BFFF"))
	sourceStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	qualityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#32CD32")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// ErrNoResults is returned when a search or a listing came back empty
var ErrNoResults = errors.New("no results found")

// Search runs a query on one provider, or on all of them when provider is empty
func Search(ctx context.Context, client *arabstream.Client, provider, query string) ([]models.CatalogEntry, error) {
	defer util.Track("appflow:search")()

	var (
		entries []models.CatalogEntry
		err     error
	)
	_ = spinner.New().
		Title(fmt.Sprintf("Searching for %q...", query)).
		Type(spinner.Dots).
		Action(func() {
			if provider == "" {
				entries, err = client.SearchAll(ctx, query)
			} else {
				entries, err = client.Search(ctx, provider, query)
			}
		}).
		Run()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoResults
	}
	return entries, nil
}

// Catalog fetches one page of a provider category
func Catalog(ctx context.Context, client *arabstream.Client, provider, category string, page int) ([]models.CatalogEntry, error) {
	var (
		entries []models.CatalogEntry
		err     error
	)
	_ = spinner.New().
		Title(fmt.Sprintf("Loading %s/%s page %d...", provider, category, page)).
		Type(spinner.Dots).
		Action(func() {
			entries, err = client.Catalog(ctx, provider, category, page)
		}).
		Run()
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, ErrNoResults
	}
	return entries, nil
}

// SelectEntry lets the user fuzzy-pick one catalog entry
func SelectEntry(entries []models.CatalogEntry) (models.CatalogEntry, error) {
	idx, err := fuzzyfinder.Find(
		entries,
		func(i int) string { return EntryLabel(entries[i]) },
		fuzzyfinder.WithPromptString("Select title: "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i < 0 || i >= len(entries) {
				return ""
			}
			return EntryPreview(entries[i])
		}),
	)
	if err != nil {
		return models.CatalogEntry{}, errors.Wrap(err, "failed to select title with go-fuzzyfinder")
	}
	if idx < 0 || idx >= len(entries) {
		return models.CatalogEntry{}, errors.New("invalid index returned by fuzzyfinder")
	}
	return entries[idx], nil
}

// LoadDetail fetches a detail page behind a spinner
func LoadDetail(ctx context.Context, client *arabstream.Client, provider, url string) (*models.Detail, error) {
	var (
		detail *models.Detail
		err    error
	)
	_ = spinner.New().
		Title("Loading details...").
		Type(spinner.Dots).
		Action(func() {
			detail, err = client.Load(ctx, provider, url)
		}).
		Run()
	return detail, err
}

// SelectEpisode lets the user fuzzy-pick one episode of a series
func SelectEpisode(detail *models.Detail) (models.EpisodeRef, error) {
	if len(detail.Episodes) == 0 {
		return models.EpisodeRef{}, errors.Errorf("%s lists no episodes", detail.Title)
	}
	idx, err := fuzzyfinder.Find(
		detail.Episodes,
		func(i int) string { return detail.Episodes[i].Label() },
		fuzzyfinder.WithPromptString("Select episode: "),
	)
	if err != nil {
		return models.EpisodeRef{}, errors.Wrap(err, "failed to select episode with go-fuzzyfinder")
	}
	return detail.Episodes[idx], nil
}

// ResolveLinks collects every link of a data URL behind a spinner
func ResolveLinks(ctx context.Context, client *arabstream.Client, provider, dataURL string) (*arabstream.Links, error) {
	defer util.Track("appflow:links")()

	var (
		links *arabstream.Links
		err   error
	)
	_ = spinner.New().
		Title("Resolving servers...").
		Type(spinner.Dots).
		Action(func() {
			links, err = client.Links(ctx, provider, dataURL, false)
		}).
		Run()
	if err != nil {
		return nil, err
	}
	if len(links.Links) == 0 {
		if links.Report.AllFailed() {
			return links, errors.Errorf("all %d servers failed", links.Report.Candidates)
		}
		return links, errors.New("the page lists no playable server")
	}
	return links, nil
}

// Run is the interactive session started when no action flag is given
func Run(ctx context.Context, client *arabstream.Client, provider string) error {
	query, err := util.GetQuery("Search")
	if err != nil {
		return err
	}
	entries, err := Search(ctx, client, provider, query)
	if err != nil {
		return err
	}
	entry, err := SelectEntry(entries)
	if err != nil {
		return err
	}
	return Watch(ctx, client, entry.Provider, entry.URL)
}

// Watch loads a title, asks for an episode when needed and prints its links
func Watch(ctx context.Context, client *arabstream.Client, provider, url string) error {
	detail, err := LoadDetail(ctx, client, provider, url)
	if err != nil {
		return err
	}
	fmt.Println(RenderDetail(detail))

	dataURL := detail.DataURL
	if detail.IsSeries() {
		ep, err := SelectEpisode(detail)
		if err != nil {
			return err
		}
		dataURL = ep.URL
	}

	links, err := ResolveLinks(ctx, client, provider, dataURL)
	if err != nil {
		return err
	}
	fmt.Println(RenderLinks(links))
	return nil
}

// EntryLabel is the fuzzy finder line of an entry
func EntryLabel(e models.CatalogEntry) string {
	label := e.Title
	if y, ok := e.Year.Get(); ok {
		label = fmt.Sprintf("%s (%d)", label, y)
	}
	if e.Provider != "" {
		label = fmt.Sprintf("[%s] %s", e.Provider, label)
	}
	return label
}

// EntryPreview is the preview pane text of an entry
func EntryPreview(e models.CatalogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", e.Title)
	fmt.Fprintf(&b, "Type: %s\n", e.Kind)
	if y, ok := e.Year.Get(); ok {
		fmt.Fprintf(&b, "Year: %d\n", y)
	}
	if e.Provider != "" {
		fmt.Fprintf(&b, "Provider: %s\n", e.Provider)
	}
	fmt.Fprintf(&b, "\n%s", e.URL)
	return b.String()
}

// RenderEntries prints a listing, one entry per line
func RenderEntries(entries []models.CatalogEntry) string {
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%3d. %s %s\n", i+1, titleStyle.Render(EntryLabel(e)), mutedStyle.Render(e.URL))
	}
	return b.String()
}

// RenderDetail prints the header of a detail page
func RenderDetail(d *models.Detail) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Title))
	if y, ok := d.Year.Get(); ok {
		fmt.Fprintf(&b, " (%d)", y)
	}
	b.WriteString("\n")
	if len(d.Tags) > 0 {
		b.WriteString(mutedStyle.Render(strings.Join(d.Tags, " • ")) + "\n")
	}
	if d.Plot != "" {
		b.WriteString(d.Plot + "\n")
	}
	if d.IsSeries() {
		fmt.Fprintf(&b, "%d episodes\n", len(d.Episodes))
	}
	return b.String()
}

// RenderLinks prints resolved links, best quality first, then subtitles
func RenderLinks(l *arabstream.Links) string {
	var b strings.Builder
	for _, link := range l.Links {
		fmt.Fprintf(&b, "%s %s %s\n",
			qualityStyle.Render(fmt.Sprintf("%-6s", link.Quality)),
			sourceStyle.Render(link.Name),
			link.URL)
	}
	for _, s := range l.Subtitles {
		fmt.Fprintf(&b, "%s %s %s\n", mutedStyle.Render("sub"), s.Language, s.URL)
	}
	if l.Report.Failed > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d of %d servers failed", l.Report.Failed, l.Report.Candidates)) + "\n")
	}
	return b.String()
}
