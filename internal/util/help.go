package util

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	teal     = lipgloss.Color("#0F766E")
	mint     = lipgloss.Color("#5EEAD4")
	gray     = lipgloss.Color("#A9A9A9")
	darkGray = lipgloss.Color("#5A5A5A")

	titleStyle = lipgloss.NewStyle().
			Foreground(teal).
			Bold(true).
			PaddingBottom(1).
			MarginLeft(2)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(gray).
			Italic(true).
			MarginLeft(2)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(mint).
				Bold(true).
				PaddingLeft(2)

	commandStyle = lipgloss.NewStyle().
			Foreground(mint).
			Bold(true).
			PaddingLeft(4)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(gray).
				PaddingLeft(6).
				Width(80 - 6)

	separatorStyle = lipgloss.NewStyle().Foreground(darkGray)
)

type helpEntry struct {
	name, desc string
}

var helpOptions = []helpEntry{
	{"-provider <name>", "Site to use (egydead, cimaleek, topcinema, fushaar, arabseed, anime4up, witanime, cima4u, fajershow, mycima, faselhd, cimanow, egybest, shahid4u, ristoanime, movizlands, cimaclub, animeblkom, tuk, cima4uactor)."},
	{"-list", "List the configured providers and their categories."},
	{"-category <name> [-page N]", "Print one catalog page of a category."},
	{"-search <query>", "Search one provider, or every provider when -provider is omitted."},
	{"-load <url>", "Load a detail page and print its episodes."},
	{"-links <url>", "Resolve playable links for a movie or episode URL."},
	{"-config <path>", "Read configuration from this YAML file."},
	{"-debug", "Enable debug logging and detailed errors."},
	{"-perf", "Print a timing report of fetches and link resolution on exit."},
	{"-version", "Show version information."},
	{"-h, -help", "Show this help message."},
}

var helpExamples = []helpEntry{
	{"arabstream", "Interactive mode: search every provider and pick a result."},
	{"arabstream -provider cimaleek -search \"الاختيار\"", "Search CimaLeek only."},
	{"arabstream -provider egydead -category movies -page 2", "Second page of EgyDead movies."},
	{"arabstream -provider topcinema -links https://...", "Resolve links for one episode."},
}

// ShowHelp prints the CLI help
func ShowHelp() {
	fmt.Print(RenderHelp())
}

// RenderHelp builds the help text
func RenderHelp() string {
	var b strings.Builder
	sep := separatorStyle.Render(strings.Repeat("─", 80))

	b.WriteString(titleStyle.Render("ArabStream - Arabic streaming site scrapers"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Browse catalogs, load episodes and resolve playable links from the terminal."))
	b.WriteString("\n\n")

	writeSection(&b, sep, "Options:", helpOptions)
	writeSection(&b, sep, "Examples:", helpExamples)

	b.WriteString(sep)
	b.WriteString("\n")
	return b.String()
}

func writeSection(b *strings.Builder, sep, title string, entries []helpEntry) {
	b.WriteString(sep)
	b.WriteString("\n")
	b.WriteString(sectionTitleStyle.Render(title))
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(commandStyle.Render("  " + e.name))
		b.WriteString("\n")
		b.WriteString(descriptionStyle.Render("    " + e.desc))
		b.WriteString("\n")
	}
	b.WriteString("\n")
}
