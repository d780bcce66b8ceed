package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/mo"

	"github.com/arabstream/arabstream/internal/urlutil"
)

var (
	spaceRe      = regexp.MustCompile(`\s+`)
	yearRe       = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)
	parenYearRe  = regexp.MustCompile(`\(\s*\d{4}\s*\)`)
	titleTailRe  = regexp.MustCompile(`\s(?:الموسم|موسم|الحلقة|حلقة)\s.*$`)
	styleImageRe = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

	arabicDigits = strings.NewReplacer(
		"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4",
		"٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
		"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4",
		"۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	)
)

// titleNoise is the boilerplate the Arabic sites wrap titles in. Longer
// phrases come first so the replacer prefers them.
var titleNoise = []string{
	"جميع مواسم مسلسل", "جميع مواسم", "جميع الحلقات",
	"مشاهدة وتحميل", "مشاهدة فيلم", "مشاهدة مسلسل", "مشاهدة انمي", "مشاهدة",
	"مترجمة كاملة", "مترجم كامل", "مترجمة", "مترجم", "مدبلجة", "مدبلج",
	"اون لاين", "أون لاين", "كاملة", "كامل",
	"مسلسل", "فيلم", "انمي", "أنمي", "برنامج", "تحميل",
}

func newTitleCleaner(extra []string) *strings.Replacer {
	pairs := make([]string, 0, 2*(len(extra)+len(titleNoise)))
	for _, w := range append(append([]string{}, extra...), titleNoise...) {
		pairs = append(pairs, w, " ")
	}
	return strings.NewReplacer(pairs...)
}

// NormalizeDigits converts Arabic-Indic and Persian digits to ASCII
func NormalizeDigits(s string) string {
	return arabicDigits.Replace(s)
}

// collapse trims s and folds whitespace runs into one space
func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// cleanTitle strips the site boilerplate, season/episode tails and a
// parenthesised year. An all-noise title is returned collapsed but unchanged.
func (p *Provider) cleanTitle(raw string) string {
	raw = collapse(raw)
	t := parenYearRe.ReplaceAllString(raw, " ")
	t = p.titles.Replace(" " + t + " ")
	t = titleTailRe.ReplaceAllString(collapse(t)+" ", "")
	t = strings.Trim(collapse(t), "-–|:")
	if t = collapse(t); t == "" {
		return raw
	}
	return t
}

// parseYear returns the first plausible release year in text
func parseYear(text string) mo.Option[int] {
	m := yearRe.FindStringSubmatch(NormalizeDigits(text))
	if m == nil {
		return mo.None[int]()
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return mo.None[int]()
	}
	return mo.Some(y)
}

// firstAttr returns the first non-empty attribute of sel among attrs
func firstAttr(sel *goquery.Selection, attrs ...string) string {
	for _, a := range attrs {
		if v, ok := sel.Attr(a); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// anchorOf returns the anchor of a card: the Link selector, the card itself, or its first a[href]
func anchorOf(card *goquery.Selection, linkSel string) *goquery.Selection {
	if linkSel != "" {
		return card.Find(linkSel).First()
	}
	if goquery.NodeName(card) == "a" {
		return card
	}
	return card.Find("a[href]").First()
}

// usableHref resolves href against pageURL, ignoring fragments and javascript links
func usableHref(pageURL, href string) string {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(lower, "javascript:") || lower == "about:blank" {
		return ""
	}
	return urlutil.Resolve(pageURL, href)
}

// imageOf returns the image URL of sel: an attribute of the first image, or a
// CSS background on sel itself.
func imageOf(sel *goquery.Selection, imgSel string, attrs []string, pageURL string) string {
	img := sel.Find(imgSel).First()
	if img.Length() == 0 && goquery.NodeName(sel) == "img" {
		img = sel
	}
	if v := firstAttr(img, attrs...); v != "" && !strings.HasPrefix(v, "data:") {
		return urlutil.Resolve(pageURL, v)
	}
	for _, s := range []*goquery.Selection{sel, sel.Find("[style*='url(']").First()} {
		style, _ := s.Attr("style")
		if m := styleImageRe.FindStringSubmatch(style); m != nil {
			return urlutil.Resolve(pageURL, m[1])
		}
	}
	return ""
}

// metaContent reads <meta property|name=key content=...>
func metaContent(doc *goquery.Document, key string) string {
	sel := doc.Find(`meta[property="` + key + `"], meta[name="` + key + `"]`).First()
	return strings.TrimSpace(sel.AttrOr("content", ""))
}

// textOf returns the collapsed text of the first match of selector
func textOf(scope *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return collapse(scope.Find(selector).First().Text())
}
