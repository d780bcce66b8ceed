package extractor

import (
	"encoding/base64"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"

	"github.com/arabstream/arabstream/internal/models"
)

// Candidate is a media URL found in a player page
type Candidate struct {
	URL   string
	Label string
	Kind  models.LinkKind
}

// Strategy is one named way of finding media URLs in a page
type Strategy struct {
	Name string
	Find func(page string) []Candidate
}

var (
	sourcesArrayRe = regexp.MustCompile(`(?s)sources\s*:\s*\[(.*?)\]`)
	sourceObjectRe = regexp.MustCompile(`(?s)\{[^{}]*\}`)
	objFileRe      = regexp.MustCompile(`["']?(?:file|src)["']?\s*:\s*["']([^"']+)["']`)
	objLabelRe     = regexp.MustCompile(`["']?(?:label|res|quality)["']?\s*:\s*["']?([^"',}]+)`)
	objHLSTypeRe   = regexp.MustCompile(`["']?type["']?\s*:\s*["'](?:hls|application/x-mpegurl)`)
	bareSourceRe   = regexp.MustCompile(`["']((?:https?:)?//[^"']+)["']`)
	fileKeyRe      = regexp.MustCompile(`["']?file["']?\s*[:=]\s*["']((?:https?:)?//[^"']+)["']`)
	hlsObjectRe    = regexp.MustCompile(`["']?hls\d?["']?\s*:\s*["']((?:https?:)?//[^"']+)["']`)
	m3u8URLRe      = regexp.MustCompile(`(?:https?:)?//[^"'\s<>\\]+\.m3u8[^"'\s<>\\]*`)
	mp4URLRe       = regexp.MustCompile(`(?:https?:)?//[^"'\s<>\\]+\.mp4[^"'\s<>\\]*`)
	onclickURLRe   = regexp.MustCompile(`(?:location(?:\.href)?\s*=|window\.open\(|download\()\s*['"]([^'"]+)['"]`)
	base64URLRe    = regexp.MustCompile(`base64,([A-Za-z0-9+/_-]{16,}={0,2})`)
	escapedURLRe   = regexp.MustCompile(`https?%3A%2F%2F[^"'\s&<>]+`)
	concatRe       = regexp.MustCompile(`['"]\s*\+\s*['"]`)
)

// downloadSelector matches the buttons file lockers put in front of the file
const (
	downloadSelector = `a[href], [data-url], [data-link], [data-download], [onclick]`
	downloadButtons  = `[download], #downloadButton, #dlbutton, .download_link, .direct-link, .download-link`
)

func findSourcesArray(page string) []Candidate {
	var out []Candidate
	for _, block := range sourcesArrayRe.FindAllStringSubmatch(page, -1) {
		objects := sourceObjectRe.FindAllString(block[1], -1)
		for _, obj := range objects {
			if m := objFileRe.FindStringSubmatch(obj); m != nil {
				c := Candidate{URL: m[1]}
				if l := objLabelRe.FindStringSubmatch(obj); l != nil {
					c.Label = strings.TrimSpace(l[1])
				}
				if objHLSTypeRe.MatchString(strings.ToLower(obj)) {
					c.Kind = models.LinkHLS
				}
				out = append(out, c)
			}
		}
		if len(objects) == 0 {
			for _, m := range bareSourceRe.FindAllStringSubmatch(block[1], -1) {
				out = append(out, Candidate{URL: m[1]})
			}
		}
	}
	return out
}

func findBySubmatch(re *regexp.Regexp) func(string) []Candidate {
	return func(page string) []Candidate {
		return lo.Map(re.FindAllStringSubmatch(page, -1), func(m []string, _ int) Candidate {
			return Candidate{URL: m[1]}
		})
	}
}

func findByMatch(re *regexp.Regexp) func(string) []Candidate {
	return func(page string) []Candidate {
		return lo.Map(re.FindAllString(page, -1), func(m string, _ int) Candidate {
			return Candidate{URL: m}
		})
	}
}

func findVideoTags(page string) []Candidate {
	if !strings.Contains(page, "<video") && !strings.Contains(page, "<source") {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}
	var out []Candidate
	doc.Find("video source[src], video[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" || strings.HasPrefix(src, "blob:") {
			return
		}
		label := s.AttrOr("label", s.AttrOr("res", s.AttrOr("size", "")))
		out = append(out, Candidate{URL: src, Label: label})
	})
	return out
}

func isMediaRef(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, ".mp4") || strings.Contains(lower, ".m3u8")
}

// findDownloadAnchors reads the links of file locker pages: media hrefs,
// data attributes and onclick redirects, plus explicit download buttons.
func findDownloadAnchors(page string) []Candidate {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil
	}
	var out []Candidate
	doc.Find(downloadSelector).Each(func(_ int, s *goquery.Selection) {
		raw := ""
		for _, attr := range []string{"href", "data-url", "data-link", "data-download"} {
			if raw = strings.TrimSpace(s.AttrOr(attr, "")); raw != "" {
				break
			}
		}
		if m := onclickURLRe.FindStringSubmatch(s.AttrOr("onclick", "")); m != nil && !isMediaRef(raw) {
			raw = m[1]
		}
		lower := strings.ToLower(raw)
		if raw == "" || strings.HasPrefix(raw, "#") || strings.HasPrefix(lower, "javascript:") {
			return
		}
		if !isMediaRef(raw) && !s.Is(downloadButtons) {
			return
		}
		out = append(out, Candidate{URL: raw, Label: strings.Join(strings.Fields(s.Text()), " ")})
	})
	return out
}

// findEncodedURLs decodes URLs players hide as base64 data or percent escapes
func findEncodedURLs(page string) []Candidate {
	var out []Candidate
	for _, m := range base64URLRe.FindAllStringSubmatch(page, -1) {
		enc := strings.NewReplacer("-", "+", "_", "/").Replace(m[1])
		raw, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(enc, "="))
		}
		if err != nil {
			continue
		}
		if u := strings.TrimSpace(string(raw)); strings.HasPrefix(u, "http") {
			out = append(out, Candidate{URL: u})
		}
	}
	for _, m := range escapedURLRe.FindAllString(page, -1) {
		if u, err := url.QueryUnescape(m); err == nil {
			out = append(out, Candidate{URL: u})
		}
	}
	return out
}

// findJoinedM3U8 glues string concatenations ("a" + "b") back together before looking for a playlist
func findJoinedM3U8(page string) []Candidate {
	return findByMatch(m3u8URLRe)(concatRe.ReplaceAllString(page, ""))
}

// hostStrategies are only used by the extractors that pick them
func hostStrategies() []Strategy {
	return []Strategy{
		{Name: "download-anchor", Find: findDownloadAnchors},
		{Name: "encoded-url", Find: findEncodedURLs},
		{Name: "joined-m3u8", Find: findJoinedM3U8},
	}
}

// baseChain is every strategy except packed-js
func baseChain() []Strategy {
	return []Strategy{
		{Name: "sources-array", Find: findSourcesArray},
		{Name: "file-key", Find: findBySubmatch(fileKeyRe)},
		{Name: "hls-object", Find: findBySubmatch(hlsObjectRe)},
		{Name: "video-tag", Find: findVideoTags},
		{Name: "m3u8-url", Find: findByMatch(m3u8URLRe)},
		{Name: "mp4-url", Find: findByMatch(mp4URLRe)},
	}
}

func findPacked(page string) []Candidate {
	unpacked := UnpackAll(page)
	if unpacked == "" {
		return nil
	}
	_, found := RunChain(baseChain(), unpacked)
	return found
}

// DefaultChain returns the strategies in the order they are tried
func DefaultChain() []Strategy {
	base := baseChain()
	chain := make([]Strategy, 0, len(base)+1)
	chain = append(chain, base[:4]...)
	chain = append(chain, Strategy{Name: "packed-js", Find: findPacked})
	return append(chain, base[4:]...)
}

// normalizePage undoes the JSON escaping of slashes that players often carry
func normalizePage(page string) string {
	return strings.ReplaceAll(page, `\/`, `/`)
}

// RunChain tries each strategy in order and stops at the first one that finds anything
func RunChain(chain []Strategy, page string) (string, []Candidate) {
	page = normalizePage(page)
	for _, s := range chain {
		found := lo.Filter(s.Find(page), func(c Candidate, _ int) bool {
			return strings.TrimSpace(c.URL) != ""
		})
		if len(found) > 0 {
			return s.Name, lo.UniqBy(found, func(c Candidate) string { return c.URL })
		}
	}
	return "", nil
}
