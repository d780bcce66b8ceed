package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	packedBlockRe = regexp.MustCompile(`(?s)eval\(function\(p,a,c,k,e,[dr]\).*?\.split\('\|'\).*?\)\)`)
	packedArgsRe  = regexp.MustCompile(`(?s)\}\s*\(\s*'(.*?)'\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*'(.*?)'\.split\(\s*'\|'\s*\)`)
	packedWordRe  = regexp.MustCompile(`\b\w+\b`)
)

const packerAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FindPacked returns every P.A.C.K.E.R. block in page
func FindPacked(page string) []string {
	return packedBlockRe.FindAllString(page, -1)
}

// Unpack reverses Dean Edwards' packer: every word of the payload is an index,
// written in the packer radix, into the keyword table. Words whose keyword is
// empty are left as they are.
func Unpack(packed string) (string, bool) {
	m := packedArgsRe.FindStringSubmatch(packed)
	if m == nil {
		return "", false
	}
	payload := strings.NewReplacer(`\\`, `\`, `\'`, `'`).Replace(m[1])
	radix, err := strconv.Atoi(m[2])
	if err != nil || radix < 2 || radix > len(packerAlphabet) {
		return "", false
	}
	count, _ := strconv.Atoi(m[3])
	keys := strings.Split(m[4], "|")
	if count > 0 && len(keys) > count {
		keys = keys[:count]
	}

	out := packedWordRe.ReplaceAllStringFunc(payload, func(word string) string {
		idx, ok := decodeRadix(word, radix)
		if !ok || idx >= len(keys) || keys[idx] == "" {
			return word
		}
		return keys[idx]
	})
	return out, true
}

func decodeRadix(word string, radix int) (int, bool) {
	n := 0
	for i := 0; i < len(word); i++ {
		d := strings.IndexByte(packerAlphabet, word[i])
		if d < 0 || d >= radix {
			return 0, false
		}
		n = n*radix + d
		if n < 0 {
			return 0, false
		}
	}
	return n, true
}

// UnpackAll unpacks every packed block found in page and joins the results
func UnpackAll(page string) string {
	var b strings.Builder
	for _, block := range FindPacked(page) {
		if js, ok := Unpack(block); ok {
			b.WriteString(js)
			b.WriteByte('\n')
		}
	}
	return b.String()
}
