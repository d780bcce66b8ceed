package models

import (
	"strconv"
	"strings"
)

// Quality represents an ordinal video quality tier
type Quality int

const (
	QualityUnknown Quality = iota
	Quality360
	Quality480
	Quality720
	Quality1080
)

var qualityMarkers = []struct {
	marker  string
	quality Quality
}{
	{"1080", Quality1080},
	{"720", Quality720},
	{"480", Quality480},
	{"360", Quality360},
}

// ParseQuality maps a free-text server label to a quality tier.
// Only the numeric markers count; labels such as "SD" or "HD" stay Unknown.
func ParseQuality(label string) Quality {
	for _, m := range qualityMarkers {
		if strings.Contains(label, m.marker) {
			return m.quality
		}
	}
	return QualityUnknown
}

// Height returns the vertical resolution of the tier, 0 for Unknown
func (q Quality) Height() int {
	switch q {
	case Quality360:
		return 360
	case Quality480:
		return 480
	case Quality720:
		return 720
	case Quality1080:
		return 1080
	default:
		return 0
	}
}

// String returns the display label for the quality
func (q Quality) String() string {
	if h := q.Height(); h > 0 {
		return strconv.Itoa(h) + "p"
	}
	return "Unknown"
}
