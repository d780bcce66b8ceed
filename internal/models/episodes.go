package models

import (
	"cmp"
	"math"
	"slices"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

type episodeKey struct {
	season  int
	episode int
	url     string
}

func sortKey(v mo.Option[int]) int {
	return v.OrElse(math.MaxInt)
}

// DedupeEpisodes drops episodes sharing the same (season, episode, url) triple.
// The first occurrence wins.
func DedupeEpisodes(episodes []EpisodeRef) []EpisodeRef {
	return lo.UniqBy(episodes, func(e EpisodeRef) episodeKey {
		return episodeKey{season: sortKey(e.Season), episode: sortKey(e.Episode), url: e.URL}
	})
}

// SortEpisodes orders episodes by season then episode number.
// Missing numbers sort last; ties keep their arrival order.
func SortEpisodes(episodes []EpisodeRef) {
	slices.SortStableFunc(episodes, func(a, b EpisodeRef) int {
		if d := cmp.Compare(sortKey(a.Season), sortKey(b.Season)); d != 0 {
			return d
		}
		return cmp.Compare(sortKey(a.Episode), sortKey(b.Episode))
	})
}

// NormalizeEpisodes de-duplicates and sorts an episode list in one pass
func NormalizeEpisodes(episodes []EpisodeRef) []EpisodeRef {
	out := DedupeEpisodes(episodes)
	SortEpisodes(out)
	return out
}
