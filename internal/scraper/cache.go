package scraper

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/arabstream/arabstream/internal/models"
)

// episodeCache keeps recently loaded episode lists, keyed by normalised series URL.
// A nil cache stores nothing.
type episodeCache struct {
	lru *lru.Cache[string, []models.EpisodeRef]
}

func newEpisodeCache(size int) *episodeCache {
	if size <= 0 {
		return nil
	}
	c, err := lru.New[string, []models.EpisodeRef](size)
	if err != nil {
		return nil
	}
	return &episodeCache{lru: c}
}

func (c *episodeCache) get(key string) ([]models.EpisodeRef, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(v), true
}

func (c *episodeCache) put(key string, episodes []models.EpisodeRef) {
	if c == nil {
		return
	}
	c.lru.Add(key, slices.Clone(episodes))
}

func (c *episodeCache) len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
