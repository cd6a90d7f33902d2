// Package cache provides caching utilities shared by long-running hosts.
package cache

import (
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/jtd-infer/pkg/jtd"
)

// HintCache provides thread-safe LRU caching of parsed hints, keyed by the
// hint configuration they were parsed from.
type HintCache struct {
	cache *lru.Cache[string, *jtd.Hints]
}

// NewHintCache creates a new LRU cache with the specified maximum number of items.
func NewHintCache(maxItems int) (*HintCache, error) {
	c, err := lru.New[string, *jtd.Hints](maxItems)
	if err != nil {
		return nil, err
	}
	return &HintCache{cache: c}, nil
}

// Parse returns the hints for cfg, parsing and caching them on a miss.
// Parse failures are not cached.
func (c *HintCache) Parse(cfg jtd.HintConfig) (*jtd.Hints, error) {
	key := Key(cfg)
	if h, ok := c.cache.Get(key); ok {
		return h, nil
	}
	h, err := jtd.ParseHints(cfg)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, h)
	return h, nil
}

// Len returns the current number of items in the cache.
func (c *HintCache) Len() int {
	return c.cache.Len()
}

// Key renders cfg as a cache key. Every string is length-prefixed so that no
// pointer content can collide with a separator.
func Key(cfg jtd.HintConfig) string {
	var b strings.Builder
	writeString(&b, cfg.DefaultNumType)
	for _, group := range [][]string{cfg.EnumHints, cfg.ValuesHints, cfg.DiscriminatorHints} {
		b.WriteString(strconv.Itoa(len(group)))
		b.WriteByte('|')
		for _, h := range group {
			writeString(&b, h)
		}
	}
	return b.String()
}

func writeString(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}
