package scraper

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
)

// SeenSet records the book URLs already dispatched to extraction during a
// run. It holds at most maxSize URLs; beyond that the least recently
// dispatched ones are evicted and counted.
type SeenSet struct {
	cache     *lru.Cache[string, struct{}]
	evictions int
	metrics   *Metrics
}

// NewSeenSet builds an empty set bounded by maxSize.
func NewSeenSet(maxSize int, metrics *Metrics) (*SeenSet, error) {
	s := &SeenSet{metrics: metrics}
	cache, err := lru.NewWithEvict[string, struct{}](maxSize, func(key string, _ struct{}) {
		s.evictions++
		s.metrics.IncEvictions()
		slog.Warn("seen set full, evicted url", slog.String("url", key), slog.Int("max_size", maxSize))
	})
	if err != nil {
		return nil, fmt.Errorf("create seen set: %w", err)
	}
	s.cache = cache
	return s, nil
}

// Add marks rawURL as dispatched. It reports false when the URL was
// already present.
func (s *SeenSet) Add(rawURL string) bool {
	found, _ := s.cache.ContainsOrAdd(rawURL, struct{}{})
	return !found
}

// Contains reports whether rawURL was already dispatched.
func (s *SeenSet) Contains(rawURL string) bool {
	return s.cache.Contains(rawURL)
}

// Len returns the number of URLs held.
func (s *SeenSet) Len() int {
	return s.cache.Len()
}

// Evictions returns how many URLs were dropped to respect the size bound.
func (s *SeenSet) Evictions() int {
	return s.evictions
}
