package scraper

import (
	"time"

	"github.com/aluiziolira/go-book-metadata/models"
)

// RunState carries everything one collection run accumulates. It is
// created per run and passed down explicitly.
type RunState struct {
	Seen    *SeenSet
	Records []*models.BookRecord

	requestCount   int
	errorCount     int
	duplicateCount int
	failedURLs     []string
	errorsByType   map[string]int
	lastRequest    time.Time
}

// NewRunState returns an empty state whose seen set holds up to dedupeMaxSize URLs.
func NewRunState(dedupeMaxSize int, metrics *Metrics) (*RunState, error) {
	seen, err := NewSeenSet(dedupeMaxSize, metrics)
	if err != nil {
		return nil, err
	}
	return &RunState{
		Seen:         seen,
		errorsByType: make(map[string]int),
	}, nil
}

func (s *RunState) recordError(category, failedURL string) {
	s.errorCount++
	s.errorsByType[category]++
	if failedURL != "" {
		s.failedURLs = append(s.failedURLs, failedURL)
	}
}

func (s *RunState) snapshotErrors() map[string]int {
	out := make(map[string]int, len(s.errorsByType))
	for k, v := range s.errorsByType {
		out[k] = v
	}
	return out
}

func (s *RunState) snapshotFailedURLs() []string {
	out := make([]string, len(s.failedURLs))
	copy(out, s.failedURLs)
	return out
}
