package scraper

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSeenSetAdd(t *testing.T) {
	s, err := NewSeenSet(10, nil)
	if err != nil {
		t.Fatalf("new seen set: %v", err)
	}

	if !s.Add("http://example.test/books/1") {
		t.Fatalf("first add should report new url")
	}
	if s.Add("http://example.test/books/1") {
		t.Fatalf("second add should report duplicate")
	}
	if !s.Contains("http://example.test/books/1") {
		t.Fatalf("expected url to be present")
	}
	if s.Len() != 1 {
		t.Fatalf("len = %d, want 1", s.Len())
	}
}

func TestSeenSetEvictsOldestBeyondBound(t *testing.T) {
	metrics := NewMetrics()
	s, err := NewSeenSet(2, metrics)
	if err != nil {
		t.Fatalf("new seen set: %v", err)
	}

	s.Add("a")
	s.Add("b")
	s.Add("c")

	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
	if s.Contains("a") {
		t.Fatalf("oldest url should have been evicted")
	}
	if s.Evictions() != 1 {
		t.Fatalf("evictions = %d, want 1", s.Evictions())
	}
	if got := testutil.ToFloat64(metrics.SeenEvictionTotal); got != 1 {
		t.Fatalf("eviction metric = %v, want 1", got)
	}
	if !s.Add("a") {
		t.Fatalf("evicted url should be accepted again")
	}
}

func TestNewSeenSetRejectsInvalidSize(t *testing.T) {
	if _, err := NewSeenSet(0, nil); err == nil {
		t.Fatalf("expected error for zero size")
	}
}
