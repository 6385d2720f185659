package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCrawlerPaceWaitsForDelay(t *testing.T) {
	c := &Crawler{delay: 50 * time.Millisecond}
	state, err := NewRunState(10, nil)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}

	start := time.Now()
	if err := c.pace(context.Background(), state); err != nil {
		t.Fatalf("first pace: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Fatalf("first request waited %v, want no wait", elapsed)
	}

	state.lastRequest = time.Now()
	start = time.Now()
	if err := c.pace(context.Background(), state); err != nil {
		t.Fatalf("second pace: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("second request waited %v, want about 50ms", elapsed)
	}
}

func TestCrawlerPaceHonorsCancellation(t *testing.T) {
	c := &Crawler{delay: time.Hour}
	state, err := NewRunState(10, nil)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	state.lastRequest = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := c.pace(ctx, state); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("pace error = %v, want deadline exceeded", err)
	}
}

func TestCrawlRecordsMetrics(t *testing.T) {
	f := newFakeFetcher()
	f.searches["running"] = resultsPage("/books/A/1", "/books/B/2")
	f.pages[testBase+"/books/A/1"] = detailPage("A")

	s := newTestScraper(t, testConfig(), f)
	if _, err := s.Run(context.Background(), []string{"running", "running"}, nil); err != nil {
		t.Fatalf("run: %v", err)
	}

	m := s.Metrics
	if got := testutil.ToFloat64(m.RecordsTotal); got != 1 {
		t.Fatalf("records metric = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.DuplicatesTotal); got != 2 {
		t.Fatalf("duplicates metric = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("search")); got != 2 {
		t.Fatalf("search requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("detail")); got != 2 {
		t.Fatalf("detail requests = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("not_found")); got != 1 {
		t.Fatalf("not_found errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.KeywordsTotal.WithLabelValues(StateDone)); got != 2 {
		t.Fatalf("done keywords = %v, want 2", got)
	}
}
