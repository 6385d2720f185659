package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-book-metadata/fetcher"
	"github.com/aluiziolira/go-book-metadata/models"
	"github.com/aluiziolira/go-book-metadata/parser"
)

// Keyword crawl states.
const (
	StateIdle           = "idle"
	StateQueryIssued    = "query_issued"
	StateResultsReady   = "results_ready"
	StateExtracting     = "extracting_candidate"
	StateDone           = "done"
	StateQueryFailed    = "query_failed"
	StateNoResultsFound = "no_results_found"
)

// Crawler runs one keyword search and extracts every new candidate it finds.
type Crawler struct {
	fetcher fetcher.Fetcher
	layout  *parser.Layout
	baseURL *url.URL
	delay   time.Duration
	metrics *Metrics
}

// NewCrawler builds a crawler resolving result links against baseURL and
// waiting delay between consecutive requests.
func NewCrawler(f fetcher.Fetcher, layout *parser.Layout, baseURL *url.URL, delay time.Duration, metrics *Metrics) *Crawler {
	return &Crawler{
		fetcher: f,
		layout:  layout,
		baseURL: baseURL,
		delay:   delay,
		metrics: metrics,
	}
}

// Crawl searches keyword, dispatches each candidate not yet in state.Seen
// and appends the extracted records to state.Records. Failures are logged
// and skipped; the returned report carries the final state.
func (c *Crawler) Crawl(ctx context.Context, state *RunState, keyword string) models.KeywordReport {
	report := models.KeywordReport{Keyword: keyword, State: StateIdle}
	c.transition(&report, StateQueryIssued)

	slog.Info("fetching search results", slog.String("keyword", keyword))
	doc, err := c.retrieve(ctx, state, "search", func() (*goquery.Document, error) {
		return c.fetcher.Search(ctx, fetcher.SearchQuery{Keyword: keyword})
	})
	if err != nil {
		failure := QueryFailed{Keyword: keyword, Err: err}
		c.fail(state, failure, "")
		slog.Error("failed to retrieve search results",
			slog.String("keyword", keyword),
			slog.String("category", fetcher.ErrorLabel(err)),
			slog.Any("error", err),
		)
		report.Err = failure
		c.finish(&report, StateQueryFailed)
		return report
	}
	c.transition(&report, StateResultsReady)

	candidates := Candidates(doc, c.baseURL, c.layout)
	report.Candidates = len(candidates)
	if len(candidates) == 0 {
		slog.Warn("could not find any book links", slog.String("keyword", keyword))
		report.Err = ErrNoResultsFound
		c.finish(&report, StateNoResultsFound)
		return report
	}

	for _, bookURL := range candidates {
		if ctx.Err() != nil {
			slog.Info("crawl interrupted", slog.String("keyword", keyword), slog.Any("error", ctx.Err()))
			break
		}
		if !state.Seen.Add(bookURL) {
			report.Duplicates++
			state.duplicateCount++
			c.metrics.IncDuplicates()
			slog.Debug("skipping already dispatched url", slog.String("url", bookURL))
			continue
		}
		c.transition(&report, StateExtracting)

		record, err := c.extract(ctx, state, bookURL)
		if err != nil {
			report.Failed++
			c.fail(state, err, bookURL)
			slog.Error("skipping book",
				slog.String("keyword", keyword),
				slog.String("url", bookURL),
				slog.String("category", errorTypeLabel(err)),
				slog.Any("error", err),
			)
			continue
		}

		state.Records = append(state.Records, record)
		report.Extracted++
		c.metrics.IncRecords()
	}

	c.finish(&report, StateDone)
	return report
}

func (c *Crawler) extract(ctx context.Context, state *RunState, bookURL string) (*models.BookRecord, error) {
	slog.Info("scraping book", slog.String("url", bookURL))
	doc, err := c.retrieve(ctx, state, "detail", func() (*goquery.Document, error) {
		return c.fetcher.Fetch(ctx, bookURL)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	return parser.Extract(doc, bookURL, c.layout)
}

// retrieve paces, times and counts one page retrieval.
func (c *Crawler) retrieve(ctx context.Context, state *RunState, phase string, fn func() (*goquery.Document, error)) (*goquery.Document, error) {
	if err := c.pace(ctx, state); err != nil {
		return nil, err
	}

	state.requestCount++
	c.metrics.IncRequest(phase)
	start := time.Now()
	doc, err := fn()
	c.metrics.ObserveDuration(time.Since(start))
	state.lastRequest = time.Now()
	return doc, err
}

// pace blocks until delay has elapsed since the previous request of the run.
func (c *Crawler) pace(ctx context.Context, state *RunState) error {
	if c.delay <= 0 || state.lastRequest.IsZero() {
		return nil
	}
	wait := c.delay - time.Since(state.lastRequest)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Crawler) fail(state *RunState, err error, failedURL string) {
	category := errorTypeLabel(err)
	state.recordError(category, failedURL)
	c.metrics.IncError(category)
}

func (c *Crawler) transition(report *models.KeywordReport, next string) {
	if report.State == next {
		return
	}
	slog.Debug("keyword state",
		slog.String("keyword", report.Keyword),
		slog.String("from", report.State),
		slog.String("to", next),
	)
	report.State = next
}

// finish records the outcome state and logs the keyword summary.
func (c *Crawler) finish(report *models.KeywordReport, outcome string) {
	c.transition(report, outcome)
	c.metrics.IncKeyword(outcome)
	slog.Info("keyword complete",
		slog.String("keyword", report.Keyword),
		slog.String("outcome", outcome),
		slog.Int("candidates", report.Candidates),
		slog.Int("duplicates", report.Duplicates),
		slog.Int("extracted", report.Extracted),
		slog.Int("failed", report.Failed),
	)
}
