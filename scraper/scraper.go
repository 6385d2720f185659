package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/aluiziolira/go-book-metadata/config"
	"github.com/aluiziolira/go-book-metadata/fetcher"
	"github.com/aluiziolira/go-book-metadata/models"
	"github.com/aluiziolira/go-book-metadata/parser"
	"github.com/aluiziolira/go-book-metadata/pipeline"
)

// Scraper drives keyword crawls one after another over a single fetcher
// and hands the collected records to the output pipeline.
type Scraper struct {
	RunID   string
	Metrics *Metrics

	cfg     *config.Config
	fetcher fetcher.Fetcher
	layout  *parser.Layout
	crawler *Crawler
}

// NewScraper builds a scraper using f for every retrieval and layout for
// extraction.
func NewScraper(cfg *config.Config, f fetcher.Fetcher, layout *parser.Layout) (*Scraper, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	metrics := NewMetrics()
	return &Scraper{
		RunID:   uuid.NewString(),
		Metrics: metrics,
		cfg:     cfg,
		fetcher: f,
		layout:  layout,
		crawler: NewCrawler(f, layout, base, cfg.Delay, metrics),
	}, nil
}

// Run crawls keywords in order, feeds every extracted record to p and
// returns the run summary. A failing keyword never stops the run; only a
// canceled context ends it early.
func (s *Scraper) Run(ctx context.Context, keywords []string, p *pipeline.Pipeline) (*models.RunResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	state, err := NewRunState(s.cfg.DedupeMaxSize, s.Metrics)
	if err != nil {
		return nil, err
	}

	result := &models.RunResult{
		RunID:     s.RunID,
		StartTime: time.Now(),
	}

	slog.Info("run started",
		slog.String("strategy", s.fetcher.Type()),
		slog.String("layout", s.layout.Name),
		slog.Int("keywords", len(keywords)),
	)

	for _, keyword := range keywords {
		if ctx.Err() != nil {
			slog.Warn("run interrupted, skipping remaining keywords", slog.Any("error", ctx.Err()))
			break
		}

		report := s.crawlKeyword(ctx, state, keyword)
		if report.State == StateQueryFailed {
			result.KeywordsFailed++
		}
		result.Keywords = append(result.Keywords, report)
	}

	if p != nil {
		if err := p.Process(state.Records); err != nil {
			return nil, fmt.Errorf("process records: %w", err)
		}
	}

	result.Records = state.Records
	result.EndTime = time.Now()
	result.RequestCount = state.requestCount
	result.ErrorCount = state.errorCount
	result.DuplicateCount = state.duplicateCount
	result.FailedURLs = state.snapshotFailedURLs()
	result.ErrorsByType = state.snapshotErrors()

	slog.Info("run finished",
		slog.Int("records", len(result.Records)),
		slog.Int("requests", result.RequestCount),
		slog.Int("errors", result.ErrorCount),
		slog.Int("duplicates", result.DuplicateCount),
		slog.Int("seen_evictions", state.Seen.Evictions()),
		slog.Duration("elapsed", result.EndTime.Sub(result.StartTime)),
	)
	return result, ctx.Err()
}

// crawlKeyword isolates one keyword so a panic in its crawl is recorded as
// a failed query instead of aborting the run.
func (s *Scraper) crawlKeyword(ctx context.Context, state *RunState, keyword string) (report models.KeywordReport) {
	defer func() {
		if r := recover(); r != nil {
			err := QueryFailed{Keyword: keyword, Err: fmt.Errorf("panic: %v", r)}
			state.recordError(errorTypeLabel(err), "")
			s.Metrics.IncError(errorTypeLabel(err))
			s.Metrics.IncKeyword(StateQueryFailed)
			slog.Error("keyword crawl panicked", slog.String("keyword", keyword), slog.Any("panic", r))
			report = models.KeywordReport{Keyword: keyword, State: StateQueryFailed, Err: err}
		}
	}()
	return s.crawler.Crawl(ctx, state, keyword)
}
