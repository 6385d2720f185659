// Package fetcher retrieves search results and book detail pages as parsed
// documents, either over plain HTTP or through a headless browser.
package fetcher

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/aluiziolira/go-book-metadata/config"
	"github.com/aluiziolira/go-book-metadata/parser"
)

// SearchQuery is one keyword search against the target site.
type SearchQuery struct {
	Keyword string
}

// Fetcher is implemented by every retrieval strategy.
type Fetcher interface {
	// Fetch retrieves and parses the page at rawURL.
	Fetch(ctx context.Context, rawURL string) (*goquery.Document, error)

	// Search runs q and returns the parsed results view.
	Search(ctx context.Context, q SearchQuery) (*goquery.Document, error)

	// Close releases any resources held by the fetcher.
	Close() error

	// Type returns the strategy identifier.
	Type() string
}

// New builds the fetcher selected by cfg.Strategy.
func New(cfg *config.Config, layout *parser.Layout) (Fetcher, error) {
	switch cfg.Strategy {
	case config.StrategyDirect:
		return NewDirectFetcher(cfg, layout)
	case config.StrategyRendered:
		return NewRenderedFetcher(cfg, layout)
	default:
		return nil, fmt.Errorf("unsupported strategy: %s", cfg.Strategy)
	}
}
