package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-book-metadata/config"
	"github.com/aluiziolira/go-book-metadata/parser"
)

// DirectFetcher retrieves server-rendered pages with plain HTTP GETs.
type DirectFetcher struct {
	cfg       *config.Config
	layout    *parser.Layout
	baseURL   *url.URL
	collector *colly.Collector
}

// DirectOption configures the DirectFetcher.
type DirectOption func(*directOptions)

type directOptions struct {
	transport http.RoundTripper
}

// WithTransport replaces the network transport, e.g. with a mock in tests.
// Response decompression is still layered on top of it.
func WithTransport(rt http.RoundTripper) DirectOption {
	return func(o *directOptions) { o.transport = rt }
}

// NewDirectFetcher builds a synchronous collector identified by cfg.UserAgent.
func NewDirectFetcher(cfg *config.Config, layout *parser.Layout, opts ...DirectOption) (*DirectFetcher, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	options := &directOptions{}
	for _, opt := range opts {
		opt(options)
	}
	base := options.transport
	if base == nil {
		base = &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   cfg.Timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			DisableCompression:  true,
		}
	}

	collector := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(newDecompressingTransport(base))

	return &DirectFetcher{
		cfg:       cfg,
		layout:    layout,
		baseURL:   parsed,
		collector: collector,
	}, nil
}

// SearchURL returns the results URL for q.
func (f *DirectFetcher) SearchURL(q SearchQuery) string {
	path := fmt.Sprintf(f.layout.SearchPath, url.PathEscape(strings.TrimSpace(q.Keyword)))
	return strings.TrimSuffix(f.baseURL.String(), "/") + path
}

// Search fetches the server-rendered results page for q.
func (f *DirectFetcher) Search(ctx context.Context, q SearchQuery) (*goquery.Document, error) {
	return f.Fetch(ctx, f.SearchURL(q))
}

// Fetch issues one GET for rawURL and parses the body.
func (f *DirectFetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, HTTPFailure{URL: rawURL, Err: err}
	}

	var (
		doc      *goquery.Document
		fetchErr error
	)

	c := f.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			fetchErr = fmt.Errorf("parse %s: %w", rawURL, err)
			return
		}
		parsed.Url = r.Request.URL
		doc = parsed
	})
	c.OnError(func(r *colly.Response, err error) {
		status := 0
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = HTTPFailure{URL: rawURL, StatusCode: status, Err: err}
	})

	start := time.Now()
	visitErr := c.Visit(rawURL)
	slog.Debug("direct fetch complete",
		slog.String("url", rawURL),
		slog.Duration("duration", time.Since(start)),
	)

	if fetchErr != nil {
		return nil, fetchErr
	}
	if visitErr != nil {
		return nil, HTTPFailure{URL: rawURL, Err: visitErr}
	}
	if doc == nil {
		return nil, HTTPFailure{URL: rawURL, Err: fmt.Errorf("empty response")}
	}
	return doc, nil
}

// Close implements Fetcher; the direct strategy holds no session.
func (f *DirectFetcher) Close() error {
	return nil
}

// Type returns the strategy identifier.
func (f *DirectFetcher) Type() string {
	return config.StrategyDirect
}
