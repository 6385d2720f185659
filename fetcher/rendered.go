package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/aluiziolira/go-book-metadata/config"
	"github.com/aluiziolira/go-book-metadata/parser"
)

// RenderedFetcher drives one headless browser page for the whole run.
// It is not safe for concurrent use.
type RenderedFetcher struct {
	cfg      *config.Config
	layout   *parser.Layout
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page

	consentHandled bool
}

// NewRenderedFetcher launches Chromium and opens the session page. The
// caller must Close it on every exit path.
func NewRenderedFetcher(cfg *config.Config, layout *parser.Layout) (*RenderedFetcher, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("no-sandbox").
		Set("disable-blink-features", "AutomationControlled")

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	var page *rod.Page
	if cfg.Stealth {
		page, err = stealth.Page(browser)
	} else {
		page, err = browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	}
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("open page: %w", err)
	}

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: cfg.UserAgent}); err != nil {
		slog.Warn("failed to set user agent", slog.Any("error", err))
	}

	slog.Info("browser session ready",
		slog.Bool("headless", cfg.Headless),
		slog.Bool("stealth", cfg.Stealth),
	)

	return &RenderedFetcher{
		cfg:      cfg,
		layout:   layout,
		launcher: l,
		browser:  browser,
		page:     page,
	}, nil
}

// Fetch navigates to rawURL and snapshots the page once the detail
// readiness marker is present.
func (f *RenderedFetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	page := f.page.Context(ctx)
	if err := page.Timeout(f.cfg.Timeout).Navigate(rawURL); err != nil {
		return nil, HTTPFailure{URL: rawURL, Err: err}
	}
	if err := f.waitFor(page, rawURL, f.layout.DetailMarker); err != nil {
		return nil, err
	}
	return f.snapshot(page, rawURL)
}

// Search opens the storefront, types the keyword into the search box and
// submits it, then snapshots the results once they have loaded.
func (f *RenderedFetcher) Search(ctx context.Context, q SearchQuery) (*goquery.Document, error) {
	page := f.page.Context(ctx)
	start := f.cfg.BaseURL
	if err := page.Timeout(f.cfg.Timeout).Navigate(start); err != nil {
		return nil, HTTPFailure{URL: start, Err: err}
	}
	if err := page.Timeout(f.cfg.Timeout).WaitLoad(); err != nil {
		slog.Warn("page load wait failed, continuing", slog.String("url", start), slog.Any("error", err))
	}

	f.dismissConsent(page)

	box, err := page.Timeout(f.cfg.ReadyTimeout).Element(f.layout.SearchInput)
	if err != nil {
		return nil, RenderTimeout{URL: start, Marker: f.layout.SearchInput, Err: err}
	}
	box = box.Timeout(f.cfg.Timeout)
	if err := box.SelectAllText(); err != nil {
		slog.Debug("select search text failed", slog.Any("error", err))
	}
	if err := box.Input(strings.TrimSpace(q.Keyword)); err != nil {
		return nil, fmt.Errorf("type keyword %q: %w", q.Keyword, err)
	}
	if err := box.Type(input.Enter); err != nil {
		return nil, fmt.Errorf("submit keyword %q: %w", q.Keyword, err)
	}

	if err := f.waitFor(page, start, f.layout.ResultsMarker); err != nil {
		f.screenshot(page, q.Keyword)
		return nil, err
	}
	return f.snapshot(page, start)
}

// Close releases the page, the browser and its launcher on every path.
func (f *RenderedFetcher) Close() error {
	var first error
	if f.page != nil {
		if err := f.page.Close(); err != nil {
			first = err
		}
	}
	if f.browser != nil {
		if err := f.browser.Close(); err != nil && first == nil {
			first = err
		}
	}
	if f.launcher != nil {
		f.launcher.Cleanup()
	}
	return first
}

// Type returns the strategy identifier.
func (f *RenderedFetcher) Type() string {
	return config.StrategyRendered
}

func (f *RenderedFetcher) waitFor(page *rod.Page, rawURL, marker string) error {
	if marker == "" {
		if err := page.Timeout(f.cfg.ReadyTimeout).WaitLoad(); err != nil {
			return RenderTimeout{URL: rawURL, Marker: "load", Err: err}
		}
		return nil
	}
	if _, err := page.Timeout(f.cfg.ReadyTimeout).Element(marker); err != nil {
		return RenderTimeout{URL: rawURL, Marker: marker, Err: err}
	}
	return nil
}

// dismissConsent accepts the cookie banner on the first navigation. A
// missing banner is not an error.
func (f *RenderedFetcher) dismissConsent(page *rod.Page) {
	if f.consentHandled || f.layout.ConsentButton == "" || f.cfg.ConsentTimeout <= 0 {
		return
	}
	f.consentHandled = true

	button, err := page.Timeout(f.cfg.ConsentTimeout).Element(f.layout.ConsentButton)
	if err != nil {
		slog.Info("no consent banner found, continuing", slog.String("selector", f.layout.ConsentButton))
		return
	}
	if err := button.Timeout(f.cfg.ConsentTimeout).Click(proto.InputMouseButtonLeft, 1); err != nil {
		slog.Warn("failed to dismiss consent banner", slog.Any("error", err))
		return
	}
	slog.Info("consent banner dismissed")
}

func (f *RenderedFetcher) snapshot(page *rod.Page, rawURL string) (*goquery.Document, error) {
	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", rawURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	finalURL := rawURL
	if info, err := page.Info(); err == nil && info != nil && info.URL != "" {
		finalURL = info.URL
	}
	if u, err := url.Parse(finalURL); err == nil {
		doc.Url = u
	}
	return doc, nil
}

func (f *RenderedFetcher) screenshot(page *rod.Page, keyword string) {
	if f.cfg.ScreenshotDir == "" {
		return
	}
	data, err := page.Screenshot(true, nil)
	if err != nil {
		slog.Warn("screenshot failed", slog.String("keyword", keyword), slog.Any("error", err))
		return
	}
	if err := os.MkdirAll(f.cfg.ScreenshotDir, 0o755); err != nil {
		slog.Warn("create screenshot directory", slog.Any("error", err))
		return
	}
	path := filepath.Join(f.cfg.ScreenshotDir, screenshotName(keyword, time.Now()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Warn("write screenshot", slog.String("path", path), slog.Any("error", err))
		return
	}
	slog.Info("saved screenshot of failed search", slog.String("keyword", keyword), slog.String("path", path))
}

var unsafeFileChars = regexp.MustCompile(`[^a-z0-9]+`)

func screenshotName(keyword string, at time.Time) string {
	slug := strings.Trim(unsafeFileChars.ReplaceAllString(strings.ToLower(keyword), "-"), "-")
	if slug == "" {
		slug = "keyword"
	}
	return fmt.Sprintf("search-%s-%s.png", slug, at.UTC().Format("20060102T150405"))
}
