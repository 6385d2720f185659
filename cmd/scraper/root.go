package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aluiziolira/go-book-metadata/config"
	"github.com/aluiziolira/go-book-metadata/fetcher"
	"github.com/aluiziolira/go-book-metadata/parser"
	"github.com/aluiziolira/go-book-metadata/pipeline"
	"github.com/aluiziolira/go-book-metadata/scraper"
)

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "scraper",
		Short: "Collect book metadata from a publisher catalog by keyword",
		Long: `Search the publisher catalog for each keyword, visit every book found
and write one row per unique book with its title, subtitle, description,
author, publisher, publication date, page count, ISBN, cover image and link.

Settings come from defaults, then ./scraper.yaml (or --config), then
SCRAPER_* environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	defaults := config.DefaultConfig()
	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "Config file path (default ./scraper.{yaml,json,toml})")
	flags.StringSlice("keywords", defaults.Keywords, "Search keywords, in crawl order")
	flags.String("base-url", defaults.BaseURL, "Publisher site root")
	flags.String("strategy", defaults.Strategy, "Retrieval strategy: direct or rendered")
	flags.String("layout", defaults.Layout, "Page layout: server or client (default follows strategy)")
	flags.Duration("delay", defaults.Delay, "Pause between consecutive requests")
	flags.Duration("timeout", defaults.Timeout, "Per-request timeout")
	flags.Duration("ready-timeout", defaults.ReadyTimeout, "Wait for rendered content before giving up")
	flags.Duration("consent-timeout", defaults.ConsentTimeout, "Wait for the cookie consent prompt")
	flags.Bool("headless", defaults.Headless, "Run the browser without a window")
	flags.Bool("stealth", defaults.Stealth, "Mask browser automation fingerprints")
	flags.String("screenshot-dir", defaults.ScreenshotDir, "Save a screenshot here when a search fails to render")
	flags.Int("dedupe-max-size", defaults.DedupeMaxSize, "Maximum URLs remembered for de-duplication")
	flags.Int("batch-size", defaults.BatchSize, "Records per output write")
	flags.StringP("output", "o", defaults.OutputFile, "Output file path")
	flags.String("format", defaults.OutputFormat, "Output format: csv, json, or dual")
	flags.String("user-agent", defaults.UserAgent, "User-Agent header for every request")
	flags.String("metrics-addr", defaults.MetricsAddr, "Prometheus metrics listen address (e.g. :9090)")
	flags.BoolP("verbose", "v", defaults.Verbose, "Enable debug logging")
	flags.Bool("respect-robots", defaults.RespectRobotsTxt, "Respect robots.txt directives")

	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	logger, level := newLogger(cfg.Verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	layout, err := parser.LayoutFor(cfg.LayoutName())
	if err != nil {
		return err
	}

	f, err := fetcher.New(cfg, layout)
	if err != nil {
		return fmt.Errorf("initialising fetcher: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("close fetcher", slog.Any("error", err))
		}
	}()

	s, err := scraper.NewScraper(cfg, f, layout)
	if err != nil {
		return fmt.Errorf("initialising scraper: %w", err)
	}
	slog.SetDefault(slog.Default().With(slog.String("run_id", s.RunID)))

	open, err := pipeline.NewWriterFactory(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return err
	}
	p := pipeline.NewPipeline(open, cfg.BatchSize)

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		metricsServer := &http.Server{
			Addr:    cfg.MetricsAddr,
			Handler: promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}),
		}
		go func() {
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server failed", slog.Any("error", err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown failed", slog.Any("error", err))
			}
		}()
		slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	}

	slog.Info("starting scrape",
		slog.String("base_url", cfg.BaseURL),
		slog.String("strategy", cfg.Strategy),
		slog.Any("keywords", cfg.Keywords),
	)

	result, err := s.Run(ctx, cfg.Keywords, p)
	if err != nil {
		if result == nil || !errors.Is(err, context.Canceled) {
			return fmt.Errorf("scraping failed: %w", err)
		}
		slog.Warn("scrape interrupted, saving collected records", slog.Int("records", len(result.Records)))
	}

	outputs := outputPaths(cfg)
	switch err := p.Close(); {
	case errors.Is(err, pipeline.ErrNoData):
		slog.Warn("no data to save")
		outputs = nil
	case err != nil:
		return fmt.Errorf("writing output: %w", err)
	default:
		slog.Info("output saved", slog.Int("records", p.Written()), slog.Any("files", outputs))
	}

	printSummary(os.Stdout, result, p.GetMetrics(), outputs)
	return nil
}

func outputPaths(cfg *config.Config) []string {
	if cfg.OutputFormat == pipeline.FormatDual {
		return []string{cfg.OutputFile, pipeline.JSONSibling(cfg.OutputFile)}
	}
	return []string{cfg.OutputFile}
}
