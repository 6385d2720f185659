package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Retrieval strategies.
const (
	StrategyDirect   = "direct"
	StrategyRendered = "rendered"
)

// Config holds scraper configuration.
type Config struct {
	Keywords         []string      `mapstructure:"keywords"`
	BaseURL          string        `mapstructure:"base_url"`
	Strategy         string        `mapstructure:"strategy"`
	Layout           string        `mapstructure:"layout"`
	Delay            time.Duration `mapstructure:"delay"`
	Timeout          time.Duration `mapstructure:"timeout"`
	ReadyTimeout     time.Duration `mapstructure:"ready_timeout"`
	ConsentTimeout   time.Duration `mapstructure:"consent_timeout"`
	Headless         bool          `mapstructure:"headless"`
	Stealth          bool          `mapstructure:"stealth"`
	ScreenshotDir    string        `mapstructure:"screenshot_dir"`
	DedupeMaxSize    int           `mapstructure:"dedupe_max_size"`
	BatchSize        int           `mapstructure:"batch_size"`
	OutputFile       string        `mapstructure:"output_file"`
	OutputFormat     string        `mapstructure:"output_format"` // csv, json, or dual
	UserAgent        string        `mapstructure:"user_agent"`
	MetricsAddr      string        `mapstructure:"metrics_addr"`
	Verbose          bool          `mapstructure:"verbose"`
	RespectRobotsTxt bool          `mapstructure:"respect_robots_txt"`
}

// DefaultConfig returns conservative defaults for the publisher site.
func DefaultConfig() *Config {
	return &Config{
		Keywords:         []string{"running", "endurance", "nutrition for athletes"},
		BaseURL:          "https://www.simonandschuster.ca",
		Strategy:         StrategyDirect,
		Layout:           "",
		Delay:            1500 * time.Millisecond,
		Timeout:          30 * time.Second,
		ReadyTimeout:     10 * time.Second,
		ConsentTimeout:   5 * time.Second,
		Headless:         true,
		Stealth:          false,
		ScreenshotDir:    "",
		DedupeMaxSize:    100000,
		BatchSize:        64,
		OutputFile:       "output/scraped_running_books.csv",
		OutputFormat:     "csv",
		UserAgent:        "BookScraperBot/1.0 (for educational project)",
		MetricsAddr:      "",
		Verbose:          false,
		RespectRobotsTxt: false,
	}
}

// LayoutName returns the configured page layout, falling back to the one
// that matches the retrieval strategy.
func (c *Config) LayoutName() string {
	if c.Layout != "" {
		return c.Layout
	}
	if c.Strategy == StrategyRendered {
		return "client"
	}
	return "server"
}

// Validate ensures all configuration values are coherent.
func (c *Config) Validate() error {
	if len(c.Keywords) == 0 {
		return fmt.Errorf("keywords cannot be empty")
	}
	for i, keyword := range c.Keywords {
		if strings.TrimSpace(keyword) == "" {
			return fmt.Errorf("keyword %d is blank", i)
		}
	}

	if c.BaseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("base URL must include a host")
	}

	if c.Strategy != StrategyDirect && c.Strategy != StrategyRendered {
		return fmt.Errorf("strategy must be %s or %s", StrategyDirect, StrategyRendered)
	}
	if name := c.LayoutName(); name != "server" && name != "client" {
		return fmt.Errorf("layout must be server or client")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.ReadyTimeout <= 0 {
		return fmt.Errorf("ready timeout must be positive")
	}
	if c.ConsentTimeout < 0 {
		return fmt.Errorf("consent timeout cannot be negative")
	}
	if c.DedupeMaxSize <= 0 {
		return fmt.Errorf("dedupe max size must be positive")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	if c.OutputFormat != "csv" && c.OutputFormat != "json" && c.OutputFormat != "dual" {
		return fmt.Errorf("output format must be csv, json, or dual")
	}
	if c.UserAgent == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	return nil
}
