package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable the scraper reads,
// e.g. SCRAPER_OUTPUT_FILE.
const EnvPrefix = "SCRAPER"

// FlagKeys maps command-line flag names to configuration keys.
var FlagKeys = map[string]string{
	"keywords":        "keywords",
	"base-url":        "base_url",
	"strategy":        "strategy",
	"layout":          "layout",
	"delay":           "delay",
	"timeout":         "timeout",
	"ready-timeout":   "ready_timeout",
	"consent-timeout": "consent_timeout",
	"headless":        "headless",
	"stealth":         "stealth",
	"screenshot-dir":  "screenshot_dir",
	"dedupe-max-size": "dedupe_max_size",
	"batch-size":      "batch_size",
	"output":          "output_file",
	"format":          "output_format",
	"user-agent":      "user_agent",
	"metrics-addr":    "metrics_addr",
	"verbose":         "verbose",
	"respect-robots":  "respect_robots_txt",
}

// Load resolves the configuration from, lowest to highest priority:
// defaults, the config file, SCRAPER_* environment variables and flags.
// An empty configPath searches ./scraper.{yaml,json,toml}; a missing file
// is only an error when configPath was given explicitly.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range FlagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %q: %w", name, err)
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("scraper")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Strategy = strings.ToLower(strings.TrimSpace(cfg.Strategy))
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("keywords", cfg.Keywords)
	v.SetDefault("base_url", cfg.BaseURL)
	v.SetDefault("strategy", cfg.Strategy)
	v.SetDefault("layout", cfg.Layout)
	v.SetDefault("delay", cfg.Delay)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("ready_timeout", cfg.ReadyTimeout)
	v.SetDefault("consent_timeout", cfg.ConsentTimeout)
	v.SetDefault("headless", cfg.Headless)
	v.SetDefault("stealth", cfg.Stealth)
	v.SetDefault("screenshot_dir", cfg.ScreenshotDir)
	v.SetDefault("dedupe_max_size", cfg.DedupeMaxSize)
	v.SetDefault("batch_size", cfg.BatchSize)
	v.SetDefault("output_file", cfg.OutputFile)
	v.SetDefault("output_format", cfg.OutputFormat)
	v.SetDefault("user_agent", cfg.UserAgent)
	v.SetDefault("metrics_addr", cfg.MetricsAddr)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("respect_robots_txt", cfg.RespectRobotsTxt)
}
