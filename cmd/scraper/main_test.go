package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-book-metadata/config"
	"github.com/aluiziolira/go-book-metadata/models"
)

func TestRootCommandRegistersConfigFlags(t *testing.T) {
	cmd := newRootCmd()
	for name := range config.FlagKeys {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("flag --%s not registered", name)
		}
	}
	if cmd.Flags().Lookup("config") == nil {
		t.Errorf("flag --config not registered")
	}
}

func TestRootCommandFlagsOverrideDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cmd := newRootCmd()
	if err := cmd.Flags().Parse([]string{"--keywords", "yoga,pilates", "--format", "JSON", "--delay", "250ms"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := config.Load("", cmd.Flags())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := strings.Join(cfg.Keywords, "|"); got != "yoga|pilates" {
		t.Fatalf("keywords = %q, want yoga|pilates", got)
	}
	if cfg.OutputFormat != "json" {
		t.Fatalf("format = %q, want json", cfg.OutputFormat)
	}
	if cfg.Delay != 250*time.Millisecond {
		t.Fatalf("delay = %v, want 250ms", cfg.Delay)
	}
}

func TestPrintSummary(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	result := &models.RunResult{
		RunID:     "run-1",
		StartTime: start,
		EndTime:   start.Add(2 * time.Second),
		Keywords: []models.KeywordReport{
			{Keyword: "running", State: "done", Candidates: 3, Extracted: 3},
			{Keyword: "endurance", State: "query_failed"},
		},
		RequestCount:   5,
		ErrorCount:     1,
		KeywordsFailed: 1,
		ErrorsByType:   map[string]int{"query_failed": 1},
	}
	metrics := map[string]interface{}{
		"processed_records": int64(3),
		"validation_errors": map[string]int{},
	}

	var buf bytes.Buffer
	printSummary(&buf, result, metrics, []string{"out.csv"})
	out := buf.String()

	for _, want := range []string{"running", "query_failed", "run-1", "out.csv", "80.00%", "1.50"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	printSummary(&buf, result, metrics, nil)
	if !strings.Contains(buf.String(), "no data to save") {
		t.Errorf("summary without output should say so:\n%s", buf.String())
	}
}

func TestFormatCounts(t *testing.T) {
	got := formatCounts(map[string]int{"timeout": 2, "not_found": 1})
	if got != "not_found=1 timeout=2" {
		t.Fatalf("formatCounts = %q", got)
	}
}
