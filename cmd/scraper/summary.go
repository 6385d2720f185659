package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/aluiziolira/go-book-metadata/models"
)

func printSummary(w io.Writer, result *models.RunResult, metrics map[string]interface{}, outputs []string) {
	duration := result.EndTime.Sub(result.StartTime)
	written := int64(0)
	if processed, ok := metrics["processed_records"].(int64); ok {
		written = processed
	}
	recordsPerSec := 0.0
	if duration.Seconds() > 0 {
		recordsPerSec = float64(written) / duration.Seconds()
	}

	keywords := table.NewWriter()
	keywords.SetOutputMirror(w)
	keywords.SetTitle("Keywords")
	keywords.AppendHeader(table.Row{"Keyword", "Outcome", "Candidates", "Duplicates", "Extracted", "Failed"})
	for _, k := range result.Keywords {
		keywords.AppendRow(table.Row{k.Keyword, k.State, k.Candidates, k.Duplicates, k.Extracted, k.Failed})
	}
	keywords.SetStyle(table.StyleRounded)
	keywords.Render()

	successRate := 0.0
	if result.RequestCount > 0 {
		successRate = float64(result.RequestCount-result.ErrorCount) / float64(result.RequestCount) * 100
	}

	run := table.NewWriter()
	run.SetOutputMirror(w)
	run.SetTitle("Run " + result.RunID)
	run.AppendRows([]table.Row{
		{"Records written", written},
		{"Requests", result.RequestCount},
		{"Success rate", fmt.Sprintf("%.2f%%", successRate)},
		{"Errors", result.ErrorCount},
		{"Duplicates skipped", result.DuplicateCount},
		{"Keywords failed", result.KeywordsFailed},
		{"Failed URLs", len(result.FailedURLs)},
	})
	if len(result.ErrorsByType) > 0 {
		run.AppendRow(table.Row{"Error types", formatCounts(result.ErrorsByType)})
	}
	if validation, ok := metrics["validation_errors"].(map[string]int); ok && len(validation) > 0 {
		run.AppendRow(table.Row{"Validation", formatCounts(validation)})
	}
	run.AppendRow(table.Row{"Duration", duration.Round(time.Millisecond)})
	run.AppendRow(table.Row{"Records/sec", fmt.Sprintf("%.2f", recordsPerSec)})
	if len(outputs) == 0 {
		run.AppendRow(table.Row{"Output", "none (no data to save)"})
	} else {
		run.AppendRow(table.Row{"Output", strings.Join(outputs, ", ")})
	}
	run.SetStyle(table.StyleRounded)
	run.Render()
}

func formatCounts(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
