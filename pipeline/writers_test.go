package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aluiziolira/go-book-metadata/models"
)

func sampleRecord() *models.BookRecord {
	return &models.BookRecord{
		Title:           "Run, Walk, Run",
		SubTitle:        models.NotFound,
		AboutBook:       "She said \"go\",\nthen ran.",
		Author:          "Jeff Galloway",
		AboutAuthor:     models.NotFound,
		Publisher:       "Acme Press",
		PublicationDate: "March 2020",
		LengthInPages:   "256",
		ISBN:            "9781234567897",
		ImageLink:       "https://example.test/img/cover.jpg",
		BookLink:        "https://example.test/books/run-walk-run/9781234567897",
	}
}

func TestCSVWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "books.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}

	want := sampleRecord()
	if err := writer.Write([]*models.BookRecord{want}); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate csv: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(rows))
	}
	if diff := cmp.Diff(models.Columns, rows[0]); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}

	got, err := models.BookRecordFromRow(rows[1])
	if err != nil {
		t.Fatalf("decode row: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVWriterValidateHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")

	writer, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("create csv writer: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close csv: %v", err)
	}
	if err := writer.Validate(); err == nil {
		t.Fatalf("expected validation error for header-only file")
	}
}

func TestJSONWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.jsonl")

	writer, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("create json writer: %v", err)
	}

	want := sampleRecord()
	if err := writer.Write([]*models.BookRecord{want, want}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close json: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open json: %v", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	count := 0
	for scanner.Scan() {
		var decoded models.BookRecord
		if err := json.Unmarshal(scanner.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid json line: %v", err)
		}
		if diff := cmp.Diff(want, &decoded); diff != "" {
			t.Fatalf("record mismatch (-want +got):\n%s", diff)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan json: %v", err)
	}
	if count != 2 {
		t.Fatalf("json lines=%d, want 2", count)
	}
}

func TestDualWriterWrite(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "books.csv")
	jsonPath := JSONSibling(csvPath)

	writer, err := NewDualWriter(csvPath, jsonPath)
	if err != nil {
		t.Fatalf("create dual writer: %v", err)
	}
	if err := writer.Write([]*models.BookRecord{sampleRecord()}); err != nil {
		t.Fatalf("write dual: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close dual: %v", err)
	}
	if err := writer.Validate(); err != nil {
		t.Fatalf("validate dual: %v", err)
	}
	if jsonPath != filepath.Join(dir, "books.jsonl") {
		t.Fatalf("json path = %s", jsonPath)
	}
}

func TestNewWriterFactory(t *testing.T) {
	dir := t.TempDir()

	if _, err := NewWriterFactory("xml", filepath.Join(dir, "x")); err == nil {
		t.Fatalf("expected error for unknown format")
	}

	for _, format := range []string{FormatCSV, FormatJSON, FormatDual} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(dir, format, "books.csv")
			open, err := NewWriterFactory(format, path)
			if err != nil {
				t.Fatalf("factory: %v", err)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("factory must not create the output eagerly")
			}

			p := NewPipeline(open, 8)
			if err := p.Process([]*models.BookRecord{sampleRecord()}); err != nil {
				t.Fatalf("process: %v", err)
			}
			if err := p.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Fatalf("output missing: %v", err)
			}
		})
	}
}
