package pipeline

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aluiziolira/go-book-metadata/models"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatDual = "dual"
)

// NewWriterFactory returns a factory opening the writer for format at
// path. Dual output writes the CSV at path and JSONL next to it.
func NewWriterFactory(format, path string) (WriterFactory, error) {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		return func() (OutputWriter, error) { return NewCSVWriter(path) }, nil
	case FormatJSON:
		return func() (OutputWriter, error) { return NewJSONWriter(path) }, nil
	case FormatDual:
		return func() (OutputWriter, error) { return NewDualWriter(path, JSONSibling(path)) }, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// JSONSibling swaps the extension of path for .jsonl.
func JSONSibling(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl"
}

// CSVWriter writes records to CSV under a header row of models.Columns.
type CSVWriter struct {
	file       *os.File
	writer     *csv.Writer
	headerSize int64
	mu         sync.Mutex
}

// NewCSVWriter creates filename and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	f, err := createFile(filename)
	if err != nil {
		return nil, err
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(models.Columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat csv file: %w", err)
	}

	return &CSVWriter{
		file:       f,
		writer:     writer,
		headerSize: info.Size(),
	}, nil
}

// Write appends one row per record. Values holding commas, quotes or line
// breaks are quoted.
func (cw *CSVWriter) Write(records []*models.BookRecord) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, record := range records {
		if err := cw.writer.Write(record.Row()); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures at least one row follows the header.
func (cw *CSVWriter) Validate() error {
	info, err := os.Stat(cw.file.Name())
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= cw.headerSize {
		return fmt.Errorf("csv file %s has no rows", cw.file.Name())
	}
	return nil
}

// JSONWriter writes newline-delimited JSON records.
type JSONWriter struct {
	file    *os.File
	buf     *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates filename for JSONL output.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	f, err := createFile(filename)
	if err != nil {
		return nil, err
	}

	buf := bufio.NewWriter(f)
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	return &JSONWriter{
		file:    f,
		buf:     buf,
		encoder: encoder,
	}, nil
}

// Write appends one JSON object per record.
func (jw *JSONWriter) Write(records []*models.BookRecord) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, record := range records {
		if err := jw.encoder.Encode(record); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
	}
	if err := jw.buf.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Close flushes buffers and closes the underlying file.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.buf.Flush(); err != nil {
		jw.file.Close()
		return fmt.Errorf("flush json writer: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the JSON file has data.
func (jw *JSONWriter) Validate() error {
	info, err := os.Stat(jw.file.Name())
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file %s is empty", jw.file.Name())
	}
	return nil
}

func createFile(filename string) (*os.File, error) {
	if dir := filepath.Dir(filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", filename, err)
	}
	return f, nil
}
