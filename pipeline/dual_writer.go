package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"github.com/aluiziolira/go-book-metadata/models"
)

// DualWriter writes every batch to a CSV and a JSONL file.
type DualWriter struct {
	csv  *CSVWriter
	json *JSONWriter
	mu   sync.Mutex
}

// NewDualWriter creates both output files.
func NewDualWriter(csvFilename, jsonFilename string) (*DualWriter, error) {
	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("create csv writer: %w", err)
	}

	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		csvWriter.Close()
		return nil, fmt.Errorf("create json writer: %w", err)
	}

	return &DualWriter{csv: csvWriter, json: jsonWriter}, nil
}

// Write appends records to both files.
func (dw *DualWriter) Write(records []*models.BookRecord) error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if err := dw.csv.Write(records); err != nil {
		return fmt.Errorf("csv write: %w", err)
	}
	if err := dw.json.Write(records); err != nil {
		return fmt.Errorf("json write: %w", err)
	}
	return nil
}

// Close closes both writers.
func (dw *DualWriter) Close() error {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	return errors.Join(dw.csv.Close(), dw.json.Close())
}

// Validate checks both output files.
func (dw *DualWriter) Validate() error {
	return errors.Join(dw.csv.Validate(), dw.json.Validate())
}
