// Package pipeline validates collected book records and serializes them.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aluiziolira/go-book-metadata/models"
	"github.com/aluiziolira/go-book-metadata/parser"
)

var (
	// ErrPipelineClosed is returned when Process is called after Close.
	ErrPipelineClosed = errors.New("pipeline: closed")
	// ErrNoData is returned by Close when no record was accepted. No output
	// is created in that case.
	ErrNoData = errors.New("pipeline: no data to save")
)

// OutputWriter defines the interface for data output.
type OutputWriter interface {
	Write(records []*models.BookRecord) error
	Close() error
	Validate() error
}

// WriterFactory opens the output. It is only called once there is at
// least one record to write.
type WriterFactory func() (OutputWriter, error)

// Pipeline collects records in arrival order, drops invalid and repeated
// ones, and writes the rest in batches on Close.
type Pipeline struct {
	open      WriterFactory
	batchSize int

	mu      sync.Mutex
	records []*models.BookRecord
	seen    map[string]struct{}
	closed  bool
	written int

	metrics metrics
}

// NewPipeline builds a pipeline writing batches of batchSize records.
func NewPipeline(open WriterFactory, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = 64
	}
	return &Pipeline{
		open:      open,
		batchSize: batchSize,
		seen:      make(map[string]struct{}),
		metrics:   newMetrics(),
	}
}

// Process accepts records for output.
func (p *Pipeline) Process(records []*models.BookRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPipelineClosed
	}
	for _, record := range records {
		if record == nil {
			continue
		}
		if prepared := p.prepare(record); prepared != nil {
			p.records = append(p.records, prepared)
		}
	}
	return nil
}

// Close writes every accepted record and closes the output. With nothing
// accepted it returns ErrNoData without opening the output.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if len(p.records) == 0 {
		return ErrNoData
	}

	writer, err := p.open()
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}

	for start := 0; start < len(p.records); start += p.batchSize {
		end := min(start+p.batchSize, len(p.records))
		if err := writer.Write(p.records[start:end]); err != nil {
			writer.Close()
			return fmt.Errorf("write batch: %w", err)
		}
		p.written = end
		slog.Debug("batch written", slog.Int("written", end), slog.Int("total", len(p.records)))
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return fmt.Errorf("validate output: %w", err)
	}
	return nil
}

// Written returns how many records reached the output.
func (p *Pipeline) Written() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.written
}

// GetMetrics returns a snapshot of the internal counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

func (p *Pipeline) prepare(record *models.BookRecord) *models.BookRecord {
	if err := parser.ValidateRecord(record); err != nil {
		p.metrics.addValidation("invalid_record")
		slog.Debug("dropping invalid record", slog.Any("error", err))
		return nil
	}

	if _, ok := p.seen[record.BookLink]; ok {
		p.metrics.addValidation("duplicate_url")
		return nil
	}
	p.seen[record.BookLink] = struct{}{}

	p.metrics.incrementProcessed()
	return record
}

type metrics struct {
	mu         sync.Mutex
	processed  int64
	validation map[string]int
}

func newMetrics() metrics {
	return metrics{
		validation: make(map[string]int),
	}
}

func (m *metrics) incrementProcessed() {
	m.mu.Lock()
	m.processed++
	m.mu.Unlock()
}

func (m *metrics) addValidation(kind string) {
	m.mu.Lock()
	m.validation[kind]++
	m.mu.Unlock()
}

func (m *metrics) snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	copyValidation := make(map[string]int, len(m.validation))
	for k, v := range m.validation {
		copyValidation[k] = v
	}

	return map[string]interface{}{
		"processed_records": m.processed,
		"validation_errors": copyValidation,
	}
}
