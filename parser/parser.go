package parser

import (
	"fmt"
	"strings"

	"github.com/aluiziolira/go-book-metadata/models"
)

// ValidateRecord ensures the extractor captured the fields every row needs.
func ValidateRecord(b *models.BookRecord) error {
	if b == nil {
		return fmt.Errorf("record is nil")
	}
	if title := strings.TrimSpace(b.Title); title == "" || title == models.NotFound {
		return fmt.Errorf("record missing title")
	}
	if link := strings.TrimSpace(b.BookLink); link == "" || link == models.NotFound {
		return fmt.Errorf("record missing book link for %s", b.Title)
	}
	return nil
}

// CollapseWhitespace trims text and folds every run of whitespace,
// line breaks included, into a single space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// SplitPublisherDate splits a "<publisher> (<date>)" value on its first
// opening parenthesis. Without one the whole value is the publisher and
// the date is NotFound.
func SplitPublisherDate(raw string) (publisher, date string) {
	raw = strings.TrimSpace(raw)
	idx := strings.Index(raw, "(")
	if idx < 0 {
		return orNotFound(raw), models.NotFound
	}

	publisher = strings.TrimSpace(raw[:idx])
	date = strings.TrimSpace(raw[idx+1:])
	date = strings.TrimSpace(strings.TrimSuffix(date, ")"))
	return orNotFound(publisher), orNotFound(date)
}

func orNotFound(value string) string {
	if value == "" {
		return models.NotFound
	}
	return value
}
