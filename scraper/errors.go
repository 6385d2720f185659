package scraper

import (
	"errors"
	"fmt"

	"github.com/aluiziolira/go-book-metadata/fetcher"
	"github.com/aluiziolira/go-book-metadata/parser"
)

// ErrNoResultsFound signals a search whose results view had no book links.
// It is an outcome, not a failure.
var ErrNoResultsFound = errors.New("no results found")

// QueryFailed indicates the search results view for a keyword could not
// be retrieved.
type QueryFailed struct {
	Keyword string
	Err     error
}

func (e QueryFailed) Error() string {
	return fmt.Errorf("query_failed: %q: %w", e.Keyword, e.Err).Error()
}

func (e QueryFailed) Unwrap() error {
	return e.Err
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var missing *parser.MissingRequiredField
	if errors.As(err, &missing) {
		return "missing_required_field"
	}
	if errors.Is(err, ErrNoResultsFound) {
		return "no_results"
	}
	var query QueryFailed
	if errors.As(err, &query) {
		return "query_failed"
	}
	return fetcher.ErrorLabel(err)
}
