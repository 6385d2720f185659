package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// HTTPFailure indicates a non-success status or a transport error.
type HTTPFailure struct {
	URL        string
	StatusCode int
	Err        error
}

func (e HTTPFailure) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("http_failure: %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("http_failure: %s: %v", e.URL, e.Err)
}

func (e HTTPFailure) Unwrap() error {
	return e.Err
}

// RenderTimeout indicates the readiness marker never appeared.
type RenderTimeout struct {
	URL    string
	Marker string
	Err    error
}

func (e RenderTimeout) Error() string {
	return fmt.Sprintf("render_timeout: %s (waiting for %q): %v", e.URL, e.Marker, e.Err)
}

func (e RenderTimeout) Unwrap() error {
	return e.Err
}

// ErrorLabel maps a fetch error to a stable label for logs and metrics.
func ErrorLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var render RenderTimeout
	if errors.As(err, &render) {
		return "render_timeout"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return "connection"
	}
	var failure HTTPFailure
	if errors.As(err, &failure) {
		switch failure.StatusCode {
		case http.StatusForbidden:
			return "forbidden"
		case http.StatusNotFound:
			return "not_found"
		case http.StatusTooManyRequests:
			return "rate_limited"
		}
		return "http_failure"
	}
	return "other"
}
