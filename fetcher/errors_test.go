package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestErrorLabel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: "unknown"},
		{name: "render timeout", err: RenderTimeout{URL: "u", Marker: "h1", Err: context.DeadlineExceeded}, expected: "render_timeout"},
		{name: "context timeout", err: HTTPFailure{URL: "u", Err: context.DeadlineExceeded}, expected: "timeout"},
		{name: "net timeout", err: HTTPFailure{URL: "u", Err: &net.DNSError{IsTimeout: true}}, expected: "timeout"},
		{name: "connection", err: HTTPFailure{URL: "u", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}}, expected: "connection"},
		{name: "forbidden", err: HTTPFailure{URL: "u", StatusCode: http.StatusForbidden}, expected: "forbidden"},
		{name: "not found", err: HTTPFailure{URL: "u", StatusCode: http.StatusNotFound}, expected: "not_found"},
		{name: "rate limited", err: HTTPFailure{URL: "u", StatusCode: http.StatusTooManyRequests}, expected: "rate_limited"},
		{name: "server error", err: HTTPFailure{URL: "u", StatusCode: http.StatusBadGateway, Err: errors.New("Bad Gateway")}, expected: "http_failure"},
		{name: "wrapped", err: fmt.Errorf("keyword running: %w", HTTPFailure{URL: "u", StatusCode: http.StatusNotFound}), expected: "not_found"},
		{name: "other", err: errors.New("some other error"), expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorLabel(tt.err); got != tt.expected {
				t.Fatalf("ErrorLabel(%v) = %q, want %q", tt.err, got, tt.expected)
			}
		})
	}
}

func TestScreenshotName(t *testing.T) {
	at := time.Date(2025, 11, 4, 13, 9, 13, 0, time.UTC)
	tests := []struct {
		keyword string
		want    string
	}{
		{keyword: "nutrition for athletes", want: "search-nutrition-for-athletes-20251104T130913.png"},
		{keyword: "  Running/Trail  ", want: "search-running-trail-20251104T130913.png"},
		{keyword: "???", want: "search-keyword-20251104T130913.png"},
	}

	for _, tt := range tests {
		if got := screenshotName(tt.keyword, at); got != tt.want {
			t.Errorf("screenshotName(%q) = %q, want %q", tt.keyword, got, tt.want)
		}
	}
}
