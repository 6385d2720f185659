package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

// decompressingTransport advertises gzip, deflate and brotli and decodes
// the response body before the collector reads it.
type decompressingTransport struct {
	base http.RoundTripper
}

func newDecompressingTransport(base http.RoundTripper) http.RoundTripper {
	return &decompressingTransport{base: base}
}

func (t *decompressingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("Accept-Encoding") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	var reader io.ReadCloser
	switch encoding {
	case "", "identity":
		return resp, nil
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		reader = &decodedBody{Reader: gz, closers: []io.Closer{gz, resp.Body}}
	case "deflate":
		fl := flate.NewReader(resp.Body)
		reader = &decodedBody{Reader: fl, closers: []io.Closer{fl, resp.Body}}
	case "br":
		reader = &decodedBody{Reader: brotli.NewReader(resp.Body), closers: []io.Closer{resp.Body}}
	default:
		return resp, nil
	}

	resp.Body = reader
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

type decodedBody struct {
	io.Reader
	closers []io.Closer
}

func (b *decodedBody) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
