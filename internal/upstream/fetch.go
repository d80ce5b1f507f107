// Package upstream performs JSON requests against the external services
// (geocoding and places search) and turns failures into typed errors.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	// ErrDecode is wrapped by every error caused by a malformed upstream response.
	ErrDecode = errors.New("malformed upstream response")
	// ErrUnavailable is wrapped by errors where the upstream could not be reached
	// or refused the request without an HTTP error status.
	ErrUnavailable = errors.New("upstream unavailable")
)

// StatusError is returned when an upstream responds with a non-2xx status.
// Client and server errors are treated the same way.
type StatusError struct {
	Upstream   string // Upstream is the name of the service, e.g. "nominatim".
	StatusCode int    // StatusCode is the HTTP status received.
	Body       string // Body is the raw response body, if any.
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API returned status %d: %s", e.Upstream, e.StatusCode, e.Body)
}

// Options customizes a request. A nil *Options performs a plain GET.
type Options struct {
	Method string
	Header http.Header
	Body   string
}

// Fetcher performs JSON requests against a single named upstream.
type Fetcher struct {
	name      string
	client    HTTPClient
	userAgent string
	log       *slog.Logger
}

// NewFetcher creates a Fetcher for the upstream identified by name.
// An empty userAgent leaves the client's default User-Agent untouched.
func NewFetcher(name string, client HTTPClient, userAgent string, log *slog.Logger) *Fetcher {
	return &Fetcher{name: name, client: client, userAgent: userAgent, log: log}
}

// FetchJSON sends the request described by rawURL and opts and decodes the JSON
// response body into out.
//
// It returns a *StatusError when the response status is not successful and an
// error wrapping ErrDecode when the body is not valid JSON for out.
func (f *Fetcher) FetchJSON(ctx context.Context, rawURL string, opts *Options, out any) error {
	method := http.MethodGet
	var body io.Reader
	if opts != nil {
		if opts.Method != "" {
			method = opts.Method
		}
		if opts.Body != "" {
			body = strings.NewReader(opts.Body)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", f.name, err)
	}
	if opts != nil {
		for key, values := range opts.Header {
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "application/json")

	f.log.DebugContext(ctx, "Upstream request", "upstream", f.name, "method", method, "url", rawURL)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute %s request: %w", ErrUnavailable, f.name, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read %s response body: %w", ErrUnavailable, f.name, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		f.log.ErrorContext(ctx, "Upstream API error", "upstream", f.name, "status", resp.StatusCode, "body", string(payload))
		return &StatusError{Upstream: f.name, StatusCode: resp.StatusCode, Body: string(payload)}
	}

	f.log.DebugContext(ctx, "Upstream raw response", "upstream", f.name, "body", string(payload))

	if err = json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %w", ErrDecode, f.name, err)
	}

	return nil
}
