// Package engine retrieves raw HTML for a URL. Engines share one interface so
// the Dispatcher can race them and remember which one works for each host.
package engine

import (
	"context"
	"fmt"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "chrome-tls").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	StatusCode int
	FinalURL   string
	EngineName string
	Truncated  bool // body was cut at the engine's size limit
}

// FetchError reports why a page could not be retrieved.
type FetchError struct {
	URL        string
	Engine     string
	StatusCode int   // set when the server answered with a non-success status
	Err        error // wrapped original error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: HTTP %d for %s", e.Engine, e.StatusCode, e.URL)
	}
	return fmt.Sprintf("%s: %v", e.Engine, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
