package repscan

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// RawDocument is a fetched page before content selection.
type RawDocument struct {
	// URL is the address that was requested.
	URL string

	// HTML is the page markup as returned by the fetcher.
	HTML string

	// Fetcher names the fetcher that produced the document (e.g. "http").
	Fetcher string

	// Rendered reports whether JavaScript ran before HTML was captured.
	// Selectors use it to enable rendered-DOM fallbacks.
	Rendered bool
}

// Fetcher retrieves the markup for a single URL.
// Implementations must not share mutable state with other fetchers so that
// a failure in one never affects the next.
type Fetcher interface {
	// Fetch retrieves the page at url.
	// Failures are reported as *FetchError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*RawDocument, error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// FetchErrorKind classifies fetch failures.
type FetchErrorKind string

// Fetch failure kinds.
const (
	FetchTimeout       FetchErrorKind = "timeout"
	FetchHTTPStatus    FetchErrorKind = "http_status"
	FetchNetwork       FetchErrorKind = "network"
	FetchBrowserLaunch FetchErrorKind = "browser_launch"
)

// FetchError is returned by fetchers when a page cannot be retrieved.
type FetchError struct {
	Kind       FetchErrorKind
	Fetcher    string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Kind == FetchHTTPStatus:
		return fmt.Sprintf("%s: HTTP %d for %s", e.Fetcher, e.StatusCode, e.URL)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s fetching %s: %v", e.Fetcher, e.Kind, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s: %s fetching %s", e.Fetcher, e.Kind, e.URL)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Transient reports whether the failure is one a later attempt may not hit:
// timeouts, 403, 429 and 5xx responses.
func (e *FetchError) Transient() bool {
	switch e.Kind {
	case FetchTimeout:
		return true
	case FetchHTTPStatus:
		return e.StatusCode == http.StatusForbidden ||
			e.StatusCode == http.StatusTooManyRequests ||
			e.StatusCode >= 500
	}
	return false
}

// NewStatusError returns a FetchError for a non-2xx response.
func NewStatusError(fetcher, url string, status int) *FetchError {
	return &FetchError{Kind: FetchHTTPStatus, Fetcher: fetcher, URL: url, StatusCode: status}
}

// NewTransportError classifies err as a timeout or a network failure.
func NewTransportError(fetcher, url string, err error) *FetchError {
	kind := FetchNetwork
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = FetchTimeout
	}
	return &FetchError{Kind: kind, Fetcher: fetcher, URL: url, Err: err}
}
