package repscan_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/repscan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchError_Transient(t *testing.T) {
	t.Parallel()

	t.Run("proxy blocking statuses are transient", func(t *testing.T) {
		t.Parallel()

		for _, status := range []int{403, 429, 500, 502, 503} {
			err := repscan.NewStatusError("scrapingbee", "https://example.com", status)
			assert.True(t, err.Transient(), "status %d", status)
		}
	})

	t.Run("not found is not transient", func(t *testing.T) {
		t.Parallel()

		err := repscan.NewStatusError("http", "https://example.com", 404)

		assert.False(t, err.Transient())
		assert.Equal(t, "http: HTTP 404 for https://example.com", err.Error())
	})

	t.Run("browser launch failure is not transient", func(t *testing.T) {
		t.Parallel()

		err := &repscan.FetchError{Kind: repscan.FetchBrowserLaunch, Fetcher: "rod", URL: "https://example.com"}

		assert.False(t, err.Transient())
	})
}

func TestNewTransportError(t *testing.T) {
	t.Parallel()

	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		t.Parallel()

		err := repscan.NewTransportError("http", "https://example.com", fmt.Errorf("get: %w", context.DeadlineExceeded))

		assert.Equal(t, repscan.FetchTimeout, err.Kind)
		assert.True(t, err.Transient())
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("other errors are network failures", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		err := repscan.NewTransportError("http", "https://example.com", cause)

		assert.Equal(t, repscan.FetchNetwork, err.Kind)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "connection refused")
	})

	t.Run("is reachable through errors.As", func(t *testing.T) {
		t.Parallel()

		wrapped := fmt.Errorf("strategy: %w", repscan.NewTransportError("http", "u", errors.New("x")))

		var fetchErr *repscan.FetchError
		require.ErrorAs(t, wrapped, &fetchErr)
		assert.Equal(t, "http", fetchErr.Fetcher)
	})
}
