//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/repscan"
	"github.com/fwojciec/repscan/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	// Serve a page that uses JavaScript to add content
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
<div id="content">Loading...</div>
<script>
document.getElementById('content').textContent = 'JavaScript Rendered';
</script>
</body>
</html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher()
	defer fetcher.Close()

	doc, err := fetcher.Fetch(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.True(t, doc.Rendered)
	assert.Equal(t, rod.Name, doc.Fetcher)
	assert.Contains(t, doc.HTML, "JavaScript Rendered")
	assert.NotContains(t, doc.HTML, "Loading...")
}

func TestFetcher_Fetch_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(3 * time.Second)
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher(rod.WithFetchTimeout(2 * time.Second))
	defer fetcher.Close()

	_, err := fetcher.Fetch(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFetcher_Fetch_SequentialCallsDoNotShareState(t *testing.T) {
	t.Parallel()

	// The first response sets localStorage; a reused browser profile would
	// expose it to the second fetch.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div id="out"></div><script>
var seen = localStorage.getItem('visited');
document.getElementById('out').textContent = seen ? 'returning' : 'first';
localStorage.setItem('visited', '1');
</script></body></html>`))
	}))
	defer srv.Close()

	fetcher := rod.NewFetcher()
	defer fetcher.Close()

	for i := 0; i < 2; i++ {
		doc, err := fetcher.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Contains(t, doc.HTML, "first")
		assert.NotContains(t, doc.HTML, "returning")
	}
}

func TestFetcher_Fetch_UnreachableHost(t *testing.T) {
	t.Parallel()

	fetcher := rod.NewFetcher(rod.WithFetchTimeout(10 * time.Second))
	defer fetcher.Close()

	_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/")

	var fetchErr *repscan.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.NotEqual(t, repscan.FetchBrowserLaunch, fetchErr.Kind)
}
