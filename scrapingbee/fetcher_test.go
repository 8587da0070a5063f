package scrapingbee_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/fwojciec/repscan"
	"github.com/fwojciec/repscan/scrapingbee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repscan.Fetcher = (*scrapingbee.Fetcher)(nil)

func TestFetcher_RequestURL(t *testing.T) {
	t.Parallel()

	t.Run("passes rendering and proxy options", func(t *testing.T) {
		t.Parallel()

		f := scrapingbee.NewFetcher("secret")

		raw, err := f.RequestURL("https://example.com/news?id=1")
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "app.scrapingbee.com", u.Host)
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "https://example.com/news?id=1", q.Get("url"))
		assert.Equal(t, "true", q.Get("render_js"))
		assert.Equal(t, "3000", q.Get("wait"))
		assert.Equal(t, "br", q.Get("country_code"))
		assert.Equal(t, "true", q.Get("premium_proxy"))
	})

	t.Run("omits wait without rendering", func(t *testing.T) {
		t.Parallel()

		f := scrapingbee.NewFetcher("secret",
			scrapingbee.WithRenderJS(false),
			scrapingbee.WithPremiumProxy(false),
			scrapingbee.WithCountry("us"),
		)

		raw, err := f.RequestURL("https://example.com")
		require.NoError(t, err)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, "false", q.Get("render_js"))
		assert.Empty(t, q.Get("wait"))
		assert.Equal(t, "us", q.Get("country_code"))
		assert.Equal(t, "false", q.Get("premium_proxy"))
	})
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns rendered HTML", func(t *testing.T) {
		t.Parallel()

		var gotTarget string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotTarget = r.URL.Query().Get("url")
			_, _ = w.Write([]byte("<html><body><article>rendered</article></body></html>"))
		}))
		defer server.Close()

		f := scrapingbee.NewFetcher("key", scrapingbee.WithEndpoint(server.URL))

		doc, err := f.Fetch(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/a", gotTarget)
		assert.Contains(t, doc.HTML, "rendered")
		assert.Equal(t, scrapingbee.Name, doc.Fetcher)
		assert.True(t, doc.Rendered)
	})

	t.Run("marks blocking statuses transient", func(t *testing.T) {
		t.Parallel()

		for _, status := range []int{http.StatusForbidden, http.StatusTooManyRequests, http.StatusBadGateway} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))

			f := scrapingbee.NewFetcher("key", scrapingbee.WithEndpoint(server.URL))
			_, err := f.Fetch(context.Background(), "https://example.com")
			server.Close()

			var fetchErr *repscan.FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, repscan.FetchHTTPStatus, fetchErr.Kind)
			assert.Equal(t, status, fetchErr.StatusCode)
			assert.True(t, fetchErr.Transient(), "status %d", status)
		}
	})

	t.Run("does not retry internally", func(t *testing.T) {
		t.Parallel()

		calls := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		f := scrapingbee.NewFetcher("key", scrapingbee.WithEndpoint(server.URL))
		_, err := f.Fetch(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("reports timeout without leaking the key", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		f := scrapingbee.NewFetcher("very-secret",
			scrapingbee.WithEndpoint(server.URL),
			scrapingbee.WithTimeout(20*time.Millisecond),
		)

		_, err := f.Fetch(context.Background(), "https://example.com")

		var fetchErr *repscan.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, repscan.FetchTimeout, fetchErr.Kind)
		assert.NotContains(t, err.Error(), "very-secret")
	})

	t.Run("fails without API key", func(t *testing.T) {
		t.Parallel()

		f := scrapingbee.NewFetcher("")

		_, err := f.Fetch(context.Background(), "https://example.com")

		var fetchErr *repscan.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, repscan.EINVALID, repscan.ErrorCode(err))
	})
}

func TestFetcher_Fetch_DecodesCharset(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=ISO-8859-1")
		_, _ = w.Write([]byte("<html><body><article>Den\xfancia contra o Banco Master</article></body></html>"))
	}))
	defer server.Close()

	f := scrapingbee.NewFetcher("key", scrapingbee.WithEndpoint(server.URL))

	doc, err := f.Fetch(context.Background(), "https://example.com/a")

	require.NoError(t, err)
	assert.Contains(t, doc.HTML, "Denúncia contra o Banco Master")
}
