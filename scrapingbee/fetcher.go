// Package scrapingbee implements repscan.Fetcher on top of the ScrapingBee
// rendering proxy, which fetches pages through residential proxies with
// JavaScript rendering.
package scrapingbee

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/repscan"
	rshttp "github.com/fwojciec/repscan/http"
)

// Name identifies documents produced by this fetcher.
const Name = "scrapingbee"

// DefaultEndpoint is the ScrapingBee HTML API.
const DefaultEndpoint = "https://app.scrapingbee.com/api/v1/"

// DefaultFetchTimeout covers the proxy's own rendering wait.
const DefaultFetchTimeout = 30 * time.Second

// DefaultWait is how long the proxy lets JavaScript run before capturing.
const DefaultWait = 3 * time.Second

// DefaultCountry is the proxy exit country.
const DefaultCountry = "br"

// Ensure Fetcher implements repscan.Fetcher at compile time.
var _ repscan.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages through the ScrapingBee API.
// Error responses are reported as-is and never retried here; 403, 429 and
// 5xx are marked transient on the returned repscan.FetchError.
type Fetcher struct {
	client   *http.Client
	apiKey   string
	endpoint string
	timeout  time.Duration
	wait     time.Duration
	country  string
	renderJS bool
	premium  bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for proxy requests.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithEndpoint overrides the API endpoint.
func WithEndpoint(endpoint string) Option {
	return func(f *Fetcher) {
		f.endpoint = endpoint
	}
}

// WithWait sets how long the proxy waits for rendering.
func WithWait(d time.Duration) Option {
	return func(f *Fetcher) {
		f.wait = d
	}
}

// WithCountry sets the proxy country code (e.g. "br", "us").
func WithCountry(code string) Option {
	return func(f *Fetcher) {
		f.country = code
	}
}

// WithRenderJS toggles JavaScript rendering. Enabled by default.
func WithRenderJS(enabled bool) Option {
	return func(f *Fetcher) {
		f.renderJS = enabled
	}
}

// WithPremiumProxy toggles premium (residential) proxies. Enabled by default.
func WithPremiumProxy(enabled bool) Option {
	return func(f *Fetcher) {
		f.premium = enabled
	}
}

// NewFetcher creates a new Fetcher authenticating with apiKey.
func NewFetcher(apiKey string, opts ...Option) *Fetcher {
	f := &Fetcher{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		timeout:  DefaultFetchTimeout,
		wait:     DefaultWait,
		country:  DefaultCountry,
		renderJS: true,
		premium:  true,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// RequestURL builds the API URL for fetching target.
func (f *Fetcher) RequestURL(target string) (string, error) {
	u, err := url.Parse(f.endpoint)
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("api_key", f.apiKey)
	q.Set("url", target)
	q.Set("render_js", strconv.FormatBool(f.renderJS))
	if f.renderJS && f.wait > 0 {
		q.Set("wait", strconv.FormatInt(f.wait.Milliseconds(), 10))
	}
	if f.country != "" {
		q.Set("country_code", f.country)
	}
	q.Set("premium_proxy", strconv.FormatBool(f.premium))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Fetch retrieves target through the proxy.
func (f *Fetcher) Fetch(ctx context.Context, target string) (*repscan.RawDocument, error) {
	if f.apiKey == "" {
		return nil, &repscan.FetchError{
			Kind:    repscan.FetchNetwork,
			Fetcher: Name,
			URL:     target,
			Err:     repscan.Errorf(repscan.EINVALID, "scrapingbee API key required"),
		}
	}

	reqURL, err := f.RequestURL(target)
	if err != nil {
		return nil, &repscan.FetchError{Kind: repscan.FetchNetwork, Fetcher: Name, URL: target, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &repscan.FetchError{Kind: repscan.FetchNetwork, Fetcher: Name, URL: target, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, repscan.NewTransportError(Name, target, redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, repscan.NewStatusError(Name, target, resp.StatusCode)
	}

	html, err := rshttp.ReadBody(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, repscan.NewTransportError(Name, target, err)
	}

	return &repscan.RawDocument{
		URL:      target,
		HTML:     html,
		Fetcher:  Name,
		Rendered: f.renderJS,
	}, nil
}

// Close is a no-op.
func (f *Fetcher) Close() error {
	return nil
}

// redact drops the request URL, which carries the API key, from transport
// errors before they are logged.
func redact(err error) error {
	if urlErr, ok := err.(*url.Error); ok {
		return urlErr.Err
	}
	return err
}
