// Package rod implements repscan.Fetcher with a headless Chrome driven by
// go-rod. Every fetch runs in its own browser process so that no DOM state,
// cookies or storage leak between requests.
package rod

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/fwojciec/repscan"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
)

// Name identifies documents produced by this fetcher.
const Name = "rod"

// DefaultFetchTimeout bounds launch, navigation and rendering.
const DefaultFetchTimeout = 30 * time.Second

// DefaultIdleTimeout bounds the wait for network idle after load.
// Pages that keep polling are captured once it expires.
const DefaultIdleTimeout = 10 * time.Second

// idleWindow is how long the network must stay quiet to count as idle.
const idleWindow = 500 * time.Millisecond

// Ensure Fetcher implements repscan.Fetcher at compile time.
var _ repscan.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using a fresh headless browser per call.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout     time.Duration
	idleTimeout time.Duration
	bin         string
	onLaunch    func(pid int)
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the overall timeout for a single fetch.
// Defaults to DefaultFetchTimeout (30s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithIdleTimeout sets the maximum wait for network idle.
func WithIdleTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.idleTimeout = d
	}
}

// WithBin sets the browser executable. By default rod looks up a local
// Chrome or Chromium and downloads one if none is found.
func WithBin(path string) Option {
	return func(f *Fetcher) {
		f.bin = path
	}
}

// WithLaunchHook registers fn to be called with the browser process ID
// after each launch.
func WithLaunchHook(fn func(pid int)) Option {
	return func(f *Fetcher) {
		f.onLaunch = fn
	}
}

// NewFetcher creates a new Fetcher. No browser is started until Fetch.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch launches a browser, navigates to url, waits for load and network
// idle, and returns the rendered HTML. The browser is torn down before
// Fetch returns, whatever the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*repscan.RawDocument, error) {
	if f.closed.Load() {
		return nil, &repscan.FetchError{
			Kind:    repscan.FetchBrowserLaunch,
			Fetcher: Name,
			URL:     url,
			Err:     repscan.Errorf(repscan.EINVALID, "fetcher is closed"),
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, repscan.NewTransportError(Name, url, err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	s, err := launch(ctx, f.bin)
	if err != nil {
		return nil, &repscan.FetchError{Kind: repscan.FetchBrowserLaunch, Fetcher: Name, URL: url, Err: err}
	}
	defer s.Close()

	if f.onLaunch != nil {
		f.onLaunch(s.launcher.PID())
	}

	html, err := s.render(ctx, url, f.idleTimeout)
	if err != nil {
		return nil, repscan.NewTransportError(Name, url, err)
	}

	return &repscan.RawDocument{
		URL:      url,
		HTML:     html,
		Fetcher:  Name,
		Rendered: true,
	}, nil
}

// Close marks the fetcher closed. Browsers are scoped to Fetch calls so
// there is nothing else to release. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.closed.Store(true)
	return nil
}

// session is one browser process and its connection.
type session struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// launch starts a headless browser with its own user data directory.
func launch(ctx context.Context, bin string) (*session, error) {
	l := launcher.New().
		Context(ctx).
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	if bin != "" {
		l = l.Bin(bin)
	}

	u, err := l.Launch()
	if err != nil {
		discard(l)
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		discard(l)
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &session{launcher: l, browser: browser}, nil
}

// render navigates a new page to url and returns its HTML.
func (s *session) render(ctx context.Context, url string, idleTimeout time.Duration) (string, error) {
	page, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("creating page: %w", err)
	}
	page = page.Context(ctx)

	waitIdle := page.Timeout(idleTimeout).WaitRequestIdle(idleWindow, nil, nil, nil)

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("navigating: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("waiting for load: %w", err)
	}
	waitIdle()

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading HTML: %w", err)
	}
	return html, nil
}

// Close shuts the browser down, kills the process and removes its user
// data directory.
func (s *session) Close() {
	_ = s.browser.Close()
	discard(s.launcher)
}

// discard kills the launcher's browser and removes its user data directory.
// Cleanup blocks until the process exits, so it is only used once a
// process was started.
func discard(l *launcher.Launcher) {
	if l.PID() == 0 {
		_ = os.RemoveAll(l.Get(flags.UserDataDir))
		return
	}
	l.Kill()
	l.Cleanup()
}
