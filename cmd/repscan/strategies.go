package main

import (
	"io"
	"strings"
	"time"

	"github.com/fwojciec/repscan"
	"github.com/fwojciec/repscan/goquery"
	rshttp "github.com/fwojciec/repscan/http"
	"github.com/fwojciec/repscan/readability"
	"github.com/fwojciec/repscan/rod"
	"github.com/fwojciec/repscan/scrapingbee"
	"github.com/fwojciec/repscan/trafilatura"
)

// StrategySpec names a fetcher and a selector.
type StrategySpec struct {
	Fetcher  string
	Selector string
}

// String formats the pair as "fetcher:selector".
func (s StrategySpec) String() string {
	return s.Fetcher + ":" + s.Selector
}

// Per-strategy deadlines. Each is a little longer than the fetcher's own
// timeout so the fetcher reports the timeout itself.
var strategyTimeouts = map[string]time.Duration{
	rshttp.Name:      rshttp.DefaultFetchTimeout + 2*time.Second,
	scrapingbee.Name: scrapingbee.DefaultFetchTimeout + 5*time.Second,
	rod.Name:         rod.DefaultFetchTimeout + 5*time.Second,
}

var selectorNames = []string{"goquery", "readability", "trafilatura"}

// DefaultStrategies returns the default cascade: static HTTP with two
// selectors, then the scraping proxy and the headless browser when enabled.
func DefaultStrategies(scrapingBee, browser bool) []StrategySpec {
	specs := []StrategySpec{
		{Fetcher: rshttp.Name, Selector: "goquery"},
		{Fetcher: rshttp.Name, Selector: "readability"},
	}
	if scrapingBee {
		specs = append(specs, StrategySpec{Fetcher: scrapingbee.Name, Selector: "goquery"})
	}
	if browser {
		specs = append(specs, StrategySpec{Fetcher: rod.Name, Selector: "goquery"})
	}
	return specs
}

// ParseStrategies parses a comma-separated list of fetcher:selector pairs.
// An empty list yields DefaultStrategies. A pair without a selector uses
// goquery.
func ParseStrategies(list string, scrapingBee, browser bool) ([]StrategySpec, error) {
	if strings.TrimSpace(list) == "" {
		return DefaultStrategies(scrapingBee, browser), nil
	}

	var specs []StrategySpec
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fetcher, selector, _ := strings.Cut(item, ":")
		if selector == "" {
			selector = "goquery"
		}
		spec := StrategySpec{Fetcher: strings.ToLower(fetcher), Selector: strings.ToLower(selector)}
		if _, ok := strategyTimeouts[spec.Fetcher]; !ok {
			return nil, repscan.Errorf(repscan.EINVALID, "unknown fetcher %q in strategy %q", fetcher, item)
		}
		if !validSelector(spec.Selector) {
			return nil, repscan.Errorf(repscan.EINVALID, "unknown selector %q in strategy %q", selector, item)
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, repscan.Errorf(repscan.EINVALID, "no strategies configured")
	}
	return specs, nil
}

// StrategyConfig holds the settings needed to build fetchers.
type StrategyConfig struct {
	ScrapingBeeKey     string
	ScrapingBeeCountry string
	BrowserBin         string
	MinLength          int
}

// BuildStrategies builds the strategies for specs. Fetchers are shared
// between strategies that name the same fetcher. The returned closers must
// be closed when the strategies are no longer used.
func BuildStrategies(specs []StrategySpec, cfg StrategyConfig) ([]repscan.Strategy, []io.Closer, error) {
	fetchers := make(map[string]repscan.Fetcher)
	var closers []io.Closer

	strategies := make([]repscan.Strategy, 0, len(specs))
	for _, spec := range specs {
		fetcher, ok := fetchers[spec.Fetcher]
		if !ok {
			var err error
			fetcher, err = newFetcher(spec.Fetcher, cfg)
			if err != nil {
				for _, c := range closers {
					c.Close()
				}
				return nil, nil, err
			}
			fetchers[spec.Fetcher] = fetcher
			closers = append(closers, fetcher)
		}

		strategies = append(strategies, repscan.Strategy{
			Name:     spec.String(),
			Fetcher:  fetcher,
			Selector: newSelector(spec.Selector, cfg),
			Timeout:  strategyTimeouts[spec.Fetcher],
		})
	}
	return strategies, closers, nil
}

func newFetcher(name string, cfg StrategyConfig) (repscan.Fetcher, error) {
	switch name {
	case scrapingbee.Name:
		if cfg.ScrapingBeeKey == "" {
			return nil, repscan.Errorf(repscan.EINVALID, "scrapingbee strategy requires SCRAPINGBEE_API_KEY")
		}
		var opts []scrapingbee.Option
		if cfg.ScrapingBeeCountry != "" {
			opts = append(opts, scrapingbee.WithCountry(cfg.ScrapingBeeCountry))
		}
		return scrapingbee.NewFetcher(cfg.ScrapingBeeKey, opts...), nil
	case rod.Name:
		var opts []rod.Option
		if cfg.BrowserBin != "" {
			opts = append(opts, rod.WithBin(cfg.BrowserBin))
		}
		return rod.NewFetcher(opts...), nil
	default:
		return rshttp.NewFetcher(), nil
	}
}

func newSelector(name string, cfg StrategyConfig) repscan.Selector {
	switch name {
	case "readability":
		return readability.NewSelector()
	case "trafilatura":
		return trafilatura.NewSelector()
	default:
		var opts []goquery.Option
		if cfg.MinLength > 0 {
			opts = append(opts, goquery.WithMinLength(cfg.MinLength))
		}
		return goquery.NewSelector(opts...)
	}
}

func validSelector(name string) bool {
	for _, s := range selectorNames {
		if s == name {
			return true
		}
	}
	return false
}
