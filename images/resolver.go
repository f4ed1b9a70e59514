package images

import (
	"context"
	"time"

	"github.com/flanksource/commons/logger"
)

var log = logger.GetLogger("images")

// Options configures NewResolver.
type Options struct {
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
	MaxBytes    int64         `yaml:"max_bytes" json:"max_bytes"`
	RelayPrefix string        `yaml:"relay_prefix" json:"relay_prefix"`
	// Browser enables the headless browser strategy between the direct and relay downloads.
	Browser bool `yaml:"browser" json:"browser"`
	// NoRelay drops the relay strategy, e.g. when images must not leave the network.
	NoRelay bool `yaml:"no_relay" json:"no_relay"`
}

func DefaultOptions() Options {
	return Options{
		Timeout:     20 * time.Second,
		MaxBytes:    DefaultMaxBytes,
		RelayPrefix: DefaultRelayPrefix,
	}
}

// Resolver tries each strategy in order and falls back to Placeholder. Resolve never fails.
type Resolver struct {
	Strategies []Fetcher
}

// NewResolver builds the direct -> browser -> relay chain described by opts.
func NewResolver(opts Options) *Resolver {
	direct := NewHTTPFetcher(opts.Timeout)
	if opts.MaxBytes > 0 {
		direct.MaxBytes = opts.MaxBytes
	}

	strategies := []Fetcher{direct}
	if opts.Browser {
		strategies = append(strategies, NewBrowserFetcher())
	}
	if !opts.NoRelay {
		strategies = append(strategies, &RelayFetcher{HTTP: direct, Prefix: opts.RelayPrefix})
	}
	return &Resolver{Strategies: strategies}
}

// Resolve returns the first strategy's bitmap, or a copy of the placeholder tagged with url.
func (r *Resolver) Resolve(ctx context.Context, url string) *Bitmap {
	if r != nil && url != "" {
		for _, strategy := range r.Strategies {
			bitmap, err := strategy.Fetch(ctx, url)
			if err == nil && bitmap != nil {
				log.Debugf("resolved %s via %s (%dx%d %s)", url, strategy.Name(), bitmap.Width, bitmap.Height, bitmap.Format)
				return bitmap
			}
			log.Debugf("image %s: %v", url, err)
		}
	}

	log.Debugf("image %s: using placeholder", url)
	placeholder := *Placeholder()
	placeholder.Source = url
	return &placeholder
}

// ResolveAll resolves urls one after another, preserving order.
func (r *Resolver) ResolveAll(ctx context.Context, urls []string) []*Bitmap {
	out := make([]*Bitmap, 0, len(urls))
	for _, url := range urls {
		out = append(out, r.Resolve(ctx, url))
	}
	return out
}

// Close releases strategies that hold resources, such as the browser.
func (r *Resolver) Close() error {
	if r == nil {
		return nil
	}
	for _, strategy := range r.Strategies {
		if closer, ok := strategy.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}
