package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRelayPrefix is the public CORS relay the relay strategy prepends to image URLs.
const DefaultRelayPrefix = "https://cors-anywhere.herokuapp.com/"

// DefaultMaxBytes bounds a single image download.
const DefaultMaxBytes int64 = 20 << 20

// Fetcher is one strategy of the resolver chain.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, url string) (*Bitmap, error)
}

// FetchError records which strategy failed and at which step.
type FetchError struct {
	Strategy  string
	Operation string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s strategy %s failed: %v", e.Strategy, e.Operation, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func newFetchError(strategy, operation string, err error) error {
	return &FetchError{Strategy: strategy, Operation: operation, Err: err}
}

// HTTPFetcher downloads an image with a plain GET and decodes it in memory.
type HTTPFetcher struct {
	Client   *http.Client
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher with its own client bounded by timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		Client:   &http.Client{Timeout: timeout},
		MaxBytes: DefaultMaxBytes,
	}
}

func (f *HTTPFetcher) Name() string {
	return "direct"
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*Bitmap, error) {
	return f.fetch(ctx, f.Name(), url, url)
}

func (f *HTTPFetcher) fetch(ctx context.Context, strategy, source, target string) (*Bitmap, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, newFetchError(strategy, "build request", err)
	}
	req.Header.Set("Accept", "image/*")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, newFetchError(strategy, "request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newFetchError(strategy, "request", fmt.Errorf("unexpected status %s", resp.Status))
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, newFetchError(strategy, "read body", err)
	}
	if int64(len(data)) > limit {
		return nil, newFetchError(strategy, "read body", fmt.Errorf("image larger than %d bytes", limit))
	}

	bitmap, err := FromBytes(source, data)
	if err != nil {
		return nil, newFetchError(strategy, "decode", err)
	}
	return bitmap, nil
}

// RelayFetcher retries the download through a CORS relay by prefixing the URL.
type RelayFetcher struct {
	HTTP   *HTTPFetcher
	Prefix string
}

func (f *RelayFetcher) Name() string {
	return "relay"
}

func (f *RelayFetcher) Fetch(ctx context.Context, url string) (*Bitmap, error) {
	prefix := f.Prefix
	if prefix == "" {
		prefix = DefaultRelayPrefix
	}
	http := f.HTTP
	if http == nil {
		http = &HTTPFetcher{}
	}
	return http.fetch(ctx, f.Name(), url, prefix+url)
}
