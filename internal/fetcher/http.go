package fetcher

import (
	"context"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPOptions configures the HTTP fetcher.
type HTTPOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	// RatePerHost bounds requests per second to any single host.
	RatePerHost float64
	// BaseBackoff is the first retry delay; later retries double it.
	BaseBackoff time.Duration
}

// HTTPFetcher downloads exports over HTTP(S) with conditional requests,
// per-host rate limiting and retries on 429 and 5xx responses.
type HTTPFetcher struct {
	client *http.Client
	opts   HTTPOptions

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewHTTPFetcher creates an HTTPFetcher, filling unset options.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Minute
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "latin-corpus/1.0"
	}
	if opts.RatePerHost <= 0 {
		opts.RatePerHost = 2
	}
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = time.Second
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (f *HTTPFetcher) limiter(rawURL string) *rate.Limiter {
	host := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(f.opts.RatePerHost), 1)
		f.limiters[host] = lim
	}
	return lim
}

// Fetch performs a GET, sending version as If-None-Match. A 304 reports
// the export unchanged.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL, version string) (io.ReadCloser, string, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", false, eris.Wrap(err, "http: create request")
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	if version != "" {
		req.Header.Set("If-None-Match", version)
	}

	resp, err := f.do(ctx, req)
	if err != nil {
		return nil, "", false, err
	}

	switch resp.StatusCode {
	case http.StatusNotModified:
		_ = resp.Body.Close()
		return nil, version, false, nil
	case http.StatusOK:
		return resp.Body, resp.Header.Get("ETag"), true, nil
	default:
		_ = resp.Body.Close()
		return nil, "", false, eris.Errorf("http: unexpected status %d from %s", resp.StatusCode, rawURL)
	}
}

func (f *HTTPFetcher) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	log := zap.L().With(zap.String("component", "http_fetcher"), zap.String("url", req.URL.String()))
	lim := f.limiter(req.URL.String())

	var lastErr error
	for attempt := range f.opts.MaxRetries {
		if err := lim.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "http: rate limiter wait")
		}

		resp, err := f.client.Do(req.Clone(ctx))
		switch {
		case err != nil:
			lastErr = err
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			_ = resp.Body.Close()
			lastErr = eris.Errorf("http: status %d", resp.StatusCode)
		default:
			return resp, nil
		}

		if attempt == f.opts.MaxRetries-1 {
			break
		}
		log.Warn("http: request failed, retrying", zap.Int("attempt", attempt+1), zap.Error(lastErr))
		if err := f.backoff(ctx, attempt); err != nil {
			return nil, eris.Wrap(err, "http: backoff")
		}
	}
	return nil, eris.Wrap(lastErr, "http: retries exhausted")
}

// backoff sleeps BaseBackoff*2^attempt plus up to 50% jitter, capped at 30s.
func (f *HTTPFetcher) backoff(ctx context.Context, attempt int) error {
	d := min(f.opts.BaseBackoff<<attempt, 30*time.Second)
	d += time.Duration(rand.Int64N(int64(d)/2 + 1))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
