package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/pario-ai/oars/pkg/cache/sqlite"
)

// Transport performs a GET and returns the response body of a 2xx reply.
type Transport interface {
	Get(ctx context.Context, url string, header http.Header) ([]byte, error)
}

// TransportError reports a request that failed to produce a 2xx response.
// StatusCode is zero when no response was received.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// HTTPTransport is a Transport over net/http. Requests are paced at one per
// politeness interval and retried on network errors, 429 and 5xx.
type HTTPTransport struct {
	client     *http.Client
	limiter    *rate.Limiter
	politeness time.Duration
	maxRetries int
	logger     *zap.Logger
}

// NewHTTPTransport creates an HTTPTransport. A zero politeness disables
// pacing and retry backoff.
func NewHTTPTransport(timeout, politeness time.Duration, maxRetries int, logger *zap.Logger) *HTTPTransport {
	limit := rate.Inf
	if politeness > 0 {
		limit = rate.Every(politeness)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &HTTPTransport{
		client:     &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		politeness: politeness,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Get fetches url, retrying transient failures up to the configured limit.
func (t *HTTPTransport) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(t.politeness, attempt)
			t.logger.Warn("retrying request",
				zap.String("url", url),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(lastErr))
			select {
			case <-ctx.Done():
				return nil, &TransportError{URL: url, Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		body, retry, err := t.do(ctx, url, header)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, lastErr
}

// maxBackoff caps the doubling retry delay.
const maxBackoff = time.Minute

// backoff doubles base for every retry after the first, never past
// maxBackoff or base itself when base is larger.
func backoff(base time.Duration, attempt int) time.Duration {
	limit := max(base, maxBackoff)
	d := base
	for i := 1; i < attempt && d > 0 && d < limit; i++ {
		d *= 2
	}
	return min(d, limit)
}

// do performs one attempt and reports whether a failure is worth retrying.
func (t *HTTPTransport) do(ctx context.Context, url string, header http.Header) ([]byte, bool, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, false, &TransportError{URL: url, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, &TransportError{URL: url, Err: err}
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := t.client.Do(req)
	if err != nil {
		// a cancelled caller is not a transient failure
		return nil, ctx.Err() == nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ctx.Err() == nil, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retry := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, &TransportError{URL: url, StatusCode: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return body, false, nil
}

// CachingTransport serves repeated URLs from a SQLite response cache.
type CachingTransport struct {
	next   Transport
	cache  *sqlite.Cache
	logger *zap.Logger
}

// NewCachingTransport wraps next with cache.
func NewCachingTransport(next Transport, cache *sqlite.Cache, logger *zap.Logger) *CachingTransport {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachingTransport{next: next, cache: cache, logger: logger}
}

// Get returns the cached body for url, or fetches and stores it.
func (t *CachingTransport) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	if body, ok := t.cache.Get(url); ok {
		t.logger.Debug("cache hit", zap.String("url", url))
		return body, nil
	}

	body, err := t.next.Get(ctx, url, header)
	if err != nil {
		return nil, err
	}
	if err := t.cache.Put(url, body); err != nil {
		t.logger.Warn("cache put failed", zap.String("url", url), zap.Error(err))
	}
	return body, nil
}
