// Package httpds implements an HTTP datasource with built-in retry and
// exponential backoff, so a scrub run can read its input straight from a
// URL instead of a local file.
//
// Transient failures (transport errors, 5xx, 429) are retried; anything
// else is final. Context cancellation is respected during requests and
// backoff waits.
package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Options configures a Remote source. Zero values are given defaults:
//   - Timeout:        30s
//   - MaxRetries:     3
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Options struct {
	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	// MaxRetries=0 keeps the default; use a negative value for "no retries".
	MaxRetries int

	// InitialBackoff is the backoff before the first retry. Each subsequent
	// retry doubles the previous backoff up to MaxBackoff.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff duration.
	MaxBackoff time.Duration

	// Client is an optional custom http.Client, mainly for tests. When nil,
	// a client with Timeout is constructed.
	Client *http.Client
}

// Remote is a datasource.Source that fetches its bytes over HTTP(S).
type Remote struct {
	url        string
	client     *http.Client
	maxRetries int
	initial    time.Duration
	max        time.Duration
}

// NewRemote returns a source for the given URL.
func NewRemote(url string, opt Options) *Remote {
	if opt.Timeout <= 0 {
		opt.Timeout = 30 * time.Second
	}
	if opt.MaxRetries == 0 {
		opt.MaxRetries = 3
	}
	if opt.MaxRetries < 0 {
		opt.MaxRetries = 0
	}
	if opt.InitialBackoff <= 0 {
		opt.InitialBackoff = 200 * time.Millisecond
	}
	if opt.MaxBackoff <= 0 {
		opt.MaxBackoff = 5 * time.Second
	}
	client := opt.Client
	if client == nil {
		client = &http.Client{Timeout: opt.Timeout}
	}
	return &Remote{
		url:        url,
		client:     client,
		maxRetries: opt.MaxRetries,
		initial:    opt.InitialBackoff,
		max:        opt.MaxBackoff,
	}
}

// Open issues a GET for the URL, retrying transient failures, and returns
// the response body. The caller owns the returned ReadCloser.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	attempts := r.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
		if err != nil {
			return nil, fmt.Errorf("build request for %s: %w", r.url, err)
		}

		resp, err := r.client.Do(req)
		switch {
		case err != nil:
			// Transport-level failure; retryable.
			lastErr = err
		case resp.StatusCode == http.StatusOK:
			return resp.Body, nil
		case isRetryableStatus(resp.StatusCode):
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("GET %s: status %s", r.url, resp.Status)
		default:
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return nil, fmt.Errorf("GET %s: status %s", r.url, resp.Status)
		}

		if attempt+1 >= attempts {
			break
		}
		if err := sleepWithContext(ctx, backoffDuration(r.initial, attempt, r.max)); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("GET %s: %w", r.url, lastErr)
}

// isRetryableStatus is intentionally conservative: 5xx and 429 are treated
// as transient, everything else is final.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns the exponential backoff for the given 0-based
// retry index, clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	d := initial << attempt
	if d > max || d <= 0 {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
