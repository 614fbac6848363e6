// Package resolver follows shortened URLs to their final destination.
package resolver

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/reviewcheckk/dealbot/internal/linkex"
)

const (
	maxAttempts  = 3
	attemptDelay = 600 * time.Millisecond
	headTimeout  = 10 * time.Second
	getTimeout   = 15 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"
)

// Resolver expands shortener links by following redirects. Resolution
// failure is non-fatal: the input URL is returned unchanged.
type Resolver struct {
	headClient *http.Client
	getClient  *http.Client
	group      singleflight.Group
}

func New() *Resolver {
	return &Resolver{
		headClient: &http.Client{Timeout: headTimeout},
		getClient:  &http.Client{Timeout: getTimeout},
	}
}

// Resolve returns the final destination of rawURL when it points at a known
// shortener, and rawURL itself otherwise. Concurrent calls for the same URL
// share one resolution.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	if !linkex.IsShortener(rawURL) {
		return rawURL
	}

	v, _, _ := r.group.Do(rawURL, func() (interface{}, error) {
		return r.resolve(ctx, rawURL), nil
	})
	return v.(string)
}

func (r *Resolver) resolve(ctx context.Context, rawURL string) string {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		// HEAD is cheap; fall back to GET only when HEAD didn't land
		// somewhere acceptable.
		if final, ok := r.follow(ctx, http.MethodHead, rawURL, r.headClient); ok {
			return final
		}
		if final, ok := r.follow(ctx, http.MethodGet, rawURL, r.getClient); ok {
			return final
		}

		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return rawURL
			case <-time.After(attemptDelay):
			}
		}
	}

	slog.Warn("Failed to resolve shortened URL, keeping original", "url", rawURL)
	return rawURL
}

// follow issues one redirect-following request and reports whether the
// final URL is acceptable: different from the input and not shorter, a
// heuristic for "more specific than a generic error page".
func (r *Resolver) follow(ctx context.Context, method, rawURL string, client *http.Client) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	final := resp.Request.URL.String()
	if final == rawURL || len(final) < len(rawURL) {
		return "", false
	}
	return final, true
}
