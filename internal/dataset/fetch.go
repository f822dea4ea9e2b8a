package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/leaderboard/internal/contract"
	"golang.org/x/time/rate"
)

// cacheVersion is bumped when the cached body format changes.
const cacheVersion = 1

// maxBodySize bounds the size of one remote table.
const maxBodySize = 64 << 20

// Remote requests are paced so a reload does not burst the server.
const (
	fetchInterval = 50 * time.Millisecond
	fetchBurst    = 2
)

// dirFetcher reads tables from a local directory.
type dirFetcher struct {
	dir string
}

func (d dirFetcher) fetch(_ context.Context, name string) ([]byte, error) {
	body, err := os.ReadFile(filepath.Join(d.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errNotFound
	}
	return body, err
}

// httpFetcher downloads tables relative to a base URL. Successful bodies are
// stored in the cache and reused until they are older than ttl.
type httpFetcher struct {
	base    string
	client  *http.Client
	cache   contract.CacheStore
	ttl     time.Duration
	limiter *rate.Limiter
}

func (h *httpFetcher) fetch(ctx context.Context, name string) ([]byte, error) {
	url := h.base + "/" + name
	if body, ok := h.cached(url); ok {
		return body, nil
	}

	if h.limiter != nil {
		if err := h.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("unexpected status %s for %s", resp.Status, url)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", url, err)
	}

	if h.cache != nil {
		if err := h.cache.Set(url, body, cacheVersion, time.Now().Unix()); err != nil {
			contract.LogWarn("cannot cache "+url, err)
		}
	}
	return body, nil
}

// cached returns a fresh cached body for url.
func (h *httpFetcher) cached(url string) ([]byte, bool) {
	if h.cache == nil || h.ttl <= 0 {
		return nil, false
	}
	body, version, ts, err := h.cache.Get(url)
	if err != nil || version != cacheVersion {
		return nil, false
	}
	if time.Since(time.Unix(ts, 0)) > h.ttl {
		return nil, false
	}
	return body, true
}
