// Package leaderboard delivers finished-game results: to a remote score API
// over HTTP, or into a local top-ten file.
package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hersh/blockstack/internal/engine"
)

const (
	// APIKeyHeader carries the optional score API key.
	APIKeyHeader = "X-Api-Key"
	ScoresPath   = "/scores"
)

// HTTPReporter posts results to <base>/scores. Report never blocks the
// caller; failures are logged and dropped.
type HTTPReporter struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *log.Logger
	timeout time.Duration

	wg sync.WaitGroup
}

type HTTPOption func(*HTTPReporter)

func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTPReporter) { h.client = c }
}

func WithAPIKey(key string) HTTPOption {
	return func(h *HTTPReporter) { h.apiKey = strings.TrimSpace(key) }
}

func WithLogger(l *log.Logger) HTTPOption {
	return func(h *HTTPReporter) { h.logger = l }
}

func NewHTTPReporter(baseURL string, opts ...HTTPOption) *HTTPReporter {
	h := &HTTPReporter{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: 4 * time.Second},
		logger:  log.Default(),
		timeout: 4 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HTTPReporter) Report(r engine.Result) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()
		if err := h.Post(ctx, r); err != nil {
			h.logger.Printf("leaderboard: report %s result for %q: %v", r.Mode, r.Username, err)
		}
	}()
}

// Post sends one result and waits for the response.
func (h *HTTPReporter) Post(ctx context.Context, r engine.Result) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+ScoresPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set(APIKeyHeader, h.apiKey)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("post result: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode)
	}
	return nil
}

// Wait blocks until every in-flight report has finished.
func (h *HTTPReporter) Wait() {
	h.wg.Wait()
}

type statusError int

func (s statusError) Error() string {
	return "unexpected status: " + http.StatusText(int(s))
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se statusError
	if errors.As(err, &se) {
		return int(se)
	}
	return 0
}
