// =============================================
// File: internal/backend/client.go
// =============================================
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultTimeout = 30 * time.Second

// Client talks to the trading backend: it fetches unsigned transactions
// for each operation and forwards signed bundles to the relay endpoint.
// Every request runs under a deadline; a hung backend call can no longer
// stall an orchestrator.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
	baseURL    string
	relayURL   string
	timeout    time.Duration
}

// Options configures the backend client.
type Options struct {
	BaseURL  string
	RelayURL string // defaults to BaseURL
	Timeout  time.Duration
	FetchRPS float64 // rate limit on fetch endpoints; 0 disables
}

func NewClient(opts Options, logger *zap.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.RelayURL == "" {
		opts.RelayURL = opts.BaseURL
	}

	var limiter *rate.Limiter
	if opts.FetchRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.FetchRPS), int(opts.FetchRPS*2))
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxConnsPerHost:     100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:  limiter,
		logger:   logger.Named("backend"),
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		relayURL: strings.TrimRight(opts.RelayURL, "/"),
		timeout:  opts.Timeout,
	}
}

// postJSON performs a rate-limited POST against the backend base URL.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, c.baseURL+path, body, out, true)
}

// getJSON performs a rate-limited GET against the backend base URL.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.baseURL+path, nil, out, true)
}

func (c *Client) do(ctx context.Context, method, url string, body, out interface{}, limited bool) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if limited && c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned status %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
