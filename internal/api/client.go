// Package api is the typed client for the inventory backend REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"go.uber.org/zap"
)

// TokenSource supplies the current access token; empty means anonymous.
type TokenSource interface {
	AccessToken() string
}

type Config struct {
	BaseURL  string
	Platform string
	Timeout  time.Duration
}

type Client struct {
	baseURL  string
	platform string
	http     *http.Client
	tokens   TokenSource
	logger   logger.ZapLogger

	// onUnauthorized runs when a request that carried a token gets a 401.
	onUnauthorized func(ctx context.Context)
}

func NewClient(cfg Config, tokens TokenSource, log logger.ZapLogger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/") + "/api",
		platform: cfg.Platform,
		http:     &http.Client{Timeout: timeout},
		tokens:   tokens,
		logger:   log,
	}
}

// OnUnauthorized registers fn to run whenever the backend rejects the
// current access token. Set it before the client is shared.
func (c *Client) OnUnauthorized(fn func(ctx context.Context)) {
	c.onUnauthorized = fn
}

// envelope is the resource wrapper used by list and detail endpoints.
type envelope[T any] struct {
	Data T `json:"data"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return &apperror.RemoteError{Op: op, Err: err}
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &apperror.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.platform != "" {
		req.Header.Set("X-Mobile-App", c.platform)
	}
	sentToken := false
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
			sentToken = true
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", zap.String("op", op), zap.String("path", path), zap.Error(err))
		return &apperror.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperror.RemoteError{Op: op, Status: resp.StatusCode, Err: err}
	}

	c.logger.Debug("api request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := decodeError(op, resp.StatusCode, raw)
		if sentToken && c.onUnauthorized != nil && IsUnauthorized(err) {
			c.logger.Warn("access token rejected", zap.String("op", op))
			c.onUnauthorized(ctx)
		}
		return err
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperror.RemoteError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func decodeError(op string, status int, raw []byte) error {
	var body errorResponse
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		return &apperror.RemoteError{Op: op, Status: status, Message: http.StatusText(status)}
	}
	msg := body.Message
	// Prefer the first field error over the summary line.
	for _, field := range sortedKeys(body.Errors) {
		if errs := body.Errors[field]; len(errs) > 0 {
			msg = errs[0]
			break
		}
	}
	return &apperror.RemoteError{Op: op, Status: status, Message: msg}
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var re *apperror.RemoteError
	return errors.As(err, &re) && re.Status == http.StatusUnauthorized
}
