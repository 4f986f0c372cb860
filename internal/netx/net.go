// Package netx is the HTTP plumbing shared by the remote API wrappers:
// GET-and-decode with a per-attempt timeout, exponential-backoff retries
// and JSONP unwrapping.
package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophtrip/internal/common"
	"github.com/dmitrijs2005/gophtrip/internal/logging"
	"github.com/sethvargo/go-retry"
)

const maxBodySize = 32 << 20

// StatusError is returned for non-2xx responses that are not retried.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, e.Body)
}

type Client struct {
	http    *http.Client
	retries uint64
	backoff time.Duration
	log     logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithRetries sets how many times a failed attempt is retried and the first
// backoff interval, which doubles after each attempt.
func WithRetries(retries uint64, backoff time.Duration) Option {
	return func(cl *Client) {
		cl.retries = retries
		cl.backoff = backoff
	}
}

func NewClient(timeout time.Duration, log logging.Logger, opts ...Option) *Client {
	c := &Client{
		http:    &http.Client{Timeout: timeout},
		retries: 3,
		backoff: 200 * time.Millisecond,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON fetches url and decodes the (optionally JSONP-wrapped) body into v.
//
// Transport errors and 5xx responses are retried; when retries run out the
// error wraps common.ErrGatewayUnavailable. Other non-2xx responses fail
// immediately with a *StatusError.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	var body []byte
	attempt := 0

	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		var err error
		body, err = c.get(ctx, url)
		if err != nil {
			c.log.Debug(ctx, "request failed", "url", url, "attempt", attempt, "error", err)
		}
		return err
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return fmt.Errorf("%w: %w", ctxErr, err)
		}
		return err
	}

	if err := json.Unmarshal(UnwrapJSONP(body), v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("%w: %w", common.ErrGatewayUnavailable, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, retry.RetryableError(fmt.Errorf("%w: read body: %w", common.ErrGatewayUnavailable, err))
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, retry.RetryableError(fmt.Errorf("%w: GET %s: status %d",
			common.ErrGatewayUnavailable, url, resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{URL: url, Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}
	return body, nil
}

// UnwrapJSONP strips a "callback( ... );" wrapper. Plain JSON is returned
// unchanged.
func UnwrapJSONP(body []byte) []byte {
	b := bytes.TrimSpace(body)
	if len(b) == 0 || b[0] == '{' || b[0] == '[' {
		return b
	}
	open := bytes.IndexByte(b, '(')
	end := bytes.LastIndexByte(b, ')')
	if open < 0 || end <= open {
		return b
	}
	return bytes.TrimSpace(b[open+1 : end])
}
