// Package remote talks to a running hotseat server: JSON controls over
// fasthttp and the state feed over a websocket.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/hotseat-chess/pkg/hotseatdto"
)

// HeaderProvider allows injecting per-request headers.
type HeaderProvider func() map[string]string

type Client struct {
	baseURL string
	http    *fasthttp.Client
	headers HeaderProvider

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.defaultTimeout = d }
}

func WithHeaderProvider(h HeaderProvider) Option {
	return func(c *Client) { c.headers = h }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 8},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// State is safe to retry; every other call mutates the session and is sent once.
func (c *Client) State(ctx context.Context) (*hotseatdto.SessionState, error) {
	return c.call(ctx, fasthttp.MethodGet, "/api/state", nil, true)
}

func (c *Client) Start(ctx context.Context, minutes int) (*hotseatdto.SessionState, error) {
	return c.call(ctx, fasthttp.MethodPost, "/api/start", hotseatdto.StartRequest{Minutes: minutes}, false)
}

func (c *Client) Move(ctx context.Context, player, move string) (*hotseatdto.SessionState, error) {
	return c.call(ctx, fasthttp.MethodPost, "/api/move", hotseatdto.MoveRequest{Player: player, Move: move}, false)
}

func (c *Client) Undo(ctx context.Context) (*hotseatdto.SessionState, error) {
	return c.call(ctx, fasthttp.MethodPost, "/api/undo", nil, false)
}

func (c *Client) Resign(ctx context.Context, player string) (*hotseatdto.SessionState, error) {
	return c.call(ctx, fasthttp.MethodPost, "/api/resign", hotseatdto.ResignRequest{Player: player}, false)
}

func (c *Client) NewGame(ctx context.Context) (*hotseatdto.SessionState, error) {
	return c.call(ctx, fasthttp.MethodPost, "/api/new", nil, false)
}

// call returns the state carried by the reply even when the control was
// rejected; the rejection itself comes back as *hotseatdto.DomainError.
func (c *Client) call(ctx context.Context, method, path string, in any, retry bool) (*hotseatdto.SessionState, error) {
	var resp hotseatdto.Response
	if err := c.doJSON(ctx, method, path, in, &resp, retry); err != nil {
		return resp.State, err
	}
	if resp.Error != nil {
		return resp.State, resp.Error
	}
	if resp.State == nil {
		return nil, errors.New("response without state")
	}
	return resp.State, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out *hotseatdto.Response, retry bool) error {
	url := c.baseURL + path
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	req.Header.SetContentType("application/json")

	if c.headers != nil {
		for k, v := range c.headers() {
			if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
				req.Header.Set(k, v)
			}
		}
	}

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry {
		attempts = max(c.retryMax, 1)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		deadline := c.computeDeadline(ctx)
		err := c.http.DoDeadline(req, resp, deadline)
		if err != nil {
			if attempt == attempts {
				return fmt.Errorf("request failed: %w", err)
			}
			lastErr = err
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status >= 200 && status < 300 || isDomainStatus(status) {
			// rejected controls still carry a JSON body with state and error
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: status=%d: %w", status, err)
			}
			if out.Error == nil && (status < 200 || status >= 300) {
				return fmt.Errorf("hotseat api error: status=%d", status)
			}
			return nil
		}

		err = fmt.Errorf("hotseat api error: status=%d body=%s", status, truncate(string(resp.Body()), 512))
		if attempt == attempts || !shouldRetryStatus(status) {
			return err
		}
		lastErr = err
		if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
			return lastErr
		}
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	attempt = min(max(attempt, 1), 6)
	base := 100 * time.Millisecond
	return time.Duration(1<<uint(attempt-1)) * base // 100ms, 200ms ...
}

func isDomainStatus(code int) bool {
	switch code {
	case fasthttp.StatusBadRequest, fasthttp.StatusConflict, fasthttp.StatusUnprocessableEntity:
		return true
	default:
		return false
	}
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
