// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/ethereal-canvas/internal/httputil"
	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// ErrUnexpectedStatus is returned when the relay answers with a status the
// protocol does not define for the call.
var ErrUnexpectedStatus = errors.New("unexpected relay status")

// TransportError reports that the relay could not be reached at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("relay %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsTransport reports whether err means the relay was unreachable.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Client talks to a relay server.
type Client struct {
	baseURL    string
	http       *http.Client
	userAgent  string
	maxRetries int
}

// NewClient returns a client for the relay at baseURL (e.g.
// "http://localhost:3001").
func NewClient(baseURL string, cfg types.HTTPConfig) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: cfg.Timeout},
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// BaseURL returns the relay URL for a host:port address.
func BaseURL(address string) string {
	return "http://" + address
}

// Submit posts a capture and returns what the relay stored. HTTP 429 is
// retried with backoff.
func (c *Client) Submit(ctx context.Context, req types.CaptureRequest) (types.Capture, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.Capture{}, fmt.Errorf("encoding capture: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+capturePath, bytes.NewReader(body))
	if err != nil {
		return types.Capture{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.setHeaders(httpReq)

	resp, err := httputil.DoWithRetry(ctx, c.http, httpReq, c.maxRetries)
	if err != nil {
		return types.Capture{}, &TransportError{Op: "submit", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Message != "" {
			return types.Capture{}, fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, e.Message)
		}
		return types.Capture{}, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out captureResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return types.Capture{}, fmt.Errorf("decoding capture response: %w", err)
	}
	return out.Data, nil
}

// Retrieve takes the held capture from the relay. It returns nil and no
// error when the relay is empty.
func (c *Client) Retrieve(ctx context.Context) (*types.Capture, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+getCapturePath, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "retrieve", Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil, nil
	case http.StatusOK:
	default:
		return nil, fmt.Errorf("%w %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out retrieveResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding retrieve response: %w", err)
	}
	return &out.CapturedData, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}
