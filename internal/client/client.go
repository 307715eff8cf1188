// Package client is the HTTP adapter used to relay calls to sibling services
// (work order, document, comment).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/metrics"
	"github.com/mohit-mindspick/whatsapp/internal/reqctx"
)

const bearerPrefix = "Bearer "

type Client struct {
	name       string
	baseURL    string
	httpClient *http.Client
	metrics    *metrics.Metrics
}

func NewClient(name, baseURL string, timeout time.Duration, m *metrics.Metrics) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 60 * time.Second,
				}).DialContext,
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: time.Second,
			},
		},
		metrics: m,
	}
}

// Caller identifies who the call is made on behalf of.
type Caller struct {
	Token         string
	TenantID      string
	CorrelationID string
	// Headers are applied last and override the defaults.
	Headers map[string]string
}

// Response is what the sibling answered. Body is the decoded JSON value, or
// the raw text when the payload is not JSON.
type Response struct {
	StatusCode int
	Body       any
	Raw        []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, caller Caller) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, caller)
}

func (c *Client) Post(ctx context.Context, path string, body any, caller Caller) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, caller)
}

func (c *Client) Put(ctx context.Context, path string, body any, caller Caller) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, nil, body, caller)
}

// PutQuery sends a PUT without a body, carrying its arguments in the query string.
func (c *Client) PutQuery(ctx context.Context, path string, query url.Values, caller Caller) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, query, nil, caller)
}

func (c *Client) Patch(ctx context.Context, path string, body any, caller Caller) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, nil, body, caller)
}

func (c *Client) Delete(ctx context.Context, path string, caller Caller) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil, caller)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, caller Caller) (*Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	setHeaders(req, caller)

	l := logging.FromContext(ctx).With("sibling", c.name, "method", method, "url", target)
	l.Debug("sibling_request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.SiblingRequest(c.name, 0)
		l.Error("sibling_request_error", "error", err)
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.SiblingRequest(c.name, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		l.Warn("sibling_request_failed", "status", resp.StatusCode)
	}
	return &Response{StatusCode: resp.StatusCode, Body: decode(raw), Raw: raw}, nil
}

func setHeaders(req *http.Request, caller Caller) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if caller.Token != "" {
		token := caller.Token
		if !strings.HasPrefix(token, bearerPrefix) {
			token = bearerPrefix + token
		}
		req.Header.Set("Authorization", token)
	}
	if caller.TenantID != "" {
		req.Header.Set(reqctx.HeaderTenantID, caller.TenantID)
	}
	if caller.CorrelationID != "" {
		req.Header.Set(reqctx.HeaderCorrelationID, caller.CorrelationID)
	}
	for k, v := range caller.Headers {
		req.Header.Set(k, v)
	}
}

func decode(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

// Unwrap returns the "data" member when body is an envelope object carrying
// one, and body itself otherwise.
func Unwrap(body any) any {
	if m, ok := body.(map[string]any); ok {
		if data, ok := m["data"]; ok && data != nil {
			return data
		}
	}
	return body
}
