package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds every request issued through the client
const DefaultTimeout = 30 * time.Second

// Client is the base HTTP layer for the agent backend. It turns a
// (method, path, body, token) tuple into a Result, uniformly across
// success, HTTP error, network failure and timeout; callers never see a
// raw transport error.
type Client struct {
	httpClient *http.Client
	baseURL    string
	deviceID   string
	timeout    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout overrides the default request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithDeviceID attaches an X-Device-Id header to every request
func WithDeviceID(id string) Option {
	return func(c *Client) { c.deviceID = id }
}

// WithHTTPClient substitutes the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a new API client for the given base URL
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		timeout: DefaultTimeout,
		httpClient: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Carry the Authorization header across redirects
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues a request and normalizes the outcome into a Result. The bearer
// token is attached only when non-empty. Each call owns its own timeout;
// cancelling one in-flight request does not affect others.
func Do[T any](ctx context.Context, c *Client, method, path string, body any, token string) Result[T] {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return Failure[T](StatusNetworkError, "failed to encode request body")
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return Failure[T](StatusNetworkError, msgNetworkError)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Failure[T](StatusTimeout, msgTimeout)
		}
		return Failure[T](StatusNetworkError, msgNetworkError)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Failure[T](StatusTimeout, msgTimeout)
		}
		return Failure[T](StatusNetworkError, msgNetworkError)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Failure[T](resp.StatusCode, decodeErrorDetail(resp, respBody))
	}

	return decodeSuccess[T](resp, respBody)
}

// decodeSuccess maps a 2xx response body into the typed payload. Non-JSON
// bodies are wrapped as {"message": <text>} before decoding so endpoints
// that answer in plain text still fit typed results.
func decodeSuccess[T any](resp *http.Response, respBody []byte) Result[T] {
	if len(respBody) == 0 {
		var zero T
		return Success(resp.StatusCode, zero)
	}

	raw := respBody
	if !isJSONContent(resp) {
		wrapped, err := json.Marshal(map[string]string{"message": string(respBody)})
		if err != nil {
			return Failure[T](resp.StatusCode, "failed to decode response")
		}
		raw = wrapped
	}

	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		return Failure[T](resp.StatusCode, "failed to decode response")
	}

	return Success(resp.StatusCode, data)
}

// decodeErrorDetail extracts a human-readable message from an error body,
// falling back through the shapes the backend is known to emit
func decodeErrorDetail(resp *http.Response, respBody []byte) string {
	if len(respBody) == 0 {
		return http.StatusText(resp.StatusCode)
	}

	if isJSONContent(resp) {
		var payload struct {
			Detail  string `json:"detail"`
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &payload); err == nil {
			switch {
			case payload.Detail != "":
				return payload.Detail
			case payload.Error != "":
				return payload.Error
			case payload.Message != "":
				return payload.Message
			}
		}
	}

	return strings.TrimSpace(string(respBody))
}

func isJSONContent(resp *http.Response) bool {
	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
