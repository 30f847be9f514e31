// Package restapi implements the backend API ports over HTTP/JSON.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cafetec/cafetec-client/config"
)

// tokenHeader is the credential header expected by the backend.
const tokenHeader = "x-auth-token"

// maxBodySize bounds response bodies read into memory.
const maxBodySize = 4 << 20

// APIError is a non-2xx backend response. Message is the server's
// human-readable message, surfaced to the user verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Client talks to the CaféTec backend. It implements the AuthAPI,
// CatalogAPI, OrderAPI, ReportAPI, and AdminAPI ports.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// ClientOptions groups dependencies for Client.
type ClientOptions struct {
	Config config.APIConfig
	Logger *slog.Logger

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// NewClient constructs a backend client.
func NewClient(opts ClientOptions) *Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: opts.Config.RequestTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: opts.Config.BaseURL,
		httpc:   httpc,
		logger:  logger,
	}
}

// do performs one API request and returns the raw response body. A non-2xx
// response becomes an *APIError carrying the server message.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (json.RawMessage, error) {
	return c.doWithHeaders(ctx, method, path, token, body, nil)
}

func (c *Client) doWithHeaders(ctx context.Context, method, path, token string, body any, headers map[string]string) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}
	for k, v := range headers {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: serverMessage(data, resp.StatusCode),
		}
	}

	return data, nil
}

// serverMessage extracts the display message from an error body. The backend
// has used msg, error, and message at various times.
func serverMessage(data []byte, status int) string {
	var body struct {
		Msg     string `json:"msg"`
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		switch {
		case body.Msg != "":
			return body.Msg
		case body.Err != "":
			return body.Err
		case body.Message != "":
			return body.Message
		}
	}
	return http.StatusText(status)
}

// listEnvelope matches the wrapped list shapes the backend has shipped.
type listEnvelope struct {
	Data  json.RawMessage `json:"data"`
	Items json.RawMessage `json:"items"`
}

// decodeList decodes a list response into out (a pointer to a slice). It
// accepts a bare array or a {data: [...]} / {items: [...]} envelope; any
// unrecognized shape degrades to an empty list rather than failing, so an
// older or malformed API response cannot take down a listing view.
func (c *Client) decodeList(ctx context.Context, path string, raw json.RawMessage, out any) {
	arr := extractArray(raw)
	if arr == nil {
		c.logger.WarnContext(ctx, "unexpected list payload shape, using empty list", "path", path)
		return
	}
	if err := json.Unmarshal(arr, out); err != nil {
		c.logger.WarnContext(ctx, "undecodable list payload, using empty list", "path", path, "error", err)
	}
}

func extractArray(raw json.RawMessage) json.RawMessage {
	if isArray(raw) {
		return raw
	}
	var env listEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil
	}
	if isArray(env.Data) {
		return env.Data
	}
	if isArray(env.Items) {
		return env.Items
	}
	return nil
}

func isArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		case '[':
			return true
		default:
			return false
		}
	}
	return false
}

// unwrapObject returns the inner data object when the payload is wrapped in a
// {data: {...}} envelope, or the payload itself otherwise.
func unwrapObject(raw json.RawMessage) json.RawMessage {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && !isArray(env.Data) {
		return env.Data
	}
	return raw
}
