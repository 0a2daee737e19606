// Package client is the single chokepoint for backend calls. It builds
// JSON or multipart requests against the configured base URL, attaches the
// stored bearer token, and on a single 401 transparently refreshes the
// access token and retries the original request once before surfacing the
// failure.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	campus "github.com/goliatone/go-campus"
	"github.com/goliatone/go-campus/store"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// Client issues requests on behalf of the session.
type Client struct {
	baseURL          string
	http             *http.Client
	creds            store.CredentialStore
	logger           campus.Logger
	onSessionExpired func()
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger campus.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOnSessionExpired installs the hook invoked after an unrecoverable
// refresh failure, once the credential store has been cleared. The web
// layer uses it to force navigation to the login entry point.
func WithOnSessionExpired(fn func()) Option {
	return func(c *Client) {
		c.onSessionExpired = fn
	}
}

// New returns a client rooted at baseURL that reads and writes tokens
// through creds.
func New(baseURL string, creds store.CredentialStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		creds:   creds,
		logger:  defLogger{},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	return c
}

type requestOptions struct {
	json      any
	form      map[string]string
	fileField string
	file      *campus.Upload
	headers   map[string]string
	noAuth    bool
	noRefresh bool
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

// WithJSON sets a JSON-serializable request body.
func WithJSON(v any) RequestOption {
	return func(o *requestOptions) { o.json = v }
}

// WithForm sets multipart form fields. Presence of form data switches the
// request to multipart encoding; the JSON content type header is omitted so
// the transport can set the correct multipart boundary.
func WithForm(fields map[string]string) RequestOption {
	return func(o *requestOptions) { o.form = fields }
}

// WithFile attaches a file part under the given field name and switches the
// request to multipart encoding.
func WithFile(field string, file *campus.Upload) RequestOption {
	return func(o *requestOptions) {
		o.fileField = field
		o.file = file
	}
}

// WithHeader adds an extra request header.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = map[string]string{}
		}
		o.headers[key] = value
	}
}

// WithoutAuth skips the Authorization header for this request.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) { o.noAuth = true }
}

// Do issues a request and decodes the JSON response into out when non-nil.
// Beyond the single 401-triggered refresh-and-retry there are no retries:
// 5xx, timeouts, and network errors propagate immediately.
func (c *Client) Do(ctx context.Context, method, path string, out any, opts ...RequestOption) error {
	ro := requestOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&ro)
		}
	}
	return c.do(ctx, method, path, out, ro)
}

func (c *Client) do(ctx context.Context, method, path string, out any, ro requestOptions) error {
	req, err := c.newRequest(ctx, method, path, ro)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("transport failure %s %s: %v", method, path, err)
		return campus.ErrNetwork
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return campus.ErrNetwork
	}

	if res.StatusCode >= 200 && res.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			c.logger.Debug("malformed response body %s %s: %v", method, path, err)
			return campus.ErrNetwork
		}
		return nil
	}

	if res.StatusCode == http.StatusUnauthorized && !ro.noRefresh && path != pathRefresh {
		if _, err := c.refreshAccess(ctx); err != nil {
			return err
		}
		// Retry the original request once with the new access token; if
		// the retry fails its error is the one surfaced.
		ro.noRefresh = true
		return c.do(ctx, method, path, out, ro)
	}

	return apiError(res.StatusCode, raw)
}

// newRequest rebuilds the request from scratch on every attempt so the
// multipart body can be consumed again on the post-refresh retry.
func (c *Client) newRequest(ctx context.Context, method, path string, ro requestOptions) (*http.Request, error) {
	var body io.Reader
	contentType := "application/json"

	switch {
	case ro.file != nil || ro.form != nil:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for k, v := range ro.form {
			if err := w.WriteField(k, v); err != nil {
				return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode form field")
			}
		}
		if ro.file != nil {
			part, err := w.CreateFormFile(ro.fileField, ro.file.Filename)
			if err != nil {
				return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode file field")
			}
			if _, err := part.Write(ro.file.Content); err != nil {
				return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to write file content")
			}
		}
		if err := w.Close(); err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to finalize multipart body")
		}
		body = buf
		contentType = w.FormDataContentType()
	case ro.json != nil:
		encoded, err := json.Marshal(ro.json)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to encode request body")
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to build request")
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", uuid.NewString())

	if !ro.noAuth {
		if access, ok := c.creds.Access(); ok {
			req.Header.Set("Authorization", "Bearer "+access)
		}
	}

	for k, v := range ro.headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// refreshAccess exchanges the stored refresh token for a new access token.
// Without a stored refresh token it fails before any network call. Any
// failure fails closed: both tokens are cleared and the expiry hook fires,
// ending the session rather than retrying.
//
// The exchange is per-request, not deduplicated: concurrent 401s each
// refresh independently. Redundant but harmless; the backend does not
// rotate the refresh token on this endpoint.
func (c *Client) refreshAccess(ctx context.Context) (string, error) {
	refresh, ok := c.creds.Refresh()
	if !ok {
		return "", campus.ErrNoRefreshToken
	}

	var out struct {
		Access string `json:"access"`
	}
	ro := requestOptions{
		json:      map[string]string{"refresh": refresh},
		noAuth:    true,
		noRefresh: true,
	}
	if err := c.do(ctx, http.MethodPost, pathRefresh, &out, ro); err != nil {
		c.logger.Warn("token refresh failed: %v", err)
		c.expireSession()
		return "", campus.ErrSessionExpired
	}

	if out.Access == "" {
		c.expireSession()
		return "", campus.ErrSessionExpired
	}

	// Only the access token rotates; the refresh token is kept as-is.
	if err := c.creds.Save(out.Access, refresh); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to persist refreshed token")
	}

	return out.Access, nil
}

func (c *Client) expireSession() {
	if err := c.creds.Clear(); err != nil {
		c.logger.Error("failed to clear credentials: %v", err)
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// apiError shapes a non-2xx response into a structured error carrying the
// HTTP status and, when parseable, the response body.
func apiError(status int, raw []byte) error {
	var body map[string]any
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &body)
	}

	message := extractMessage(body)
	if message == "" {
		message = fmt.Sprintf("Request failed with status %d", status)
	}

	category := goerrors.CategoryInternal
	switch {
	case status == http.StatusUnauthorized:
		category = goerrors.CategoryAuth
	case status == http.StatusForbidden:
		category = goerrors.CategoryAuthz
	case status == http.StatusConflict:
		category = goerrors.CategoryConflict
	case status >= 400 && status < 500:
		category = goerrors.CategoryValidation
	}

	richErr := goerrors.New(message, category).WithCode(status)
	if body != nil {
		richErr = richErr.WithMetadata(map[string]any{"body": body})
	}
	return richErr
}

func extractMessage(body map[string]any) string {
	for _, key := range []string{"detail", "message", "error"} {
		if v, ok := body[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CLIENT "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] CLIENT "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CLIENT "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CLIENT "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
