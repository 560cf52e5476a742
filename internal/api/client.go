// Package api is the HTTP/JSON client for the capture server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rmlive/capctl/internal/notify"
)

const (
	defaultClientTimeout = 30 * time.Second
	defaultDialTimeout   = 5 * time.Second
	maxErrorBodyBytes    = 4096

	headerRequestID = "X-Request-ID"
)

// Errors returned by the client.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrServer       = errors.New("server error")
	ErrDecode       = errors.New("unexpected response")
)

// Options configures a Client.
type Options struct {
	BaseURL  string
	Username string
	Password string
	Timeout  time.Duration

	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
	// Notifier receives intercepted transport errors. Defaults to notify.Default().
	Notifier *notify.Notifier
	Logger   zerolog.Logger
}

// Client talks to one capture server.
type Client struct {
	base     *url.URL
	username string
	password string
	http     *http.Client
	notifier *notify.Notifier
	logger   zerolog.Logger
}

// New validates opts and returns a Client.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid server url %q", opts.BaseURL)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = newHTTPClient(opts.Timeout)
	}
	n := opts.Notifier
	if n == nil {
		n = notify.Default()
	}

	return &Client{
		base:     base,
		username: opts.Username,
		password: opts.Password,
		http:     hc,
		notifier: n,
		logger:   opts.Logger.With().Str("component", "api").Logger(),
	}, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}
	dialTimeout := min(timeout, defaultDialTimeout)
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          8,
			IdleConnTimeout:       30 * time.Second,
			TLSHandshakeTimeout:   dialTimeout,
			ExpectContinueTimeout: time.Second,
		},
	}
}

// Origin returns the server origin, e.g. http://127.0.0.1:10398.
func (c *Client) Origin() string {
	return c.base.Scheme + "://" + c.base.Host
}

// BaseURL returns the configured server URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// endpoint joins the base URL with path, which is already escaped.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.RawPath = strings.TrimRight(c.base.EscapedPath(), "/") + path
	if unescaped, err := url.PathUnescape(u.RawPath); err == nil {
		u.Path = unescaped
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerRequestID, uuid.NewString())
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	return req, nil
}

// do sends the request and decodes the JSON body into out. Item-level
// failures arrive as {code, msg} bodies even on 4xx and are left to the
// caller; anything else that fails goes through intercept.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return c.intercept(method, path, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return c.intercept(method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get(headerRequestID)).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.intercept(method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return c.intercept(method, path, fmt.Errorf("%w: %s", ErrUnauthorized, serverMessage(data)))
	}

	trimmed := bytes.TrimSpace(data)
	if resp.StatusCode >= http.StatusInternalServerError {
		return c.intercept(method, path, fmt.Errorf("%w: status %d: %s", ErrServer, resp.StatusCode, truncate(trimmed)))
	}

	if out == nil || len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		if resp.StatusCode >= http.StatusBadRequest {
			return c.intercept(method, path, fmt.Errorf("%w: status %d", ErrDecode, resp.StatusCode))
		}
		return nil
	}

	if _, isResult := out.(*Result); !isResult && resp.StatusCode >= http.StatusBadRequest {
		var r Result
		if decodeErr := json.Unmarshal(trimmed, &r); decodeErr == nil && r.Code != 0 {
			return c.intercept(method, path, r.Err())
		}
		return c.intercept(method, path, fmt.Errorf("%w: status %d", ErrDecode, resp.StatusCode))
	}

	if err = json.Unmarshal(trimmed, out); err != nil {
		return c.intercept(method, path, fmt.Errorf("%w: status %d: %w", ErrDecode, resp.StatusCode, err))
	}
	return nil
}

// intercept is the global error path: log, notify the raw message, return.
func (c *Client) intercept(method, path string, err error) error {
	c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("api request failed")
	c.notifier.Error(err.Error())
	return notify.MarkReported(err)
}

func serverMessage(data []byte) string {
	var r Result
	if err := json.Unmarshal(data, &r); err == nil && r.Msg != "" {
		return r.Msg
	}
	return http.StatusText(http.StatusUnauthorized)
}

func truncate(b []byte) string {
	if len(b) > maxErrorBodyBytes {
		b = b[:maxErrorBodyBytes]
	}
	return string(b)
}
