package api

import (
	"context"
	"net/http"
	"net/url"
)

// BiliLogin starts a QR login and returns the QR image and session key.
func (c *Client) BiliLogin(ctx context.Context) (LoginQR, error) {
	var qr LoginQR
	err := c.do(ctx, http.MethodGet, "/api/bili/login", nil, nil, &qr)
	return qr, err
}

// BiliCheck polls the QR login keyed by key. Code 0 means still waiting.
func (c *Client) BiliCheck(ctx context.Context, key string) (Result, error) {
	var r Result
	err := c.do(ctx, http.MethodGet, "/api/bili/check", url.Values{"key": {key}}, nil, &r)
	return r, err
}

// BiliIdentity returns the logged-in platform user name, or NotLoggedIn.
func (c *Client) BiliIdentity(ctx context.Context) (string, error) {
	var r identityResponse
	if err := c.do(ctx, http.MethodGet, "/api/bili/username", nil, nil, &r); err != nil {
		return "", err
	}
	if r.Username != "" {
		return r.Username, nil
	}
	// Older servers put the sentinel in msg; any other msg is not a name.
	return NotLoggedIn, nil
}

// BiliUpload queues fileNames for upload as one video titled title.
func (c *Client) BiliUpload(ctx context.Context, title string, fileNames []string) (Result, error) {
	var r Result
	if fileNames == nil {
		fileNames = []string{}
	}
	err := c.do(ctx, http.MethodPost, "/api/bili/upload", url.Values{"title": {title}}, fileNames, &r)
	return r, err
}
