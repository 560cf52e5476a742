package api

import (
	"context"
	"net/http"
	"net/url"
)

// Manager returns the round and downloader state.
func (c *Client) Manager(ctx context.Context) (ManagerInfo, error) {
	var info ManagerInfo
	err := c.do(ctx, http.MethodGet, "/api/manager", nil, nil, &info)
	return info, err
}

// Live returns the live stream catalog.
func (c *Client) Live(ctx context.Context) (LiveInfo, error) {
	var info LiveInfo
	err := c.do(ctx, http.MethodGet, "/api/manager/live", nil, nil, &info)
	return info, err
}

// AddStream starts capturing req.Role at req.Quality.
func (c *Client) AddStream(ctx context.Context, req StreamRequest) (ManagerInfo, error) {
	return c.managerCall(ctx, "/api/manager/add", url.Values{"role": {req.Role}, "quality": {req.Quality}})
}

// UpdateStream changes the quality of an existing capture.
func (c *Client) UpdateStream(ctx context.Context, req StreamRequest) (ManagerInfo, error) {
	return c.managerCall(ctx, "/api/manager/update", url.Values{"role": {req.Role}, "quality": {req.Quality}})
}

// DeleteStream stops capturing role.
func (c *Client) DeleteStream(ctx context.Context, role string) (ManagerInfo, error) {
	return c.managerCall(ctx, "/api/manager/delete", url.Values{"role": {role}})
}

func (c *Client) managerCall(ctx context.Context, path string, q url.Values) (ManagerInfo, error) {
	var info ManagerInfo
	err := c.do(ctx, http.MethodGet, path, q, nil, &info)
	return info, err
}
