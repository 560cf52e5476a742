package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ListVideos returns one page of recordings matching f.
func (c *Client) ListVideos(ctx context.Context, f VideoFilter) (VideoPage, error) {
	var page VideoPage
	err := c.do(ctx, http.MethodPost, "/api/video/list", nil, f, &page)
	return page, err
}

// ConvertVideo asks the server to transcode fileName to MP4.
func (c *Client) ConvertVideo(ctx context.Context, fileName string) (Result, error) {
	var r Result
	err := c.do(ctx, http.MethodGet, "/api/video/convert/"+url.PathEscape(fileName), nil, nil, &r)
	return r, err
}

// DeleteVideo removes fileName and its derived files.
func (c *Client) DeleteVideo(ctx context.Context, fileName string) (Result, error) {
	var r Result
	err := c.do(ctx, http.MethodGet, "/api/video/delete/"+url.PathEscape(fileName), nil, nil, &r)
	return r, err
}

// FileURL is the playable URL of a recording or segment.
func (c *Client) FileURL(fileName string) string {
	return c.endpoint("/api/video/file/"+url.PathEscape(fileName), nil)
}

// DownloadURL is the MP4 download URL of a converted recording.
func (c *Client) DownloadURL(fileName string) string {
	return c.endpoint("/api/video/download/"+url.PathEscape(fileName), nil)
}

// Download opens the converted MP4 of fileName. The caller closes the body.
// size is -1 when the server does not announce a length.
func (c *Client) Download(ctx context.Context, fileName string) (body io.ReadCloser, size int64, err error) {
	path := "/api/video/download/" + url.PathEscape(fileName)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, 0, c.intercept(http.MethodGet, path, err)
	}
	req.Header.Set("Accept", "video/mp4")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, c.intercept(http.MethodGet, path, err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		var r Result
		if decodeErr := json.Unmarshal(data, &r); decodeErr == nil && r.Code != 0 {
			return nil, 0, r.Err()
		}
		return nil, 0, c.intercept(http.MethodGet, path, fmt.Errorf("%w: status %d", ErrServer, resp.StatusCode))
	}
	return resp.Body, resp.ContentLength, nil
}
