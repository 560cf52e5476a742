package api

import (
	"fmt"
	"sort"
)

// NotLoggedIn is the identity the server reports when no platform session exists.
const NotLoggedIn = "请先登录"

// Stream qualities offered by the live source.
const (
	Quality1080p = "1080p"
	Quality720p  = "720p"
	Quality540p  = "540p"
)

// Qualities lists the stream qualities in display order.
func Qualities() []string {
	return []string{Quality1080p, Quality720p, Quality540p}
}

// Result is the {code, msg} envelope returned by per-item endpoints.
type Result struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
}

// Err returns nil for code 0, otherwise a *ResultError carrying the server message.
func (r Result) Err() error {
	if r.Code == 0 {
		return nil
	}
	return &ResultError{Code: r.Code, Msg: r.Msg}
}

// ResultError is an item-level failure reported by the server.
type ResultError struct {
	Code int
	Msg  string
}

// Error returns the server message verbatim.
func (e *ResultError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("request failed with code %d", e.Code)
	}
	return e.Msg
}

// Downloader is one capture worker.
type Downloader struct {
	Name       string `json:"name"`
	Status     bool   `json:"status"`
	ErrorCount int    `json:"error_count"`
}

// RoundInfo describes the current match round.
type RoundInfo struct {
	Red    string `json:"red"`
	Blue   string `json:"blue"`
	Round  int    `json:"round"`
	ID     int    `json:"id"`
	Status string `json:"status"`
}

// ManagerInfo is the capture manager state.
type ManagerInfo struct {
	RoundInfo   RoundInfo    `json:"round_info"`
	Downloaders []Downloader `json:"downloaders"`
}

// LiveInfo lists the live streams per role and quality.
type LiveInfo struct {
	Live    bool                         `json:"live"`
	Streams map[string]map[string]string `json:"streams"`
}

// Roles returns the roles with at least one stream, sorted.
func (l LiveInfo) Roles() []string {
	roles := make([]string, 0, len(l.Streams))
	for role := range l.Streams {
		roles = append(roles, role)
	}
	sort.Strings(roles)
	return roles
}

// HasQuality reports whether role offers quality.
func (l LiveInfo) HasQuality(role, quality string) bool {
	qualities, ok := l.Streams[role]
	if !ok {
		return false
	}
	_, ok = qualities[quality]
	return ok
}

// StreamRequest asks the manager to capture role at quality.
type StreamRequest struct {
	Role    string `json:"role"`
	Quality string `json:"quality"`
}

// Video is one recorded stream; the unit of work for batch actions.
type Video struct {
	Title    string `json:"title"`
	Red      string `json:"red"`
	Blue     string `json:"blue"`
	Role     string `json:"role"`
	Round    int    `json:"round"`
	FileName string `json:"file_name"`
}

// VideoFilter selects a page of recordings.
type VideoFilter struct {
	Current  int    `json:"current,omitempty"`
	PageSize int    `json:"pageSize,omitempty"`
	Red      string `json:"red,omitempty"`
	Blue     string `json:"blue,omitempty"`
	Role     string `json:"role,omitempty"`
	Title    string `json:"title,omitempty"`
}

// VideoPage is one page of recordings.
type VideoPage struct {
	Data  []Video `json:"data"`
	Total int     `json:"total"`
}

// LoginQR is the QR login bootstrap payload.
type LoginQR struct {
	Code int    `json:"code"`
	QR   string `json:"qr"`
	Key  string `json:"key"`
}

// identityResponse covers both shapes the username endpoint has used.
type identityResponse struct {
	Code     int    `json:"code"`
	Msg      string `json:"msg"`
	Username string `json:"username"`
}

// StatusText is "Running" or "Idle".
func (d Downloader) StatusText() string {
	if d.Status {
		return "Running"
	}
	return "Idle"
}

// Matchup renders the round as "<red> vs <blue> Round <n>".
func (r RoundInfo) Matchup() string {
	return fmt.Sprintf("%s vs %s Round %d", r.Red, r.Blue, r.Round)
}

// Headline summarises the capture state: "Living" with the matchup while a
// stream is live, "Idle" otherwise.
func Headline(m ManagerInfo, l LiveInfo) string {
	if !l.Live {
		return "Idle"
	}
	return "Living  " + m.RoundInfo.Matchup()
}
