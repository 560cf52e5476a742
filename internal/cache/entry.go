package cache

import (
	"encoding/json"
	"errors"
	"time"
)

// Entry is one cached value with its expiry.
type Entry struct {
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	ExpiresAt  time.Time       `json:"expires_at"`
	TTLSeconds int             `json:"ttl_seconds"`
}

// NewEntry stamps data with the current time and a TTL.
func NewEntry(key string, data json.RawMessage, ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Key:        key,
		Data:       data,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
		TTLSeconds: int(ttl / time.Second),
	}
}

// Expired reports whether the entry is past its expiry.
func (e *Entry) Expired() bool {
	return time.Now().After(e.ExpiresAt)
}

// Age is the time since the entry was written.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// Remaining is the time until expiry, never negative.
func (e *Entry) Remaining() time.Duration {
	return max(time.Until(e.ExpiresAt), 0)
}

type entryJSON struct {
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	CreatedAt  string          `json:"created_at"`
	ExpiresAt  string          `json:"expires_at"`
	TTLSeconds int             `json:"ttl_seconds"`
}

// MarshalJSON writes timestamps as RFC3339 so cache files stay readable.
func (e *Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(entryJSON{
		Key:        e.Key,
		Data:       e.Data,
		CreatedAt:  e.CreatedAt.Format(time.RFC3339),
		ExpiresAt:  e.ExpiresAt.Format(time.RFC3339),
		TTLSeconds: e.TTLSeconds,
	})
}

// UnmarshalJSON reads the format written by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	if e == nil {
		return errors.New("cache: unmarshal into nil Entry")
	}
	var raw entryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	created, err := time.Parse(time.RFC3339, raw.CreatedAt)
	if err != nil {
		return err
	}
	expires, err := time.Parse(time.RFC3339, raw.ExpiresAt)
	if err != nil {
		return err
	}
	*e = Entry{
		Key:        raw.Key,
		Data:       raw.Data,
		CreatedAt:  created,
		ExpiresAt:  expires,
		TTLSeconds: raw.TTLSeconds,
	}
	return nil
}
