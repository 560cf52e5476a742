package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog"

	"github.com/rmlive/capctl/internal/api"
)

const liveKey = "live_streams"

// LiveFetcher loads the live stream catalog from the server.
type LiveFetcher func(ctx context.Context) (api.LiveInfo, error)

// Catalog serves the live stream catalog through a FileStore.
type Catalog struct {
	store  *FileStore
	fetch  LiveFetcher
	logger zerolog.Logger
}

// NewCatalog wraps fetch with store. A nil or disabled store always fetches.
func NewCatalog(store *FileStore, fetch LiveFetcher, logger zerolog.Logger) *Catalog {
	return &Catalog{store: store, fetch: fetch, logger: logger.With().Str("component", "cache").Logger()}
}

// Live returns the cached catalog, fetching and storing it on a miss.
func (c *Catalog) Live(ctx context.Context) (api.LiveInfo, error) {
	if c.store.Enabled() {
		entry, err := c.store.Get(liveKey)
		switch {
		case err == nil:
			var info api.LiveInfo
			if err = json.Unmarshal(entry.Data, &info); err == nil {
				c.logger.Debug().Dur("age", entry.Age()).Msg("live catalog cache hit")
				return info, nil
			}
			c.logger.Debug().Err(err).Msg("discarding unreadable live catalog")
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrExpired):
		default:
			c.logger.Debug().Err(err).Msg("live catalog cache read failed")
		}
	}
	return c.Refresh(ctx)
}

// Refresh fetches the catalog and overwrites the cached copy.
func (c *Catalog) Refresh(ctx context.Context) (api.LiveInfo, error) {
	info, err := c.fetch(ctx)
	if err != nil {
		return api.LiveInfo{}, err
	}
	if c.store.Enabled() {
		data, encErr := json.Marshal(info)
		if encErr == nil {
			encErr = c.store.Set(liveKey, data)
		}
		if encErr != nil {
			c.logger.Debug().Err(encErr).Msg("live catalog not cached")
		}
	}
	return info, nil
}

// Invalidate drops the cached catalog.
func (c *Catalog) Invalidate() error {
	if !c.store.Enabled() {
		return nil
	}
	return c.store.Delete(liveKey)
}

// Roles returns the roles in the catalog, sorted.
func (c *Catalog) Roles(ctx context.Context) ([]string, error) {
	info, err := c.Live(ctx)
	if err != nil {
		return nil, err
	}
	return info.Roles(), nil
}
