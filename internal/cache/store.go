package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/renameio/v2"
)

const fileExt = ".json"

// Store errors.
var (
	ErrNotFound   = errors.New("cache entry not found")
	ErrExpired    = errors.New("cache entry expired")
	ErrInvalidKey = errors.New("cache key cannot be empty")
	ErrDisabled   = errors.New("cache is disabled")
)

// FileStore stores entries as JSON files in one directory. It is safe for
// concurrent use within a process.
type FileStore struct {
	dir     string
	enabled bool
	ttl     time.Duration

	mu sync.RWMutex
}

// NewFileStore opens (and creates) dir. A disabled store answers every call
// with ErrDisabled.
func NewFileStore(dir string, enabled bool, ttl time.Duration) (*FileStore, error) {
	if !enabled {
		return &FileStore{}, nil
	}
	if dir == "" {
		return nil, errors.New("cache directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &FileStore{dir: dir, enabled: true, ttl: ttl}, nil
}

// Enabled reports whether the store caches anything.
func (s *FileStore) Enabled() bool {
	return s != nil && s.enabled
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// TTL returns the lifetime given to new entries.
func (s *FileStore) TTL() time.Duration {
	return s.ttl
}

// Get returns the live entry for key. Expired entries are removed and
// reported as ErrExpired.
func (s *FileStore) Get(key string) (*Entry, error) {
	if err := s.check(key); err != nil {
		return nil, err
	}

	path := s.path(key)
	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	var e Entry
	if err = json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decoding cache entry %s: %w", key, err)
	}
	if e.Expired() {
		s.mu.Lock()
		_ = os.Remove(path)
		s.mu.Unlock()
		return nil, ErrExpired
	}
	return &e, nil
}

// Set writes data under key, replacing any previous entry.
func (s *FileStore) Set(key string, data json.RawMessage) error {
	if err := s.check(key); err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(NewEntry(key, data, s.ttl), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err = renameio.WriteFile(s.path(key), encoded, 0o600); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *FileStore) Delete(key string) error {
	if err := s.check(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting cache file: %w", err)
	}
	return nil
}

// Clear removes every entry and returns how many files were deleted.
func (s *FileStore) Clear() (int, error) {
	if !s.Enabled() {
		return 0, ErrDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("reading cache directory: %w", err)
	}
	removed := 0
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != fileExt {
			continue
		}
		if err = os.Remove(filepath.Join(s.dir, f.Name())); err != nil {
			return removed, fmt.Errorf("removing cache file %s: %w", f.Name(), err)
		}
		removed++
	}
	return removed, nil
}

func (s *FileStore) check(key string) error {
	if !s.Enabled() {
		return ErrDisabled
	}
	if key == "" {
		return ErrInvalidKey
	}
	return nil
}

func (s *FileStore) path(key string) string {
	safe := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(key)
	return filepath.Join(s.dir, safe+fileExt)
}
