package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// FileCache keeps cache entries as JSON files under a directory, typically
// ~/.cache/chronos. Layouts and artifacts land here between CLI runs so
// re-rendering an unchanged story skips the engines entirely.
type FileCache struct {
	dir string
}

// NewFileCache opens (creating if needed) a file cache rooted at dir.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk shape of one cache entry. Expires is a unix
// timestamp; zero means the entry never expires.
type fileEntry struct {
	Payload []byte `json:"payload"`
	Expires int64  `json:"expires,omitempty"`
}

// Get returns the payload stored under key. Expired or unreadable entries
// are removed and reported as misses; the caller recomputes from inputs, so
// a lost entry never costs correctness.
func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if entry.Expires != 0 && time.Now().Unix() > entry.Expires {
		_ = os.Remove(path)
		return nil, false, nil
	}

	return entry.Payload, true, nil
}

// Set stores data under key with the given TTL.
func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Payload: data}
	if ttl > 0 {
		entry.Expires = time.Now().Add(ttl).Unix()
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, encoded, 0o644)
}

// Delete removes the entry for key, if any.
func (c *FileCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; files need no teardown.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to its file. Files fan out into 256 subdirectories by the
// first hash byte: a long-lived cache holds one entry per (snapshot, view,
// options) combination ever rendered, which adds up on active stories.
func (c *FileCache) path(key string) string {
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, sum[:2], sum[2:]+".json")
}

var _ Cache = (*FileCache)(nil)
