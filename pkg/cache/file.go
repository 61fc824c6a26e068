package cache

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
)

// FileCache keeps one JSON file per key under a directory. Files are
// spread over two-character subdirectories taken from the key digest.
type FileCache struct {
	dir string
	now func() time.Time
}

// NewFileCache opens a cache rooted at dir, creating it if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir, now: time.Now}, nil
}

// record is the on-disk form of an entry. Key is stored to detect digest
// collisions; Expires is a unix timestamp, zero for no expiry.
type record struct {
	Key     string `json:"key"`
	Value   []byte `json:"value"`
	Expires int64  `json:"expires,omitempty"`
}

func (r record) expired(now time.Time) bool {
	return r.Expires != 0 && now.Unix() >= r.Expires
}

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	path := c.path(key)
	raw, err := os.ReadFile(path)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	var rec record
	if json.Unmarshal(raw, &rec) != nil || rec.Key != key || rec.expired(c.now()) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return rec.Value, true, nil
}

func (c *FileCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rec := record{Key: key, Value: data}
	if ttl > 0 {
		rec.Expires = c.now().Add(ttl).Unix()
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return writeAtomic(c.path(key), raw)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(c.path(key)); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Close is a no-op; FileCache holds no open handles.
func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	d := digest(key)
	return filepath.Join(c.dir, d[:2], d[2:]+".json")
}

// writeAtomic writes data next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

var _ Cache = (*FileCache)(nil)
