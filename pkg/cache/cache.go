// Package cache persists small pieces of UI state between runs.
//
// # Overview
//
// The terminal UI remembers which rows of a document were expanded so that
// reopening the same file restores the view. That state lives outside the
// document itself; it is never written back to user data.
//
// A [Cache] is a byte-oriented key-value store with optional expiry:
//
//	c, err := cache.NewFileCache(filepath.Join(os.Getenv("XDG_CACHE_HOME"), "treetable"))
//	key := cache.DocumentKey(path)
//	ids, ok, err := cache.LoadExpanded(ctx, c, key)
//
// [FileCache] stores one JSON file per key under a directory. [NullCache]
// stores nothing and is used when persistence is disabled. [Prefixed]
// namespaces the keys of another cache.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store for opaque bytes.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired
	// entries are reported as missing.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// NullCache never stores anything; every Get is a miss.
type NullCache struct{}

// NewNullCache returns a cache that discards writes.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
