package cache

import (
	"context"
	"time"
)

// Prefixed namespaces the keys of an inner cache, so that several
// features can share one store without colliding.
type Prefixed struct {
	inner  Cache
	prefix string
}

// NewPrefixed returns a cache that prepends prefix to every key before
// delegating to inner. A nil inner behaves as a [NullCache].
func NewPrefixed(inner Cache, prefix string) *Prefixed {
	if inner == nil {
		inner = NewNullCache()
	}
	return &Prefixed{inner: inner, prefix: prefix}
}

func (p *Prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.inner.Get(ctx, p.prefix+key)
}

func (p *Prefixed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return p.inner.Set(ctx, p.prefix+key, data, ttl)
}

func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, p.prefix+key)
}

// Close closes the inner cache.
func (p *Prefixed) Close() error {
	return p.inner.Close()
}

var _ Cache = (*Prefixed)(nil)
