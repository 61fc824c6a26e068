package cache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestCaches(t *testing.T) {
	newFile := func(t *testing.T) Cache {
		c, err := NewFileCache(filepath.Join(t.TempDir(), "a", "b"))
		if err != nil {
			t.Fatalf("NewFileCache() error: %v", err)
		}
		return c
	}

	tests := []struct {
		name   string
		open   func(*testing.T) Cache
		stores bool
	}{
		{"null", func(*testing.T) Cache { return NewNullCache() }, false},
		{"file", newFile, true},
		{"prefixed file", func(t *testing.T) Cache { return NewPrefixed(newFile(t), "p:") }, true},
		{"prefixed nil", func(*testing.T) Cache { return NewPrefixed(nil, "p:") }, false},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.open(t)
			defer c.Close()

			if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
				t.Fatalf("Get() on empty cache = %v, %v", hit, err)
			}
			if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
				t.Fatalf("Set() error: %v", err)
			}
			data, hit, err := c.Get(ctx, "k")
			if err != nil || hit != tt.stores {
				t.Fatalf("Get() after Set = %v, %v, want hit %v", hit, err, tt.stores)
			}
			if tt.stores && string(data) != "v" {
				t.Errorf("Get() = %q, want v", data)
			}
			for range 2 {
				if err := c.Delete(ctx, "k"); err != nil {
					t.Errorf("Delete() error: %v", err)
				}
			}
			if _, hit, _ := c.Get(ctx, "k"); hit {
				t.Error("Get() after Delete hit")
			}
		})
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Unix(1_700_000_000, 0)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); !hit {
		t.Fatal("entry expired early")
	}

	now = now.Add(time.Hour)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned as hit")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry was not removed")
	}
}

func TestFileCacheBadEntries(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	tests := map[string]string{
		"not json":    "{",
		"foreign key": `{"key":"other","value":"dg=="}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			path := c.path("k")
			if err := writeAtomic(path, []byte(content)); err != nil {
				t.Fatal(err)
			}
			if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
				t.Errorf("Get() = %v, %v, want miss", hit, err)
			}
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Error("bad entry was not removed")
			}
		})
	}
}

func TestFileCacheLayout(t *testing.T) {
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	if err := c.Set(context.Background(), "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}

	rel, err := filepath.Rel(dir, c.path("k"))
	if err != nil {
		t.Fatal(err)
	}
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) != 2 || len(parts[0]) != 2 || !strings.HasSuffix(parts[1], ".json") {
		t.Errorf("entry path = %s, want xx/<digest>.json", rel)
	}
}

func TestFileCacheCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), 0); err != context.Canceled {
		t.Errorf("Set() error = %v, want context.Canceled", err)
	}
	if _, _, err := c.Get(ctx, "k"); err != context.Canceled {
		t.Errorf("Get() error = %v, want context.Canceled", err)
	}
}

func TestDocumentKey(t *testing.T) {
	dir := t.TempDir()
	k := DocumentKey(filepath.Join(dir, "rows.json"))

	if !strings.HasPrefix(k, "doc:") || len(k) != len("doc:")+64 {
		t.Errorf("DocumentKey() = %s, want doc:<sha256>", k)
	}
	if k == DocumentKey(filepath.Join(dir, "other.json")) {
		t.Error("different paths share a key")
	}
	if k != DocumentKey(dir+"/./rows.json") {
		t.Error("equivalent paths produce different keys")
	}
}

func TestExpandedRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	key := DocumentKey("rows.json")

	if _, ok, err := LoadExpanded(ctx, c, key); ok || err != nil {
		t.Fatalf("LoadExpanded() on empty cache = %v, %v", ok, err)
	}
	if err := SaveExpanded(ctx, c, key, []string{"a", "c"}); err != nil {
		t.Fatalf("SaveExpanded() error: %v", err)
	}
	ids, ok, err := LoadExpanded(ctx, c, key)
	if err != nil || !ok || !reflect.DeepEqual(ids, []string{"a", "c"}) {
		t.Errorf("LoadExpanded() = %v, %v, %v", ids, ok, err)
	}

	// An empty set is remembered, not treated as missing.
	if err := SaveExpanded(ctx, c, key, nil); err != nil {
		t.Fatal(err)
	}
	ids, ok, _ = LoadExpanded(ctx, c, key)
	if !ok || len(ids) != 0 {
		t.Errorf("LoadExpanded() after clearing = %v, %v", ids, ok)
	}
}
