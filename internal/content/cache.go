package content

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kk-code-lab/rpane/internal/metrics"
)

// Kind selects what a request loads for a path.
type Kind int

const (
	KindDirectory Kind = iota
	KindPreview
)

func (k Kind) String() string {
	if k == KindPreview {
		return "preview"
	}
	return "directory"
}

// Key identifies a cached snapshot. Path is canonical.
type Key struct {
	Kind Kind
	Path string
}

// Cache is the bounded LRU of snapshots shared by the content manager and the
// panel manager. It is safe for concurrent use. Snapshots it returns are
// shared and must be cloned before mutation.
type Cache struct {
	lru *lru.Cache[Key, Snapshot]
}

// NewCache creates a cache holding at most capacity snapshots. Capacities
// below one are raised to one.
func NewCache(capacity int) *Cache {
	// NewWithEvict only fails for a non-positive size.
	l, _ := lru.NewWithEvict[Key, Snapshot](max(capacity, 1), func(Key, Snapshot) {
		metrics.RecordCacheEviction()
	})
	return &Cache{lru: l}
}

// Get returns the snapshot for key and marks it most recently used.
func (c *Cache) Get(key Key) (Snapshot, bool) {
	snap, ok := c.lru.Get(key)
	if ok {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}
	return snap, ok
}

// Insert stores snap, evicting the least recently used entry when full.
func (c *Cache) Insert(key Key, snap Snapshot) {
	c.lru.Add(key, snap)
}

// Invalidate drops key if present.
func (c *Cache) Invalidate(key Key) {
	c.lru.Remove(key)
}

// Len reports the number of cached snapshots.
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Directory returns the cached listing for path, if any.
func (c *Cache) Directory(path string) (*DirSnapshot, bool) {
	snap, ok := c.Get(Key{Kind: KindDirectory, Path: path})
	if !ok {
		return nil, false
	}
	dir, ok := snap.(*DirSnapshot)
	return dir, ok
}

// Preview returns the cached preview for path, if any.
func (c *Cache) Preview(path string) (*PreviewSnapshot, bool) {
	snap, ok := c.Get(Key{Kind: KindPreview, Path: path})
	if !ok {
		return nil, false
	}
	preview, ok := snap.(*PreviewSnapshot)
	return preview, ok
}
