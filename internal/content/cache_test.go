package content

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

var errTest = errors.New("test failure")

func dirKey(path string) Key {
	return Key{Kind: KindDirectory, Path: path}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewCache(2)
	cache.Insert(dirKey("/a"), testSnapshot(false, "x"))
	cache.Insert(dirKey("/b"), testSnapshot(false, "y"))

	if _, ok := cache.Get(dirKey("/a")); !ok {
		t.Fatalf("expected /a to be cached")
	}
	cache.Insert(dirKey("/c"), testSnapshot(false, "z"))

	if cache.Len() != 2 {
		t.Fatalf("Len = %d, want 2", cache.Len())
	}
	if _, ok := cache.Get(dirKey("/b")); ok {
		t.Fatalf("expected /b to be evicted as least recently used")
	}
	for _, path := range []string{"/a", "/c"} {
		if _, ok := cache.Get(dirKey(path)); !ok {
			t.Fatalf("expected %s to survive", path)
		}
	}
}

func TestCacheKeysIncludeKind(t *testing.T) {
	cache := NewCache(4)
	cache.Insert(dirKey("/a"), testSnapshot(false, "x"))

	if _, ok := cache.Preview("/a"); ok {
		t.Fatalf("directory snapshot returned for a preview lookup")
	}
	if dir, ok := cache.Directory("/a"); !ok || len(dir.Entries) != 1 {
		t.Fatalf("Directory(/a) = %v, %v", dir, ok)
	}

	cache.Invalidate(dirKey("/a"))
	if _, ok := cache.Directory("/a"); ok {
		t.Fatalf("expected /a to be invalidated")
	}
}

func TestCacheNeverExceedsCapacity(t *testing.T) {
	const capacity = 8
	cache := NewCache(capacity)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				path := fmt.Sprintf("/w%d/%d", w, i)
				cache.Insert(dirKey(path), ErrorDirSnapshot(path, errTest, false))
				cache.Get(dirKey(path))
				if n := cache.Len(); n > capacity {
					t.Errorf("Len = %d exceeds capacity %d", n, capacity)
					return
				}
			}
		}(w)
	}
	wg.Wait()
}

func TestNewCacheRaisesZeroCapacity(t *testing.T) {
	cache := NewCache(0)
	cache.Insert(dirKey("/a"), LoadingDirSnapshot("/a", false))
	cache.Insert(dirKey("/b"), NewDirSnapshot("/b", time.Time{}, nil, false))
	if cache.Len() != 1 {
		t.Fatalf("Len = %d, want 1", cache.Len())
	}
}
