package thumbs

import (
	"bytes"
	"image"
	"sync"

	"github.com/vroablec/notebook-navigator-sub013/internal/cache"
)

type ckey struct{ path, key string }

// Cache shares decoded thumbnails between every row showing the same
// image. Entries are refcounted: pixels are dropped as soon as the last
// holder releases, so memory stays bounded by what is on screen.
type Cache struct {
	mu      sync.Mutex
	store   *cache.Store
	entries map[ckey]*entry
}

type entry struct {
	img  image.Image
	refs int
}

// Handle is one lease on a decoded thumbnail. Release exactly once;
// releasing a nil handle is a no-op so detach paths stay unconditional.
type Handle struct {
	c        *Cache
	k        ckey
	img      image.Image
	released bool
}

// Image returns the shared decoded pixels. Valid until Release.
func (h *Handle) Image() image.Image { return h.img }

// Bounds returns the thumbnail dimensions.
func (h *Handle) Bounds() image.Rectangle { return h.img.Bounds() }

// Release returns the lease. Safe to call on nil and idempotent.
func (h *Handle) Release() {
	if h == nil || h.released {
		return
	}
	h.released = true
	h.c.release(h.k)
}

// NewCache returns an empty handle cache over the given blob store.
func NewCache(store *cache.Store) *Cache {
	return &Cache{store: store, entries: make(map[ckey]*entry)}
}

// Acquire leases the decoded thumbnail for (path, key), loading and
// decoding the blob on first use. Returns (nil, nil) when no blob row
// exists, mirroring the store. Blocks on I/O, so call it from a Cmd.
func (c *Cache) Acquire(path, key string) (*Handle, error) {
	k := ckey{path, key}
	c.mu.Lock()
	if e := c.entries[k]; e != nil {
		e.refs++
		c.mu.Unlock()
		return &Handle{c: c, k: k, img: e.img}, nil
	}
	c.mu.Unlock()

	blob, err := c.store.Thumb(path, key)
	if err != nil || blob == nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Another acquire may have decoded the same blob meanwhile; share its
	// pixels and drop ours.
	if e := c.entries[k]; e != nil {
		e.refs++
		return &Handle{c: c, k: k, img: e.img}, nil
	}
	c.entries[k] = &entry{img: img, refs: 1}
	return &Handle{c: c, k: k, img: img}, nil
}

// Holders reports the live lease count for (path, key).
func (c *Cache) Holders(path, key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e := c.entries[ckey{path, key}]; e != nil {
		return e.refs
	}
	return 0
}

func (c *Cache) release(k ckey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entries[k]
	if e == nil {
		return
	}
	e.refs--
	if e.refs <= 0 {
		delete(c.entries, k)
	}
}
