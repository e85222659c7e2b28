package cache

import (
	"container/list"
	"context"
	"sync"

	"github.com/hupe1980/bytefind/internal/resource"
)

// LRUBlockCache is a BlockCache bounded in bytes that evicts the least
// recently used block. Cached bytes are charged to an optional
// resource.Controller, so window buffers and cache share one budget.
type LRUBlockCache struct {
	mu       sync.Mutex
	capacity int64
	size     int64
	order    *list.List
	// blobs indexes the list elements by path and block, so dropping the
	// blocks of one blob does not scan the whole cache.
	blobs map[string]map[uint64]*list.Element
	rc    *resource.Controller

	hits, misses, evictions int64
}

type block struct {
	key  CacheKey
	data []byte
}

// NewLRUBlockCache creates a cache holding at most capacity bytes.
func NewLRUBlockCache(capacity int64, rc *resource.Controller) *LRUBlockCache {
	return &LRUBlockCache{
		capacity: capacity,
		order:    list.New(),
		blobs:    make(map[string]map[uint64]*list.Element),
		rc:       rc,
	}
}

func (c *LRUBlockCache) lookup(key CacheKey) *list.Element {
	return c.blobs[key.Path][key.Block]
}

func (c *LRUBlockCache) Get(_ context.Context, key CacheKey) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.lookup(key)
	if e == nil {
		c.misses++
		return nil, false
	}
	c.hits++
	c.order.MoveToFront(e)
	return e.Value.(*block).data, true
}

func (c *LRUBlockCache) Has(key CacheKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lookup(key) != nil
}

func (c *LRUBlockCache) Set(_ context.Context, key CacheKey, b []byte) {
	n := int64(len(b))

	c.mu.Lock()
	defer c.mu.Unlock()

	if e := c.lookup(key); e != nil {
		blk := e.Value.(*block)
		old := int64(len(blk.data))
		// A replacement that does not fit the budget keeps the old block.
		if n > old && c.rc.AcquireMemory(n-old) != nil {
			return
		}
		if n < old {
			c.rc.ReleaseMemory(old - n)
		}
		blk.data = b
		c.size += n - old
		c.order.MoveToFront(e)
		c.shrink(c.capacity)
		return
	}

	if n > c.capacity {
		return
	}
	// Evict first so the released bytes are available to the budget.
	c.shrink(c.capacity - n)
	if c.rc.AcquireMemory(n) != nil {
		return
	}

	e := c.order.PushFront(&block{key: key, data: b})
	idx := c.blobs[key.Path]
	if idx == nil {
		idx = make(map[uint64]*list.Element)
		c.blobs[key.Path] = idx
	}
	idx[key.Block] = e
	c.size += n
}

func (c *LRUBlockCache) Drop(path string, first, last uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.blobs[path]
	if uint64(len(idx)) <= last-first {
		for blk, e := range idx {
			if blk >= first && blk <= last {
				c.remove(e)
			}
		}
		return
	}
	for blk := first; ; blk++ {
		if e := idx[blk]; e != nil {
			c.remove(e)
		}
		if blk == last {
			return
		}
	}
}

// shrink evicts until at most limit bytes are cached.
func (c *LRUBlockCache) shrink(limit int64) {
	for c.size > limit {
		e := c.order.Back()
		if e == nil {
			return
		}
		c.remove(e)
		c.evictions++
	}
}

func (c *LRUBlockCache) remove(e *list.Element) {
	blk := c.order.Remove(e).(*block)

	idx := c.blobs[blk.key.Path]
	delete(idx, blk.key.Block)
	if len(idx) == 0 {
		delete(c.blobs, blk.key.Path)
	}

	n := int64(len(blk.data))
	c.size -= n
	c.rc.ReleaseMemory(n)
}

// Close drops every block and returns its memory to the controller.
func (c *LRUBlockCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for e := c.order.Front(); e != nil; e = c.order.Front() {
		c.remove(e)
	}
	return nil
}

func (c *LRUBlockCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		Bytes:     c.size,
		Blocks:    c.order.Len(),
	}
}
