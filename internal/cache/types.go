package cache

import "context"

// CacheKey identifies one block of one blob.
type CacheKey struct {
	// Path is the blob name the block was read from.
	Path string
	// Block is the block index, the byte offset divided by the block size.
	Block uint64
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	// Bytes is the number of cached bytes.
	Bytes int64
	// Blocks is the number of cached blocks.
	Blocks int
}

// BlockCache caches fixed-size blocks of blobs.
// Returned slices must be treated as read-only.
type BlockCache interface {
	// Get returns a cached block and marks it recently used.
	Get(ctx context.Context, key CacheKey) (b []byte, ok bool)
	// Has reports whether a block is cached without touching recency or stats.
	Has(key CacheKey) bool
	// Set caches a block. Implementations may retain b; callers must not modify it afterwards.
	Set(ctx context.Context, key CacheKey, b []byte)
	// Drop removes the blocks first..last (inclusive) of path.
	Drop(path string, first, last uint64)
	Close() error
	Stats() Stats
}
