package cache

import (
	"context"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/hupe1980/bytefind/internal/resource"
)

const numShards = 64

// ShardedLRUBlockCache splits the capacity over independent LRU shards.
type ShardedLRUBlockCache struct {
	shards [numShards]*LRUBlockCache
}

// NewShardedLRUBlockCache creates a sharded cache of capacity bytes in total.
func NewShardedLRUBlockCache(capacity int64, rc *resource.Controller) *ShardedLRUBlockCache {
	per := max(capacity/numShards, 1)

	s := &ShardedLRUBlockCache{}
	for i := range s.shards {
		s.shards[i] = NewLRUBlockCache(per, rc)
	}
	return s
}

func (s *ShardedLRUBlockCache) shard(key CacheKey) *LRUBlockCache {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key.Block)

	d := xxhash.New()
	_, _ = d.WriteString(key.Path)
	_, _ = d.Write(buf[:])
	return s.shards[d.Sum64()%numShards]
}

func (s *ShardedLRUBlockCache) Get(ctx context.Context, key CacheKey) ([]byte, bool) {
	return s.shard(key).Get(ctx, key)
}

func (s *ShardedLRUBlockCache) Has(key CacheKey) bool {
	return s.shard(key).Has(key)
}

func (s *ShardedLRUBlockCache) Set(ctx context.Context, key CacheKey, b []byte) {
	s.shard(key).Set(ctx, key, b)
}

// Drop removes the blocks from every shard; a blob's blocks are spread over all of them.
func (s *ShardedLRUBlockCache) Drop(path string, first, last uint64) {
	for _, sh := range s.shards {
		sh.Drop(path, first, last)
	}
}

func (s *ShardedLRUBlockCache) Close() error {
	for _, sh := range s.shards {
		_ = sh.Close()
	}
	return nil
}

// Stats sums the shard counters.
func (s *ShardedLRUBlockCache) Stats() Stats {
	var total Stats
	for _, sh := range s.shards {
		st := sh.Stats()
		total.Hits += st.Hits
		total.Misses += st.Misses
		total.Evictions += st.Evictions
		total.Bytes += st.Bytes
		total.Blocks += st.Blocks
	}
	return total
}

func (s *ShardedLRUBlockCache) nonEmptyShards() int {
	n := 0
	for _, sh := range s.shards {
		if sh.Stats().Blocks > 0 {
			n++
		}
	}
	return n
}
