package blobstore

import (
	"context"
	"errors"
	"io"
	"math"

	"github.com/hupe1980/bytefind/internal/cache"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBlockSize = 64 << 10
	// maxFetches bounds concurrent backend requests of one read.
	maxFetches = 16
)

// CachingStore serves reads of the blobs of inner from a block cache.
// Blocks are keyed by blob name, so one cache can back several stores
// only if their names do not collide.
type CachingStore struct {
	inner     BlobStore
	cache     cache.BlockCache
	blockSize int64
}

// NewCachingStore wraps inner. A blockSize <= 0 selects 64 KiB blocks.
func NewCachingStore(inner BlobStore, c cache.BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = defaultBlockSize
	}
	return &CachingStore{inner: inner, cache: c, blockSize: blockSize}
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachedBlob{Blob: b, store: s, name: name}, nil
}

// Invalidate drops every cached block of the named blob.
func (s *CachingStore) Invalidate(name string) {
	s.cache.Drop(name, 0, math.MaxUint64)
}

// InvalidateRange drops the cached blocks overlapping [off, off+n) of the named blob.
func (s *CachingStore) InvalidateRange(name string, off, n int64) {
	if n <= 0 || off < 0 {
		return
	}
	s.cache.Drop(name, uint64(off/s.blockSize), uint64((off+n-1)/s.blockSize))
}

type cachedBlob struct {
	Blob
	store *CachingStore
	name  string
}

// span is a run of consecutive uncached blocks.
type span struct{ first, count int64 }

func (b *cachedBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	size := b.Size()
	if off >= size {
		return 0, io.EOF
	}
	end := min(off+int64(len(p)), size)
	bs := b.store.blockSize
	first, last := off/bs, (end-1)/bs

	if err := b.load(ctx, b.missing(first, last)); err != nil {
		return 0, err
	}

	n := 0
	for blk := first; blk <= last; blk++ {
		data, err := b.block(ctx, blk)
		if err != nil {
			return n, err
		}
		base := blk * bs
		lo := max(base, off) - base
		if lo >= int64(len(data)) {
			break
		}
		hi := min(base+int64(len(data)), end) - base
		n += copy(p[base+lo-off:], data[lo:hi])
	}

	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (b *cachedBlob) missing(first, last int64) []span {
	var out []span
	for blk := first; blk <= last; blk++ {
		if b.store.cache.Has(b.key(blk)) {
			continue
		}
		if k := len(out) - 1; k >= 0 && out[k].first+out[k].count == blk {
			out[k].count++
		} else {
			out = append(out, span{first: blk, count: 1})
		}
	}
	return out
}

// load fetches each span with a single backend request and caches its blocks.
func (b *cachedBlob) load(ctx context.Context, spans []span) error {
	if len(spans) == 0 {
		return nil
	}
	bs := b.store.blockSize

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFetches)
	for _, sp := range spans {
		g.Go(func() error {
			buf, err := b.fetch(gctx, sp.first*bs, sp.count*bs)
			if err != nil {
				return err
			}
			for i := int64(0); i*bs < int64(len(buf)); i++ {
				chunk := buf[i*bs : min((i+1)*bs, int64(len(buf)))]
				// Cloned so one cached block does not pin the whole span.
				b.store.cache.Set(gctx, b.key(sp.first+i), append([]byte(nil), chunk...))
			}
			return nil
		})
	}
	return g.Wait()
}

// block returns a cached block, reading it again if it was evicted after load.
func (b *cachedBlob) block(ctx context.Context, blk int64) ([]byte, error) {
	key := b.key(blk)
	if data, ok := b.store.cache.Get(ctx, key); ok {
		return data, nil
	}
	bs := b.store.blockSize
	data, err := b.fetch(ctx, blk*bs, bs)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		b.store.cache.Set(ctx, key, data)
	}
	return data, nil
}

// fetch reads up to n bytes at off from the backend, clipped to the blob size.
func (b *cachedBlob) fetch(ctx context.Context, off, n int64) ([]byte, error) {
	n = min(n, b.Size()-off)
	if n <= 0 {
		return nil, nil
	}
	buf := make([]byte, n)
	got, err := b.Blob.ReadAt(ctx, buf, off)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:got], nil
}

func (b *cachedBlob) key(blk int64) cache.CacheKey {
	return cache.CacheKey{Path: b.name, Block: uint64(blk)}
}
