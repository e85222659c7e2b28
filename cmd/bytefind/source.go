package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/hupe1980/bytefind/blobstore"
	"github.com/hupe1980/bytefind/blobstore/minio"
	"github.com/hupe1980/bytefind/blobstore/s3"
	"github.com/hupe1980/bytefind/internal/cache"
	"github.com/hupe1980/bytefind/provider"
)

// maxInflated bounds decompressed sources, which are held in memory.
const maxInflated int64 = 4 << 30

var errRemoteReadOnly = errors.New("remote, compressed and piped sources are read-only")

// source is an opened provider plus everything that must be released with it.
type source struct {
	provider.Provider
	closers []func() error
}

func (s *source) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// Sync flushes writes of file sources.
func (s *source) Sync() error {
	if f, ok := s.Provider.(interface{ Sync() error }); ok {
		return f.Sync()
	}
	return nil
}

// openSource opens uri for searching. writable sources must be local,
// uncompressed files.
func (e *env) openSource(ctx context.Context, uri string, writable bool) (*source, error) {
	if uri == "-" {
		return e.openStdin(ctx, writable)
	}

	scheme, rest, remote := strings.Cut(uri, "://")
	if !remote {
		return e.openLocal(ctx, uri, writable)
	}
	if writable {
		return nil, fmt.Errorf("%s: %w", uri, errRemoteReadOnly)
	}

	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return nil, fmt.Errorf("%s: expected %s://bucket/key", uri, scheme)
	}

	var (
		store blobstore.BlobStore
		err   error
	)
	switch scheme {
	case "s3":
		store, err = s3.New(ctx, bucket,
			s3.WithRegion(e.cfg.S3.Region),
			s3.WithEndpoint(e.cfg.S3.Endpoint),
			s3.WithPrefix(e.cfg.S3.Prefix),
		)
	case "minio":
		m := e.cfg.Minio
		store, err = minio.Dial(minio.Config{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Secure:    m.Secure,
			Region:    m.Region,
		}, bucket, m.Prefix)
	default:
		return nil, fmt.Errorf("%s: unsupported scheme %q", uri, scheme)
	}
	if err != nil {
		return nil, err
	}

	src := &source{}
	if c := e.cfg.Cache; c.Enabled {
		var bc cache.BlockCache
		if c.Sharded {
			bc = cache.NewShardedLRUBlockCache(int64(c.Capacity), e.rc)
		} else {
			bc = cache.NewLRUBlockCache(int64(c.Capacity), e.rc)
		}
		src.closers = append(src.closers, func() error {
			st := bc.Stats()
			e.logger.Debug("block cache",
				"hits", st.Hits,
				"misses", st.Misses,
				"evictions", st.Evictions,
				"bytes", st.Bytes,
			)
			return bc.Close()
		})
		store = blobstore.NewCachingStore(store, bc, int64(c.BlockSize))
	}

	return e.openBlob(ctx, src, blobstore.NewDecompressingStore(store, maxInflated), key)
}

func (e *env) openLocal(ctx context.Context, path string, writable bool) (*source, error) {
	compressed := blobstore.DetectCompression(path) != blobstore.CompressionNone

	if writable {
		if compressed {
			return nil, fmt.Errorf("%s: %w", path, errRemoteReadOnly)
		}
		f, err := provider.OpenFile(path, func(o *provider.Options) {
			o.Window = uint64(e.cfg.Search.Window)
		})
		if err != nil {
			return nil, err
		}
		return &source{Provider: f, closers: []func() error{f.Close}}, nil
	}

	store := blobstore.NewDecompressingStore(blobstore.NewLocalStore(filepath.Dir(path)), maxInflated)
	return e.openBlob(ctx, &source{}, store, filepath.Base(path))
}

// openStdin buffers standard input, which cannot be read at random offsets.
func (e *env) openStdin(ctx context.Context, writable bool) (*source, error) {
	if writable {
		return nil, fmt.Errorf("stdin: %w", errRemoteReadOnly)
	}
	data, err := io.ReadAll(io.LimitReader(e.stdin, maxInflated+1))
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	if int64(len(data)) > maxInflated {
		return nil, fmt.Errorf("stdin: input exceeds %d bytes", maxInflated)
	}

	store := blobstore.NewMemoryStore()
	if err := store.Put(ctx, "stdin", data); err != nil {
		return nil, err
	}
	return e.openBlob(ctx, &source{}, store, "stdin")
}

func (e *env) openBlob(ctx context.Context, src *source, store blobstore.BlobStore, name string) (*source, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		_ = src.Close()
		return nil, err
	}

	p, err := provider.NewBlob(b, e.rc, func(o *provider.Options) {
		o.Window = uint64(e.cfg.Search.Window)
	})
	if err != nil {
		_ = b.Close()
		_ = src.Close()
		return nil, err
	}

	src.Provider = p
	src.closers = append(src.closers, p.Close)
	return src, nil
}
