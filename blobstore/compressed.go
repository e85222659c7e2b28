package blobstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies the container format of a compressed blob.
type Compression int

const (
	// CompressionNone means the blob is stored as is.
	CompressionNone Compression = iota
	// CompressionZstd is a zstd frame (".zst").
	CompressionZstd
	// CompressionLZ4 is an lz4 frame (".lz4").
	CompressionLZ4
)

// DetectCompression derives the compression from a blob name suffix.
func DetectCompression(name string) Compression {
	switch {
	case strings.HasSuffix(name, ".zst"), strings.HasSuffix(name, ".zstd"):
		return CompressionZstd
	case strings.HasSuffix(name, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// DecompressingStore wraps a BlobStore and transparently inflates compressed
// blobs (detected by name suffix) into memory on Open. Compressed streams have
// no random access, so the inflated blob is fully resident.
type DecompressingStore struct {
	inner BlobStore
	// maxSize bounds the inflated size; 0 means unlimited.
	maxSize int64
}

// NewDecompressingStore creates a DecompressingStore.
func NewDecompressingStore(inner BlobStore, maxSize int64) *DecompressingStore {
	return &DecompressingStore{inner: inner, maxSize: maxSize}
}

// Open opens the blob, inflating it when its name carries a known suffix.
func (s *DecompressingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	comp := DetectCompression(name)
	if comp == CompressionNone {
		return b, nil
	}
	defer b.Close()

	data, err := Decompress(ctx, b, comp, s.maxSize)
	if err != nil {
		return nil, fmt.Errorf("decompress %s: %w", name, err)
	}
	return NewMemoryBlob(data), nil
}

// Decompress inflates the whole blob.
func Decompress(ctx context.Context, b Blob, comp Compression, maxSize int64) ([]byte, error) {
	src := NewReader(ctx, b)

	var r io.Reader
	switch comp {
	case CompressionZstd:
		dec, err := zstd.NewReader(src)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		r = dec
	case CompressionLZ4:
		r = lz4.NewReader(src)
	default:
		r = src
	}

	if maxSize > 0 {
		data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
		if err != nil {
			return nil, err
		}
		if int64(len(data)) > maxSize {
			return nil, fmt.Errorf("inflated size exceeds %d bytes", maxSize)
		}
		return data, nil
	}
	return io.ReadAll(r)
}
