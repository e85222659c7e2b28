// Package blobstore provides read access to the sources a scan runs over.
//
// A Blob is an immutable, sized, randomly readable byte source. provider.NewBlob
// adapts any Blob into a windowed byte-range provider, so a dump stored on
// local disk, in S3 or in MinIO is searched the same way.
//
// # Built-in Implementations
//
//   - LocalStore: local file system with mmap (blobs are Mappable)
//   - MemoryStore: in-memory blobs for tests and small inputs
//   - CachingStore: block cache in front of a slow (remote) store
//   - DecompressingStore: transparent zstd / lz4 decompression
//   - s3.Store: Amazon S3 with ranged GETs
//   - minio.Store: MinIO and S3-compatible servers
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	}
//
//	type Blob interface {
//	    ReadAt(ctx, p, off) (int, error)
//	    Size() int64
//	    Close() error
//	}
//
// Implementations must be safe for concurrent use.
package blobstore
