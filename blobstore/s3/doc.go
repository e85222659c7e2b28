// Package s3 provides a read-only S3 implementation of blobstore.BlobStore.
//
// # Usage
//
//	store, err := s3.New(ctx, "dumps-bucket",
//	    s3.WithPrefix("captures/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//
//	blob, err := store.Open(ctx, "core.bin")
//	p, err := provider.NewBlob(blob, rc)
//
// Each provider window is fetched with one ranged GET, pinned to the
// ETag returned when the object was opened.
package s3
