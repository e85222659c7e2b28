// Package cache holds blocks of remote blobs that a scan has already read.
//
// blobstore.CachingStore reads S3 and MinIO sources in fixed-size blocks.
// Scanning the same region again, as find-next after a wrap or replace-all
// after find-all do, is then served from memory.
//
// Cached bytes are charged to the resource.Controller that also bounds
// search windows. A block that does not fit is simply not cached.
// Drop removes a block range of one blob, for example after the blob was
// rewritten. ShardedLRUBlockCache picks one of 64 shards by an xxhash of
// the blob path and block index.
package cache
