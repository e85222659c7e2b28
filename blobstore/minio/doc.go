// Package minio reads sources from MinIO and other S3-compatible servers
// (Ceph, SeaweedFS, Garage) without the AWS SDK configuration chain.
//
//	store, err := minio.Dial(minio.Config{
//	    Endpoint:  "localhost:9000",
//	    AccessKey: "minioadmin",
//	    SecretKey: "minioadmin",
//	}, "dumps", "captures/")
//	blob, err := store.Open(ctx, "core.bin")
//
// Reads are pinned to the ETag seen by Open.
package minio
