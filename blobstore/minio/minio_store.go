package minio

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/hupe1980/bytefind/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Config describes how to reach a MinIO or S3-compatible server.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Secure    bool
	// Region is optional; MinIO ignores it.
	Region string
}

// Store reads objects of one bucket below a key prefix.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewStore(client *minio.Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

// Dial connects with static credentials. No request is sent until Open.
func Dial(cfg Config, bucket, prefix string) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio %s: %w", cfg.Endpoint, err)
	}
	return NewStore(client, bucket, prefix), nil
}

// Open stats the object. Later reads fail with blobstore.ErrChanged if the
// object is overwritten.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := path.Join(s.prefix, name)

	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	switch code(err) {
	case "":
	case "NoSuchKey", "NotFound":
		return nil, fmt.Errorf("%s/%s: %w", s.bucket, key, blobstore.ErrNotFound)
	default:
		return nil, err
	}

	return &object{store: s, key: key, etag: info.ETag, size: info.Size}, nil
}

func code(err error) string {
	if err == nil {
		return ""
	}
	if c := minio.ToErrorResponse(err).Code; c != "" {
		return c
	}
	return "Unknown"
}

type object struct {
	store *Store
	key   string
	etag  string
	size  int64
}

func (o *object) Size() int64  { return o.size }
func (o *object) Close() error { return nil }

// ReadAt issues one ranged GET for the part of p that lies inside the object.
func (o *object) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if off >= o.size {
		return 0, io.EOF
	}
	want := min(int64(len(p)), o.size-off)

	var opts minio.GetObjectOptions
	if err := opts.SetRange(off, off+want-1); err != nil {
		return 0, err
	}
	if o.etag != "" {
		if err := opts.SetMatchETag(o.etag); err != nil {
			return 0, err
		}
	}

	r, err := o.store.client.GetObject(ctx, o.store.bucket, o.key, opts)
	if err != nil {
		return 0, o.translate(err)
	}
	defer r.Close()

	// minio defers the request to the first Read, so errors surface here.
	n, err := io.ReadFull(r, p[:want])
	if err != nil {
		return n, o.translate(err)
	}
	if int(want) < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (o *object) translate(err error) error {
	if code(err) == "PreconditionFailed" {
		return fmt.Errorf("%s: %w", o.key, blobstore.ErrChanged)
	}
	return err
}
