package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/hupe1980/bytefind/blobstore"
)

// Client is the part of *s3.Client the store calls.
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store reads objects of one bucket below a key prefix.
type Store struct {
	client Client
	bucket string
	prefix string
}

func NewStore(client Client, bucket, prefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: prefix}
}

type options struct {
	prefix, region, endpoint string
}

// Option configures New.
type Option func(*options)

// WithPrefix places every name below prefix.
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithRegion overrides the region of the default AWS configuration chain.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint targets an S3-compatible endpoint with path-style addressing.
func WithEndpoint(endpoint string) Option {
	return func(o *options) { o.endpoint = endpoint }
}

// New builds a Store from the default AWS credential and config chain.
func New(ctx context.Context, bucket string, optFns ...Option) (*Store, error) {
	var o options
	for _, fn := range optFns {
		fn(&o)
	}

	cfg, err := config.LoadDefaultConfig(ctx, func(lo *config.LoadOptions) error {
		if o.region != "" {
			lo.Region = o.region
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.endpoint == "" {
			return
		}
		so.BaseEndpoint = aws.String(o.endpoint)
		so.UsePathStyle = true
	})
	return NewStore(client, bucket, o.prefix), nil
}

// Open heads the object. Later reads fail with blobstore.ErrChanged if the
// object is overwritten.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := path.Join(s.prefix, name)

	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	switch code(err) {
	case "":
	case "NotFound", "NoSuchKey":
		return nil, fmt.Errorf("%s/%s: %w", s.bucket, key, blobstore.ErrNotFound)
	default:
		return nil, err
	}

	return &object{
		store: s,
		key:   key,
		etag:  head.ETag,
		size:  aws.ToInt64(head.ContentLength),
	}, nil
}

// code returns the S3 error code of err, "" for nil.
func code(err error) string {
	if err == nil {
		return ""
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return "Unknown"
}

type object struct {
	store *Store
	key   string
	// etag pins reads to the object version seen by Open.
	etag *string
	size int64
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
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	want := min(int64(len(p)), o.size-off)

	resp, err := o.store.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket:  aws.String(o.store.bucket),
		Key:     aws.String(o.key),
		Range:   aws.String(fmt.Sprintf("bytes=%d-%d", off, off+want-1)),
		IfMatch: o.etag,
	})
	if err != nil {
		if code(err) == "PreconditionFailed" {
			return 0, fmt.Errorf("%s: %w", o.key, blobstore.ErrChanged)
		}
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	n, err := io.ReadFull(resp.Body, p[:want])
	if err != nil {
		return n, err
	}
	if int(want) < len(p) {
		return n, io.EOF
	}
	return n, nil
}
