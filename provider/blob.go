package provider

import (
	"context"
	"sync"

	"github.com/hupe1980/bytefind/blobstore"
	"github.com/hupe1980/bytefind/internal/resource"
)

// Blob is a read-only provider over a blobstore.Blob.
//
// Blobs implementing blobstore.Mappable are served directly from their
// resident bytes. All others go through a cache window whose fills are
// throttled by the resource controller's IO limiter.
type Blob struct {
	mu       sync.Mutex
	blob     blobstore.Blob
	rc       *resource.Controller
	size     uint64
	opts     Options
	resident []byte
	win      window
}

// NewBlob wraps b. rc may be nil.
func NewBlob(b blobstore.Blob, rc *resource.Controller, optFns ...func(o *Options)) (*Blob, error) {
	opts := applyOptions(optFns)
	opts.ReadOnly = true

	p := &Blob{
		blob: b,
		rc:   rc,
		size: uint64(b.Size()),
		opts: opts,
	}

	if m, ok := b.(blobstore.Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		p.resident = data
	}

	p.win.fill = func(ctx context.Context, buf []byte, off uint64) error {
		if err := p.rc.AcquireIO(ctx, len(buf)); err != nil {
			return err
		}
		n, err := p.blob.ReadAt(ctx, buf, int64(off))
		return fullRead(err, n, len(buf))
	}
	return p, nil
}

func (p *Blob) Size() uint64 {
	return p.size
}

// MaxWindow returns 0 for resident blobs.
func (p *Blob) MaxWindow() uint64 {
	if p.resident != nil {
		return 0
	}
	return p.opts.Window
}

func (p *Blob) Read(ctx context.Context, off, n uint64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRange(off, n, p.size); err != nil {
		return nil, err
	}
	if p.resident != nil {
		return p.resident[off : off+n : off+n], nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.win.read(ctx, off, n, p.size, p.opts.Window)
}

func (p *Blob) Write(context.Context, uint64, []byte) error {
	return ErrReadOnly
}

// Close closes the underlying blob.
func (p *Blob) Close() error {
	p.mu.Lock()
	p.win.reset()
	p.mu.Unlock()
	return p.blob.Close()
}
