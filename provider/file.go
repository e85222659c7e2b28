package provider

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hupe1980/bytefind/internal/fs"
)

// File is a virtual provider over an operating system file.
// Reads are served from one cache window of Options.Window bytes.
type File struct {
	mu     sync.Mutex
	f      fs.File
	size   uint64
	opts   Options
	win    window
	closed bool
}

// OpenFile opens path for reading and, unless Options.ReadOnly is set, writing.
func OpenFile(path string, optFns ...func(o *Options)) (*File, error) {
	return openFile(fs.Default, path, applyOptions(optFns))
}

func openFile(fsys fs.FileSystem, path string, opts Options) (*File, error) {
	flag := os.O_RDWR
	if opts.ReadOnly {
		flag = os.O_RDONLY
	}

	f, err := fsys.OpenFile(path, flag, 0)
	if err != nil {
		return nil, err
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: is a directory", path)
	}

	p := &File{
		f:    f,
		size: uint64(st.Size()),
		opts: opts,
	}
	p.win.fill = func(_ context.Context, buf []byte, off uint64) error {
		n, err := p.f.ReadAt(buf, int64(off))
		return fullRead(err, n, len(buf))
	}
	return p, nil
}

func (p *File) Size() uint64 {
	return p.size
}

func (p *File) MaxWindow() uint64 {
	return p.opts.Window
}

func (p *File) Read(ctx context.Context, off, n uint64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkRange(off, n, p.size); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil, ErrClosed
	}
	return p.win.read(ctx, off, n, p.size, p.opts.Window)
}

func (p *File) Write(ctx context.Context, off uint64, b []byte) error {
	if p.opts.ReadOnly {
		return ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkRange(off, uint64(len(b)), p.size); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	if _, err := p.f.WriteAt(b, int64(off)); err != nil {
		p.win.reset()
		return err
	}
	p.win.patch(off, b)
	return nil
}

// Sync flushes written data to stable storage.
func (p *File) Sync() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return p.f.Sync()
}

func (p *File) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	p.win.reset()
	return p.f.Close()
}
