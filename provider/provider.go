package provider

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrReadOnly is returned by Write on providers that cannot be modified.
	ErrReadOnly = errors.New("provider is read-only")
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("provider is closed")
)

// Provider is a random-access byte stream.
type Provider interface {
	// Size returns the logical size in bytes.
	Size() uint64
	// Read returns exactly n bytes starting at off or fails.
	// The returned slice may alias an internal window and must not be retained
	// across calls.
	Read(ctx context.Context, off, n uint64) ([]byte, error)
	// Write overwrites len(p) bytes at off.
	Write(ctx context.Context, off uint64, p []byte) error
}

// Windowed is implemented by providers that hold only part of the stream in
// memory. MaxWindow returns the largest read that is served from one window,
// or 0 when the provider is fully resident.
type Windowed interface {
	MaxWindow() uint64
}

// MaxWindow returns the window size of p, or 0 when p is resident.
func MaxWindow(p Provider) uint64 {
	if w, ok := p.(Windowed); ok {
		return w.MaxWindow()
	}
	return 0
}

// RangeError reports a read or write outside the provider.
type RangeError struct {
	Off  uint64
	Len  uint64
	Size uint64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range [%d, +%d) outside provider of size %d", e.Off, e.Len, e.Size)
}

func checkRange(off, n, size uint64) error {
	if off > size || n > size-off {
		return &RangeError{Off: off, Len: n, Size: size}
	}
	return nil
}

// DefaultWindow is the cache window used by virtual providers when none is configured.
const DefaultWindow = 4 << 20

// Options configures virtual providers.
type Options struct {
	// Window is the cache window size in bytes.
	Window uint64
	// ReadOnly rejects writes with ErrReadOnly.
	ReadOnly bool
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := Options{Window: DefaultWindow}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Window == 0 {
		opts.Window = DefaultWindow
	}
	return opts
}
