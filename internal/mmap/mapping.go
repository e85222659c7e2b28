package mmap

import (
	"io"
	"math"
	"os"
	"sync/atomic"
)

// Mapping is a read-only view of a whole file.
type Mapping struct {
	data   []byte
	closed atomic.Bool
	// release unmaps data; nil for empty files.
	release func() error
}

// Open maps the file at path. Empty files yield an empty Mapping without
// a kernel mapping.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	switch size := fi.Size(); {
	case size == 0:
		return &Mapping{}, nil
	case uint64(size) > math.MaxInt:
		return nil, ErrTooLarge
	default:
		data, release, err := mapFile(f, int(size))
		if err != nil {
			return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
		}
		return &Mapping{data: data, release: release}, nil
	}
}

// Close unmaps the file. Further calls are no-ops.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) || m.release == nil {
		return nil
	}
	return m.release()
}

// Bytes returns the mapped file, or nil once closed.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

func (m *Mapping) Size() int { return len(m.data) }

// Slice returns n bytes at off without copying. The capacity is clipped so
// appends cannot reach past the view.
func (m *Mapping) Slice(off, n int) ([]byte, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if !m.inBounds(off, n) {
		return nil, ErrOutOfBounds
	}
	return m.data[off : off+n : off+n], nil
}

func (m *Mapping) inBounds(off, n int) bool {
	return off >= 0 && n >= 0 && off <= len(m.data)-n
}

// Advise applies a to the whole mapping.
func (m *Mapping) Advise(a Advice) error {
	return m.AdviseRange(0, len(m.data), a)
}

// AdviseRange applies a to the pages covering [off, off+n). The range is
// clipped to the mapping.
func (m *Mapping) AdviseRange(off, n int, a Advice) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if off < 0 {
		return ErrInvalidOffset
	}
	if off >= len(m.data) || n <= 0 {
		return nil
	}
	end := off + min(n, len(m.data)-off)

	// madvise wants a page-aligned start.
	start := off &^ (os.Getpagesize() - 1)
	return advise(m.data[start:end], a)
}

// ReadAt copies from the mapping like io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	switch {
	case m.closed.Load():
		return 0, ErrClosed
	case off < 0:
		return 0, ErrInvalidOffset
	case off >= int64(len(m.data)):
		return 0, io.EOF
	}
	n := copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
