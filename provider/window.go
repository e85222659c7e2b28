package provider

import (
	"context"
	"io"
)

// window is a single cached span of the stream. Every miss replaces it.
type window struct {
	buf  []byte
	off  uint64
	size uint64
	fill func(ctx context.Context, p []byte, off uint64) error
}

func (w *window) read(ctx context.Context, off, n, total, capacity uint64) ([]byte, error) {
	if w.buf != nil && off >= w.off && off+n <= w.off+uint64(len(w.buf)) {
		start := off - w.off
		return w.buf[start : start+n : start+n], nil
	}

	want := max(capacity, n)
	if rest := total - off; want > rest {
		want = rest
	}
	if uint64(cap(w.buf)) < want {
		w.buf = make([]byte, want)
	}
	w.buf = w.buf[:want]

	if err := w.fill(ctx, w.buf, off); err != nil {
		w.buf = w.buf[:0]
		return nil, err
	}
	w.off = off
	return w.buf[:n:n], nil
}

// patch keeps the cached window coherent with a write.
func (w *window) patch(off uint64, p []byte) {
	if len(w.buf) == 0 {
		return
	}
	end := off + uint64(len(p))
	wend := w.off + uint64(len(w.buf))
	if end <= w.off || off >= wend {
		return
	}
	lo := max(off, w.off)
	hi := min(end, wend)
	copy(w.buf[lo-w.off:hi-w.off], p[lo-off:hi-off])
}

func (w *window) reset() {
	w.buf = nil
}

func fullRead(err error, n, want int) error {
	if n == want {
		return nil
	}
	if err == nil || err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
