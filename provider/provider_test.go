package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/bytefind/blobstore"
	"github.com/hupe1980/bytefind/internal/fs"
	"github.com/hupe1980/bytefind/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	p := NewMemory([]byte("0123456789"))

	assert.Equal(t, uint64(10), p.Size())
	assert.Equal(t, uint64(0), MaxWindow(p))

	b, err := p.Read(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "234", string(b))

	require.NoError(t, p.Write(ctx, 8, []byte("xy")))
	assert.Equal(t, "01234567xy", string(p.Bytes()))

	_, err = p.Read(ctx, 8, 3)
	var re *RangeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, uint64(10), re.Size)

	assert.Error(t, p.Write(ctx, 9, []byte("ab")))
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestFile_WindowedReads(t *testing.T) {
	ctx := context.Background()
	data := make([]byte, 100)
	for i := range data {
		data[i] = byte(i)
	}
	path := writeTemp(t, data)

	p, err := OpenFile(path, func(o *Options) { o.Window = 16 })
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, uint64(100), p.Size())
	assert.Equal(t, uint64(16), MaxWindow(p))

	b, err := p.Read(ctx, 10, 4)
	require.NoError(t, err)
	assert.Equal(t, data[10:14], b)

	// Served from the same window.
	b, err = p.Read(ctx, 20, 6)
	require.NoError(t, err)
	assert.Equal(t, data[20:26], b)

	// Larger than the window.
	b, err = p.Read(ctx, 0, 40)
	require.NoError(t, err)
	assert.Equal(t, data[:40], b)

	// Tail shorter than the window.
	b, err = p.Read(ctx, 95, 5)
	require.NoError(t, err)
	assert.Equal(t, data[95:], b)

	_, err = p.Read(ctx, 95, 6)
	assert.Error(t, err)
}

func TestFile_WriteKeepsWindowCoherent(t *testing.T) {
	ctx := context.Background()
	path := writeTemp(t, []byte("aaaaaaaaaaaaaaaaaaaa"))

	p, err := OpenFile(path, func(o *Options) { o.Window = 8 })
	require.NoError(t, err)

	_, err = p.Read(ctx, 0, 4)
	require.NoError(t, err)

	require.NoError(t, p.Write(ctx, 6, []byte("bbbb")))

	b, err := p.Read(ctx, 4, 4)
	require.NoError(t, err)
	assert.Equal(t, "aabb", string(b))

	require.NoError(t, p.Sync())
	require.NoError(t, p.Close())

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "aaaaaabbbbaaaaaaaaaa", string(got))

	_, err = p.Read(ctx, 0, 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestFile_ReadOnly(t *testing.T) {
	path := writeTemp(t, []byte("abc"))

	p, err := OpenFile(path, func(o *Options) { o.ReadOnly = true })
	require.NoError(t, err)
	defer p.Close()

	assert.ErrorIs(t, p.Write(context.Background(), 0, []byte("x")), ErrReadOnly)
}

func TestFile_FailedIO(t *testing.T) {
	ctx := context.Background()
	path := writeTemp(t, []byte("aaaaaaaaaaaaaaaa"))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(filepath.Base(path), fs.Fault{FailAfterBytes: 2, FailOnSync: true})

	p, err := openFile(ffs, path, Options{Window: 8})
	require.NoError(t, err)
	defer p.Close()

	_, err = p.Read(ctx, 0, 8)
	require.NoError(t, err)

	require.NoError(t, p.Write(ctx, 0, []byte("bb")))
	assert.ErrorIs(t, p.Write(ctx, 2, []byte("cc")), fs.ErrInjected)
	assert.ErrorIs(t, p.Sync(), fs.ErrInjected)

	// The window is refilled from the file after a failed write.
	b, err := p.Read(ctx, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, "bbaa", string(b))

	ffs.AddRule(filepath.Base(path), fs.Fault{FailAfterBytes: -1, FailReads: true})
	q, err := openFile(ffs, path, Options{Window: 8})
	require.NoError(t, err)
	defer q.Close()

	_, err = q.Read(ctx, 0, 4)
	assert.ErrorIs(t, err, fs.ErrInjected)
}

type plainBlob struct {
	data  []byte
	reads int
}

func (b *plainBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	b.reads++
	n := copy(p, b.data[off:])
	return n, nil
}
func (b *plainBlob) Size() int64  { return int64(len(b.data)) }
func (b *plainBlob) Close() error { return nil }

func TestBlob_Virtual(t *testing.T) {
	ctx := context.Background()
	raw := &plainBlob{data: []byte("the quick brown fox jumps")}
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})

	p, err := NewBlob(raw, rc, func(o *Options) { o.Window = 8 })
	require.NoError(t, err)
	defer p.Close()

	assert.Equal(t, uint64(8), MaxWindow(p))

	b, err := p.Read(ctx, 4, 5)
	require.NoError(t, err)
	assert.Equal(t, "quick", string(b))

	b, err = p.Read(ctx, 9, 2)
	require.NoError(t, err)
	assert.Equal(t, " b", string(b))
	assert.Equal(t, 1, raw.reads)

	assert.ErrorIs(t, p.Write(ctx, 0, []byte("x")), ErrReadOnly)
}

func TestBlob_Resident(t *testing.T) {
	p, err := NewBlob(blobstore.NewMemoryBlob([]byte("resident")), nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(0), MaxWindow(p))

	b, err := p.Read(context.Background(), 3, 5)
	require.NoError(t, err)
	assert.Equal(t, "ident", string(b))
}

func TestRead_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory([]byte("x")).Read(ctx, 0, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
