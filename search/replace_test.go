package search

import (
	"context"
	"testing"

	"github.com/hupe1980/bytefind/blobstore"
	"github.com/hupe1980/bytefind/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanReplaceInPlace(t *testing.T) {
	assert.True(t, CanReplaceInPlace(2, 2))
	assert.True(t, CanReplaceInPlace(2, 1))
	assert.False(t, CanReplaceInPlace(2, 3))
}

func TestReplace(t *testing.T) {
	ctx := context.Background()
	p := provider.NewMemory([]byte("abcdef"))

	require.NoError(t, Replace(ctx, p, 1, 2, []byte("XY"), false))
	assert.Equal(t, "aXYdef", string(p.Bytes()))

	err := Replace(ctx, p, 1, 2, []byte("123"), false)
	assert.ErrorIs(t, err, ErrReplacementLongerThanMatch)
	assert.Equal(t, "aXYdef", string(p.Bytes()))

	require.NoError(t, Replace(ctx, p, 1, 2, []byte("123"), true))
	assert.Equal(t, "a123ef", string(p.Bytes()))

	err = Replace(ctx, p, 5, 1, []byte("zz"), true)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestReplace_ReadOnlyProvider(t *testing.T) {
	p, err := provider.NewBlob(blobstore.NewMemoryBlob([]byte("abc")), nil)
	require.NoError(t, err)

	err = Replace(context.Background(), p, 0, 1, []byte("x"), false)
	assert.ErrorIs(t, err, provider.ErrReadOnly)
}

func TestReplaceAll_Count(t *testing.T) {
	ctx := context.Background()

	for _, w := range windowSizes {
		data := []byte("ABxABxxABx")
		p := provider.NewMemory(data)
		e := NewEngine(p, WithWindowSize(w))
		sink := &testSink{}

		q := bytesQuery("AB")
		q.Replacement = []byte("CD")
		m, err := e.ReplaceAll(ctx, q, fullRange(data), sink, false)
		require.NoError(t, err)
		assert.Equal(t, 3, m.Count(), "window=%d", w)
		assert.Equal(t, []uint64{0, 3, 7}, m.Offsets)
		assert.Equal(t, "CDxCDxxCDx", string(p.Bytes()))
		assert.Equal(t, uint64(3), sink.count.Load())
	}
}

func TestReplaceAll_NoRematchOfWrittenBytes(t *testing.T) {
	ctx := context.Background()
	data := []byte("aaaa")
	p := provider.NewMemory(data)
	e := NewEngine(p)

	// "a" -> "aa" would loop forever if written bytes were searched again.
	q := bytesQuery("a")
	q.Replacement = []byte("ba")
	m, err := e.ReplaceAll(ctx, q, fullRange(data), nil, true)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 2}, m.Offsets)
	assert.Equal(t, "baba", string(p.Bytes()))
}

func TestReplaceAll_Policy(t *testing.T) {
	ctx := context.Background()
	data := []byte("abab")
	p := provider.NewMemory(data)
	e := NewEngine(p)

	q := bytesQuery("ab")
	q.Replacement = []byte("xyz")
	_, err := e.ReplaceAll(ctx, q, fullRange(data), nil, false)
	assert.ErrorIs(t, err, ErrReplacementLongerThanMatch)
	assert.Equal(t, "abab", string(p.Bytes()))

	q.Replacement = nil
	_, err = e.ReplaceAll(ctx, q, fullRange(data), nil, false)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestReplaceAll_LongerAtTail(t *testing.T) {
	ctx := context.Background()
	data := []byte("xxab")
	p := provider.NewMemory(data)
	e := NewEngine(p)

	q := bytesQuery("ab")
	q.Replacement = []byte("xyz")
	_, err := e.ReplaceAll(ctx, q, fullRange(data), nil, true)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Equal(t, "xxab", string(p.Bytes()))
}
