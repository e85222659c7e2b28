package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forwardCandidates(c *Cursor, step uint64) ([]uint64, []Chunk) {
	var (
		offs   []uint64
		chunks []Chunk
	)
	for {
		ch, ok := c.Next()
		if !ok {
			return offs, chunks
		}
		chunks = append(chunks, ch)
		for j := ch.First; j <= ch.MaxSearchOffset; j += step {
			offs = append(offs, ch.Offset+j)
		}
	}
}

func backwardCandidates(c *Cursor, step uint64) ([]uint64, []Chunk) {
	var (
		offs   []uint64
		chunks []Chunk
	)
	for {
		ch, ok := c.Next()
		if !ok {
			return offs, chunks
		}
		chunks = append(chunks, ch)
		for j := int64(ch.First); j >= 0; j -= int64(step) {
			offs = append(offs, ch.Offset+uint64(j))
		}
	}
}

func expected(from, to, step uint64, down bool) []uint64 {
	var out []uint64
	if down {
		for c := int64(from); c >= int64(to); c -= int64(step) {
			out = append(out, uint64(c))
		}
		return out
	}
	for c := from; c <= to; c += step {
		out = append(out, c)
	}
	return out
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{Begin: 5, End: 4, NeedleLen: 1, Step: 1})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(Config{End: 4, Step: 1})
	assert.ErrorIs(t, err, ErrEmptyNeedle)

	_, err = New(Config{End: 4, NeedleLen: 1})
	assert.ErrorIs(t, err, ErrInvalidStep)
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want Plan
	}{
		{
			name: "resident",
			cfg:  Config{Begin: 0, End: 99, NeedleLen: 4, Step: 1},
			want: Plan{ChunkCount: 1, WindowSize: 100, MaxOffsetInWindow: 96},
		},
		{
			name: "resident forced",
			cfg:  Config{Begin: 10, End: 19, NeedleLen: 2, Step: 1, MaxWindow: 4, Resident: true},
			want: Plan{ChunkCount: 1, WindowSize: 10, MaxOffsetInWindow: 8},
		},
		{
			name: "virtual",
			cfg:  Config{Begin: 0, End: 99, NeedleLen: 4, Step: 1, MaxWindow: 16},
			// 97 candidates, 13 per window.
			want: Plan{ChunkCount: 8, WindowSize: 16, MaxOffsetInWindow: 12},
		},
		{
			name: "window larger than range",
			cfg:  Config{Begin: 0, End: 9, NeedleLen: 2, Step: 1, MaxWindow: 64},
			want: Plan{ChunkCount: 1, WindowSize: 10, MaxOffsetInWindow: 8},
		},
		{
			name: "big step",
			cfg:  Config{Begin: 0, End: 99, NeedleLen: 4, Step: 20, MaxWindow: 16},
			// Candidates 0,20,40,60,80.
			want: Plan{ChunkCount: 5, WindowSize: 16, MaxOffsetInWindow: 12, BigStep: true},
		},
		{
			name: "range shorter than needle",
			cfg:  Config{Begin: 0, End: 2, NeedleLen: 4, Step: 1, MaxWindow: 16},
			want: Plan{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Plan())
		})
	}
}

func TestEmptyPlan_NoChunks(t *testing.T) {
	p, err := New(Config{Begin: 0, End: 2, NeedleLen: 4, Step: 1, MaxWindow: 16})
	require.NoError(t, err)
	assert.True(t, p.Plan().Empty())

	_, ok := p.Forward(0).Next()
	assert.False(t, ok)
	_, ok = p.Backward(2).Next()
	assert.False(t, ok)
}

func TestForward_CoversEveryCandidateOnce(t *testing.T) {
	for _, window := range []uint64{0, 4, 5, 7, 16, 100} {
		for _, step := range []uint64{1, 2, 3, 8, 30} {
			cfg := Config{Begin: 3, End: 60, NeedleLen: 3, Step: step, MaxWindow: window}
			p, err := New(cfg)
			require.NoError(t, err)

			got, chunks := forwardCandidates(p.Forward(5), step)
			assert.Equal(t, expected(5, 58, step, false), got, "window=%d step=%d", window, step)

			for _, ch := range chunks {
				assert.LessOrEqual(t, ch.Offset+ch.Size-1, cfg.End)
				assert.Equal(t, ch.Size-cfg.NeedleLen, ch.MaxSearchOffset)
				if window > 0 {
					assert.LessOrEqual(t, ch.Size, max(window, cfg.NeedleLen))
				}
			}
		}
	}
}

func TestBackward_CoversEveryCandidateOnce(t *testing.T) {
	for _, window := range []uint64{0, 4, 5, 7, 16, 100} {
		for _, step := range []uint64{1, 2, 3, 8, 30} {
			cfg := Config{Begin: 3, End: 60, NeedleLen: 3, Step: step, MaxWindow: window}
			p, err := New(cfg)
			require.NoError(t, err)

			got, chunks := backwardCandidates(p.Backward(50), step)
			assert.Equal(t, expected(50, 3, step, true), got, "window=%d step=%d", window, step)

			for _, ch := range chunks {
				assert.GreaterOrEqual(t, ch.Offset, cfg.Begin)
				assert.LessOrEqual(t, ch.First, ch.MaxSearchOffset)
			}
		}
	}
}

func TestBackward_ClampsStart(t *testing.T) {
	p, err := New(Config{Begin: 0, End: 9, NeedleLen: 2, Step: 1, MaxWindow: 4})
	require.NoError(t, err)

	got, _ := backwardCandidates(p.Backward(100), 1)
	assert.Equal(t, expected(8, 0, 1, true), got)
}

func TestForward_StartPastLastCandidate(t *testing.T) {
	p, err := New(Config{Begin: 0, End: 9, NeedleLen: 2, Step: 1, MaxWindow: 4})
	require.NoError(t, err)

	c := p.Forward(9)
	assert.True(t, c.Done())
	_, ok := c.Next()
	assert.False(t, ok)
}

func TestForward_TailShrink(t *testing.T) {
	p, err := New(Config{Begin: 0, End: 9, NeedleLen: 2, Step: 1, MaxWindow: 4})
	require.NoError(t, err)

	_, chunks := forwardCandidates(p.Forward(0), 1)
	require.Len(t, chunks, 3)
	assert.Equal(t, Chunk{Offset: 0, Size: 4, MaxSearchOffset: 2}, chunks[0])
	assert.Equal(t, Chunk{Offset: 3, Size: 4, MaxSearchOffset: 2}, chunks[1])
	// Last window ends exactly on End.
	assert.Equal(t, Chunk{Offset: 6, Size: 4, MaxSearchOffset: 2}, chunks[2])
}

func TestForward_BigStepReadsOnlyNeedle(t *testing.T) {
	p, err := New(Config{Begin: 0, End: 99, NeedleLen: 4, Step: 20, MaxWindow: 16})
	require.NoError(t, err)

	got, chunks := forwardCandidates(p.Forward(0), 20)
	assert.Equal(t, []uint64{0, 20, 40, 60, 80}, got)
	for _, ch := range chunks {
		assert.Equal(t, uint64(4), ch.Size)
	}
}

func TestCursor_Seek(t *testing.T) {
	p, err := New(Config{Begin: 0, End: 31, NeedleLen: 2, Step: 1, MaxWindow: 8})
	require.NoError(t, err)

	c := p.Forward(0)
	_, ok := c.Next()
	require.True(t, ok)

	c.Seek(20)
	ch, ok := c.Next()
	require.True(t, ok)
	assert.Equal(t, uint64(20), ch.Offset)

	c.Seek(31)
	assert.True(t, c.Done())
}
