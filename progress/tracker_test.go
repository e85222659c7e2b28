package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Basic(t *testing.T) {
	tr := New(func(o *Options) {
		o.Begin = 100
		o.End = 200
	})

	assert.False(t, tr.IsCanceled())
	assert.Equal(t, Snapshot{Offset: 100}, tr.Snapshot())

	tr.SetProgress(150)
	tr.SetCount(3)
	s := tr.Snapshot()
	assert.Equal(t, uint64(150), s.Offset)
	assert.Equal(t, uint64(3), s.Count)
	assert.InDelta(t, 0.5, s.Fraction, 1e-9)

	tr.SetProgress(500)
	assert.InDelta(t, 1.0, tr.Snapshot().Fraction, 1e-9)

	tr.Cancel()
	assert.True(t, tr.IsCanceled())
	assert.True(t, tr.Snapshot().Canceled)

	tr.Reset()
	assert.False(t, tr.IsCanceled())
	assert.Equal(t, Snapshot{Offset: 100}, tr.Snapshot())
}

func TestTracker_Backward(t *testing.T) {
	tr := New(func(o *Options) {
		o.Begin = 0
		o.End = 1000
		o.Backward = true
	})

	assert.InDelta(t, 0.0, tr.Snapshot().Fraction, 1e-9)
	tr.SetProgress(250)
	assert.InDelta(t, 0.75, tr.Snapshot().Fraction, 1e-9)
}

func TestTracker_ObserverIsThrottled(t *testing.T) {
	var calls int
	tr := New(func(o *Options) {
		o.End = 100
		o.PerSecond = 1
		o.Observer = func(Snapshot) { calls++ }
	})

	for i := uint64(0); i < 100; i++ {
		tr.SetProgress(i)
	}
	// Burst of one, then at most one per second.
	assert.GreaterOrEqual(t, calls, 1)
	assert.LessOrEqual(t, calls, 2)
}
