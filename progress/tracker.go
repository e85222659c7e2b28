// Package progress implements a thread-safe progress sink for scans.
//
// A Tracker is written by the scanning goroutine and read by the waiting
// one. All fields are atomics, so no locking is needed on the scan path.
package progress

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// Snapshot is a point-in-time view of a Tracker.
type Snapshot struct {
	Offset   uint64
	Count    uint64
	Canceled bool
	// Fraction is the completed share of the tracked span in [0, 1], or 0
	// when no span was configured.
	Fraction float64
}

// Observer receives snapshots from the scanning goroutine.
type Observer func(Snapshot)

// Options configures a Tracker.
type Options struct {
	// Begin and End bound the tracked span (inclusive). Backward scans
	// report decreasing offsets, which is accounted for by Backward.
	Begin, End uint64
	Backward   bool
	// Observer is called at most PerSecond times per second from SetProgress
	// and SetCount.
	Observer  Observer
	PerSecond float64
}

// Tracker implements search.ProgressSink.
type Tracker struct {
	canceled atomic.Bool
	offset   atomic.Uint64
	count    atomic.Uint64

	opts    Options
	limiter *rate.Limiter
}

// New creates a Tracker.
func New(optFns ...func(o *Options)) *Tracker {
	opts := Options{PerSecond: 10}
	for _, fn := range optFns {
		fn(&opts)
	}

	t := &Tracker{opts: opts}
	if opts.Observer != nil && opts.PerSecond > 0 {
		t.limiter = rate.NewLimiter(rate.Limit(opts.PerSecond), 1)
	}
	t.offset.Store(opts.Begin)
	if opts.Backward {
		t.offset.Store(opts.End)
	}
	return t
}

// SetProgress records the scanned offset.
func (t *Tracker) SetProgress(offset uint64) {
	t.offset.Store(offset)
	t.notify()
}

// SetCount records the number of hits.
func (t *Tracker) SetCount(n uint64) {
	t.count.Store(n)
	t.notify()
}

// IsCanceled reports whether Cancel was called.
func (t *Tracker) IsCanceled() bool {
	return t.canceled.Load()
}

// Cancel asks the scan to stop at its next window boundary.
func (t *Tracker) Cancel() {
	t.canceled.Store(true)
}

// Reset clears the counters and the cancel flag for reuse.
func (t *Tracker) Reset() {
	t.canceled.Store(false)
	t.count.Store(0)
	if t.opts.Backward {
		t.offset.Store(t.opts.End)
	} else {
		t.offset.Store(t.opts.Begin)
	}
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	s := Snapshot{
		Offset:   t.offset.Load(),
		Count:    t.count.Load(),
		Canceled: t.canceled.Load(),
	}
	s.Fraction = t.fraction(s.Offset)
	return s
}

func (t *Tracker) fraction(off uint64) float64 {
	o := t.opts
	if o.End <= o.Begin {
		return 0
	}
	span := float64(o.End - o.Begin)

	var done float64
	switch {
	case o.Backward && off < o.End:
		done = float64(o.End - max(off, o.Begin))
	case !o.Backward && off > o.Begin:
		done = float64(min(off, o.End) - o.Begin)
	}
	return min(done/span, 1)
}

func (t *Tracker) notify() {
	if t.limiter == nil || !t.limiter.AllowN(time.Now(), 1) {
		return
	}
	t.opts.Observer(t.Snapshot())
}
