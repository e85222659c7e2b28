package resource

import (
	"context"
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a reservation does not fit the memory budget.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits. Zero values mean unlimited, except
// MaxBackgroundWorkers which defaults to 1.
type Config struct {
	// MemoryLimitBytes bounds search windows and cached blocks together.
	MemoryLimitBytes int64
	// MaxBackgroundWorkers bounds concurrent asynchronous scans.
	MaxBackgroundWorkers int64
	// IOLimitBytesPerSec throttles reads of providers built on a blob.
	IOLimitBytesPerSec int64
}

// Usage is a snapshot of what a Controller has handed out.
type Usage struct {
	MemoryBytes     int64
	PeakMemoryBytes int64
	// Rejected counts reservations refused with ErrMemoryLimitExceeded.
	Rejected  int64
	ReadBytes int64
}

// Controller shares scan budgets between engines, providers and caches.
// A nil *Controller imposes no limits.
type Controller struct {
	limit    int64
	used     atomic.Int64
	peak     atomic.Int64
	rejected atomic.Int64

	workers *semaphore.Weighted

	reads   *rate.Limiter
	readSum atomic.Int64
}

// NewController creates a Controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{
		limit:   max(cfg.MemoryLimitBytes, 0),
		workers: semaphore.NewWeighted(max(cfg.MaxBackgroundWorkers, 1)),
	}
	if bps := cfg.IOLimitBytesPerSec; bps > 0 {
		c.reads = rate.NewLimiter(rate.Limit(bps), int(bps))
	}
	return c
}

// AcquireMemory reserves n bytes without blocking. It fails with
// ErrMemoryLimitExceeded instead of waiting for other scans to finish.
func (c *Controller) AcquireMemory(n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	for {
		cur := c.used.Load()
		next := cur + n
		if c.limit > 0 && next > c.limit {
			c.rejected.Add(1)
			return ErrMemoryLimitExceeded
		}
		if c.used.CompareAndSwap(cur, next) {
			c.raisePeak(next)
			return nil
		}
	}
}

func (c *Controller) raisePeak(v int64) {
	for {
		p := c.peak.Load()
		if v <= p || c.peak.CompareAndSwap(p, v) {
			return
		}
	}
}

// ReleaseMemory returns n bytes reserved by AcquireMemory.
func (c *Controller) ReleaseMemory(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.used.Add(-n)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.used.Load()
}

// AcquireBackground blocks until a background scan slot is free or ctx ends.
func (c *Controller) AcquireBackground(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.workers.Acquire(ctx, 1)
}

// TryAcquireBackground takes a background scan slot if one is free.
func (c *Controller) TryAcquireBackground() bool {
	return c == nil || c.workers.TryAcquire(1)
}

// ReleaseBackground frees a slot taken by AcquireBackground or TryAcquireBackground.
func (c *Controller) ReleaseBackground() {
	if c != nil {
		c.workers.Release(1)
	}
}

// AcquireIO waits until n bytes may be read. Reads larger than one
// second of throughput are admitted in pieces.
func (c *Controller) AcquireIO(ctx context.Context, n int) error {
	if c == nil {
		return nil
	}
	c.readSum.Add(int64(max(n, 0)))
	if c.reads == nil {
		return nil
	}
	for burst := c.reads.Burst(); n > 0; n -= burst {
		if err := c.reads.WaitN(ctx, min(n, burst)); err != nil {
			return err
		}
	}
	return nil
}

// Usage returns the current counters.
func (c *Controller) Usage() Usage {
	if c == nil {
		return Usage{}
	}
	return Usage{
		MemoryBytes:     c.used.Load(),
		PeakMemoryBytes: c.peak.Load(),
		Rejected:        c.rejected.Load(),
		ReadBytes:       c.readSum.Load(),
	}
}
