package search

import (
	"context"
	"time"

	"github.com/hupe1980/bytefind/internal/resource"
	"golang.org/x/sync/errgroup"
)

// DefaultPollInterval is how often RunAsync invokes its poll callback.
const DefaultPollInterval = 100 * time.Millisecond

// AsyncOptions configures RunAsync.
type AsyncOptions struct {
	// Controller provides the background worker slot. May be nil.
	Controller *resource.Controller
	// Poll is called on the caller's goroutine while the worker runs.
	// It typically renders progress and cancels the sink on user request.
	Poll func()
	// Interval between Poll calls. Defaults to DefaultPollInterval.
	Interval time.Duration
}

// RunAsync runs fn on a dedicated worker goroutine while the calling
// goroutine waits, calling opts.Poll periodically. It returns fn's error.
func RunAsync(ctx context.Context, opts AsyncOptions, fn func(ctx context.Context) error) error {
	if err := opts.Controller.AcquireBackground(ctx); err != nil {
		return err
	}
	defer opts.Controller.ReleaseBackground()

	g, gctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)
		return fn(gctx)
	})

	if opts.Poll != nil {
		interval := opts.Interval
		if interval <= 0 {
			interval = DefaultPollInterval
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

	wait:
		for {
			select {
			case <-done:
				break wait
			case <-ticker.C:
				opts.Poll()
			}
		}
	}

	return g.Wait()
}
