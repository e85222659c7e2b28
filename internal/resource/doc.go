// Package resource governs the resources a scan is allowed to consume.
//
// The Controller manages three budgets:
//
//   - Window memory: search windows and cached remote blocks (fail-fast)
//   - Background scans: worker goroutines running long scans off the caller's goroutine
//   - Read IO: a token bucket throttling reads from remote or slow sources
//
// # Window Memory
//
// A scan over a virtual provider reserves its window size for the duration
// of the scan. AcquireMemory is non-blocking and returns
// ErrMemoryLimitExceeded when the reservation does not fit:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 256 << 20,
//	})
//
//	if err := rc.AcquireMemory(window); err != nil {
//	    return err
//	}
//	defer rc.ReleaseMemory(window)
//
// # Background Scans
//
//	if err := rc.AcquireBackground(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseBackground()
//
// # Read Throttling
//
//	if err := rc.AcquireIO(ctx, len(buf)); err != nil {
//	    return err
//	}
//
// Usage reports current and peak reservations, refused reservations and
// bytes admitted for reading. A nil Controller accepts everything.
package resource
