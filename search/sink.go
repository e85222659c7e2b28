package search

// ProgressSink receives progress from a running scan and tells it when to stop.
// Implementations must be safe for use from a goroutine other than the one
// that created them.
type ProgressSink interface {
	// SetProgress reports the absolute offset scanned so far.
	SetProgress(offset uint64)
	// IsCanceled is polled before every window.
	IsCanceled() bool
	// SetCount reports the number of hits found or replaced so far.
	SetCount(n uint64)
}

type nopSink struct{}

func (nopSink) SetProgress(uint64) {}
func (nopSink) IsCanceled() bool   { return false }
func (nopSink) SetCount(uint64)    {}

func sinkOrNop(s ProgressSink) ProgressSink {
	if s == nil {
		return nopSink{}
	}
	return s
}
