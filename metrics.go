package bytefind

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordFind is called after each single-match search.
	RecordFind(found bool, duration time.Duration, err error)

	// RecordFindAll is called after each find-all pass with the number of hits.
	RecordFindAll(count int, duration time.Duration, err error)

	// RecordReplace is called after each replace or replace-all with the
	// number of replaced occurrences.
	RecordReplace(count int, duration time.Duration, err error)

	// RecordScan is called after every scan with the number of bytes in the
	// searched range and whether it ran on a worker.
	RecordScan(bytes uint64, async bool)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFind(bool, time.Duration, error)   {}
func (NoopMetricsCollector) RecordFindAll(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordReplace(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordScan(uint64, bool)                 {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FindCount         atomic.Int64
	FindHits          atomic.Int64
	FindErrors        atomic.Int64
	FindTotalNanos    atomic.Int64
	FindAllCount      atomic.Int64
	FindAllMatches    atomic.Int64
	FindAllErrors     atomic.Int64
	FindAllTotalNanos atomic.Int64
	ReplaceCount      atomic.Int64
	ReplacedMatches   atomic.Int64
	ReplaceErrors     atomic.Int64
	ScannedBytes      atomic.Uint64
	AsyncScans        atomic.Int64
	SyncScans         atomic.Int64
}

// RecordFind implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFind(found bool, duration time.Duration, err error) {
	b.FindCount.Add(1)
	b.FindTotalNanos.Add(duration.Nanoseconds())
	if found {
		b.FindHits.Add(1)
	}
	if err != nil {
		b.FindErrors.Add(1)
	}
}

// RecordFindAll implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFindAll(count int, duration time.Duration, err error) {
	b.FindAllCount.Add(1)
	b.FindAllMatches.Add(int64(count))
	b.FindAllTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FindAllErrors.Add(1)
	}
}

// RecordReplace implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReplace(count int, duration time.Duration, err error) {
	b.ReplaceCount.Add(1)
	b.ReplacedMatches.Add(int64(count))
	if err != nil {
		b.ReplaceErrors.Add(1)
	}
}

// RecordScan implements MetricsCollector.
func (b *BasicMetricsCollector) RecordScan(bytes uint64, async bool) {
	b.ScannedBytes.Add(bytes)
	if async {
		b.AsyncScans.Add(1)
	} else {
		b.SyncScans.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FindCount:       b.FindCount.Load(),
		FindHits:        b.FindHits.Load(),
		FindErrors:      b.FindErrors.Load(),
		FindAvgNanos:    avg(b.FindTotalNanos.Load(), b.FindCount.Load()),
		FindAllCount:    b.FindAllCount.Load(),
		FindAllMatches:  b.FindAllMatches.Load(),
		FindAllErrors:   b.FindAllErrors.Load(),
		FindAllAvgNanos: avg(b.FindAllTotalNanos.Load(), b.FindAllCount.Load()),
		ReplaceCount:    b.ReplaceCount.Load(),
		ReplacedMatches: b.ReplacedMatches.Load(),
		ReplaceErrors:   b.ReplaceErrors.Load(),
		ScannedBytes:    b.ScannedBytes.Load(),
		AsyncScans:      b.AsyncScans.Load(),
		SyncScans:       b.SyncScans.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	FindCount       int64
	FindHits        int64
	FindErrors      int64
	FindAvgNanos    int64
	FindAllCount    int64
	FindAllMatches  int64
	FindAllErrors   int64
	FindAllAvgNanos int64
	ReplaceCount    int64
	ReplacedMatches int64
	ReplaceErrors   int64
	ScannedBytes    uint64
	AsyncScans      int64
	SyncScans       int64
}
