package bytefind

import (
	"time"

	"github.com/hupe1980/bytefind/internal/resource"
	"github.com/hupe1980/bytefind/progress"
)

// DefaultAsyncThreshold is the range size from which scans run on a worker.
const DefaultAsyncThreshold = 32 << 20

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	window           uint64
	asyncThreshold   uint64
	resources        resource.Config
	controller       *resource.Controller
	onProgress       func(progress.Snapshot)
	progressRate     float64
	pollInterval     time.Duration
}

// Option configures a Finder.
type Option func(*options)

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics sink.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithWindowSize caps the bytes read per scan window.
// Zero uses the provider's own window, or scans resident providers in one piece.
func WithWindowSize(n uint64) Option {
	return func(o *options) {
		o.window = n
	}
}

// WithAsyncThreshold sets the range size from which scans run on a worker
// goroutine. Zero runs every scan on a worker.
func WithAsyncThreshold(n uint64) Option {
	return func(o *options) {
		o.asyncThreshold = n
	}
}

// WithMemoryLimit caps the window memory of concurrent scans.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.resources.MemoryLimitBytes = bytes
	}
}

// WithBackgroundWorkers caps the number of concurrent worker scans.
func WithBackgroundWorkers(n int64) Option {
	return func(o *options) {
		o.resources.MaxBackgroundWorkers = n
	}
}

// WithResourceController shares a controller between Finders and providers.
// It takes precedence over WithMemoryLimit and WithBackgroundWorkers.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithProgress registers a progress callback. Synchronous scans call it from
// the scanning goroutine at most perSecond times per second (see
// WithProgressRate); worker scans call it from the waiting goroutine every
// poll interval.
func WithProgress(fn func(progress.Snapshot)) Option {
	return func(o *options) {
		o.onProgress = fn
	}
}

// WithProgressRate caps synchronous progress callbacks per second.
func WithProgressRate(perSecond float64) Option {
	return func(o *options) {
		o.progressRate = perSecond
	}
}

// WithPollInterval sets how often a waiting caller is called back during
// worker scans.
func WithPollInterval(d time.Duration) Option {
	return func(o *options) {
		o.pollInterval = d
	}
}
