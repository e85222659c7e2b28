package bytefind

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/bytefind/internal/resource"
	"github.com/hupe1980/bytefind/progress"
	"github.com/hupe1980/bytefind/provider"
	"github.com/hupe1980/bytefind/search"
)

// Finder runs searches over one provider.
type Finder struct {
	p       provider.Provider
	engine  *search.Engine
	rc      *resource.Controller
	logger  *Logger
	metrics MetricsCollector

	asyncThreshold uint64
	onProgress     func(progress.Snapshot)
	progressRate   float64
	pollInterval   time.Duration

	current atomic.Pointer[progress.Tracker]
}

// New creates a Finder over p.
func New(p provider.Provider, optFns ...Option) *Finder {
	opts := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		asyncThreshold:   DefaultAsyncThreshold,
		progressRate:     10,
		pollInterval:     search.DefaultPollInterval,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	rc := opts.controller
	if rc == nil {
		rc = resource.NewController(opts.resources)
	}

	return &Finder{
		p: p,
		engine: search.NewEngine(p,
			search.WithWindowSize(opts.window),
			search.WithResourceController(rc),
			search.WithLogger(opts.logger.Logger),
		),
		rc:             rc,
		logger:         opts.logger,
		metrics:        opts.metricsCollector,
		asyncThreshold: opts.asyncThreshold,
		onProgress:     opts.onProgress,
		progressRate:   opts.progressRate,
		pollInterval:   opts.pollInterval,
	}
}

// Provider returns the searched provider.
func (f *Finder) Provider() provider.Provider {
	return f.p
}

// Cancel stops the running scan at its next window boundary. It is a no-op
// when nothing runs.
func (f *Finder) Cancel() {
	if tr := f.current.Load(); tr != nil {
		tr.Cancel()
	}
}

// Find returns the first hit from start in q.Direction.
func (f *Finder) Find(ctx context.Context, q search.Query, r search.Range, start uint64) (search.Result, error) {
	t0 := time.Now()

	var res search.Result
	err := f.run(ctx, r, q.Direction, func(ctx context.Context, sink search.ProgressSink) error {
		var err error
		res, err = f.engine.Find(ctx, q, r, start, sink)
		return err
	})
	err = translateError("find", err)

	f.metrics.RecordFind(res.Found, time.Since(t0), err)
	f.logger.LogFind(ctx, q.Direction, res, err)
	return res, err
}

// FindAll collects up to q.Limit hits in r.
func (f *Finder) FindAll(ctx context.Context, q search.Query, r search.Range) (search.Matches, error) {
	t0 := time.Now()

	var m search.Matches
	err := f.run(ctx, r, search.Forward, func(ctx context.Context, sink search.ProgressSink) error {
		var err error
		m, err = f.engine.FindAll(ctx, q, r, sink)
		return err
	})
	err = translateError("find all", err)

	f.metrics.RecordFindAll(m.Count(), time.Since(t0), err)
	f.logger.LogFindAll(ctx, m, err)
	return m, err
}

// ReplaceAll overwrites up to q.Limit hits in r with q.Replacement.
func (f *Finder) ReplaceAll(ctx context.Context, q search.Query, r search.Range, confirmLonger bool) (search.Matches, error) {
	t0 := time.Now()

	var m search.Matches
	err := f.run(ctx, r, search.Forward, func(ctx context.Context, sink search.ProgressSink) error {
		var err error
		m, err = f.engine.ReplaceAll(ctx, q, r, sink, confirmLonger)
		return err
	})
	err = translateError("replace all", err)

	f.metrics.RecordReplace(m.Count(), time.Since(t0), err)
	f.logger.LogReplace(ctx, m, err)
	return m, err
}

// Count returns the number of hits in r, up to q.Limit.
func (f *Finder) Count(ctx context.Context, q search.Query, r search.Range) (int, bool, error) {
	m, err := f.FindAll(ctx, q, r)
	return m.Count(), m.Canceled, err
}

// run executes fn synchronously for small ranges and on a worker otherwise.
func (f *Finder) run(ctx context.Context, r search.Range, dir search.Direction, fn func(context.Context, search.ProgressSink) error) error {
	async := r.End >= r.Begin && r.Size() >= f.asyncThreshold

	tr := progress.New(func(o *progress.Options) {
		o.Begin = r.Begin
		o.End = r.End
		o.Backward = dir == search.Backward
		if !async {
			o.Observer = f.onProgress
			o.PerSecond = f.progressRate
		}
	})
	f.current.Store(tr)
	defer f.current.CompareAndSwap(tr, nil)

	f.metrics.RecordScan(r.Size(), async)
	if !async {
		return fn(ctx, tr)
	}

	var poll func()
	if f.onProgress != nil {
		poll = func() { f.onProgress(tr.Snapshot()) }
	}
	return search.RunAsync(ctx, search.AsyncOptions{
		Controller: f.rc,
		Poll:       poll,
		Interval:   f.pollInterval,
	}, func(ctx context.Context) error {
		return fn(ctx, tr)
	})
}
