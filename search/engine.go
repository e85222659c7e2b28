package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/hupe1980/bytefind/chunk"
	"github.com/hupe1980/bytefind/internal/resource"
	"github.com/hupe1980/bytefind/matcher"
	"github.com/hupe1980/bytefind/provider"
)

type engineOptions struct {
	window uint64
	rc     *resource.Controller
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

// WithWindowSize caps the bytes read per window. On resident providers a
// non-zero size switches the engine to windowed scanning.
func WithWindowSize(n uint64) EngineOption {
	return func(o *engineOptions) {
		o.window = n
	}
}

// WithResourceController charges window buffers against rc's memory budget.
func WithResourceController(rc *resource.Controller) EngineOption {
	return func(o *engineOptions) {
		o.rc = rc
	}
}

// WithLogger sets the logger for scan diagnostics.
func WithLogger(l *slog.Logger) EngineOption {
	return func(o *engineOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Engine scans one provider. It holds no per-search state and may be shared,
// but the provider's cache window is mutated by every read, so scans on the
// same provider should not run concurrently.
type Engine struct {
	p      provider.Provider
	window uint64
	rc     *resource.Controller
	logger *slog.Logger
}

// NewEngine creates an engine over p.
func NewEngine(p provider.Provider, optFns ...EngineOption) *Engine {
	opts := engineOptions{
		logger: slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Engine{
		p:      p,
		window: opts.window,
		rc:     opts.rc,
		logger: opts.logger,
	}
}

// Provider returns the scanned provider.
func (e *Engine) Provider() provider.Provider {
	return e.p
}

// windowSize returns the effective window, 0 for resident scanning.
func (e *Engine) windowSize() uint64 {
	pw := provider.MaxWindow(e.p)
	switch {
	case e.window == 0:
		return pw
	case pw == 0:
		return e.window
	default:
		return min(e.window, pw)
	}
}

// scan holds the per-call state shared by all traversals.
type scan struct {
	e       *Engine
	q       Query
	r       Range
	planner *chunk.Planner
	m       matcher.Matcher
	sink    ProgressSink
	// reserved is the window memory charged to the resource controller.
	reserved int64
}

func (e *Engine) newScan(q Query, r Range, sink ProgressSink) (*scan, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := r.Validate(e.p.Size()); err != nil {
		return nil, err
	}

	window := e.windowSize()
	pl, err := chunk.New(chunk.Config{
		Begin:     r.Begin,
		End:       r.End,
		NeedleLen: uint64(len(q.Needle)),
		Step:      q.Step,
		MaxWindow: window,
		Resident:  window == 0,
	})
	if err != nil {
		return nil, err
	}

	s := &scan{
		e:       e,
		q:       q,
		r:       r,
		planner: pl,
		m:       matcher.New(q.matcherSpec()),
		sink:    sinkOrNop(sink),
	}

	if plan := pl.Plan(); window > 0 && !plan.Empty() {
		n := int64(min(plan.WindowSize, math.MaxInt64))
		if err := e.rc.AcquireMemory(n); err != nil {
			return nil, err
		}
		s.reserved = n
	}
	return s, nil
}

func (s *scan) close() {
	if s.reserved > 0 {
		s.e.rc.ReleaseMemory(s.reserved)
		s.reserved = 0
	}
}

// canceled polls the sink and the context.
func (s *scan) canceled(ctx context.Context) bool {
	return s.sink.IsCanceled() || ctx.Err() != nil
}

// read fetches a window. A read aborted by the context counts as cancellation.
func (s *scan) read(ctx context.Context, ch chunk.Chunk) ([]byte, bool, error) {
	buf, err := s.e.p.Read(ctx, ch.Offset, ch.Size)
	if err != nil {
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			return nil, true, nil
		}
		return nil, false, err
	}
	return buf, false, nil
}

// Find returns the first hit at or after start (forward) or at or before
// start (backward) within r.
func (e *Engine) Find(ctx context.Context, q Query, r Range, start uint64, sink ProgressSink) (Result, error) {
	s, err := e.newScan(q, r, sink)
	if err != nil {
		return Result{}, err
	}
	defer s.close()

	var res Result
	if q.Direction == Backward {
		res, err = s.findBackward(ctx, start)
	} else {
		res, err = s.findForward(ctx, start)
	}

	e.logger.Debug("find",
		slog.String("direction", q.Direction.String()),
		slog.Uint64("start", start),
		slog.Bool("found", res.Found),
		slog.Bool("canceled", res.Canceled),
		slog.Uint64("offset", res.Offset),
	)
	return res, err
}

func (s *scan) findForward(ctx context.Context, start uint64) (Result, error) {
	step := s.q.Step
	cur := s.planner.Forward(start)

	for !cur.Done() {
		if s.canceled(ctx) {
			return Result{Canceled: true}, nil
		}

		ch, _ := cur.Next()
		buf, canceled, err := s.read(ctx, ch)
		if canceled {
			return Result{Canceled: true}, nil
		}
		if err != nil {
			return Result{}, err
		}

		for j := ch.First; j <= ch.MaxSearchOffset; j = satAdd(j, step) {
			if s.m.Match(buf, j) {
				return Result{Offset: ch.Offset + j, Found: true}, nil
			}
		}
		s.sink.SetProgress(ch.Offset + ch.Size)
	}
	return Result{}, nil
}

func (s *scan) findBackward(ctx context.Context, start uint64) (Result, error) {
	step := s.q.Step
	cur := s.planner.Backward(start)

	for !cur.Done() {
		if s.canceled(ctx) {
			return Result{Canceled: true}, nil
		}

		ch, _ := cur.Next()
		buf, canceled, err := s.read(ctx, ch)
		if canceled {
			return Result{Canceled: true}, nil
		}
		if err != nil {
			return Result{}, err
		}

		for j := ch.First; ; j -= step {
			if s.m.Match(buf, j) {
				return Result{Offset: ch.Offset + j, Found: true}, nil
			}
			if j < step {
				break
			}
		}
		s.sink.SetProgress(ch.Offset)
	}
	return Result{}, nil
}

// hitFunc handles one hit of a forward pass. It returns the distance to the
// next candidate and whether the current window must be re-read.
type hitFunc func(ctx context.Context, offset uint64) (advance uint64, reread bool, err error)

// forEach walks r forward from r.Begin, calling fn for every hit until the
// range is exhausted or limit hits were handled.
func (s *scan) forEach(ctx context.Context, limit uint32, fn hitFunc) (Matches, error) {
	var out Matches
	step := s.q.Step
	cur := s.planner.Forward(s.r.Begin)

	for !cur.Done() {
		if s.canceled(ctx) {
			out.Canceled = true
			return out, nil
		}

		ch, _ := cur.Next()
		buf, canceled, err := s.read(ctx, ch)
		if canceled {
			out.Canceled = true
			return out, nil
		}
		if err != nil {
			return out, err
		}

		j := ch.First
		for j <= ch.MaxSearchOffset {
			if !s.m.Match(buf, j) {
				j = satAdd(j, step)
				continue
			}

			hit := ch.Offset + j
			adv, reread, err := fn(ctx, hit)
			if err != nil {
				return out, err
			}
			out.Offsets = append(out.Offsets, hit)
			s.sink.SetCount(uint64(len(out.Offsets)))
			if uint32(len(out.Offsets)) >= limit {
				return out, nil
			}

			j = satAdd(j, adv)
			if reread {
				break
			}
		}

		cur.Seek(satAdd(ch.Offset, j))
		s.sink.SetProgress(ch.Offset + ch.Size)
	}
	return out, nil
}

// FindAll collects up to q.Limit hits in one forward pass over r. After a hit
// the next candidate is hit+max(Step, len(Needle)).
func (e *Engine) FindAll(ctx context.Context, q Query, r Range, sink ProgressSink) (Matches, error) {
	if q.Limit == 0 {
		return Matches{}, ErrInvalidLimit
	}
	s, err := e.newScan(q, r, sink)
	if err != nil {
		return Matches{}, err
	}
	defer s.close()

	adv := max(q.Step, uint64(len(q.Needle)))
	m, err := s.forEach(ctx, q.Limit, func(context.Context, uint64) (uint64, bool, error) {
		return adv, false, nil
	})

	e.logger.Debug("find all",
		slog.Int("found", m.Count()),
		slog.Bool("canceled", m.Canceled),
	)
	return m, err
}

// ReplaceAll writes q.Replacement over up to q.Limit hits in one forward pass.
// After a write the next candidate is hit+max(Step, len(Replacement)).
// A replacement longer than the needle requires confirmLonger.
func (e *Engine) ReplaceAll(ctx context.Context, q Query, r Range, sink ProgressSink, confirmLonger bool) (Matches, error) {
	if q.Limit == 0 {
		return Matches{}, ErrInvalidLimit
	}
	if len(q.Replacement) == 0 {
		return Matches{}, fmt.Errorf("%w: empty replacement", ErrInvalidQuery)
	}
	if !CanReplaceInPlace(len(q.Needle), len(q.Replacement)) && !confirmLonger {
		return Matches{}, ErrReplacementLongerThanMatch
	}

	s, err := e.newScan(q, r, sink)
	if err != nil {
		return Matches{}, err
	}
	defer s.close()

	adv := max(q.Step, uint64(len(q.Replacement)))
	m, err := s.forEach(ctx, q.Limit, func(ctx context.Context, hit uint64) (uint64, bool, error) {
		if err := Replace(ctx, e.p, hit, len(q.Needle), q.Replacement, confirmLonger); err != nil {
			return 0, false, err
		}
		return adv, true, nil
	})

	e.logger.Debug("replace all",
		slog.Int("replaced", m.Count()),
		slog.Bool("canceled", m.Canceled),
	)
	return m, err
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
