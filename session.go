package bytefind

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/bytefind/search"
)

// Session is an interactive find next/prev session bound to a Finder.
// Scans follow the Finder's sync/async policy and progress reporting.
type Session struct {
	f      *Finder
	s      *search.Session
	logger *Logger

	mu  sync.Mutex
	rng search.Range
}

// NewSession starts a session for q over r.
func (f *Finder) NewSession(q search.Query, r search.Range) *Session {
	s := search.NewSession(f.engine, q, r)
	return &Session{
		f:      f,
		s:      s,
		logger: f.logger.WithSession(s.ID().String()),
		rng:    r,
	}
}

func (s *Session) searchRange() search.Range {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng
}

// FindNext moves to the next hit, wrapping to the beginning once.
func (s *Session) FindNext(ctx context.Context) (search.Result, error) {
	return s.find(ctx, search.Forward, s.s.FindNext)
}

// FindPrev moves to the previous hit, wrapping to the end once.
func (s *Session) FindPrev(ctx context.Context) (search.Result, error) {
	return s.find(ctx, search.Backward, s.s.FindPrev)
}

func (s *Session) find(ctx context.Context, dir search.Direction, fn func(context.Context, search.ProgressSink) (search.Result, error)) (search.Result, error) {
	t0 := time.Now()
	r := s.searchRange()

	var res search.Result
	err := s.f.run(ctx, r, dir, func(ctx context.Context, sink search.ProgressSink) error {
		var err error
		res, err = fn(ctx, sink)
		return err
	})
	err = translateError("find", err)

	s.f.metrics.RecordFind(res.Found, time.Since(t0), err)
	s.logger.LogFind(ctx, dir, res, err)
	return res, err
}

// FindAll collects every hit and makes the first one current.
func (s *Session) FindAll(ctx context.Context) (search.Matches, error) {
	t0 := time.Now()
	r := s.searchRange()

	var m search.Matches
	err := s.f.run(ctx, r, search.Forward, func(ctx context.Context, sink search.ProgressSink) error {
		var err error
		m, err = s.s.FindAll(ctx, sink)
		return err
	})
	err = translateError("find all", err)

	s.f.metrics.RecordFindAll(m.Count(), time.Since(t0), err)
	s.logger.LogFindAll(ctx, m, err)
	return m, err
}

// ReplaceAll replaces every hit in the session's range.
func (s *Session) ReplaceAll(ctx context.Context, confirmLonger bool) (search.Matches, error) {
	t0 := time.Now()
	r := s.searchRange()

	var m search.Matches
	err := s.f.run(ctx, r, search.Forward, func(ctx context.Context, sink search.ProgressSink) error {
		var err error
		m, err = s.s.ReplaceAll(ctx, sink, confirmLonger)
		return err
	})
	err = translateError("replace all", err)

	s.f.metrics.RecordReplace(m.Count(), time.Since(t0), err)
	s.logger.LogReplace(ctx, m, err)
	return m, err
}

// ReplaceCurrent overwrites the current hit.
func (s *Session) ReplaceCurrent(ctx context.Context, confirmLonger bool) error {
	t0 := time.Now()

	var m search.Matches
	err := s.s.ReplaceCurrent(ctx, confirmLonger)
	if err == nil {
		off, _ := s.s.LastOffset()
		m.Offsets = []uint64{off}
	}
	err = translateError("replace", err)

	s.f.metrics.RecordReplace(m.Count(), time.Since(t0), err)
	s.logger.LogReplace(ctx, m, err)
	return err
}

// Update installs a new query and range, clearing the session when the
// needle, mode or range changed.
func (s *Session) Update(q search.Query, r search.Range) {
	s.mu.Lock()
	s.rng = r
	s.mu.Unlock()
	s.s.Update(q, r)
}

// ClearAll resets the session.
func (s *Session) ClearAll() { s.s.ClearAll() }

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID { return s.s.ID() }

// State returns the state machine position.
func (s *Session) State() search.State { return s.s.State() }

// Wrap reports how the current hit was reached.
func (s *Session) Wrap() search.WrapDirection { return s.s.Wrap() }

// Occurrence returns the 1-based index of the current hit, 0 when unknown.
func (s *Session) Occurrence() uint32 { return s.s.Occurrence() }

// LastOffset returns the current hit.
func (s *Session) LastOffset() (uint64, bool) { return s.s.LastOffset() }

// Results returns the offsets of the last find-all or replace-all.
func (s *Session) Results() []uint64 { return s.s.Results() }

// Contains reports whether offset was a find-all hit.
func (s *Session) Contains(offset uint64) bool { return s.s.Contains(offset) }
