package search

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/google/uuid"
)

// WrapDirection records whether the last hit was found after wrapping.
type WrapDirection uint8

const (
	WrapNone WrapDirection = iota
	// WrapToEnd is set when a forward search wrapped to the beginning.
	WrapToEnd
	// WrapToBeginning is set when a backward search wrapped to the end.
	WrapToBeginning
)

func (w WrapDirection) String() string {
	switch w {
	case WrapToEnd:
		return "to-end"
	case WrapToBeginning:
		return "to-beginning"
	default:
		return "none"
	}
}

// State is the session's position in the find next/prev state machine.
type State uint8

const (
	Idle State = iota
	Searching
	Found
	// NotFoundWrapped means the directional search failed and the wrapped
	// retry is running.
	NotFoundWrapped
	// NotFoundExhausted means neither the directional nor the wrapped search
	// found anything. The session has been cleared.
	NotFoundExhausted
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case Found:
		return "found"
	case NotFoundWrapped:
		return "not-found-wrapped"
	case NotFoundExhausted:
		return "not-found-exhausted"
	default:
		return "idle"
	}
}

// Session carries state across repeated find next/prev calls for one needle
// and range. It is safe for concurrent use, but calls are serialized.
type Session struct {
	mu     sync.Mutex
	id     uuid.UUID
	engine *Engine
	query  Query
	rng    Range
	logger *slog.Logger

	state       State
	hasLast     bool
	last        uint64
	wrap        WrapDirection
	secondMatch bool
	// occurrence is the 1-based index of the last hit from Begin, 0 when unknown.
	occurrence uint32
	results    []uint64
	index      *roaring64.Bitmap
}

// NewSession creates a session for q over r.
func NewSession(e *Engine, q Query, r Range) *Session {
	id := uuid.New()
	return &Session{
		id:     id,
		engine: e,
		query:  q,
		rng:    r,
		logger: e.logger.With(slog.String("session", id.String())),
		index:  roaring64.New(),
	}
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Update installs a new query and range. The session is cleared when the
// needle, the matching mode or the range changed.
func (s *Session) Update(q Query, r Range) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.query.sameMode(q) || s.rng != r {
		s.clearLocked()
	}
	s.query = q
	s.rng = r
}

// ClearAll resets all cross-call state.
func (s *Session) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func (s *Session) clearLocked() {
	s.state = Idle
	s.hasLast = false
	s.last = 0
	s.wrap = WrapNone
	s.secondMatch = false
	s.occurrence = 0
	s.results = nil
	s.index.Clear()
}

// FindNext searches forward from the last hit, wrapping to Begin once.
func (s *Session) FindNext(ctx context.Context, sink ProgressSink) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.query
	q.Direction = Forward
	s.state = Searching

	if !s.hasLast {
		res, err := s.engine.Find(ctx, q, s.rng, s.rng.Begin, sink)
		if err != nil || res.Canceled {
			s.state = Idle
			return res, err
		}
		if !res.Found {
			s.exhausted()
			return res, nil
		}
		s.hit(res.Offset, WrapNone)
		s.occurrence = 1
		return res, nil
	}

	res, err := s.engine.Find(ctx, q, s.rng, satAdd(s.last, q.Step), sink)
	if err != nil || res.Canceled {
		s.state = Found
		return res, err
	}
	if res.Found {
		s.secondMatch = true
		s.hit(res.Offset, WrapNone)
		if s.occurrence > 0 {
			s.occurrence++
		}
		return res, nil
	}

	// Wrap: candidates before the last hit.
	s.state = NotFoundWrapped
	needleLen := uint64(len(q.Needle))
	if s.last > s.rng.Begin && s.last+needleLen-2 >= s.rng.Begin {
		wrapped := Range{Begin: s.rng.Begin, End: s.last + needleLen - 2}
		res, err = s.engine.Find(ctx, q, wrapped, wrapped.Begin, sink)
		if err != nil || res.Canceled {
			s.state = Found
			return res, err
		}
		if res.Found {
			s.hit(res.Offset, WrapToEnd)
			s.occurrence = 1
			return res, nil
		}
	}

	s.exhausted()
	return Result{}, nil
}

// FindPrev searches backward from the last hit, wrapping to End once.
func (s *Session) FindPrev(ctx context.Context, sink ProgressSink) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := s.query
	q.Direction = Backward
	s.state = Searching

	if !s.hasLast {
		res, err := s.engine.Find(ctx, q, s.rng, s.rng.End, sink)
		if err != nil || res.Canceled {
			s.state = Idle
			return res, err
		}
		if !res.Found {
			s.exhausted()
			return res, nil
		}
		s.hit(res.Offset, WrapNone)
		s.occurrence = 0
		return res, nil
	}

	if s.last >= s.rng.Begin+q.Step {
		res, err := s.engine.Find(ctx, q, s.rng, s.last-q.Step, sink)
		if err != nil || res.Canceled {
			s.state = Found
			return res, err
		}
		if res.Found {
			s.secondMatch = true
			s.hit(res.Offset, WrapNone)
			if s.occurrence > 0 {
				s.occurrence--
			}
			return res, nil
		}
	}

	// Wrap: candidates after the last hit.
	s.state = NotFoundWrapped
	if s.last < s.rng.End {
		wrapped := Range{Begin: s.last + 1, End: s.rng.End}
		res, err := s.engine.Find(ctx, q, wrapped, wrapped.End, sink)
		if err != nil || res.Canceled {
			s.state = Found
			return res, err
		}
		if res.Found {
			s.hit(res.Offset, WrapToBeginning)
			s.occurrence = 0
			return res, nil
		}
	}

	s.exhausted()
	return Result{}, nil
}

func (s *Session) hit(off uint64, wrap WrapDirection) {
	s.state = Found
	s.hasLast = true
	s.last = off
	s.wrap = wrap

	s.logger.Debug("match",
		slog.Uint64("offset", off),
		slog.String("wrap", wrap.String()),
	)
}

func (s *Session) exhausted() {
	s.clearLocked()
	s.state = NotFoundExhausted
}

// FindAll collects every hit in the range, up to the query limit. The first
// hit becomes the current match.
func (s *Session) FindAll(ctx context.Context, sink ProgressSink) (Matches, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Searching
	m, err := s.engine.FindAll(ctx, s.query, s.rng, sink)
	return m, s.storeAllLocked(m, err)
}

// ReplaceAll replaces every hit in the range, up to the query limit.
func (s *Session) ReplaceAll(ctx context.Context, sink ProgressSink, confirmLonger bool) (Matches, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Searching
	m, err := s.engine.ReplaceAll(ctx, s.query, s.rng, sink, confirmLonger)
	return m, s.storeAllLocked(m, err)
}

func (s *Session) storeAllLocked(m Matches, err error) error {
	s.clearLocked()
	if err != nil {
		return err
	}

	s.results = m.Offsets
	for _, off := range m.Offsets {
		s.index.Add(off)
	}
	if len(m.Offsets) == 0 {
		if !m.Canceled {
			s.state = NotFoundExhausted
		}
		return nil
	}

	s.state = Found
	s.hasLast = true
	s.last = m.Offsets[0]
	s.occurrence = 1
	return nil
}

// ReplaceCurrent writes the query's replacement over the current match.
func (s *Session) ReplaceCurrent(ctx context.Context, confirmLonger bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasLast || s.state != Found {
		return ErrNoCurrentMatch
	}
	if len(s.query.Replacement) == 0 {
		return ErrInvalidQuery
	}
	return Replace(ctx, s.engine.p, s.last, len(s.query.Needle), s.query.Replacement, confirmLonger)
}

// State returns the state machine position.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Wrap returns how the last hit was reached.
func (s *Session) Wrap() WrapDirection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wrap
}

// SecondMatch reports whether the last hit followed an earlier one without
// a reset.
func (s *Session) SecondMatch() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.secondMatch
}

// Occurrence returns the 1-based index of the last hit counted from Begin,
// or 0 when unknown.
func (s *Session) Occurrence() uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occurrence
}

// LastOffset returns the last hit and whether there is one.
func (s *Session) LastOffset() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Results returns a copy of the offsets from the last find-all or replace-all.
func (s *Session) Results() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.results)
}

// Contains reports whether offset is one of the find-all results.
func (s *Session) Contains(offset uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Contains(offset)
}
