package search

import (
	"fmt"
	"math"

	"github.com/hupe1980/bytefind/matcher"
)

// Direction is the traversal direction of a single-match search.
type Direction uint8

const (
	Forward Direction = iota
	Backward
)

func (d Direction) String() string {
	if d == Backward {
		return "backward"
	}
	return "forward"
}

// TextKind selects the matcher family.
type TextKind = matcher.Kind

const (
	Bytes  = matcher.Bytes
	Text8  = matcher.Text8
	Text16 = matcher.Text16
)

// Range is an inclusive address range.
type Range struct {
	Begin uint64
	End   uint64
}

// Size returns the number of bytes in r.
func (r Range) Size() uint64 {
	return r.End - r.Begin + 1
}

// Validate checks r against a provider of the given size.
func (r Range) Validate(size uint64) error {
	if r.Begin > r.End || r.End >= size {
		return fmt.Errorf("%w: [%d, %d] in %d bytes", ErrInvalidRange, r.Begin, r.End, size)
	}
	return nil
}

// Query describes what to look for.
type Query struct {
	Needle      []byte
	Replacement []byte
	Direction   Direction
	// Step is the distance between candidate offsets.
	Step      uint64
	Inverted  bool
	MatchCase bool
	// Wildcard is the byte (or code unit for Text16) matching anything when
	// UseWildcard is set.
	Wildcard    byte
	UseWildcard bool
	BigEndian   bool
	// Limit caps find-all and replace-all results.
	Limit uint32
	Text  TextKind
}

// Validate checks the needle and step.
func (q Query) Validate() error {
	if len(q.Needle) == 0 {
		return ErrEmptyNeedle
	}
	if q.Step == 0 {
		return ErrInvalidStep
	}
	if q.Step > math.MaxUint64-uint64(len(q.Needle)) {
		return fmt.Errorf("%w: step %d overflows", ErrInvalidQuery, q.Step)
	}
	return nil
}

func (q Query) matcherSpec() matcher.Spec {
	return matcher.Spec{
		Needle:      q.Needle,
		Kind:        q.Text,
		Step:        q.Step,
		MatchCase:   q.MatchCase,
		Wildcard:    q.Wildcard,
		UseWildcard: q.UseWildcard,
		BigEndian:   q.BigEndian,
		Inverted:    q.Inverted,
	}
}

// sameMode reports whether a session built for q stays valid for o.
func (q Query) sameMode(o Query) bool {
	return string(q.Needle) == string(o.Needle) &&
		q.Step == o.Step &&
		q.Inverted == o.Inverted &&
		q.MatchCase == o.MatchCase &&
		q.UseWildcard == o.UseWildcard &&
		(!q.UseWildcard || q.Wildcard == o.Wildcard) &&
		q.BigEndian == o.BigEndian &&
		q.Text == o.Text
}

// Result is the outcome of a single-match search.
// Found and Canceled are never both set.
type Result struct {
	Offset   uint64
	Found    bool
	Canceled bool
}

// Matches is the outcome of a find-all or replace-all pass.
type Matches struct {
	// Offsets are in discovery order.
	Offsets  []uint64
	Canceled bool
}

// Count returns the number of hits.
func (m Matches) Count() int {
	return len(m.Offsets)
}
