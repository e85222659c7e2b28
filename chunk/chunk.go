// Package chunk maps an inclusive address range onto bounded read windows.
//
// A Planner is built once per scan. Forward and Backward cursors walk the
// candidate offsets start, start±Step, ... and group them into windows that
// hold every byte the candidates in them need, so a needle never straddles a
// window boundary and no candidate is visited twice.
package chunk

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRange is returned when Begin > End.
	ErrInvalidRange = errors.New("invalid range")
	// ErrEmptyNeedle is returned for a zero needle length.
	ErrEmptyNeedle = errors.New("empty needle")
	// ErrInvalidStep is returned for a zero step.
	ErrInvalidStep = errors.New("step must be positive")
)

// Config describes one scan.
type Config struct {
	// Begin and End are the inclusive bounds of the searched range.
	Begin, End uint64
	NeedleLen  uint64
	Step       uint64
	// MaxWindow is the largest window the provider serves. Zero means the
	// whole range is resident.
	MaxWindow uint64
	// Resident forces a single window covering the range.
	Resident bool
}

// Plan summarizes how a range is covered.
type Plan struct {
	ChunkCount        uint64
	WindowSize        uint64
	MaxOffsetInWindow uint64
	// BigStep is set when consecutive candidates never share a window.
	BigStep bool
}

// Empty reports whether no candidate fits in the range.
func (p Plan) Empty() bool {
	return p.ChunkCount == 0
}

// Chunk is one window of the range.
type Chunk struct {
	// Offset is the absolute offset of the first byte in the window.
	Offset uint64
	Size   uint64
	// MaxSearchOffset is Size - NeedleLen, the highest window-relative
	// offset a needle can start at.
	MaxSearchOffset uint64
	// First is the window-relative offset of the first candidate to test.
	// Forward windows start at 0 and ascend, backward windows start at First
	// and descend.
	First uint64
}

// Planner computes windows for one Config.
type Planner struct {
	cfg  Config
	plan Plan
	// last is the highest candidate offset, End-NeedleLen+1.
	last uint64
}

// New validates cfg and computes its plan.
func New(cfg Config) (*Planner, error) {
	if cfg.Begin > cfg.End {
		return nil, ErrInvalidRange
	}
	if cfg.NeedleLen == 0 {
		return nil, ErrEmptyNeedle
	}
	if cfg.Step == 0 {
		return nil, ErrInvalidStep
	}

	p := &Planner{cfg: cfg}

	span := cfg.End - cfg.Begin
	if span < cfg.NeedleLen-1 {
		return p, nil
	}
	rangeSize := satAdd(span, 1)
	p.last = cfg.End - cfg.NeedleLen + 1

	if cfg.Resident || cfg.MaxWindow == 0 {
		p.plan = Plan{
			ChunkCount:        1,
			WindowSize:        rangeSize,
			MaxOffsetInWindow: rangeSize - cfg.NeedleLen,
		}
		return p, nil
	}

	window := max(min(cfg.MaxWindow, rangeSize), cfg.NeedleLen)
	maxOff := window - cfg.NeedleLen

	p.plan = Plan{
		WindowSize:        window,
		MaxOffsetInWindow: maxOff,
		BigStep:           cfg.Step > maxOff,
	}

	// Distance between the first candidates of consecutive windows.
	advance := cfg.Step
	if !p.plan.BigStep {
		advance = (maxOff/cfg.Step + 1) * cfg.Step
	}
	p.plan.ChunkCount = (p.last-cfg.Begin)/advance + 1
	return p, nil
}

// Plan returns the computed plan.
func (p *Planner) Plan() Plan {
	return p.plan
}

// Config returns the planner's configuration.
func (p *Planner) Config() Config {
	return p.cfg
}

// LastCandidate returns the highest offset a needle can start at. The result
// is only meaningful for non-empty plans.
func (p *Planner) LastCandidate() uint64 {
	return p.last
}

func satAdd(a, b uint64) uint64 {
	if a > math.MaxUint64-b {
		return math.MaxUint64
	}
	return a + b
}
