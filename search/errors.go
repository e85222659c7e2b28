package search

import (
	"errors"

	"github.com/hupe1980/bytefind/chunk"
)

var (
	// ErrInvalidRange is returned when Begin > End or End is outside the provider.
	ErrInvalidRange = chunk.ErrInvalidRange
	// ErrEmptyNeedle is returned for a zero-length needle.
	ErrEmptyNeedle = chunk.ErrEmptyNeedle
	// ErrInvalidStep is returned for a zero step.
	ErrInvalidStep = chunk.ErrInvalidStep
	// ErrInvalidLimit is returned by find-all operations with a zero limit.
	ErrInvalidLimit = errors.New("limit must be positive")
	// ErrInvalidQuery is returned for queries whose lengths overflow offset arithmetic
	// or that lack a replacement.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrReplacementLongerThanMatch signals that a replacement would overwrite
	// bytes after the match. Callers confirm and retry with confirmLonger set.
	ErrReplacementLongerThanMatch = errors.New("replacement is longer than match")
	// ErrNoCurrentMatch is returned by Session.ReplaceCurrent without a found match.
	ErrNoCurrentMatch = errors.New("no current match")
)
