package bytefind

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bytefind/internal/resource"
	"github.com/hupe1980/bytefind/provider"
	"github.com/hupe1980/bytefind/search"
)

var (
	// ErrInvalidRange is returned when a range is empty or outside the provider.
	ErrInvalidRange = search.ErrInvalidRange
	// ErrEmptyNeedle is returned for an empty needle.
	ErrEmptyNeedle = search.ErrEmptyNeedle
	// ErrInvalidStep is returned for a zero step.
	ErrInvalidStep = search.ErrInvalidStep
	// ErrInvalidLimit is returned for a zero find-all limit.
	ErrInvalidLimit = search.ErrInvalidLimit
	// ErrInvalidQuery is returned for otherwise malformed queries.
	ErrInvalidQuery = search.ErrInvalidQuery
	// ErrReplacementLongerThanMatch asks the caller to confirm an overwrite past the match.
	ErrReplacementLongerThanMatch = search.ErrReplacementLongerThanMatch
	// ErrNoCurrentMatch is returned when replacing without a current match.
	ErrNoCurrentMatch = search.ErrNoCurrentMatch
	// ErrReadOnly is returned when replacing in a read-only source.
	ErrReadOnly = provider.ErrReadOnly
	// ErrMemoryLimitExceeded is returned when a scan window does not fit the memory budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// OpError records the operation that failed.
//
// The original underlying error can be accessed via errors.Unwrap.
type OpError struct {
	Op    string
	cause error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.cause)
}

func (e *OpError) Unwrap() error { return e.cause }

func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	// Provider range failures surface as invalid ranges.
	var re *provider.RangeError
	if errors.As(err, &re) && !errors.Is(err, ErrInvalidRange) {
		err = fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}

	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return &OpError{Op: op, cause: err}
}
