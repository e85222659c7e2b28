package needle

import (
	"errors"
	"fmt"
)

// ErrUnknownEncoding is returned by ParseEncoding.
var ErrUnknownEncoding = errors.New("unknown encoding")

// NumberParseError is returned when text cannot be read as the requested
// numeric type.
type NumberParseError struct {
	Text     string
	Encoding Encoding
	cause    error
}

func (e *NumberParseError) Error() string {
	return fmt.Sprintf("cannot parse %q as %s: %v", e.Text, e.Encoding, e.cause)
}

func (e *NumberParseError) Unwrap() error { return e.cause }

// FormatError is returned for text that is malformed for its encoding.
type FormatError struct {
	Text     string
	Encoding Encoding
	Reason   string
	cause    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid %s input %q: %s", e.Encoding, e.Text, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.cause }
