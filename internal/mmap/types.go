package mmap

import "errors"

// Advice tells the kernel how a mapped range is about to be read.
type Advice uint8

const (
	Normal Advice = iota
	// Sequential suits forward and backward scans over the whole mapping.
	Sequential
	Random
	// WillNeed asks for read-ahead of a range the next window will cover.
	WillNeed
	// DontNeed lets the kernel drop pages a scan has passed.
	DontNeed
)

var (
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrTooLarge is returned for files that do not fit the address space.
	ErrTooLarge      = errors.New("mmap: file too large to map")
	ErrOutOfBounds   = errors.New("mmap: range out of bounds")
	ErrInvalidOffset = errors.New("mmap: negative offset")
)
