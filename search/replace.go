package search

import (
	"context"
	"fmt"

	"github.com/hupe1980/bytefind/provider"
)

// CanReplaceInPlace reports whether a replacement fits inside the match.
func CanReplaceInPlace(matchLen, replLen int) bool {
	return replLen <= matchLen
}

// Replace writes replacement at offset. A replacement longer than matchLen
// overwrites the bytes following the match and is only performed with
// confirmLonger; otherwise ErrReplacementLongerThanMatch is returned and
// nothing is written.
func Replace(ctx context.Context, p provider.Provider, offset uint64, matchLen int, replacement []byte, confirmLonger bool) error {
	if !CanReplaceInPlace(matchLen, len(replacement)) && !confirmLonger {
		return ErrReplacementLongerThanMatch
	}

	n := uint64(len(replacement))
	if size := p.Size(); offset > size || n > size-offset {
		return fmt.Errorf("%w: write of %d bytes at %d exceeds %d", ErrInvalidRange, n, offset, size)
	}
	return p.Write(ctx, offset, replacement)
}
