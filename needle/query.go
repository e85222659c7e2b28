package needle

import (
	"fmt"
	"time"

	"github.com/hupe1980/bytefind/search"
)

// DefaultLimit caps find-all results when Input.Limit is zero.
const DefaultLimit = 10000

// Input is what a user supplies to start a search.
type Input struct {
	Text     string
	Encoding Encoding
	// Codepage names the 8-bit code page for Encoding Codepage.
	Codepage string
	// Replacement is encoded like Text. Empty means no replacement.
	Replacement string
	// Time, when non-zero, is used instead of Text for FileTime and SystemTime.
	Time time.Time

	Direction search.Direction
	BigEndian bool
	// Wildcard makes "??" hex tokens and '?' characters match anything.
	Wildcard  bool
	MatchCase bool
	Inverted  bool
	// Step defaults to 1.
	Step uint64
	// Limit defaults to DefaultLimit.
	Limit uint32

	// Range is the searched range. A nil Range covers the whole provider.
	Range *search.Range
	// Selection narrows Range when SelectionOnly is set.
	Selection     *search.Range
	SelectionOnly bool
}

// BuildQuery encodes the needle and replacement and assembles a query.
func BuildQuery(in Input) (search.Query, error) {
	needle, err := in.encodeText(in.Text)
	if err != nil {
		return search.Query{}, err
	}
	if len(needle) == 0 {
		return search.Query{}, search.ErrEmptyNeedle
	}

	var repl []byte
	if in.Replacement != "" {
		if repl, err = in.encodeText(in.Replacement); err != nil {
			return search.Query{}, err
		}
	}

	q := search.Query{
		Needle:      needle,
		Replacement: repl,
		Direction:   in.Direction,
		Step:        in.Step,
		Inverted:    in.Inverted,
		MatchCase:   in.MatchCase,
		BigEndian:   in.BigEndian,
		Limit:       in.Limit,
		Text:        search.Bytes,
	}
	if q.Step == 0 {
		q.Step = 1
	}
	if q.Limit == 0 {
		q.Limit = DefaultLimit
	}

	switch in.Encoding {
	case ASCII, UTF8, Codepage:
		q.Text = search.Text8
	case UTF16:
		q.Text = search.Text16
	default:
		// Numbers and raw bytes never fold.
		q.MatchCase = true
	}

	if in.Wildcard && (in.Encoding == Hex || in.Encoding.IsText()) {
		q.UseWildcard = true
		q.Wildcard = WildcardByte
	}
	return q, q.Validate()
}

func (in Input) encodeText(text string) ([]byte, error) {
	if (in.Encoding == FileTime || in.Encoding == SystemTime) && !in.Time.IsZero() {
		return EncodeTime(in.Time, in.Encoding, in.BigEndian)
	}
	return Encode(text, in.Encoding, in.BigEndian, in.Codepage)
}

// SearchRange resolves the range to scan in a provider of the given size.
func SearchRange(in Input, size uint64) (search.Range, error) {
	if size == 0 {
		return search.Range{}, fmt.Errorf("%w: empty provider", search.ErrInvalidRange)
	}

	r := search.Range{Begin: 0, End: size - 1}
	if in.Range != nil {
		r = *in.Range
	}

	if in.SelectionOnly && in.Selection != nil {
		sel := *in.Selection
		r.Begin = max(r.Begin, sel.Begin)
		r.End = min(r.End, sel.End)
	}

	if err := r.Validate(size); err != nil {
		return search.Range{}, err
	}
	return r, nil
}
