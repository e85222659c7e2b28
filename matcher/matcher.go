// Package matcher compares a needle against a window at a given offset.
//
// New selects one Variant per query. Each variant keeps only the state its
// comparison needs, and Match dispatches on the variant tag with a switch.
package matcher

import (
	"bytes"
	"encoding/binary"

	"github.com/bits-and-blooms/bitset"
)

// Kind selects the comparison family.
type Kind uint8

const (
	// Bytes compares raw bytes.
	Bytes Kind = iota
	// Text8 compares 8-bit characters with optional ASCII case folding.
	Text8
	// Text16 compares 16-bit code units with optional ASCII case folding.
	Text16
)

func (k Kind) String() string {
	switch k {
	case Bytes:
		return "bytes"
	case Text8:
		return "text8"
	case Text16:
		return "text16"
	default:
		return "unknown"
	}
}

// Variant identifies the comparison strategy chosen by New.
type Variant uint8

const (
	Scalar8 Variant = iota
	Scalar16
	Scalar32
	Scalar64
	ByteString
	ByteStringWildcard
	Text8Variant
	Text16Variant
)

var variantNames = [...]string{
	Scalar8:            "scalar8",
	Scalar16:           "scalar16",
	Scalar32:           "scalar32",
	Scalar64:           "scalar64",
	ByteString:         "bytes",
	ByteStringWildcard: "bytes-wildcard",
	Text8Variant:       "text8",
	Text16Variant:      "text16",
}

func (v Variant) String() string {
	if int(v) < len(variantNames) {
		return variantNames[v]
	}
	return "unknown"
}

// Spec is the query state relevant to matching.
type Spec struct {
	Needle []byte
	Kind   Kind
	Step   uint64
	// MatchCase disables ASCII folding for text kinds.
	MatchCase bool
	// Wildcard is the sentinel matching any byte (Bytes, Text8) or any code
	// unit (Text16) when UseWildcard is set.
	Wildcard    byte
	UseWildcard bool
	// BigEndian selects the code unit order for Text16.
	BigEndian bool
	// Inverted negates every comparison.
	Inverted bool
}

// Matcher tests one candidate offset.
type Matcher struct {
	variant  Variant
	inverted bool
	needle   []byte
	// wild marks wildcard positions: bytes for ByteStringWildcard and
	// Text8Variant, code units for Text16Variant.
	wild      *bitset.BitSet
	fold      bool
	bigEndian bool
	scalar    uint64
}

// New builds the matcher for s. The needle is copied.
func New(s Spec) Matcher {
	m := Matcher{
		inverted:  s.Inverted,
		needle:    bytes.Clone(s.Needle),
		bigEndian: s.BigEndian,
	}

	switch s.Kind {
	case Text8:
		m.variant = Text8Variant
		m.fold = !s.MatchCase
		if s.UseWildcard {
			m.wild = wildMask(m.needle, s.Wildcard)
		}
		if m.fold {
			for i, b := range m.needle {
				m.needle[i] = lower(b)
			}
		}
	case Text16:
		m.variant = Text16Variant
		m.fold = !s.MatchCase
		m.wild = m.unitWildMask(s)
		if m.fold {
			m.foldUnits()
		}
	default:
		switch {
		case s.UseWildcard:
			m.variant = ByteStringWildcard
			m.wild = wildMask(m.needle, s.Wildcard)
		case s.Step == 1 && isScalarLen(len(m.needle)):
			m.variant = scalarVariant(len(m.needle))
			m.scalar = load(m.needle, len(m.needle))
		default:
			m.variant = ByteString
		}
	}
	return m
}

// Variant returns the selected strategy.
func (m Matcher) Variant() Variant {
	return m.variant
}

// Len returns the needle length in bytes.
func (m Matcher) Len() int {
	return len(m.needle)
}

// Inverted reports whether results are negated.
func (m Matcher) Inverted() bool {
	return m.inverted
}

// Match reports whether the needle matches window at offset at, negated for
// inverted matchers. The caller guarantees at+Len() <= len(window).
func (m Matcher) Match(window []byte, at uint64) bool {
	w := window[at : at+uint64(len(m.needle))]

	var ok bool
	switch m.variant {
	case Scalar8:
		ok = w[0] == byte(m.scalar)
	case Scalar16:
		ok = uint64(binary.LittleEndian.Uint16(w)) == m.scalar
	case Scalar32:
		ok = uint64(binary.LittleEndian.Uint32(w)) == m.scalar
	case Scalar64:
		ok = binary.LittleEndian.Uint64(w) == m.scalar
	case ByteString:
		ok = bytes.Equal(w, m.needle)
	case ByteStringWildcard:
		ok = m.matchBytes(w, false)
	case Text8Variant:
		ok = m.matchBytes(w, m.fold)
	case Text16Variant:
		ok = m.matchUnits(w)
	}
	return ok != m.inverted
}

func (m Matcher) matchBytes(w []byte, fold bool) bool {
	for i, n := range m.needle {
		if m.wild != nil && m.wild.Test(uint(i)) {
			continue
		}
		b := w[i]
		if fold {
			b = lower(b)
		}
		if b != n {
			return false
		}
	}
	return true
}

func (m Matcher) matchUnits(w []byte) bool {
	units := len(m.needle) / 2
	for u := 0; u < units; u++ {
		if m.wild != nil && m.wild.Test(uint(u)) {
			continue
		}
		got := m.unit(w, u)
		if m.fold {
			got = lowerUnit(got)
		}
		if got != m.unit(m.needle, u) {
			return false
		}
	}
	// Odd trailing byte compares exactly.
	if len(m.needle)%2 == 1 {
		last := len(m.needle) - 1
		return w[last] == m.needle[last]
	}
	return true
}

func (m Matcher) unit(b []byte, u int) uint16 {
	if m.bigEndian {
		return binary.BigEndian.Uint16(b[2*u:])
	}
	return binary.LittleEndian.Uint16(b[2*u:])
}

func (m Matcher) putUnit(b []byte, u int, v uint16) {
	if m.bigEndian {
		binary.BigEndian.PutUint16(b[2*u:], v)
		return
	}
	binary.LittleEndian.PutUint16(b[2*u:], v)
}

func (m *Matcher) unitWildMask(s Spec) *bitset.BitSet {
	if !s.UseWildcard {
		return nil
	}
	units := len(m.needle) / 2
	mask := bitset.New(uint(units))
	for u := 0; u < units; u++ {
		if m.unit(m.needle, u) == uint16(s.Wildcard) {
			mask.Set(uint(u))
		}
	}
	return mask
}

func (m *Matcher) foldUnits() {
	for u := 0; u < len(m.needle)/2; u++ {
		m.putUnit(m.needle, u, lowerUnit(m.unit(m.needle, u)))
	}
}

func wildMask(needle []byte, wildcard byte) *bitset.BitSet {
	mask := bitset.New(uint(len(needle)))
	for i, b := range needle {
		if b == wildcard {
			mask.Set(uint(i))
		}
	}
	return mask
}

func lower(b byte) byte {
	if 'A' <= b && b <= 'Z' {
		return b + 'a' - 'A'
	}
	return b
}

func lowerUnit(u uint16) uint16 {
	if u < 0x80 {
		return uint16(lower(byte(u)))
	}
	return u
}

func isScalarLen(n int) bool {
	return n == 1 || n == 2 || n == 4 || n == 8
}

func scalarVariant(n int) Variant {
	switch n {
	case 1:
		return Scalar8
	case 2:
		return Scalar16
	case 4:
		return Scalar32
	default:
		return Scalar64
	}
}

func load(b []byte, n int) uint64 {
	switch n {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	default:
		return binary.LittleEndian.Uint64(b)
	}
}
