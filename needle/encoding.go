package needle

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Encoding selects how needle text is turned into bytes.
type Encoding uint8

const (
	Hex Encoding = iota
	ASCII
	UTF8
	UTF16
	Codepage
	Int8
	Int16
	Int32
	Int64
	Float32
	Float64
	FileTime
	SystemTime
)

var encodingNames = [...]string{
	Hex:        "hex",
	ASCII:      "ascii",
	UTF8:       "utf8",
	UTF16:      "utf16",
	Codepage:   "codepage",
	Int8:       "int8",
	Int16:      "int16",
	Int32:      "int32",
	Int64:      "int64",
	Float32:    "float32",
	Float64:    "float64",
	FileTime:   "filetime",
	SystemTime: "systemtime",
}

func (e Encoding) String() string {
	if int(e) < len(encodingNames) {
		return encodingNames[e]
	}
	return "unknown"
}

// ParseEncoding looks up an encoding by name. A few common aliases are accepted.
func ParseEncoding(s string) (Encoding, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "utf-8":
		return UTF8, nil
	case "utf-16", "utf16le", "utf16be":
		return UTF16, nil
	case "float", "single":
		return Float32, nil
	case "double":
		return Float64, nil
	case "byte", "uint8":
		return Int8, nil
	case "word", "uint16", "short":
		return Int16, nil
	case "dword", "uint32", "int":
		return Int32, nil
	case "qword", "uint64", "long":
		return Int64, nil
	}
	for i, n := range encodingNames {
		if n == name {
			return Encoding(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

// IsText reports whether the encoding produces character data.
func (e Encoding) IsText() bool {
	switch e {
	case ASCII, UTF8, UTF16, Codepage:
		return true
	default:
		return false
	}
}

// WildcardByte is the sentinel used for "??" hex tokens and for '?' in text.
const WildcardByte = '?'

// fileTimeEpoch is 1601-01-01 UTC in Unix seconds.
const fileTimeEpoch = -11644473600

// Encode converts text to bytes.
func Encode(text string, enc Encoding, bigEndian bool, codepage string) ([]byte, error) {
	var order binary.AppendByteOrder = binary.LittleEndian
	if bigEndian {
		order = binary.BigEndian
	}

	switch enc {
	case Hex:
		return encodeHex(text)
	case ASCII:
		for i := 0; i < len(text); i++ {
			if text[i] >= utf8.RuneSelf {
				return nil, &FormatError{Text: text, Encoding: enc, Reason: fmt.Sprintf("non-ASCII byte at %d", i)}
			}
		}
		return []byte(text), nil
	case UTF8:
		if !utf8.ValidString(text) {
			return nil, &FormatError{Text: text, Encoding: enc, Reason: "invalid UTF-8"}
		}
		return []byte(text), nil
	case UTF16:
		endian := unicode.LittleEndian
		if bigEndian {
			endian = unicode.BigEndian
		}
		return encodeWith(unicode.UTF16(endian, unicode.IgnoreBOM), text, enc)
	case Codepage:
		cp, err := lookupCodepage(codepage)
		if err != nil {
			return nil, &FormatError{Text: codepage, Encoding: enc, Reason: "unknown code page", cause: err}
		}
		return encodeWith(cp, text, enc)
	case Int8, Int16, Int32, Int64:
		return encodeInt(text, enc, order)
	case Float32:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return nil, &NumberParseError{Text: text, Encoding: enc, cause: err}
		}
		return order.AppendUint32(nil, math.Float32bits(float32(f))), nil
	case Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil, &NumberParseError{Text: text, Encoding: enc, cause: err}
		}
		return order.AppendUint64(nil, math.Float64bits(f)), nil
	case FileTime, SystemTime:
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(text))
		if err != nil {
			return nil, &FormatError{Text: text, Encoding: enc, Reason: "expected RFC 3339 time", cause: err}
		}
		return EncodeTime(t, enc, bigEndian)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownEncoding, enc)
	}
}

// EncodeTime lays out t as a FILETIME or SYSTEMTIME.
func EncodeTime(t time.Time, enc Encoding, bigEndian bool) ([]byte, error) {
	var order binary.AppendByteOrder = binary.LittleEndian
	if bigEndian {
		order = binary.BigEndian
	}
	t = t.UTC()

	switch enc {
	case FileTime:
		secs := t.Unix() - fileTimeEpoch
		if secs < 0 {
			return nil, &FormatError{Text: t.String(), Encoding: enc, Reason: "before 1601-01-01"}
		}
		ticks := uint64(secs)*10_000_000 + uint64(t.Nanosecond()/100)
		return order.AppendUint64(nil, ticks), nil
	case SystemTime:
		if t.Year() < 1601 || t.Year() > 30827 {
			return nil, &FormatError{Text: t.String(), Encoding: enc, Reason: "year out of range"}
		}
		fields := [8]uint16{
			uint16(t.Year()),
			uint16(t.Month()),
			uint16(t.Weekday()),
			uint16(t.Day()),
			uint16(t.Hour()),
			uint16(t.Minute()),
			uint16(t.Second()),
			uint16(t.Nanosecond() / int(time.Millisecond)),
		}
		out := make([]byte, 0, 16)
		for _, f := range fields {
			out = order.AppendUint16(out, f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s is not a time encoding", ErrUnknownEncoding, enc)
	}
}

// encodeHex accepts space separated byte tokens ("11 ?? 22") or a contiguous
// string ("11??22"). "??" becomes WildcardByte.
func encodeHex(text string) ([]byte, error) {
	compact := strings.Join(strings.Fields(text), "")
	if len(compact)%2 != 0 {
		return nil, &FormatError{Text: text, Encoding: Hex, Reason: "odd number of hex digits"}
	}

	out := make([]byte, 0, len(compact)/2)
	for i := 0; i < len(compact); i += 2 {
		tok := compact[i : i+2]
		if tok == "??" {
			out = append(out, WildcardByte)
			continue
		}
		b, err := hex.DecodeString(tok)
		if err != nil {
			return nil, &FormatError{Text: text, Encoding: Hex, Reason: fmt.Sprintf("invalid token %q", tok), cause: err}
		}
		out = append(out, b[0])
	}
	return out, nil
}

func encodeInt(text string, enc Encoding, order binary.AppendByteOrder) ([]byte, error) {
	bits := map[Encoding]int{Int8: 8, Int16: 16, Int32: 32, Int64: 64}[enc]
	s := strings.ReplaceAll(strings.TrimSpace(text), "_", "")

	var v uint64
	if i, err := strconv.ParseInt(s, 0, bits); err == nil {
		v = uint64(i)
	} else if u, uerr := strconv.ParseUint(s, 0, bits); uerr == nil {
		v = u
	} else {
		return nil, &NumberParseError{Text: text, Encoding: enc, cause: err}
	}

	switch bits {
	case 8:
		return []byte{byte(v)}, nil
	case 16:
		return order.AppendUint16(nil, uint16(v)), nil
	case 32:
		return order.AppendUint32(nil, uint32(v)), nil
	default:
		return order.AppendUint64(nil, v), nil
	}
}

func encodeWith(e encoding.Encoding, text string, enc Encoding) ([]byte, error) {
	out, err := e.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, &FormatError{Text: text, Encoding: enc, Reason: "not representable", cause: err}
	}
	return out, nil
}

// lookupCodepage resolves IANA names ("windows-1252", "IBM437") and the bare
// Windows code page numbers ("1252", "437").
func lookupCodepage(name string) (encoding.Encoding, error) {
	if name == "" {
		return charmap.Windows1252, nil
	}
	if n, err := strconv.Atoi(name); err == nil {
		switch n {
		case 437:
			return charmap.CodePage437, nil
		case 850:
			return charmap.CodePage850, nil
		case 866:
			return charmap.CodePage866, nil
		case 28591:
			return charmap.ISO8859_1, nil
		}
		if n >= 1250 && n <= 1258 {
			name = "windows-" + strconv.Itoa(n)
		}
	}
	e, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: %s has no encoder", ErrUnknownEncoding, name)
	}
	return e, nil
}
