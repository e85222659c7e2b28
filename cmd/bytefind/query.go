package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/bytefind/needle"
	"github.com/hupe1980/bytefind/search"
)

// queryFlags are the needle and range flags shared by all search commands.
type queryFlags struct {
	encoding  string
	codepage  string
	bigEndian bool
	wildcard  bool
	matchCase bool
	inverted  bool
	backward  bool
	step      uint64
	limit     uint32
	begin     uint64
	end       uint64
}

func (f *queryFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.encoding, "encoding", "e", "hex", "needle encoding: hex, ascii, utf8, utf16, codepage, int8..int64, float32, float64, filetime, systemtime")
	fs.StringVar(&f.codepage, "codepage", "windows-1252", "code page for --encoding codepage")
	fs.BoolVar(&f.bigEndian, "big-endian", false, "encode numbers and UTF-16 big-endian")
	fs.BoolVarP(&f.wildcard, "wildcard", "w", false, "treat ?? (hex) and ? (text) as wildcards")
	fs.BoolVarP(&f.matchCase, "match-case", "c", false, "case-sensitive text matching")
	fs.BoolVar(&f.inverted, "inverted", false, "match positions where the needle does not occur")
	fs.BoolVarP(&f.backward, "backward", "b", false, "search toward the beginning")
	fs.Uint64Var(&f.step, "step", 1, "distance between candidate offsets")
	fs.Uint32VarP(&f.limit, "limit", "n", 0, "maximum number of matches (default from config)")
	fs.Uint64Var(&f.begin, "begin", 0, "first offset of the searched range")
	fs.Uint64Var(&f.end, "end", 0, "last offset of the searched range (default end of source)")
}

// input converts the flags into a needle input for text and replacement.
func (f *queryFlags) input(e *env, text, replacement string) (needle.Input, error) {
	enc, err := needle.ParseEncoding(f.encoding)
	if err != nil {
		return needle.Input{}, err
	}

	in := needle.Input{
		Text:        text,
		Encoding:    enc,
		Codepage:    f.codepage,
		Replacement: replacement,
		BigEndian:   f.bigEndian,
		Wildcard:    f.wildcard,
		MatchCase:   f.matchCase,
		Inverted:    f.inverted,
		Step:        f.step,
		Limit:       f.limit,
	}
	if in.Limit == 0 {
		in.Limit = e.cfg.Search.Limit
	}
	if f.backward {
		in.Direction = search.Backward
	}
	return in, nil
}

// resolve builds the query and range for a provider of the given size.
func (f *queryFlags) resolve(cmd *cobra.Command, in needle.Input, size uint64) (search.Query, search.Range, error) {
	if cmd.Flags().Changed("begin") || cmd.Flags().Changed("end") {
		r := search.Range{Begin: f.begin, End: f.end}
		if !cmd.Flags().Changed("end") && size > 0 {
			r.End = size - 1
		}
		in.Range = &r
	}

	q, err := needle.BuildQuery(in)
	if err != nil {
		return search.Query{}, search.Range{}, err
	}
	r, err := needle.SearchRange(in, size)
	if err != nil {
		return search.Query{}, search.Range{}, err
	}
	return q, r, nil
}
