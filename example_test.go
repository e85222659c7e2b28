package bytefind_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/bytefind"
	"github.com/hupe1980/bytefind/needle"
	"github.com/hupe1980/bytefind/provider"
)

// Example_find demonstrates a wildcard hex search.
func Example_find() {
	ctx := context.Background()
	p := provider.NewMemory([]byte{0x00, 0xDE, 0xAD, 0x42, 0xEF, 0x00})
	f := bytefind.New(p)

	q, err := needle.BuildQuery(needle.Input{Text: "DE AD ?? EF", Encoding: needle.Hex, Wildcard: true})
	if err != nil {
		log.Fatal(err)
	}
	r, err := needle.SearchRange(needle.Input{}, p.Size())
	if err != nil {
		log.Fatal(err)
	}

	res, err := f.Find(ctx, q, r, r.Begin)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("found=%v offset=%d\n", res.Found, res.Offset)
	// Output: found=true offset=1
}

// Example_session demonstrates find next with wrap-around.
func Example_session() {
	ctx := context.Background()
	p := provider.NewMemory([]byte("one two one two"))
	f := bytefind.New(p)

	q, _ := needle.BuildQuery(needle.Input{Text: "TWO", Encoding: needle.ASCII})
	r, _ := needle.SearchRange(needle.Input{}, p.Size())
	s := f.NewSession(q, r)

	for i := 0; i < 3; i++ {
		res, _ := s.FindNext(ctx)
		fmt.Printf("offset=%d occurrence=%d wrap=%s\n", res.Offset, s.Occurrence(), s.Wrap())
	}
	// Output:
	// offset=4 occurrence=1 wrap=none
	// offset=12 occurrence=2 wrap=none
	// offset=4 occurrence=1 wrap=to-end
}

// Example_replaceAll demonstrates replacing UTF-16 text.
func Example_replaceAll() {
	ctx := context.Background()
	data := []byte("h\x00i\x00 \x00h\x00i\x00")
	p := provider.NewMemory(data)
	f := bytefind.New(p)

	q, _ := needle.BuildQuery(needle.Input{Text: "HI", Replacement: "yo", Encoding: needle.UTF16})
	r, _ := needle.SearchRange(needle.Input{}, p.Size())

	m, err := f.ReplaceAll(ctx, q, r, false)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(m.Count(), m.Offsets)
	// Output: 2 [0 6]
}
