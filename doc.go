// Package bytefind searches and patches large byte streams.
//
// A Finder wraps a provider.Provider and runs searches described by a
// search.Query over an inclusive search.Range. Small ranges are scanned on
// the calling goroutine; ranges at or above the async threshold are scanned
// on a dedicated worker while the caller waits and receives progress
// snapshots.
//
// # Quick Start
//
//	p, _ := provider.OpenFile("dump.bin")
//	defer p.Close()
//
//	f := bytefind.New(p,
//	    bytefind.WithLogger(bytefind.NewTextLogger(slog.LevelInfo)),
//	    bytefind.WithProgress(func(s progress.Snapshot) {
//	        fmt.Printf("\r%.0f%%", s.Fraction*100)
//	    }),
//	)
//
//	q, _ := needle.BuildQuery(needle.Input{Text: "DE AD ?? EF", Encoding: needle.Hex, Wildcard: true})
//	r, _ := needle.SearchRange(needle.Input{}, p.Size())
//
//	res, err := f.Find(ctx, q, r, r.Begin)
//
// # Interactive Search
//
// Sessions implement find next/prev with wrap-around and occurrence counting:
//
//	s := f.NewSession(q, r)
//	res, _ := s.FindNext(ctx) // first hit
//	res, _ = s.FindNext(ctx)  // next hit, wraps to the beginning after the last
//	fmt.Println(s.Occurrence(), s.Wrap())
//
// # Replace
//
// ReplaceAll overwrites every hit in place. Replacements longer than the
// needle return ErrReplacementLongerThanMatch unless confirmed:
//
//	q.Replacement = []byte("patched")
//	m, err := f.ReplaceAll(ctx, q, r, false)
//	if errors.Is(err, bytefind.ErrReplacementLongerThanMatch) {
//	    m, err = f.ReplaceAll(ctx, q, r, true)
//	}
//
// # Remote Sources
//
// Dumps stored in S3 or MinIO are searched through provider.Blob:
//
//	store, _ := s3.New(ctx, "dumps", s3.WithPrefix("captures/"))
//	blob, _ := store.Open(ctx, "core.bin")
//	p, _ := provider.NewBlob(blob, nil)
package bytefind
