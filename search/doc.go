// Package search locates and replaces needles in a provider.Provider.
//
// Engine performs stateless scans: Find returns the first hit in traversal
// order, FindAll and ReplaceAll make one forward pass collecting hits in
// discovery order. Session layers the interactive find next/prev behavior on
// top of an Engine: wrap-around, occurrence counting and a result index.
//
// Scans poll a ProgressSink and the context before every window, so a
// cancellation takes effect within one window of work. Cancellation is
// reported through Result.Canceled and Matches.Canceled, not as an error.
package search
