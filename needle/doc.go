// Package needle converts user input into search queries.
//
// Text is encoded according to an Encoding: hex byte patterns (with "??"
// wildcard tokens), ASCII, UTF-8, UTF-16, named 8-bit code pages, fixed-width
// integers, IEEE floats and the Windows FILETIME and SYSTEMTIME layouts.
// BuildQuery combines the encoded needle with the search options into a
// search.Query, and SearchRange resolves the range to scan.
package needle
