// Package provider supplies byte ranges to the search engine.
//
// A Provider exposes a logical byte stream of a fixed size. Resident providers
// (Memory, mappable blobs) hand out sub-slices of their backing buffer. Virtual
// providers (File, remote Blob) serve reads through a single cache window that
// is replaced on every miss, so a slice returned by Read is only valid until the
// next Read or Write on the same provider.
package provider
