// Package mmap maps local files read-only for blobstore.LocalStore.
//
// A mapping exposes the whole file as one slice, so the search engine reads
// local dumps without copying them into window buffers. AdviseRange passes
// read-ahead hints for the region a scan is about to enter.
//
// Unix uses mmap(2) and madvise(2). Windows uses CreateFileMapping and
// MapViewOfFile and ignores advice.
//
// Slices returned by Bytes and Slice are invalid after Close.
package mmap
