//go:build windows

package mmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	obj, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return nil, nil, err
	}
	// A mapped view holds its own reference, so the object handle can go.
	defer windows.CloseHandle(obj)

	view, err := windows.MapViewOfFile(obj, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		return nil, nil, err
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(view)), size)
	return data, func() error { return windows.UnmapViewOfFile(view) }, nil
}

// advise is a no-op: Windows has no madvise for file views.
func advise([]byte, Advice) error { return nil }
