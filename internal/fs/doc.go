// Package fs abstracts the file operations of file-backed providers so tests
// can inject I/O failures.
//
// Production code uses fs.Default, which is [LocalFS]:
//
//	f, err := fs.Default.OpenFile(path, os.O_RDWR, 0)
//
// Tests wrap it in a [FaultyFS]:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("dump.bin", fs.Fault{FailAfterBytes: 4})
//
// Calls take no context.Context: positional reads and writes on local files
// are not interruptible. Remote sources go through blobstore.Blob instead.
package fs
