// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: An open block file with positional reads
//   - [FileSystem]: The read side of the filesystem (open, stat)
//
// # Implementations
//
//   - [LocalFS]: Production implementation using standard os package
//   - [FaultyFS]: Test utility for fault injection (failed opens, short reads)
//
// # Usage
//
// Production code should use fs.Default (which is [LocalFS]):
//
//	file, err := fs.Default.Open(path)
//
// Tests can inject [FaultyFS] to simulate failures:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.SetFault("blk00001", fs.Fault{Truncate: 512}) // Short read past 512 bytes
//	// inject ffs into component under test
//
// # Design Notes
//
// This package intentionally does NOT include context.Context parameters.
// Local file reads are fast and non-interruptible at the syscall level;
// adding context would add overhead without meaningful cancellation
// capability.
package fs
