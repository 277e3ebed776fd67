package blockcache

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a Cache after Close.
	ErrClosed = errors.New("blockcache: cache is closed")

	// ErrUnknownFile is returned when a file index is outside the catalog.
	ErrUnknownFile = errors.New("blockcache: unknown file index")
)

// ErrOutOfRange indicates a requested byte range that exceeds the file's size.
// This is a contract violation by the caller; the request is rejected before
// any bytes are served.
type ErrOutOfRange struct {
	Index    uint32
	Offset   uint64
	Length   uint32
	FileSize uint64
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("blockcache: range [%d, %d) out of bounds for file %d (size %d)",
		e.Offset, e.Offset+uint64(e.Length), e.Index, e.FileSize)
}

// ErrLoadFailed indicates that a file could not be brought into memory, either
// because it could not be opened or because the read came up short of the
// catalog size.
//
// The underlying I/O error can be accessed via errors.Unwrap. The cache table
// is left unchanged by a failed load; the caller may retry.
type ErrLoadFailed struct {
	Index uint32
	Path  string
	cause error
}

func (e *ErrLoadFailed) Error() string {
	return fmt.Sprintf("blockcache: load file %d (%s): %v", e.Index, e.Path, e.cause)
}

func (e *ErrLoadFailed) Unwrap() error { return e.cause }
