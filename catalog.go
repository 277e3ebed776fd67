package blockcache

import "fmt"

// Entry describes one block file: its dense zero-based index, its path on
// disk, and its exact byte size. Entries are immutable for the lifetime of
// the Cache constructed over them.
type Entry struct {
	Index uint32
	Path  string
	Size  uint64
}

// Catalog is the read-only collaborator that maps a file index to a stable
// (path, size) pair. It must be fully populated before the Cache is
// constructed and must not change afterwards. Entry must be O(1).
//
// How paths and sizes are discovered is up to the caller; the cache never
// enumerates directories or stats files on its own.
type Catalog interface {
	Len() int
	Entry(index uint32) Entry
}

// SliceCatalog is a Catalog backed by a slice, indexed by position.
type SliceCatalog []Entry

func (s SliceCatalog) Len() int { return len(s) }

func (s SliceCatalog) Entry(index uint32) Entry { return s[index] }

// validateCatalog checks that entries are dense and positionally consistent.
func validateCatalog(c Catalog) error {
	if c == nil {
		return fmt.Errorf("blockcache: nil catalog")
	}
	for i := 0; i < c.Len(); i++ {
		if e := c.Entry(uint32(i)); e.Index != uint32(i) {
			return fmt.Errorf("blockcache: catalog entry %d has index %d", i, e.Index)
		}
	}
	return nil
}
