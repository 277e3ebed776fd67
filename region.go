package blockcache

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/hupe1980/blockcache/internal/mmap"
	"github.com/hupe1980/blockcache/internal/resource"
)

// region is one fully-loaded block file. Its bytes are immutable after
// construction; concurrent readers need no synchronization beyond the atomic
// usage mark.
//
// A region is reference counted. The cache table holds one reference; every
// Cursor slot pointing at the region holds another. The backing store is
// released when the count reaches zero, so a region survives eviction for as
// long as a cursor still pins it.
type region struct {
	index uint32
	buf   []byte

	// mark is the cache clock value observed at the last access.
	mark atomic.Uint64

	refs atomic.Int32

	// touched flips true once the region has been handed to a caller; it
	// gates prefetch triggering. Guarded by the cache mutex.
	touched bool

	mf       *mmap.File
	rc       *resource.Controller
	reserved int64
}

// loadRegion reads the file behind e fully into memory. The returned region
// carries one reference (the caller's). A short read is an error: the catalog
// size is authoritative.
//
// sweep, if non-nil, is invoked when the memory budget would be exceeded, to
// free stale regions before retrying the reservation. The budget is advisory:
// if the retry is denied too, the load proceeds unreserved.
func (c *Cache) loadRegion(e Entry, sweep func()) (reg *region, err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordLoad(e.Index, int64(e.Size), time.Since(start), err)
	}()

	r := &region{
		index: e.Index,
		rc:    c.rc,
	}
	r.refs.Store(1)

	if c.useMmap {
		// File-backed pages are kernel-reclaimable, so mappings never count
		// against the memory budget.
		m, err := mmap.Open(e.Path)
		if err != nil {
			return nil, &ErrLoadFailed{Index: e.Index, Path: e.Path, cause: err}
		}
		if uint64(len(m.Data)) < e.Size {
			_ = m.Close()
			return nil, &ErrLoadFailed{
				Index: e.Index,
				Path:  e.Path,
				cause: fmt.Errorf("mapped %d of %d bytes", len(m.Data), e.Size),
			}
		}
		_ = m.AdviseSequential()
		r.mf = m
		r.buf = m.Data[:e.Size]
		return r, nil
	}

	r.reserved = int64(e.Size)
	if !c.rc.TryAcquireMemory(r.reserved) {
		if sweep != nil {
			sweep()
		}
		if !c.rc.TryAcquireMemory(r.reserved) {
			c.log.Debug("memory budget exceeded, loading unreserved",
				"index", e.Index, "size", e.Size, "used", c.rc.MemoryUsage())
			r.reserved = 0
		}
	}

	f, err := c.fsys.Open(e.Path)
	if err != nil {
		r.release()
		return nil, &ErrLoadFailed{Index: e.Index, Path: e.Path, cause: err}
	}
	defer f.Close()

	buf := make([]byte, e.Size)
	if n, err := f.ReadAt(buf, 0); uint64(n) < e.Size {
		if err == nil || err == io.EOF {
			err = fmt.Errorf("short read: %d of %d bytes", n, e.Size)
		}
		r.release()
		return nil, &ErrLoadFailed{Index: e.Index, Path: e.Path, cause: err}
	}
	r.buf = buf
	return r, nil
}

// view returns the byte range [offset, offset+length) and stamps the region
// with the post-increment clock value. Bounds are validated by Read before
// the region is consulted.
func (r *region) view(offset uint64, length uint32, clock *atomic.Uint64) []byte {
	r.mark.Store(clock.Add(uint64(length)))
	end := offset + uint64(length)
	return r.buf[offset:end:end]
}

func (r *region) retain() {
	r.refs.Add(1)
}

// release drops one reference and frees the backing store on the last one.
func (r *region) release() {
	if r.refs.Add(-1) != 0 {
		return
	}
	if r.mf != nil {
		_ = r.mf.Close()
		r.mf = nil
	}
	r.buf = nil
	if r.reserved > 0 {
		r.rc.ReleaseMemory(r.reserved)
		r.reserved = 0
	}
}

// pinned reports whether anything besides the table references the region.
func (r *region) pinned() bool {
	return r.refs.Load() > 1
}
