package blockcache

// Cursor is a caller-held hint that remembers the two most recently served
// regions. When consecutive reads hit the same file, the cache serves them
// through the cursor without taking its lock.
//
// A Cursor pins the regions it references: the eviction sweep skips them, so
// slices served through the cursor stay valid until the cursor moves on or is
// released.
//
// The zero value is ready to use. A Cursor belongs to a single logical reader
// stream and one Cache; it must not be shared across goroutines.
type Cursor struct {
	current  *region
	previous *region
}

// hit returns the pinned region for index, or nil if the cursor cannot serve
// it. hit never mutates the cursor, so probing for a fast path on a read that
// later fails leaves the pinned history intact.
func (c *Cursor) hit(index uint32) *region {
	if c.current != nil && c.current.index == index {
		return c.current
	}
	if c.previous != nil && c.previous.index == index {
		return c.previous
	}
	return nil
}

// advance records the region that served a successful read: "current" shifts
// into the "previous" slot and its predecessor's pin is dropped. Only called
// after the bytes are in hand, so failed reads never move the cursor.
func (c *Cursor) advance(r *region) {
	r.retain()
	if c.previous != nil {
		c.previous.release()
	}
	c.previous = c.current
	c.current = r
}

// Release drops both region references. Slices previously served through this
// cursor must not be used afterwards unless the regions are still resident.
// Releasing a zero or already-released cursor is a no-op.
func (c *Cursor) Release() {
	if c.current != nil {
		c.current.release()
		c.current = nil
	}
	if c.previous != nil {
		c.previous.release()
		c.previous = nil
	}
}
