package blockcache

// getOrLoad returns the resident region for index, loading the file
// synchronously if absent. The load happens while holding the cache lock, so
// concurrent readers of the same cold index serialize here and exactly one
// load occurs. On a load failure no entry is inserted.
//
// The returned region carries a reference taken on the caller's behalf while
// the lock is still held; the caller must release it once the bytes are
// served. Without it, a sweep or Invalidate between the lock release and the
// serve could see only the table's reference and free the buffer mid-read.
//
// The first time a region is handed out, the prefetcher is signaled for the
// neighbor index in the configured scan direction.
func (c *Cache) getOrLoad(index uint32) (*region, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return nil, ErrClosed
	}

	reg, ok := c.regions[index]
	if !ok {
		var err error
		if reg, err = c.loadRegion(c.catalog.Entry(index), c.sweepLocked); err != nil {
			return nil, err
		}
		c.regions[index] = reg
		c.misses.Add(1)
	} else {
		c.hits.Add(1)
	}

	if !reg.touched {
		if c.pf != nil {
			if next, ok := c.pf.target(index, c.catalog.Len()); ok {
				c.pf.signal(next)
			}
		}
		reg.touched = true
	}

	reg.retain()
	return reg, nil
}

// resident reports whether index is currently cached.
func (c *Cache) resident(index uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.regions[index]
	return ok
}

// insert adds a region loaded outside the lock (Warm). It reports false if an
// entry for the index raced in first; the caller then keeps ownership of reg.
func (c *Cache) insert(reg *region) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return false, ErrClosed
	}
	if _, ok := c.regions[reg.index]; ok {
		return false, nil
	}
	c.regions[reg.index] = reg
	return true, nil
}

// maybeSweep runs a sweep once the clock has crossed the precomputed trigger.
// The check is a single atomic load, so the hot path pays nothing between
// triggers.
func (c *Cache) maybeSweep() {
	if c.clock.Load() < c.nextSweep.Load() {
		return
	}

	c.mu.Lock()
	if !c.closed.Load() {
		c.sweepLocked()
	}
	c.mu.Unlock()
}

// sweep is sweepLocked for callers that do not hold the cache lock.
func (c *Cache) sweep() {
	c.mu.Lock()
	c.sweepLocked()
	c.mu.Unlock()
}

// sweepLocked drops every region whose last access is at least threshold
// served bytes in the past and that nothing but the table references. The
// reference check and region hand-out both happen under the cache lock, so a
// region cannot be evicted between its lookup and its return to a caller.
// Must be called with c.mu held.
func (c *Cache) sweepLocked() {
	now := c.clock.Load()
	evicted := 0

	for index, reg := range c.regions {
		if reg.mark.Load()+c.threshold <= now && !reg.pinned() {
			delete(c.regions, index)
			reg.release()
			evicted++
		}
	}

	c.nextSweep.Store(now + c.threshold)

	if evicted > 0 {
		c.evictions.Add(int64(evicted))
		c.metrics.RecordEviction(evicted)
		c.log.Debug("sweep evicted stale regions",
			"evicted", evicted, "resident", len(c.regions), "clock", now)
	}
}
