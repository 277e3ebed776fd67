package blockcache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/blockcache/internal/fs"
	"github.com/hupe1980/blockcache/internal/resource"
)

// warmConcurrency bounds parallel file loads during Warm.
const warmConcurrency = 4

// Cache provides cached byte-range access to the block files described by a
// Catalog. All shared mutable state (the region table, the usage clock, the
// prefetch mailbox) lives behind this object; construct it once and tear it
// down with Close.
//
// Cache is safe for concurrent use by multiple readers. Cursors are not.
type Cache struct {
	catalog   Catalog
	fsys      fs.FileSystem
	rc        *resource.Controller
	log       *Logger
	metrics   MetricsCollector
	useMmap   bool
	threshold uint64

	// clock counts cumulative bytes served; it is the cache's only notion of
	// time. nextSweep is the clock value at which the next sweep runs.
	clock     atomic.Uint64
	nextSweep atomic.Uint64

	mu      sync.Mutex
	regions map[uint32]*region
	closed  atomic.Bool

	pf *prefetcher

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// New constructs a Cache over catalog. The catalog must be fully populated
// and must not change for the lifetime of the cache. If a prefetch direction
// is configured, the background worker starts immediately.
func New(catalog Catalog, opts ...Option) (*Cache, error) {
	o := options{
		threshold: DefaultEvictionThreshold,
		logger:    NoopLogger(),
		metrics:   NoopMetricsCollector{},
		fsys:      fs.Default,
	}
	for _, fn := range opts {
		fn(&o)
	}

	if err := validateCatalog(catalog); err != nil {
		return nil, err
	}

	c := &Cache{
		catalog:   catalog,
		fsys:      o.fsys,
		rc:        resource.NewController(o.resources),
		log:       o.logger,
		metrics:   o.metrics,
		useMmap:   o.useMmap,
		threshold: o.threshold,
		regions:   make(map[uint32]*region),
	}
	c.nextSweep.Store(c.threshold)

	if o.prefetch != PrefetchNone {
		c.pf = newPrefetcher(c, o.prefetch)
	}

	return c, nil
}

// Read returns the bytes [offset, offset+length) of the file at fileIndex as
// a zero-copy view into the resident region, loading the file synchronously
// if it is not cached.
//
// cur may be nil. When one of the cursor's two pinned regions matches
// fileIndex, the read is served without taking the cache lock; this is the
// intended mode for sequential scans. The cursor only advances on success, so
// a failed read leaves its pinned history untouched. The returned slice is
// read-only and stays valid while cur (or the table) still references the
// region; see the package documentation for the lifetime contract.
func (c *Cache) Read(fileIndex uint32, offset uint64, length uint32, cur *Cursor) (b []byte, err error) {
	start := time.Now()
	defer func() {
		c.metrics.RecordRead(int(length), time.Since(start), err)
	}()

	if c.closed.Load() {
		return nil, ErrClosed
	}
	if int64(fileIndex) >= int64(c.catalog.Len()) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFile, fileIndex)
	}
	e := c.catalog.Entry(fileIndex)
	if offset > e.Size || uint64(length) > e.Size-offset {
		return nil, &ErrOutOfRange{Index: fileIndex, Offset: offset, Length: length, FileSize: e.Size}
	}

	var reg *region
	if cur != nil {
		if reg = cur.hit(fileIndex); reg != nil {
			c.hits.Add(1)
		}
	}
	if reg == nil {
		loaded, lerr := c.getOrLoad(fileIndex)
		if lerr != nil {
			return nil, lerr
		}
		// Drop the read's own reference once the bytes are served. The
		// cursor, if any, takes its own pin in advance below.
		defer loaded.release()
		reg = loaded
	}

	b = reg.view(offset, length, &c.clock)
	if cur != nil {
		cur.advance(reg)
	}

	c.maybeSweep()

	return b, nil
}

// Warm loads the given file indexes in parallel, ahead of demand. Files are
// read outside the cache lock and inserted if still absent, so warming N
// files genuinely overlaps their I/O. Already-resident indexes are skipped.
//
// The first load failure cancels the remaining loads and is returned;
// successfully warmed files stay resident.
func (c *Cache) Warm(ctx context.Context, indexes ...uint32) error {
	for _, index := range indexes {
		if int64(index) >= int64(c.catalog.Len()) {
			return fmt.Errorf("%w: %d", ErrUnknownFile, index)
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(warmConcurrency)

	for _, index := range indexes {
		index := index
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if c.resident(index) {
				return nil
			}
			reg, err := c.loadRegion(c.catalog.Entry(index), c.sweep)
			if err != nil {
				return err
			}
			inserted, err := c.insert(reg)
			if !inserted {
				reg.release()
			}
			return err
		})
	}

	return g.Wait()
}

// Invalidate drops the region for fileIndex regardless of its usage mark,
// for external invalidation. A cursor still referencing the region keeps its
// bytes alive; the next Read of the index reloads the file. Invalidating an
// unloaded index is a no-op.
func (c *Cache) Invalidate(fileIndex uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()

	reg, ok := c.regions[fileIndex]
	if !ok {
		return
	}
	delete(c.regions, fileIndex)
	reg.release()
}

// CacheStats is a point-in-time snapshot of cache state and counters.
type CacheStats struct {
	ResidentRegions int
	ResidentBytes   uint64
	BytesServed     uint64
	Hits            int64
	Misses          int64
	Evictions       int64
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := CacheStats{
		ResidentRegions: len(c.regions),
		BytesServed:     c.clock.Load(),
		Hits:            c.hits.Load(),
		Misses:          c.misses.Load(),
		Evictions:       c.evictions.Load(),
	}
	for _, reg := range c.regions {
		s.ResidentBytes += uint64(len(reg.buf))
	}
	return s
}

// Close stops the prefetch worker, waits for it, and releases every resident
// region. Cursors still holding references keep their regions' bytes alive
// until released. Close is idempotent; operations after Close return
// ErrClosed.
func (c *Cache) Close() error {
	c.mu.Lock()
	if c.closed.Load() {
		c.mu.Unlock()
		return nil
	}
	c.closed.Store(true)
	c.mu.Unlock()

	// Stop the worker before tearing down the table so no in-flight prefetch
	// load races destruction.
	if c.pf != nil {
		c.pf.stopAndWait()
	}

	c.mu.Lock()
	for index, reg := range c.regions {
		delete(c.regions, index)
		reg.release()
	}
	c.mu.Unlock()

	return nil
}
