package blockcache

import (
	"context"
	"errors"
)

// prefetcher is the single background worker that loads one neighbor file
// ahead of demand. Requests travel through a single-slot mailbox with
// overwrite-on-conflict semantics: a reader never blocks to signal, never
// queues a backlog, and a stale unconsumed request is simply replaced.
type prefetcher struct {
	mode    PrefetchMode
	mailbox chan uint32
	quit    chan struct{}
	done    chan struct{}
	cancel  context.CancelFunc
}

func newPrefetcher(c *Cache, mode PrefetchMode) *prefetcher {
	p := &prefetcher{
		mode:    mode,
		mailbox: make(chan uint32, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.run(c, ctx)
	return p
}

// target computes the neighbor to prefetch after a first touch of index.
// ok is false at the catalog edges: past the last file in forward mode, and
// at file 0 in backward mode (clamped, no wraparound).
func (p *prefetcher) target(index uint32, catalogLen int) (uint32, bool) {
	if p.mode == PrefetchBackward {
		if index == 0 {
			return 0, false
		}
		return index - 1, true
	}
	if int64(index)+1 >= int64(catalogLen) {
		return 0, false
	}
	return index + 1, true
}

// signal hands index to the worker without ever blocking the caller. If a
// stale request is still pending it is replaced; if another reader wins the
// race to replace it, this request is dropped and coalesces with theirs.
func (p *prefetcher) signal(index uint32) {
	select {
	case p.mailbox <- index:
		return
	default:
	}
	select {
	case <-p.mailbox:
	default:
	}
	select {
	case p.mailbox <- index:
	default:
	}
}

func (p *prefetcher) run(c *Cache, ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-p.quit:
			return
		case index := <-p.mailbox:
			err := c.prefetchLoad(ctx, index)
			if err != nil {
				// A failed prefetch is non-fatal: the index stays unloaded
				// and is retried synchronously on actual demand.
				if errors.Is(err, ErrClosed) || errors.Is(err, context.Canceled) {
					continue
				}
				c.log.Warn("prefetch failed", "index", index, "error", err)
			}
			c.metrics.RecordPrefetch(index, err)
		}
	}
}

// stopAndWait interrupts any in-progress load and joins the worker.
func (p *prefetcher) stopAndWait() {
	p.cancel()
	close(p.quit)
	<-p.done
}

// prefetchLoad brings index into the table on behalf of the worker. It uses
// the same load path as a demand read but leaves the region untouched, so the
// first demand access still triggers the next prefetch in the chain. The
// background I/O limit, if configured, is awaited before the load.
func (c *Cache) prefetchLoad(ctx context.Context, index uint32) error {
	e := c.catalog.Entry(index)

	if err := c.rc.WaitIO(ctx, int64(e.Size)); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return ErrClosed
	}
	if _, ok := c.regions[index]; ok {
		return nil
	}

	reg, err := c.loadRegion(e, c.sweepLocked)
	if err != nil {
		return err
	}
	c.regions[index] = reg
	return nil
}
