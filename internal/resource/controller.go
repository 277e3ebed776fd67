package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits for a cache instance.
type Config struct {
	// MemoryBudgetBytes is the advisory budget for resident region bytes.
	// If 0, no budget is enforced (only tracking).
	MemoryBudgetBytes int64

	// PrefetchIOBytesPerSec is the maximum IO throughput for background
	// prefetch loads. If 0, unlimited. Demand reads are never throttled.
	PrefetchIOBytesPerSec int64
}

// Controller tracks memory held by resident regions and throttles background
// IO so prefetching cannot starve demand reads.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if no budget
	memUsed atomic.Int64

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MemoryBudgetBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryBudgetBytes)
	}

	if cfg.PrefetchIOBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.PrefetchIOBytesPerSec), int(cfg.PrefetchIOBytesPerSec))
	}

	return c
}

// TryAcquireMemory attempts to reserve bytes against the budget without
// blocking. It reports false if the budget would be exceeded; the caller
// decides whether to evict and retry or proceed unreserved.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return false
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory returns a previous reservation to the budget.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// MemoryBudget returns the configured budget in bytes (0 if unlimited).
func (c *Controller) MemoryBudget() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryBudgetBytes
}

// WaitIO waits until the background IO limit allows the specified number of
// bytes. Requests larger than the per-second limit are split across the
// limiter's burst window.
func (c *Controller) WaitIO(ctx context.Context, bytes int64) error {
	if c == nil || c.ioLimiter == nil || bytes <= 0 {
		return nil
	}

	burst := int64(c.ioLimiter.Burst())
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, int(n)); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
