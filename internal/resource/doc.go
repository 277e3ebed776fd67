// Package resource implements advisory resource governance for the cache.
//
// The Controller manages two resource types:
//
//   - Memory: track and budget the bytes held by resident regions
//     (non-blocking, fail-fast; the cache evicts and retries on denial)
//   - IO: rate-limit background prefetch loads so they cannot starve
//     demand reads (token bucket)
//
// # Memory Budgeting
//
// Memory tracking uses a weighted semaphore for the budget and an atomic
// counter for usage. TryAcquireMemory never blocks:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryBudgetBytes: 1 << 30, // 1GB
//	})
//
//	if !rc.TryAcquireMemory(regionSize) {
//	    // evict stale regions, retry, or proceed unreserved
//	}
//	defer rc.ReleaseMemory(regionSize)
//
// The budget is advisory: the cache never refuses a demand load outright.
//
// # IO Rate Limiting
//
//	rc := resource.NewController(resource.Config{
//	    PrefetchIOBytesPerSec: 100 * 1024 * 1024, // 100MB/s
//	})
//
//	if err := rc.WaitIO(ctx, fileSize); err != nil {
//	    return err // context cancelled
//	}
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully; they become no-ops. This
// allows optional resource limiting without nil checks everywhere.
package resource
