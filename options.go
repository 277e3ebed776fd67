package blockcache

import (
	"github.com/hupe1980/blockcache/internal/fs"
	"github.com/hupe1980/blockcache/internal/resource"
)

// PrefetchMode selects whether and in which direction the background worker
// loads a neighbor file when a resident file is first handed to a caller.
type PrefetchMode int

const (
	// PrefetchNone disables prefetching; no background worker is started.
	PrefetchNone PrefetchMode = iota
	// PrefetchForward prefetches index+1 on first touch (ascending scans).
	PrefetchForward
	// PrefetchBackward prefetches index-1 on first touch (descending scans).
	PrefetchBackward
)

// DefaultEvictionThreshold is the number of served bytes after which an
// untouched region becomes eligible for eviction, and the interval between
// sweeps. Sized for catalogs of 128 MiB block files.
const DefaultEvictionThreshold = 512 << 20

type options struct {
	prefetch  PrefetchMode
	threshold uint64
	logger    *Logger
	metrics   MetricsCollector
	fsys      fs.FileSystem
	useMmap   bool
	resources resource.Config
}

// Option configures Cache construction.
type Option func(*options)

// WithPrefetch selects the prefetch direction. The default is PrefetchNone.
func WithPrefetch(mode PrefetchMode) Option {
	return func(o *options) {
		o.prefetch = mode
	}
}

// WithEvictionThreshold overrides DefaultEvictionThreshold. The threshold is
// measured in cumulative bytes served, not wall-clock time: a region is
// dropped once at least this many bytes have been served since it was last
// read, provided no cursor still references it. Values <= 0 keep the default.
func WithEvictionThreshold(bytes uint64) Option {
	return func(o *options) {
		if bytes > 0 {
			o.threshold = bytes
		}
	}
}

// WithLogger configures structured logging. If nil is passed, logging is
// disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithMmap backs regions with read-only memory mappings instead of heap
// buffers. The kernel pages bytes in on demand, so a "load" becomes cheap and
// eviction unmaps instead of freeing. Mapped regions bypass any injected
// filesystem.
func WithMmap() Option {
	return func(o *options) {
		o.useMmap = true
	}
}

// WithResourceConfig sets an advisory memory budget and a background I/O
// throughput limit. When a load would exceed the memory budget the cache runs
// an early sweep and retries; if the budget is still exceeded the load
// proceeds unreserved (the budget is advisory, never a hard ceiling).
// The I/O limit applies to prefetch loads only, never to demand reads.
func WithResourceConfig(cfg resource.Config) Option {
	return func(o *options) {
		o.resources = cfg
	}
}

// withFileSystem injects a filesystem, for fault-injection tests.
func withFileSystem(fsys fs.FileSystem) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}
