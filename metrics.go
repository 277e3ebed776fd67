package blockcache

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordRead is called after each Read operation.
	// n is the number of bytes requested, err is nil if successful.
	RecordRead(n int, duration time.Duration, err error)

	// RecordLoad is called after each synchronous file load attempt.
	// n is the file size in bytes, err is nil if successful.
	RecordLoad(index uint32, n int64, duration time.Duration, err error)

	// RecordPrefetch is called after each background prefetch attempt.
	RecordPrefetch(index uint32, err error)

	// RecordEviction is called after each sweep with the number of regions dropped.
	RecordEviction(count int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRead(int, time.Duration, error)            {}
func (NoopMetricsCollector) RecordLoad(uint32, int64, time.Duration, error)  {}
func (NoopMetricsCollector) RecordPrefetch(uint32, error)                    {}
func (NoopMetricsCollector) RecordEviction(int)                              {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ReadCount      atomic.Int64
	ReadErrors     atomic.Int64
	ReadBytes      atomic.Int64
	ReadTotalNanos atomic.Int64
	LoadCount      atomic.Int64
	LoadErrors     atomic.Int64
	LoadBytes      atomic.Int64
	LoadTotalNanos atomic.Int64
	PrefetchCount  atomic.Int64
	PrefetchErrors atomic.Int64
	EvictedRegions atomic.Int64
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(n int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
		return
	}
	b.ReadBytes.Add(int64(n))
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(_ uint32, n int64, duration time.Duration, err error) {
	b.LoadCount.Add(1)
	b.LoadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.LoadErrors.Add(1)
		return
	}
	b.LoadBytes.Add(n)
}

// RecordPrefetch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordPrefetch(_ uint32, err error) {
	b.PrefetchCount.Add(1)
	if err != nil {
		b.PrefetchErrors.Add(1)
	}
}

// RecordEviction implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEviction(count int) {
	b.EvictedRegions.Add(int64(count))
}
