// Package mmap provides read-only memory-mapped access to block files.
//
// A mapping replaces the heap copy a region would otherwise own: the kernel
// pages bytes in on demand and can reclaim them under pressure, so mapped
// regions are cheap to "load" and eviction becomes an unmap.
//
// # Usage
//
//	m, err := mmap.Open("blk00000.dat")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.AdviseSequential() // readahead hint for scans
//	data := m.Data
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) access hints
//   - Windows: CreateFileMapping/MapViewOfFile (madvise is a no-op)
//
// Data is safe for concurrent reads. Callers must ensure no goroutine touches
// Data after Close returns; the cache's reference counting upholds this.
package mmap
