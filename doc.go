// Package blockcache provides cached, byte-addressable read access to a
// numbered sequence of large, append-only files that together form a logical
// append log (for example a blockchain's raw block storage).
//
// Callers address bytes by (file index, offset, length) and receive a
// zero-copy view into an in-memory copy of the file. Files are loaded on
// demand, aged out by an approximate LRU policy driven by cumulative bytes
// served, and optionally prefetched one file ahead of a sequential scan.
//
// # Quick Start
//
//	catalog := blockcache.SliceCatalog{
//	    {Index: 0, Path: "blocks/blk00000.dat", Size: 134217728},
//	    {Index: 1, Path: "blocks/blk00001.dat", Size: 134217728},
//	}
//
//	cache, _ := blockcache.New(catalog, blockcache.WithPrefetch(blockcache.PrefetchForward))
//	defer cache.Close()
//
//	var cur blockcache.Cursor
//	defer cur.Release()
//
//	b, _ := cache.Read(0, 80, 1024, &cur) // bytes [80, 1104) of file 0
//
// # Cursors
//
// A Cursor remembers the last two regions a reader touched. When consecutive
// reads land in the same file, the cursor serves them without taking the cache
// lock. A Cursor belongs to exactly one logical reader stream and must not be
// shared across goroutines; the Cache itself is safe for concurrent use.
//
// A slice returned by Read stays valid while the Cursor that served it still
// references the underlying region. Readers that hold slices across many
// subsequent reads should copy them out instead.
//
// # Eviction
//
// The cache counts every byte it serves on a shared clock. When the clock
// crosses a precomputed trigger, a sweep drops every resident file that has
// not been read for at least the eviction threshold worth of served bytes and
// is not pinned by a cursor. Eviction pressure is therefore proportional to
// I/O volume, not call frequency: large sequential scans age out stale files
// quickly, many small point reads barely move the clock.
package blockcache
