// Package alloc is the allocation seam every ownkit handle goes through.
//
// # Overview
//
// Handles never call new(T) directly. They ask an Allocator for memory
// described by a Layout and hand it back with Free exactly once, when the
// last owner releases it. Routing every allocation through one interface
// makes the lifetime protocol observable (how many blocks are live, was
// anything freed twice) and lets callers choose where payloads live.
//
// # Allocator Interface
//
//   - Alloc(layout): zeroed memory for one value, or an error matching
//     types.ErrAllocation when the allocator is exhausted
//   - Free(ptr, layout): return memory obtained from Alloc
//
// The typed helpers New[T] and Delete[T] wrap both calls.
//
// # Implementations
//
// Heap: the Go heap
//
//   - Alloc never fails
//   - Free zeroes the slot so released payloads drop their references
//
// Tracking: accounting wrapper around another allocator
//
//   - Optional byte Limit; exceeding it fails with ErrLimit
//   - Detects double frees (ErrDoubleFree) and foreign pointers (ErrBadPointer)
//   - Counters exposed through Stats
//
// Arena: size-classed slots over anonymous memory mappings
//
//   - Pointer-free layouts only (ErrNotPointerFree)
//   - Per-slot-size LIFO free lists, bump allocation inside chunks
//   - MaxChunks bound; exhaustion fails with ErrNoSpace
//   - Close unmaps all chunks once no allocation is live
//
// # Usage Example
//
//	tr := alloc.NewTracking(alloc.Heap{}, 64<<10)
//	p, err := alloc.New[point](tr)
//	if err != nil {
//	    return err // errors.Is(err, types.ErrAllocation)
//	}
//	defer alloc.Delete(tr, p)
//
// # Size Classes
//
// The arena rounds requests up to a slot size from a SizeClassConfig.
// With the default ConfigBalanced:
//
//	16 - 512 bytes:  32 classes, step 16
//	512 - 16 KB:     geometric, factor 1.5
//	16 KB+:          exact 16-byte aligned slots
//
// # Metrics
//
// Collector exports any StatsSource (Tracking, Arena) to Prometheus, and
// Stats.String renders the same counters for logs.
//
// # Thread Safety
//
// Heap, Tracking and Arena are safe for concurrent use. The handles built on
// top of them are not, except for the atomic-counter siblings in package
// shared.
package alloc
