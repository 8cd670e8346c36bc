package alloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/ownkit/logger"
)

// Tracking wraps another allocator with bookkeeping.
//
// It keeps the set of live allocations, so a second Free of the same
// pointer fails with ErrDoubleFree and a pointer it never handed out fails
// with ErrBadPointer. Only the last freedHistory freed addresses are
// remembered; a double free of an older address is reported as
// ErrBadPointer. When Limit is non-zero, a request that would push the
// live byte count past it fails with an error matching both ErrLimit and
// types.ErrAllocation.
//
// Tracking is safe for concurrent use.
type Tracking struct {
	mu    sync.Mutex
	next  Allocator
	limit uintptr
	live  map[unsafe.Pointer]liveEntry
	freed map[uintptr]struct{} // uintptr keys so freed memory can be collected
	ring  []uintptr            // insertion order of freed, oldest at head
	head  int
	stats Stats
}

type liveEntry struct {
	l Layout
	n int // >1 only for zero-size allocations sharing an address
}

// NewTracking wraps next (Heap when nil). limit is the live byte budget, 0 for none.
func NewTracking(next Allocator, limit uintptr) *Tracking {
	if next == nil {
		next = Heap{}
	}
	return &Tracking{
		next:  next,
		limit: limit,
		live:  make(map[unsafe.Pointer]liveEntry),
		freed: make(map[uintptr]struct{}),
	}
}

// Alloc implements Allocator.
func (t *Tracking) Alloc(l Layout) (unsafe.Pointer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.limit > 0 && uint64(l.Size)+t.stats.LiveBytes > uint64(t.limit) {
		t.stats.Failed++
		logger.Debug("alloc refused", "layout", l.String(), "live_bytes", t.stats.LiveBytes, "limit", t.limit)
		return nil, exhausted(fmt.Errorf("%w: %d live + %d requested > %d", ErrLimit, t.stats.LiveBytes, l.Size, t.limit))
	}

	p, err := t.next.Alloc(l)
	if err != nil {
		t.stats.Failed++
		return nil, err
	}

	delete(t.freed, uintptr(p))
	e := t.live[p]
	e.l = l
	e.n++
	t.live[p] = e
	t.stats.recordAlloc(uint64(l.Size))
	return p, nil
}

// Free implements Allocator.
func (t *Tracking) Free(p unsafe.Pointer, l Layout) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.live[p]
	if !ok {
		if _, gone := t.freed[uintptr(p)]; gone {
			return fmt.Errorf("%w: %p (%s)", ErrDoubleFree, p, l)
		}
		return fmt.Errorf("%w: %p", ErrBadPointer, p)
	}
	if e.l.Type != l.Type {
		return fmt.Errorf("%w: %p freed as %s, allocated as %s", ErrBadPointer, p, l, e.l)
	}

	if err := t.next.Free(p, l); err != nil {
		return err
	}

	if e.n--; e.n == 0 {
		delete(t.live, p)
		t.rememberFreed(uintptr(p))
	} else {
		t.live[p] = e
	}
	t.stats.recordFree(uint64(l.Size))
	return nil
}

// freedHistory bounds the number of freed addresses kept for double-free
// detection.
const freedHistory = 1 << 12

// rememberFreed records p, forgetting the oldest entry once freedHistory
// addresses are held. Caller MUST hold the lock.
func (t *Tracking) rememberFreed(p uintptr) {
	if len(t.ring) < freedHistory {
		t.ring = append(t.ring, p)
	} else {
		delete(t.freed, t.ring[t.head])
		t.ring[t.head] = p
		t.head = (t.head + 1) % freedHistory
	}
	t.freed[p] = struct{}{}
}

// Live reports whether p is currently allocated through t.
func (t *Tracking) Live(p unsafe.Pointer) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.live[p]
	return ok
}

// Stats implements StatsSource.
func (t *Tracking) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}
