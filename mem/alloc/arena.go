package alloc

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/ownkit/internal/layout"
	"github.com/joshuapare/ownkit/logger"
)

// ArenaConfig configures an Arena.
type ArenaConfig struct {
	// ChunkSize is the size of each mapping, rounded up to the page size.
	ChunkSize uintptr
	// MaxChunks bounds the number of mappings; 0 means unbounded.
	MaxChunks int
	// SizeClasses controls slot rounding. Zero value means DefaultSizeClasses.
	SizeClasses SizeClassConfig
}

// DefaultArenaConfig maps 1 MiB chunks without a chunk limit.
var DefaultArenaConfig = ArenaConfig{
	ChunkSize:   1 << 20,
	SizeClasses: DefaultSizeClasses,
}

// Arena hands out size-classed slots carved from anonymous memory mappings.
//
// Slots are bump-allocated from the current chunk; freed slots are zeroed
// and pushed on a per-size free list, and later requests of the same slot
// size pop from it before touching the bump pointer (LIFO reuse). Because
// the garbage collector does not scan mapped memory, only pointer-free
// layouts are accepted.
//
// Arena is safe for concurrent use.
type Arena struct {
	sync.Mutex

	cfg   ArenaConfig
	table *sizeClassTable

	chunks []chunk
	off    uintptr // bump offset into the last chunk

	free  map[uintptr][]unsafe.Pointer // slot size -> free slots
	idle  map[unsafe.Pointer]struct{}  // every slot currently on a free list
	live  map[unsafe.Pointer]uintptr   // slot -> slot size
	stats Stats

	closed bool
}

type chunk struct {
	mem     []byte
	base    unsafe.Pointer
	release func() error
}

func (c *chunk) contains(p unsafe.Pointer) bool {
	b := uintptr(c.base)
	return uintptr(p) >= b && uintptr(p) < b+uintptr(len(c.mem))
}

// NewArena creates an arena. No memory is mapped until the first Alloc.
func NewArena(cfg ArenaConfig) *Arena {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = DefaultArenaConfig.ChunkSize
	}
	cfg.ChunkSize = layout.Align(cfg.ChunkSize, pageSize())
	if cfg.SizeClasses == (SizeClassConfig{}) {
		cfg.SizeClasses = DefaultSizeClasses
	}
	return &Arena{
		cfg:   cfg,
		table: newSizeClassTable(cfg.SizeClasses),
		free:  make(map[uintptr][]unsafe.Pointer),
		idle:  make(map[unsafe.Pointer]struct{}),
		live:  make(map[unsafe.Pointer]uintptr),
	}
}

// Alloc implements Allocator.
func (a *Arena) Alloc(l Layout) (unsafe.Pointer, error) {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return nil, ErrClosed
	}
	if l.Type == nil {
		return nil, ErrBadLayout
	}
	if !l.PointerFree() {
		return nil, fmt.Errorf("%w: %s", ErrNotPointerFree, l)
	}

	sz := a.table.slotSize(l.Size)
	if sz > a.cfg.ChunkSize {
		a.stats.Failed++
		return nil, exhausted(fmt.Errorf("%w: %d > %d", ErrTooLarge, sz, a.cfg.ChunkSize))
	}

	p, err := a.slot(sz)
	if err != nil {
		a.stats.Failed++
		logger.Debug("arena alloc refused", "layout", l.String(), "slot", sz, "err", err)
		return nil, err
	}

	a.live[p] = sz
	a.stats.recordAlloc(uint64(l.Size))
	return p, nil
}

// slot returns a zeroed slot of sz bytes. Caller MUST hold the lock.
func (a *Arena) slot(sz uintptr) (unsafe.Pointer, error) {
	// Fast path; reuse a freed slot of the same size.
	if list := a.free[sz]; len(list) > 0 {
		p := list[len(list)-1]
		a.free[sz] = list[:len(list)-1]
		delete(a.idle, p)
		return p, nil
	}

	// Slow path; bump, mapping a new chunk when the current one is full.
	if len(a.chunks) == 0 || a.off+sz > uintptr(len(a.chunks[len(a.chunks)-1].mem)) {
		if err := a.grow(); err != nil {
			return nil, err
		}
	}
	c := &a.chunks[len(a.chunks)-1]
	p := unsafe.Add(c.base, a.off)
	a.off += sz
	return p, nil
}

// grow maps one more chunk. Caller MUST hold the lock.
func (a *Arena) grow() error {
	if a.cfg.MaxChunks > 0 && len(a.chunks) >= a.cfg.MaxChunks {
		return exhausted(fmt.Errorf("%w: %d chunks in use", ErrNoSpace, len(a.chunks)))
	}
	mem, release, err := mapChunk(a.cfg.ChunkSize)
	if err != nil {
		return exhausted(err)
	}
	base := unsafe.Pointer(unsafe.SliceData(mem))
	a.chunks = append(a.chunks, chunk{mem: mem, base: base, release: release})
	a.off = 0
	a.stats.MappedBytes += uint64(len(mem))
	logger.Debug("arena chunk mapped", "size", len(mem), "chunks", len(a.chunks), "classes", a.table.String())
	return nil
}

// Free implements Allocator.
func (a *Arena) Free(p unsafe.Pointer, l Layout) error {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return ErrClosed
	}
	sz, ok := a.live[p]
	if !ok {
		if _, ok := a.idle[p]; ok {
			return fmt.Errorf("%w: %p (%s)", ErrDoubleFree, p, l)
		}
		if a.owns(p) {
			return fmt.Errorf("%w: %p is inside a chunk but was never handed out", ErrBadPointer, p)
		}
		return fmt.Errorf("%w: %p", ErrBadPointer, p)
	}
	if want := a.table.slotSize(l.Size); want != sz {
		return fmt.Errorf("%w: %p freed with slot %d, allocated with slot %d", ErrBadPointer, p, want, sz)
	}

	clear(unsafe.Slice((*byte)(p), sz))
	delete(a.live, p)
	a.free[sz] = append(a.free[sz], p)
	a.idle[p] = struct{}{}
	a.stats.recordFree(uint64(l.Size))
	return nil
}

// owns reports whether p lies in one of the arena's chunks. Caller MUST hold the lock.
func (a *Arena) owns(p unsafe.Pointer) bool {
	for i := range a.chunks {
		if a.chunks[i].contains(p) {
			return true
		}
	}
	return false
}

// Stats implements StatsSource.
func (a *Arena) Stats() Stats {
	a.Lock()
	defer a.Unlock()
	return a.stats
}

// Close unmaps every chunk. It fails with ErrBusy while allocations are
// live, since unmapping would leave their handles pointing at unmapped
// memory. Close is idempotent.
func (a *Arena) Close() error {
	a.Lock()
	defer a.Unlock()

	if a.closed {
		return nil
	}
	if n := len(a.live); n > 0 {
		return fmt.Errorf("%w: %d", ErrBusy, n)
	}

	var firstErr error
	for i := range a.chunks {
		if err := a.chunks[i].release(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.chunks = nil
	a.free = nil
	a.idle = nil
	a.stats.MappedBytes = 0
	a.closed = true
	return firstErr
}
