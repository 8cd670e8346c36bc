package shared

import (
	"fmt"

	"go.uber.org/atomic"

	"github.com/joshuapare/ownkit/internal/leak"
	"github.com/joshuapare/ownkit/mem/alloc"
)

type atomicBlock[T any] struct {
	strong atomic.Int64
	weak   atomic.Int64
	value  T
}

// AtomicRef is Ref with atomic counters. Distinct handles of one family
// may be cloned, upgraded and dropped concurrently; a single handle is
// still owned by one goroutine at a time. The allocator must be safe for
// concurrent use.
type AtomicRef[T any] struct {
	_    noCopy
	b    *atomicBlock[T]
	f    *family[T]
	leak leak.Token
}

// AtomicWeak is Weak for AtomicRef families.
type AtomicWeak[T any] struct {
	_       noCopy
	b       *atomicBlock[T]
	f       *family[T]
	dropped bool
	leak    leak.Token
}

// NewAtomic moves v into a control block from the default allocator.
func NewAtomic[T any](v T, opts ...Option[T]) (*AtomicRef[T], error) {
	return newAtomicIn(alloc.Default(), v, opts)
}

// NewAtomicIn moves v into a control block from a.
func NewAtomicIn[T any](a alloc.Allocator, v T, opts ...Option[T]) (*AtomicRef[T], error) {
	return newAtomicIn(a, v, opts)
}

func newAtomicIn[T any](a alloc.Allocator, v T, opts []Option[T]) (*AtomicRef[T], error) {
	b, err := alloc.New[atomicBlock[T]](a)
	if err != nil {
		return nil, fmt.Errorf("shared: new atomic: %w", err)
	}
	b.value = v
	b.strong.Store(1)
	b.weak.Store(1)
	return newAtomicRef(b, newFamily(a, opts), 3), nil
}

func newAtomicRef[T any](b *atomicBlock[T], f *family[T], skip int) *AtomicRef[T] {
	r := &AtomicRef[T]{b: b, f: f}
	r.leak = leak.Track(r, "shared.AtomicRef", skip)
	return r
}

func newAtomicWeak[T any](b *atomicBlock[T], f *family[T], skip int) *AtomicWeak[T] {
	w := &AtomicWeak[T]{b: b, f: f}
	w.leak = leak.Track(w, "shared.AtomicWeak", skip)
	return w
}

// Get returns a pointer to the payload for reading.
func (r *AtomicRef[T]) Get() *T {
	r.mustLive("get")
	return &r.b.value
}

// Clone returns a new strong handle to the same payload.
func (r *AtomicRef[T]) Clone() *AtomicRef[T] {
	r.mustLive("clone")
	r.b.strong.Inc()
	return newAtomicRef(r.b, r.f, 2)
}

// Downgrade returns a weak handle to the same block.
func (r *AtomicRef[T]) Downgrade() *AtomicWeak[T] {
	r.mustLive("downgrade")
	r.b.weak.Inc()
	return newAtomicWeak(r.b, r.f, 2)
}

// StrongCount returns a snapshot of the strong count.
func (r *AtomicRef[T]) StrongCount() int {
	r.mustLive("strong count")
	return int(r.b.strong.Load())
}

// WeakCount returns a snapshot of the weak count, without the implicit unit.
func (r *AtomicRef[T]) WeakCount() int {
	r.mustLive("weak count")
	return int(r.b.weak.Load()) - 1
}

// PtrEqualAtomic reports whether a and b share one control block.
func PtrEqualAtomic[T any](a, b *AtomicRef[T]) bool {
	a.mustLive("ptr equal")
	b.mustLive("ptr equal")
	return a.b == b.b
}

// Drop releases r's strong count. Exactly one goroutine observes the
// strong count reaching zero and destroys the payload; exactly one
// observes the weak count reaching zero and frees the block.
func (r *AtomicRef[T]) Drop() {
	if r == nil || r.b == nil {
		return
	}
	b, f := r.b, r.f
	r.b = nil
	r.leak.Stop()
	if b.strong.Dec() > 0 {
		return
	}
	f.destroy(&b.value)
	if b.weak.Dec() == 0 {
		freeBlock(f.a, b)
	}
}

// Valid reports whether r has not been dropped.
func (r *AtomicRef[T]) Valid() bool {
	return r.b != nil
}

func (r *AtomicRef[T]) mustLive(op string) {
	if r.b == nil {
		panic(released(op))
	}
}

// Upgrade returns a new strong handle, or nil if the payload is gone. The
// strong count is only incremented from a non-zero value, so a payload
// being destroyed is never revived.
func (w *AtomicWeak[T]) Upgrade() *AtomicRef[T] {
	w.mustLive("upgrade")
	for {
		n := w.b.strong.Load()
		if n == 0 {
			return nil
		}
		if w.b.strong.CAS(n, n+1) {
			return newAtomicRef(w.b, w.f, 2)
		}
	}
}

// Clone returns another weak handle to the same block.
func (w *AtomicWeak[T]) Clone() *AtomicWeak[T] {
	w.mustLive("clone")
	w.b.weak.Inc()
	return newAtomicWeak(w.b, w.f, 2)
}

// StrongCount returns a snapshot of the strong count.
func (w *AtomicWeak[T]) StrongCount() int {
	w.mustLive("strong count")
	return int(w.b.strong.Load())
}

// Phase returns a snapshot of the observed block's phase.
func (w *AtomicWeak[T]) Phase() Phase {
	w.mustLive("phase")
	if w.b.strong.Load() == 0 {
		return PayloadDead
	}
	return Live
}

// Drop releases w's weak count. Dropping a nil handle or dropping twice
// is a no-op.
func (w *AtomicWeak[T]) Drop() {
	if w == nil || w.dropped {
		return
	}
	b, f := w.b, w.f
	w.b, w.dropped = nil, true
	w.leak.Stop()
	if b.weak.Dec() == 0 {
		freeBlock(f.a, b)
	}
}

func (w *AtomicWeak[T]) mustLive(op string) {
	if w.dropped {
		panic(released(op))
	}
}
