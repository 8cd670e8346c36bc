package shared

import (
	"fmt"

	"github.com/joshuapare/ownkit/internal/leak"
	"github.com/joshuapare/ownkit/mem/alloc"
)

// noCopy may be embedded into structs which must not be copied
// after the first use. See go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Ref is a strong handle to a shared payload. Each Ref contributes one to
// the strong count of its control block.
type Ref[T any] struct {
	_    noCopy
	b    *block[T]
	f    *family[T]
	leak leak.Token
}

// New moves v into a control block from the default allocator and returns
// the first strong handle.
func New[T any](v T, opts ...Option[T]) (*Ref[T], error) {
	return newIn(alloc.Default(), v, opts)
}

// NewIn moves v into a control block from a.
func NewIn[T any](a alloc.Allocator, v T, opts ...Option[T]) (*Ref[T], error) {
	return newIn(a, v, opts)
}

func newIn[T any](a alloc.Allocator, v T, opts []Option[T]) (*Ref[T], error) {
	b, err := alloc.New[block[T]](a)
	if err != nil {
		return nil, fmt.Errorf("shared: new: %w", err)
	}
	b.strong, b.weak = 1, 1
	b.value = v
	return newRef(b, newFamily(a, opts), 3), nil
}

// NewCyclic builds a payload that may refer to its own block. fn receives a
// weak handle to the block under construction and returns the payload;
// upgrading that handle inside fn yields nil. fn owns the weak handle: it
// stores it in the payload, typically, or drops it.
func NewCyclic[T any](fn func(w *Weak[T]) T, opts ...Option[T]) (*Ref[T], error) {
	return newCyclicIn(alloc.Default(), fn, opts)
}

// NewCyclicIn is NewCyclic with an explicit allocator.
func NewCyclicIn[T any](a alloc.Allocator, fn func(w *Weak[T]) T, opts ...Option[T]) (*Ref[T], error) {
	return newCyclicIn(a, fn, opts)
}

func newCyclicIn[T any](a alloc.Allocator, fn func(w *Weak[T]) T, opts []Option[T]) (*Ref[T], error) {
	b, err := alloc.New[block[T]](a)
	if err != nil {
		return nil, fmt.Errorf("shared: new cyclic: %w", err)
	}
	f := newFamily(a, opts)
	b.strong, b.weak, b.building = 0, 2, true
	b.value = fn(newWeak(b, f, 3))
	b.strong, b.building = 1, false
	return newRef(b, f, 3), nil
}

func newRef[T any](b *block[T], f *family[T], skip int) *Ref[T] {
	r := &Ref[T]{b: b, f: f}
	r.leak = leak.Track(r, "shared.Ref", skip)
	return r
}

// Get returns a pointer to the payload for reading. The pointer is valid
// while r is. Mutate shared payloads through a nested cell.
func (r *Ref[T]) Get() *T {
	r.mustLive("get")
	return &r.b.value
}

// Clone returns a new strong handle to the same payload.
func (r *Ref[T]) Clone() *Ref[T] {
	r.mustLive("clone")
	r.b.strong++
	return newRef(r.b, r.f, 2)
}

// Downgrade returns a weak handle to the same block.
func (r *Ref[T]) Downgrade() *Weak[T] {
	r.mustLive("downgrade")
	r.b.weak++
	return newWeak(r.b, r.f, 2)
}

// StrongCount returns the number of strong handles, including r.
func (r *Ref[T]) StrongCount() int {
	r.mustLive("strong count")
	return r.b.strong
}

// WeakCount returns the number of weak handles. The implicit unit held on
// behalf of the strong handles is not included.
func (r *Ref[T]) WeakCount() int {
	r.mustLive("weak count")
	return r.b.weak - 1
}

// Phase returns the block phase. It is always Live for a valid Ref.
func (r *Ref[T]) Phase() Phase {
	r.mustLive("phase")
	return Live
}

// PtrEqual reports whether a and b share one control block.
func PtrEqual[T any](a, b *Ref[T]) bool {
	a.mustLive("ptr equal")
	b.mustLive("ptr equal")
	return a.b == b.b
}

// TryUnwrap moves the payload out if r is the only strong handle. On
// success r is consumed and no destructor runs; weak handles see the
// payload as gone. Otherwise r is left untouched and ok is false.
func (r *Ref[T]) TryUnwrap() (v T, ok bool) {
	r.mustLive("try unwrap")
	b := r.b
	if b.strong != 1 {
		return v, false
	}
	r.invalidate()
	v = b.value
	var zero T
	b.value = zero
	b.strong = 0
	if b.weak--; b.weak == 0 {
		freeBlock(r.f.a, b)
	}
	return v, true
}

// Drop releases r's strong count. The last strong drop destroys the
// payload; the block is freed once no weak handle remains either.
// Dropping a nil Ref or dropping twice is a no-op.
func (r *Ref[T]) Drop() {
	if r == nil || r.b == nil {
		return
	}
	b, f := r.b, r.f
	r.invalidate()
	if b.strong--; b.strong > 0 {
		return
	}
	f.destroy(&b.value)
	if b.weak--; b.weak == 0 {
		freeBlock(f.a, b)
	}
}

// Valid reports whether r has not been dropped or unwrapped.
func (r *Ref[T]) Valid() bool {
	return r.b != nil
}

func (r *Ref[T]) invalidate() {
	r.b = nil
	r.leak.Stop()
}

func (r *Ref[T]) mustLive(op string) {
	if r.b == nil {
		panic(released(op))
	}
}
