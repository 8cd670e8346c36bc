// Package own provides Owner, a handle with exclusive ownership of one
// heap-allocated value.
//
// An Owner is the only way to reach its value. It is moved, never copied:
// Move hands the allocation to a new Owner and invalidates the old one.
// When the owner is dropped the payload destructor runs first and the
// allocation is returned to its allocator second, exactly once:
//
//	o, err := own.New(conn)
//	if err != nil {
//	    return err
//	}
//	defer o.Drop()
//
// Release moves the payload out instead, freeing the allocation without
// running the destructor. Any use of an Owner after Drop, Release or Move
// panics with an error matching types.ErrReleased.
//
// Owners are not safe for concurrent use.
package own

import (
	"fmt"

	"github.com/joshuapare/ownkit/internal/leak"
	"github.com/joshuapare/ownkit/mem/alloc"
	"github.com/joshuapare/ownkit/pkg/types"
)

// noCopy may be embedded into structs which must not be copied
// after the first use. See go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Option configures an Owner at construction.
type Option[T any] func(*Owner[T])

// WithDrop sets the destructor run on the payload when the owner is
// dropped. It replaces the payload's own types.Dropper implementation.
func WithDrop[T any](fn func(*T)) Option[T] {
	return func(o *Owner[T]) { o.drop = fn }
}

// Owner exclusively owns a value of type T.
type Owner[T any] struct {
	_    noCopy
	p    *T
	a    alloc.Allocator
	drop func(*T)
	leak leak.Token
}

// New moves v into memory from the default allocator.
func New[T any](v T, opts ...Option[T]) (*Owner[T], error) {
	return newIn(alloc.Default(), v, 2, opts)
}

// NewIn moves v into memory from a.
func NewIn[T any](a alloc.Allocator, v T, opts ...Option[T]) (*Owner[T], error) {
	return newIn(a, v, 2, opts)
}

func newIn[T any](a alloc.Allocator, v T, skip int, opts []Option[T]) (*Owner[T], error) {
	p, err := alloc.New[T](a)
	if err != nil {
		return nil, fmt.Errorf("own: new: %w", err)
	}
	*p = v

	o := &Owner[T]{p: p, a: a}
	for _, opt := range opts {
		opt(o)
	}
	o.leak = leak.Track(o, "own.Owner", skip)
	return o, nil
}

// Get returns a pointer to the payload. The pointer is valid until the
// owner is dropped, released or moved, and must not be retained past that.
func (o *Owner[T]) Get() *T {
	o.mustValid("get")
	return o.p
}

// Replace moves v into the owner and returns the previous payload.
// No destructor runs; the caller now owns the returned value.
func (o *Owner[T]) Replace(v T) T {
	o.mustValid("replace")
	old := *o.p
	*o.p = v
	return old
}

// Move transfers ownership to a new Owner. o becomes invalid.
func (o *Owner[T]) Move() *Owner[T] {
	o.mustValid("move")
	n := &Owner[T]{p: o.p, a: o.a, drop: o.drop}
	o.invalidate()
	n.leak = leak.Track(n, "own.Owner", 1)
	return n
}

// Release moves the payload out and frees the allocation, consuming the
// owner. The payload destructor does not run.
func (o *Owner[T]) Release() T {
	o.mustValid("release")
	v := *o.p
	o.free()
	return v
}

// Drop runs the payload destructor, then frees the allocation. Dropping an
// owner that is nil or was already dropped, released or moved is a no-op, so
// `defer o.Drop()` is safe alongside an explicit Release.
func (o *Owner[T]) Drop() {
	if o == nil || o.p == nil {
		return
	}
	if o.drop != nil {
		o.drop(o.p)
	} else {
		types.RunDrop(o.p)
	}
	o.free()
}

// Valid reports whether o still owns its payload.
func (o *Owner[T]) Valid() bool {
	return o.p != nil
}

func (o *Owner[T]) free() {
	p, a := o.p, o.a
	o.invalidate()
	if err := alloc.Delete(a, p); err != nil {
		panic(types.Errorf(types.ErrKindState, "own: free", err))
	}
}

func (o *Owner[T]) invalidate() {
	o.p = nil
	o.leak.Stop()
}

func (o *Owner[T]) mustValid(op string) {
	if o.p == nil {
		panic(types.Errorf(types.ErrKindState, "own: "+op+" on released owner", nil))
	}
}
