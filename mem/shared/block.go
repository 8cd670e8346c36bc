package shared

import (
	"fmt"

	"github.com/joshuapare/ownkit/mem/alloc"
	"github.com/joshuapare/ownkit/pkg/types"
)

// Phase is the lifecycle state of a control block.
type Phase uint8

const (
	// Live means strong > 0 and the payload is accessible.
	Live Phase = iota
	// PayloadDead means strong == 0 and weak > 0: the payload has been
	// destroyed but weak handles still reference the block.
	PayloadDead
	// Freed means the block has been returned to its allocator.
	Freed
)

func (p Phase) String() string {
	switch p {
	case Live:
		return "live"
	case PayloadDead:
		return "payload-dead"
	case Freed:
		return "freed"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// block is the control block shared by one handle family. It holds no
// pointers of its own, so it can live in an alloc.Arena when T can.
type block[T any] struct {
	strong int
	weak   int
	// building is set while NewCyclic runs its constructor. The implicit
	// weak unit is already held then, although strong is still 0.
	building bool
	value    T
}

// family is what every handle of one block needs besides the block.
type family[T any] struct {
	a    alloc.Allocator
	drop func(*T)
}

// Option configures a handle family at construction.
type Option[T any] func(*family[T])

// WithDrop sets the destructor run on the payload when the last strong
// handle is dropped. It replaces the payload's own types.Dropper.
func WithDrop[T any](fn func(*T)) Option[T] {
	return func(f *family[T]) { f.drop = fn }
}

func newFamily[T any](a alloc.Allocator, opts []Option[T]) *family[T] {
	f := &family[T]{a: a}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// destroy runs the payload destructor and zeroes the slot in place.
func (f *family[T]) destroy(v *T) {
	if f.drop != nil {
		f.drop(v)
	} else {
		types.RunDrop(v)
	}
	var zero T
	*v = zero
}

// freeBlock returns a control block's memory. B is block[T] or
// atomicBlock[T].
func freeBlock[B any](a alloc.Allocator, b *B) {
	if err := alloc.Delete(a, b); err != nil {
		panic(types.Errorf(types.ErrKindState, "shared: free control block", err))
	}
}

func released(op string) error {
	return types.Errorf(types.ErrKindState, "shared: "+op+" on released handle", nil)
}
