//go:generate mockgen -source=interface.go -destination=../../internal/mock/mem/alloc/alloc.go -package=mock_alloc

package alloc

import (
	"fmt"
	"reflect"
	"unsafe"

	"go.uber.org/atomic"

	"github.com/joshuapare/ownkit/internal/layout"
)

// Layout describes the memory an allocation must provide.
type Layout struct {
	Type  reflect.Type
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of T.
func LayoutOf[T any]() Layout {
	t := layout.Of[T]()
	return Layout{Type: t, Size: t.Size(), Align: uintptr(t.Align())}
}

// PointerFree reports whether the layout holds no pointers.
func (l Layout) PointerFree() bool {
	return l.Type != nil && layout.PointerFree(l.Type)
}

func (l Layout) String() string {
	if l.Type == nil {
		return "<nil layout>"
	}
	return fmt.Sprintf("%s(size=%d, align=%d)", l.Type, l.Size, l.Align)
}

// Allocator is the seam every handle allocates through.
//
// Implementations:
//   - Heap: the Go heap; never fails
//   - Tracking: accounting wrapper with an optional byte limit and double-free detection
//   - Arena: size-classed slots carved out of memory mappings, pointer-free layouts only
type Allocator interface {
	// Alloc returns zeroed memory for one value of l.Type.
	// Exhaustion is reported with an error matching types.ErrAllocation.
	Alloc(l Layout) (unsafe.Pointer, error)

	// Free returns memory obtained from Alloc with the same layout.
	// The allocation must not be used afterwards.
	Free(p unsafe.Pointer, l Layout) error
}

// StatsSource is implemented by allocators that keep counters.
type StatsSource interface {
	Stats() Stats
}

// New allocates a zero T from a. An allocator returning nil without an
// error fails with ErrNilAllocation, which matches types.ErrAllocation.
func New[T any](a Allocator) (*T, error) {
	p, err := a.Alloc(LayoutOf[T]())
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, exhausted(ErrNilAllocation)
	}
	return (*T)(p), nil
}

// Delete frees a value obtained from New with the same allocator.
func Delete[T any](a Allocator, p *T) error {
	return a.Free(unsafe.Pointer(p), LayoutOf[T]())
}

type holder struct{ a Allocator }

var def atomic.Value

func init() {
	def.Store(holder{Heap{}})
}

// Default returns the allocator used by constructors that do not take one.
func Default() Allocator {
	return def.Load().(holder).a
}

// SetDefault replaces the default allocator and returns the previous one.
// Handles keep the allocator they were created with, so switching is safe
// while handles are live.
func SetDefault(a Allocator) Allocator {
	if a == nil {
		a = Heap{}
	}
	return def.Swap(holder{a}).(holder).a
}
