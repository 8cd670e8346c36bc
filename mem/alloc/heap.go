package alloc

import (
	"reflect"
	"unsafe"
)

// Heap allocates from the Go heap.
//
// Alloc never fails. Free zeroes the slot so that a released payload stops
// keeping the values it referenced reachable; the memory itself is
// reclaimed by the garbage collector once nothing points at it.
type Heap struct{}

// Alloc implements Allocator.
func (Heap) Alloc(l Layout) (unsafe.Pointer, error) {
	if l.Type == nil {
		return nil, ErrBadLayout
	}
	return reflect.New(l.Type).UnsafePointer(), nil
}

// Free implements Allocator.
func (Heap) Free(p unsafe.Pointer, l Layout) error {
	if l.Type == nil {
		return ErrBadLayout
	}
	if p == nil {
		return ErrBadPointer
	}
	reflect.NewAt(l.Type, p).Elem().SetZero()
	return nil
}
