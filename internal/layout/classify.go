// Package layout classifies Go types by how their values may be stored and
// duplicated, and provides alignment helpers for allocator slots.
package layout

import (
	"reflect"
	"sync"
)

// class is a bit set cached per reflect.Type.
type class uint8

const (
	pointerFree class = 1 << iota // no word the garbage collector needs to scan
	copyable                      // duplicating the value never aliases mutable memory
)

var cache sync.Map // reflect.Type -> class

// PointerFree reports whether values of t contain no pointers at all. Only
// such values may live in memory the garbage collector does not scan.
func PointerFree(t reflect.Type) bool {
	return classify(t)&pointerFree != 0
}

// Copyable reports whether a plain assignment of a t value produces an
// independent copy: no pointers, slices, maps, channels, funcs, interfaces
// or unsafe pointers anywhere in the layout. Strings are allowed because
// their bytes are immutable.
func Copyable(t reflect.Type) bool {
	return classify(t)&copyable != 0
}

// Of returns the reflect.Type of T, including interface types.
func Of[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func classify(t reflect.Type) class {
	if c, ok := cache.Load(t); ok {
		return c.(class)
	}
	c := compute(t)
	cache.Store(t, c)
	return c
}

func compute(t reflect.Type) class {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return pointerFree | copyable
	case reflect.String:
		return copyable
	case reflect.Array:
		if t.Len() == 0 {
			return pointerFree | copyable
		}
		return classify(t.Elem())
	case reflect.Struct:
		c := pointerFree | copyable
		for i := range t.NumField() {
			c &= classify(t.Field(i).Type)
			if c == 0 {
				break
			}
		}
		return c
	default:
		// Pointer, Slice, Map, Chan, Func, Interface, UnsafePointer.
		return 0
	}
}
