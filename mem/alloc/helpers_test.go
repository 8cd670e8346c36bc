package alloc

import "unsafe"

// unsafePtr converts a typed allocation back to the pointer Free expects.
func unsafePtr[T any](p *T) unsafe.Pointer {
	return unsafe.Pointer(p)
}

// numClasses returns the number of size classes in t.
func (t *sizeClassTable) numClasses() int {
	return len(t.sizes)
}
