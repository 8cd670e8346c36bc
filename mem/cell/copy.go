package cell

import (
	"fmt"

	"github.com/joshuapare/ownkit/internal/layout"
	"github.com/joshuapare/ownkit/pkg/types"
)

// Copy holds a copyable T. Values move in and out by assignment, so no
// reference to the contents is ever handed out.
type Copy[T any] struct {
	_ noCopy
	v T
}

// NewCopy returns a cell holding v. It panics with an error matching
// types.ErrNotCopyable if T contains pointers, slices, maps, channels,
// funcs or interfaces.
func NewCopy[T any](v T) *Copy[T] {
	if t := layout.Of[T](); !layout.Copyable(t) {
		panic(types.Errorf(types.ErrKindType, fmt.Sprintf("cell: %s is not copyable", t), nil))
	}
	return &Copy[T]{v: v}
}

// Get returns a copy of the value.
func (c *Copy[T]) Get() T { return c.v }

// Set overwrites the value.
func (c *Copy[T]) Set(v T) { c.v = v }

// Replace stores v and returns the previous value.
func (c *Copy[T]) Replace(v T) T {
	old := c.v
	c.v = v
	return old
}

// Take returns the value and leaves the zero T in its place.
func (c *Copy[T]) Take() T {
	var zero T
	return c.Replace(zero)
}

// Swap exchanges the values of c and other.
func (c *Copy[T]) Swap(other *Copy[T]) {
	c.v, other.v = other.v, c.v
}

// Update stores fn(current) and returns the new value.
func (c *Copy[T]) Update(fn func(T) T) T {
	c.v = fn(c.v)
	return c.v
}
