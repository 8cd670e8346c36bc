package cell

import "github.com/joshuapare/ownkit/pkg/types"

// noCopy may be embedded into structs which must not be copied
// after the first use. See go vet's copylocks check.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Dynamic holds a T and enforces the borrow rules at runtime.
type Dynamic[T any] struct {
	_     noCopy
	state borrowState
	gone  bool
	value T
}

// New returns a cell holding v.
func New[T any](v T) *Dynamic[T] {
	return &Dynamic[T]{value: v}
}

// ReadGuard grants shared access until released.
type ReadGuard[T any] struct {
	c *Dynamic[T]
}

// WriteGuard grants exclusive access until released.
type WriteGuard[T any] struct {
	c *Dynamic[T]
}

// Borrow returns a read guard. It panics with an error matching
// types.ErrBorrowConflict while a write guard is outstanding.
func (c *Dynamic[T]) Borrow() *ReadGuard[T] {
	g, err := c.TryBorrow()
	if err != nil {
		panic(err)
	}
	return g
}

// TryBorrow returns a read guard, or an error matching
// types.ErrBorrowConflict while a write guard is outstanding.
func (c *Dynamic[T]) TryBorrow() (*ReadGuard[T], error) {
	c.mustLive("borrow")
	if !c.state.canRead() {
		return nil, errMutablyBorrowed
	}
	c.state++
	return &ReadGuard[T]{c: c}, nil
}

// BorrowMut returns a write guard. It panics with an error matching
// types.ErrBorrowConflict while any guard is outstanding.
func (c *Dynamic[T]) BorrowMut() *WriteGuard[T] {
	g, err := c.TryBorrowMut()
	if err != nil {
		panic(err)
	}
	return g
}

// TryBorrowMut returns a write guard, or an error matching
// types.ErrBorrowConflict while any guard is outstanding.
func (c *Dynamic[T]) TryBorrowMut() (*WriteGuard[T], error) {
	c.mustLive("borrow mut")
	if !c.state.canWrite() {
		return nil, errBorrowed
	}
	c.state = exclusive
	return &WriteGuard[T]{c: c}, nil
}

// View calls fn with the value under a read guard.
func (c *Dynamic[T]) View(fn func(v T)) {
	g := c.Borrow()
	defer g.Release()
	fn(g.c.value)
}

// Update calls fn with a pointer to the value under a write guard. The
// pointer must not escape fn.
func (c *Dynamic[T]) Update(fn func(v *T)) {
	g := c.BorrowMut()
	defer g.Release()
	fn(&g.c.value)
}

// Replace stores v and returns the previous value. It needs exclusive
// access and panics like BorrowMut otherwise.
func (c *Dynamic[T]) Replace(v T) T {
	g := c.BorrowMut()
	defer g.Release()
	old := c.value
	c.value = v
	return old
}

// Take replaces the value with the zero T and returns it.
func (c *Dynamic[T]) Take() T {
	var zero T
	return c.Replace(zero)
}

// Swap exchanges the values of c and other. Both need exclusive access.
// Swapping a cell with itself is a no-op.
func (c *Dynamic[T]) Swap(other *Dynamic[T]) {
	if c == other {
		c.mustLive("swap")
		return
	}
	g1 := c.BorrowMut()
	defer g1.Release()
	g2 := other.BorrowMut()
	defer g2.Release()
	c.value, other.value = other.value, c.value
}

// State returns the current borrow state.
func (c *Dynamic[T]) State() State {
	return c.state.state()
}

// Into consumes the cell and returns its value. It fails with an error
// matching types.ErrBorrowConflict while any guard is outstanding.
func (c *Dynamic[T]) Into() (T, error) {
	c.mustLive("into")
	var zero T
	if !c.state.canWrite() {
		return zero, errBorrowed
	}
	v := c.value
	c.value = zero
	c.gone = true
	return v, nil
}

// Drop runs the destructor of the contained value and consumes the cell,
// so a cell nested in an own.Owner or shared.Ref is torn down with it.
// It panics while a guard is outstanding. Dropping a nil cell or dropping
// twice is a no-op.
func (c *Dynamic[T]) Drop() {
	if c == nil || c.gone {
		return
	}
	if !c.state.canWrite() {
		panic(errBorrowed)
	}
	c.gone = true
	types.RunDrop(&c.value)
}

func (c *Dynamic[T]) mustLive(op string) {
	if c.gone {
		panic(released(op))
	}
}

// Value returns a copy of the borrowed value.
func (g *ReadGuard[T]) Value() T {
	if g.c == nil {
		panic(released("read guard value"))
	}
	return g.c.value
}

// Release ends the borrow. Releasing twice is a no-op.
func (g *ReadGuard[T]) Release() {
	if g.c == nil {
		return
	}
	g.c.state--
	g.c = nil
}

// Value returns a pointer to the borrowed value, valid until Release.
func (g *WriteGuard[T]) Value() *T {
	if g.c == nil {
		panic(released("write guard value"))
	}
	return &g.c.value
}

// Set overwrites the borrowed value.
func (g *WriteGuard[T]) Set(v T) {
	*g.Value() = v
}

// Release ends the borrow. Releasing twice is a no-op.
func (g *WriteGuard[T]) Release() {
	if g.c == nil {
		return
	}
	g.c.state = 0
	g.c = nil
}
