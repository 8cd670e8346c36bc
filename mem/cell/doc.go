// Package cell provides interior mutability for values reached through
// shared handles.
//
// Dynamic tracks borrows at runtime. Any number of read guards may be held
// at once, or exactly one write guard, never both:
//
//	c := cell.New(config{})
//	g := c.BorrowMut()
//	g.Value().Retries = 3
//	g.Release()
//
// Borrow and BorrowMut panic on conflict; TryBorrow and TryBorrowMut
// report it as an error matching types.ErrBorrowConflict and leave the
// cell unchanged. View and Update hold a guard for the duration of a
// callback and release it on every exit path, including panics, which is
// the preferred form.
//
// Copy never hands out references at all. Values go in and out by copy,
// so it is restricted to types without pointers, slices, maps, channels,
// funcs or interfaces. It has no borrow state and no runtime cost beyond
// the assignment.
//
// Neither type is safe for concurrent use.
package cell
