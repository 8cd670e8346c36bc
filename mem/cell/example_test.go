package cell_test

import (
	"errors"
	"fmt"

	"github.com/joshuapare/ownkit/mem/cell"
	"github.com/joshuapare/ownkit/pkg/types"
)

// Example shows the borrow rules of a dynamic cell.
func Example() {
	c := cell.New([]string{"a"})

	r := c.Borrow()
	_, err := c.TryBorrowMut()
	fmt.Println(c.State(), errors.Is(err, types.ErrBorrowConflict))
	r.Release()

	c.Update(func(v *[]string) { *v = append(*v, "b") })
	c.View(func(v []string) { fmt.Println(v) })
	// Output:
	// shared(1) true
	// [a b]
}

// ExampleCopy shows a copy cell.
func ExampleCopy() {
	c := cell.NewCopy(3)
	c.Update(func(n int) int { return n * 2 })
	fmt.Println(c.Replace(10), c.Get())
	// Output: 6 10
}
