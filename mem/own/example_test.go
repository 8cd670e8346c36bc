package own_test

import (
	"fmt"

	"github.com/joshuapare/ownkit/mem/alloc"
	"github.com/joshuapare/ownkit/mem/own"
)

type conn struct{ addr string }

func (c *conn) Drop() { fmt.Println("closing", c.addr) }

// Example shows scope-bound destruction.
func Example() {
	o, err := own.New(conn{addr: "db:5432"})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer o.Drop()

	fmt.Println("using", o.Get().addr)
	// Output:
	// using db:5432
	// closing db:5432
}

// ExampleNewIn allocates from a byte-limited allocator.
func ExampleNewIn() {
	tr := alloc.NewTracking(alloc.Heap{}, 16)

	o, err := own.NewIn(tr, [2]int64{1, 2})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	_, err = own.NewIn(tr, int64(3))
	fmt.Println(err != nil)

	o.Drop()
	fmt.Println(tr.Stats().LiveObjects)
	// Output:
	// true
	// 0
}
