package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ownkit/mem/alloc"
	"github.com/joshuapare/ownkit/mem/cell"
)

type link struct {
	name    string
	next    *cell.Dynamic[*Ref[link]]
	dropped *int
}

func (l *link) Drop() {
	*l.dropped++
	if next := l.next.Take(); next != nil {
		next.Drop()
	}
}

func newLink(t *testing.T, a alloc.Allocator, name string, dropped *int) *Ref[link] {
	t.Helper()
	r, err := NewIn(a, link{name: name, next: cell.New[*Ref[link]](nil), dropped: dropped})
	require.NoError(t, err)
	return r
}

// Two payloads holding strong handles to each other are never destroyed.
func TestRef_StrongCycleLeaks(t *testing.T) {
	tr := alloc.NewTracking(alloc.Heap{}, 0)
	var dropped int

	a := newLink(t, tr, "a", &dropped)
	b := newLink(t, tr, "b", &dropped)
	a.Get().next.Update(func(p **Ref[link]) { *p = b.Clone() })
	b.Get().next.Update(func(p **Ref[link]) { *p = a.Clone() })
	wa := a.Downgrade()

	a.Drop()
	b.Drop()
	assert.Zero(t, dropped, "cycle keeps both payloads alive")
	assert.EqualValues(t, 2, tr.Stats().LiveObjects)

	// Break the cycle by hand.
	ra := wa.Upgrade()
	require.NotNil(t, ra)
	assert.Equal(t, 2, ra.StrongCount())
	ra.Get().next.Replace(nil).Drop()
	assert.Equal(t, 1, dropped, "b destroyed, releasing its handle to a")
	assert.Equal(t, 1, ra.StrongCount())

	ra.Drop()
	wa.Drop()
	assert.Equal(t, 2, dropped)
	assert.Zero(t, tr.Stats().LiveObjects)
	assert.EqualValues(t, 2, tr.Stats().Frees)
}

// A weak back-reference breaks the cycle.
func TestRef_WeakBackReference(t *testing.T) {
	type child struct {
		parent *Weak[link]
	}
	tr := alloc.NewTracking(alloc.Heap{}, 0)
	var dropped int

	parent := newLink(t, tr, "parent", &dropped)
	kid, err := NewIn(tr, child{parent: parent.Downgrade()}, WithDrop(func(c *child) { c.parent.Drop() }))
	require.NoError(t, err)

	up := kid.Get().parent.Upgrade()
	require.NotNil(t, up)
	assert.Equal(t, "parent", up.Get().name)
	up.Drop()

	parent.Drop()
	assert.Equal(t, 1, dropped)
	assert.Nil(t, kid.Get().parent.Upgrade())

	kid.Drop()
	assert.Zero(t, tr.Stats().LiveObjects)
}
