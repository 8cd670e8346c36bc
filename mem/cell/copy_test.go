package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/ownkit/pkg/types"
)

type point struct {
	X, Y int32
	Tag  string
}

func TestCopy_GetSet(t *testing.T) {
	c := NewCopy(5)
	assert.Equal(t, 5, c.Get())
	c.Set(7)
	assert.Equal(t, 7, c.Get())

	p := NewCopy(point{X: 1})
	got := p.Get()
	got.X = 99
	assert.Equal(t, int32(1), p.Get().X, "Get returns an independent copy")
}

func TestCopy_ReplaceSwapTakeUpdate(t *testing.T) {
	a := NewCopy(point{X: 1, Tag: "a"})
	b := NewCopy(point{X: 2, Tag: "b"})

	assert.Equal(t, point{X: 1, Tag: "a"}, a.Replace(point{X: 3, Tag: "a"}))
	a.Swap(b)
	assert.Equal(t, "b", a.Get().Tag)
	assert.Equal(t, int32(3), b.Get().X)

	assert.Equal(t, point{X: 2, Tag: "b"}, a.Take())
	assert.Equal(t, point{}, a.Get())

	n := b.Update(func(p point) point {
		p.Y += 10
		return p
	})
	assert.Equal(t, int32(10), n.Y)
	assert.Equal(t, n, b.Get())
}

func TestCopy_RejectsAliasingTypes(t *testing.T) {
	requirePanicIs(t, types.ErrNotCopyable, func() { NewCopy([]int{1}) })
	requirePanicIs(t, types.ErrNotCopyable, func() { NewCopy(map[string]int{}) })
	requirePanicIs(t, types.ErrNotCopyable, func() { NewCopy(&point{}) })
	requirePanicIs(t, types.ErrNotCopyable, func() { NewCopy[any](1) })
	requirePanicIs(t, types.ErrNotCopyable, func() {
		NewCopy(struct {
			ok  int
			bad func()
		}{})
	})
	assert.NotPanics(t, func() { NewCopy([4]point{}) })
}
