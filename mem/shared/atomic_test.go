package shared

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/ownkit/mem/alloc"
)

type gauge struct {
	v       int64
	dropped *atomic.Int64
}

func (g *gauge) Drop() { g.dropped.Inc() }

func TestAtomicRef_Basics(t *testing.T) {
	tr := alloc.NewTracking(alloc.Heap{}, 0)
	dropped := atomic.NewInt64(0)

	r, err := NewAtomicIn(tr, gauge{v: 4, dropped: dropped})
	require.NoError(t, err)
	r2 := r.Clone()
	w := r.Downgrade()
	assert.Equal(t, 2, r.StrongCount())
	assert.Equal(t, 1, r.WeakCount())
	assert.True(t, PtrEqualAtomic(r, r2))
	assert.Equal(t, int64(4), r2.Get().v)
	assert.Equal(t, Live, w.Phase())

	r.Drop()
	r2.Drop()
	assert.EqualValues(t, 1, dropped.Load())
	assert.Nil(t, w.Upgrade())
	assert.Equal(t, PayloadDead, w.Phase())
	assert.Equal(t, 0, w.StrongCount())

	w.Drop()
	w.Drop()
	assert.EqualValues(t, 1, tr.Stats().Frees)
	requireReleasedPanic(t, func() { r.Get() })
	requireReleasedPanic(t, func() { w.Clone() })
}

func TestAtomicRef_ConcurrentCloneDrop(t *testing.T) {
	tr := alloc.NewTracking(alloc.Heap{}, 0)
	dropped := atomic.NewInt64(0)

	root, err := NewAtomicIn(tr, gauge{dropped: dropped})
	require.NoError(t, err)

	var g errgroup.Group
	for range 16 {
		r := root.Clone()
		w := root.Downgrade()
		g.Go(func() error {
			defer r.Drop()
			defer w.Drop()
			for range 500 {
				c := r.Clone()
				cw := c.Downgrade()
				if up := cw.Upgrade(); up != nil {
					up.Drop()
				}
				cw.Drop()
				c.Drop()
				runtime.Gosched()
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, root.StrongCount())
	assert.Equal(t, 0, root.WeakCount())
	assert.Zero(t, dropped.Load())
	root.Drop()
	assert.EqualValues(t, 1, dropped.Load())
	assert.EqualValues(t, 1, tr.Stats().Frees)
}

// Upgrades racing with the last strong drop either fail or keep the payload
// alive; the payload is never destroyed twice and never revived.
func TestAtomicWeak_UpgradeNeverResurrects(t *testing.T) {
	for range 50 {
		tr := alloc.NewTracking(alloc.Heap{}, 0)
		dropped := atomic.NewInt64(0)

		r, err := NewAtomicIn(tr, gauge{v: 1, dropped: dropped})
		require.NoError(t, err)

		var g errgroup.Group
		for range 8 {
			w := r.Downgrade()
			g.Go(func() error {
				defer w.Drop()
				for range 100 {
					up := w.Upgrade()
					if up == nil {
						return nil
					}
					if up.Get().v != 1 || dropped.Load() != 0 {
						t.Error("upgraded to a destroyed payload")
					}
					up.Drop()
				}
				return nil
			})
		}
		r.Drop()
		require.NoError(t, g.Wait())

		assert.EqualValues(t, 1, dropped.Load())
		s := tr.Stats()
		assert.EqualValues(t, 1, s.Frees)
		assert.Zero(t, s.LiveObjects)
	}
}

func TestAtomicRef_InArena(t *testing.T) {
	a := alloc.NewArena(alloc.ArenaConfig{ChunkSize: 4096, MaxChunks: 1})
	defer func() { require.NoError(t, a.Close()) }()

	r, err := NewAtomicIn(a, [2]int32{1, 2})
	require.NoError(t, err)
	c := r.Clone()
	r.Drop()
	assert.Equal(t, [2]int32{1, 2}, *c.Get())
	c.Drop()
	assert.Zero(t, a.Stats().LiveObjects)
}
