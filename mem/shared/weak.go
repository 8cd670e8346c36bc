package shared

import "github.com/joshuapare/ownkit/internal/leak"

// Weak observes a shared payload without keeping it alive. It keeps the
// control block allocated, so Upgrade can tell whether the payload is gone.
type Weak[T any] struct {
	_       noCopy
	b       *block[T]
	f       *family[T]
	dropped bool
	leak    leak.Token
}

// Dangling returns a weak handle with no block. Upgrade always yields nil.
func Dangling[T any]() *Weak[T] {
	return &Weak[T]{}
}

func newWeak[T any](b *block[T], f *family[T], skip int) *Weak[T] {
	w := &Weak[T]{b: b, f: f}
	w.leak = leak.Track(w, "shared.Weak", skip)
	return w
}

// Upgrade returns a new strong handle, or nil if the payload has already
// been destroyed.
func (w *Weak[T]) Upgrade() *Ref[T] {
	w.mustLive("upgrade")
	if w.b == nil || w.b.strong == 0 {
		return nil
	}
	w.b.strong++
	return newRef(w.b, w.f, 2)
}

// Clone returns another weak handle to the same block. Cloning a weak
// handle whose payload is gone is allowed.
func (w *Weak[T]) Clone() *Weak[T] {
	w.mustLive("clone")
	if w.b == nil {
		return Dangling[T]()
	}
	w.b.weak++
	return newWeak(w.b, w.f, 2)
}

// StrongCount returns the number of strong handles; 0 once the payload is
// gone or for a dangling handle.
func (w *Weak[T]) StrongCount() int {
	w.mustLive("strong count")
	if w.b == nil {
		return 0
	}
	return w.b.strong
}

// WeakCount returns the number of weak handles, including w, or 0 for a
// dangling handle.
func (w *Weak[T]) WeakCount() int {
	w.mustLive("weak count")
	switch {
	case w.b == nil:
		return 0
	case w.b.strong > 0 || w.b.building:
		return w.b.weak - 1
	default:
		return w.b.weak
	}
}

// Phase returns the phase of the observed block. A dangling handle reports
// PayloadDead.
func (w *Weak[T]) Phase() Phase {
	w.mustLive("phase")
	if w.b == nil || w.b.strong == 0 {
		return PayloadDead
	}
	return Live
}

// Drop releases w's weak count, freeing the block if it was the last
// reference of any kind. Dropping a nil Weak or dropping twice is a no-op.
func (w *Weak[T]) Drop() {
	if w == nil || w.dropped {
		return
	}
	b, f := w.b, w.f
	w.b, w.dropped = nil, true
	w.leak.Stop()
	if b == nil {
		return
	}
	if b.weak--; b.weak == 0 {
		freeBlock(f.a, b)
	}
}

func (w *Weak[T]) mustLive(op string) {
	if w.dropped {
		panic(released(op))
	}
}
