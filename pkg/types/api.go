package types

import "reflect"

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindAlloc  ErrKind = iota // allocator could not satisfy a request (exhaustion, limit)
	ErrKindBorrow                // runtime borrow rule violated on a dynamic cell
	ErrKindState                 // operation on a handle that was dropped, released or moved
	ErrKindType                  // payload type not acceptable for the container
)

// String returns the lower-case category name.
func (k ErrKind) String() string {
	switch k {
	case ErrKindAlloc:
		return "alloc"
	case ErrKindBorrow:
		return "borrow"
	case ErrKindState:
		return "state"
	case ErrKindType:
		return "type"
	default:
		return "unknown"
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind. This lets a
// detailed error (with a specific message and cause) match the sentinel of
// its category via errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && (t.Msg == "" || t.Msg == sentinelMsg[t.Kind] || t.Msg == e.Msg)
}

// Sentinels commonly returned by implementations.
var (
	// ErrAllocation indicates the allocator could not provide memory.
	ErrAllocation = &Error{Kind: ErrKindAlloc, Msg: sentinelMsg[ErrKindAlloc]}
	// ErrBorrowConflict indicates shared and exclusive access would overlap.
	ErrBorrowConflict = &Error{Kind: ErrKindBorrow, Msg: sentinelMsg[ErrKindBorrow]}
	// ErrReleased indicates use of a handle after Drop, Release or Move.
	ErrReleased = &Error{Kind: ErrKindState, Msg: sentinelMsg[ErrKindState]}
	// ErrNotCopyable indicates a payload type whose values alias memory.
	ErrNotCopyable = &Error{Kind: ErrKindType, Msg: sentinelMsg[ErrKindType]}
)

var sentinelMsg = map[ErrKind]string{
	ErrKindAlloc:  "allocation failed",
	ErrKindBorrow: "already borrowed",
	ErrKindState:  "handle already released",
	ErrKindType:   "type is not copyable",
}

// Errorf builds a detailed error of the given kind that still matches the
// kind's sentinel under errors.Is.
func Errorf(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// -----------------------------------------------------------------------------
// Destruction
// -----------------------------------------------------------------------------

// Dropper is implemented by payloads that hold resources which must be
// released deterministically (file descriptors, pooled buffers, nested
// handles). Owners call Drop exactly once, when the last owning handle goes
// away and before the backing allocation is returned.
type Dropper interface {
	Drop()
}

// RunDrop invokes the payload destructor for *v, if any. A pointer receiver
// implementation takes precedence over a value receiver one. A nil pointer
// or nil interface payload has nothing to destroy and is skipped.
func RunDrop[T any](v *T) {
	if v == nil || isNil(any(*v)) {
		return
	}
	if d, ok := any(v).(Dropper); ok {
		d.Drop()
		return
	}
	if d, ok := any(*v).(Dropper); ok {
		d.Drop()
	}
}

func isNil(x any) bool {
	if x == nil {
		return true
	}
	switch rv := reflect.ValueOf(x); rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
