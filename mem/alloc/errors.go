package alloc

import (
	"errors"

	"github.com/joshuapare/ownkit/pkg/types"
)

var (
	// ErrLimit indicates a Tracking allocator's byte budget would be exceeded.
	ErrLimit = errors.New("alloc: byte limit exceeded")

	// ErrNoSpace indicates the arena reached MaxChunks and has no free slot large enough.
	ErrNoSpace = errors.New("alloc: arena exhausted")

	// ErrTooLarge indicates a request larger than a single arena chunk.
	ErrTooLarge = errors.New("alloc: request exceeds chunk size")

	// ErrNotPointerFree indicates a layout containing pointers was offered to
	// an allocator whose memory is not scanned by the garbage collector.
	ErrNotPointerFree = errors.New("alloc: layout contains pointers")

	// ErrBadLayout indicates a layout without a type.
	ErrBadLayout = errors.New("alloc: layout has no type")

	// ErrBadPointer indicates a free of memory the allocator never handed out.
	ErrBadPointer = errors.New("alloc: pointer not owned by allocator")

	// ErrNilAllocation indicates an allocator reported success without memory.
	ErrNilAllocation = errors.New("alloc: allocator returned nil")

	// ErrDoubleFree indicates a second free of the same allocation.
	ErrDoubleFree = errors.New("alloc: double free")

	// ErrClosed indicates use of an arena after Close.
	ErrClosed = errors.New("alloc: arena closed")

	// ErrBusy indicates Close on an arena that still has live allocations.
	ErrBusy = errors.New("alloc: arena has live allocations")
)

// exhausted marks cause as an allocation failure so that callers can match
// it against types.ErrAllocation as well as the specific cause.
func exhausted(cause error) error {
	return types.Errorf(types.ErrKindAlloc, "allocation failed", cause)
}
