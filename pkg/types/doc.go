// Package types defines the shared vocabulary of the ownkit handles: the
// typed error taxonomy every package reports through, and the Dropper
// contract payloads implement to release resources deterministically.
//
// Errors carry a stable ErrKind so callers can branch on intent:
//   - ErrKindAlloc: the allocator refused a request (ErrAllocation).
//   - ErrKindBorrow: a dynamic cell borrow would overlap (ErrBorrowConflict).
//   - ErrKindState: a handle was used after Drop/Release/Move (ErrReleased).
//   - ErrKindType: a payload type is unsuitable for a container (ErrNotCopyable).
//
// Detailed errors built with Errorf match their category sentinel under
// errors.Is, so callers never need to compare message text.
//
// This package has no dependencies beyond the standard library.
package types
