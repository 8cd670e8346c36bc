// Package shared provides reference-counted shared ownership.
//
// # Overview
//
// New allocates one control block holding a strong count, a weak count and
// the payload. Every Ref cloned from the first one points at that block and
// contributes one strong count; every Weak contributes one weak count.
//
//	r, err := shared.New(cfg)        // strong=1 weak=1 (implicit unit)
//	r2 := r.Clone()                  // strong=2
//	w := r.Downgrade()               // weak=2, WeakCount()==1
//	r.Drop(); r2.Drop()              // strong=0: payload destroyed, weak=1
//	w.Upgrade() == nil               // payload is gone
//	w.Drop()                         // weak=0: block freed
//
// # Two-phase teardown
//
// When the strong count reaches zero the payload destructor runs and the
// payload slot is zeroed in place, but the block stays allocated while
// weak handles exist, so they can still observe that the payload is gone.
// The block is returned to its allocator when the weak count reaches zero.
// The initial weak count of one is an implicit unit standing for "strong
// references exist"; it is removed right after the payload is destroyed.
// This keeps the block alive for the whole destructor, even if the
// destructor drops weak handles to its own block.
//
// # Block phases
//
//	Live         strong > 0
//	PayloadDead  strong == 0, weak > 0
//	Freed        terminal; never reachable through a live handle
//
// # Cycles
//
// Two payloads holding Refs to each other keep each other alive forever.
// This is not detected. Break cycles by making back-references Weak, and
// use NewCyclic to build values that refer to themselves.
//
// # Mutation
//
// Get returns a pointer for reading. Shared payloads are mutated through a
// nested cell (cell.Dynamic or cell.Copy), which checks or avoids aliasing.
//
// # Thread Safety
//
// Ref and Weak use plain integer counters and are not safe for concurrent
// use. AtomicRef and AtomicWeak are the same protocol on atomic counters;
// their handles may be cloned, upgraded and dropped from any goroutine.
package shared
