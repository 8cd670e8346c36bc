package layout

// Alignment utilities for allocator slots.
// Every slot handed out by an arena starts on a MinAlign boundary, which
// satisfies the alignment of every Go type on supported platforms.

const (
	// MinAlign is the smallest alignment an arena slot is given.
	MinAlign = 16
	// MinAlignMask is MinAlign-1.
	MinAlignMask = MinAlign - 1
)

// Align returns n aligned up to the next multiple of a, which must be a power of two.
//
// Example:
//
//	Align(1, 8)  = 8
//	Align(8, 8)  = 8
//	Align(9, 16) = 16
func Align(n, a uintptr) uintptr {
	return (n + a - 1) &^ (a - 1)
}

// Align16 returns n aligned up to the next 16-byte boundary.
//
// Example:
//
//	Align16(0)  = 0
//	Align16(1)  = 16
//	Align16(17) = 32
func Align16(n uintptr) uintptr {
	return (n + MinAlignMask) &^ MinAlignMask
}
