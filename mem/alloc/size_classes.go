package alloc

import (
	"math"
	"sort"

	"github.com/joshuapare/ownkit/internal/layout"
)

// SizeClassConfig defines the arena's slot size strategy.
// Every class size is a multiple of layout.MinAlign.
type SizeClassConfig struct {
	// Name for this configuration (for benchmarking)
	Name string

	// Small allocation settings (linear increments)
	SmallMin       uintptr // Smallest slot (typically 16)
	SmallMax       uintptr // Last slot produced by linear increments
	SmallIncrement uintptr // Step between small slots (16 or 32)

	// Medium allocation settings (geometric growth)
	MediumMax    uintptr // Largest class; bigger requests get an exact-size slot
	GrowthFactor float64 // Growth factor between medium classes (1.5, 2.0, ...)
}

// Predefined configurations.
var (
	// FineGrained: many small classes, least internal fragmentation.
	// 16-256 step 16 (16 classes) + 256-16K x1.5 (~11 classes).
	ConfigFineGrained = SizeClassConfig{
		Name:           "FineGrained",
		SmallMin:       16,
		SmallMax:       256,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Balanced: small handles and control blocks fall in exact classes.
	// 16-512 step 16 (32 classes) + 512-16K x1.5 (~9 classes).
	ConfigBalanced = SizeClassConfig{
		Name:           "Balanced",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 16,
		MediumMax:      16384,
		GrowthFactor:   1.5,
	}

	// Coarse: few classes, faster reuse, more fragmentation.
	// 16-496 step 32 (16 classes) + 496-16K x2 (6 classes).
	ConfigCoarse = SizeClassConfig{
		Name:           "Coarse",
		SmallMin:       16,
		SmallMax:       512,
		SmallIncrement: 32,
		MediumMax:      16384,
		GrowthFactor:   2.0,
	}

	// DefaultSizeClasses is used when an ArenaConfig leaves SizeClasses empty.
	DefaultSizeClasses = ConfigBalanced
)

// sizeClassTable holds the computed slot sizes in ascending order.
type sizeClassTable struct {
	config SizeClassConfig
	sizes  []uintptr
}

// newSizeClassTable computes slot sizes from config.
func newSizeClassTable(config SizeClassConfig) *sizeClassTable {
	table := &sizeClassTable{
		config: config,
		sizes:  make([]uintptr, 0, 64),
	}

	inc := layout.Align16(max(config.SmallIncrement, 1))
	size := layout.Align16(max(config.SmallMin, 1))

	// Phase 1: linear increments
	for ; size <= config.SmallMax; size += inc {
		table.sizes = append(table.sizes, size)
	}

	// Phase 2: geometric growth up to MediumMax
	var last uintptr
	if n := len(table.sizes); n > 0 {
		last = table.sizes[n-1]
	}
	for last < config.MediumMax {
		next := layout.Align16(uintptr(math.Ceil(float64(last) * config.GrowthFactor)))
		if next <= last {
			next = last + layout.MinAlign // Ensure progress
		}
		next = min(next, layout.Align16(config.MediumMax))
		table.sizes = append(table.sizes, next)
		last = next
	}

	return table
}

// slotSize returns the slot size serving a request of n bytes. Requests
// above the largest class get an exact 16-byte aligned slot.
func (t *sizeClassTable) slotSize(n uintptr) uintptr {
	n = max(n, 1)
	i := sort.Search(len(t.sizes), func(i int) bool { return t.sizes[i] >= n })
	if i == len(t.sizes) {
		return layout.Align16(n)
	}
	return t.sizes[i]
}

// String returns the configuration name.
func (t *sizeClassTable) String() string {
	return t.config.Name
}
