package alloc

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Stats is a snapshot of allocator counters.
type Stats struct {
	Allocs      uint64 // successful Alloc calls
	Frees       uint64 // successful Free calls
	Failed      uint64 // refused Alloc calls
	LiveObjects uint64 // Allocs - Frees
	LiveBytes   uint64 // bytes requested by live objects
	PeakBytes   uint64 // high-water mark of LiveBytes
	MappedBytes uint64 // bytes obtained from the operating system (Arena only)
}

func (s *Stats) recordAlloc(size uint64) {
	s.Allocs++
	s.LiveObjects++
	s.LiveBytes += size
	if s.LiveBytes > s.PeakBytes {
		s.PeakBytes = s.LiveBytes
	}
}

func (s *Stats) recordFree(size uint64) {
	s.Frees++
	s.LiveObjects--
	s.LiveBytes -= size
}

var printer = message.NewPrinter(language.English)

// String renders the counters with grouped digits, e.g.
//
//	allocs=1,024 frees=1,000 failed=0 live=24 (3,072 B, peak 8,192 B) mapped=1,048,576 B
func (s Stats) String() string {
	return printer.Sprintf("allocs=%d frees=%d failed=%d live=%d (%d B, peak %d B) mapped=%d B",
		s.Allocs, s.Frees, s.Failed, s.LiveObjects, s.LiveBytes, s.PeakBytes, s.MappedBytes)
}
