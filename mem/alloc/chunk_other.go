//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package alloc

// mapChunk allocates the chunk from the Go heap when anonymous mappings are
// not available. Arena only places pointer-free values in chunks, so the
// collector never needs to scan them.
func mapChunk(size uintptr) ([]byte, func() error, error) {
	data := make([]byte, size)
	return data, func() error { return nil }, nil
}

func pageSize() uintptr {
	return 4096
}
