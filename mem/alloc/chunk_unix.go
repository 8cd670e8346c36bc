//go:build linux || darwin || freebsd || netbsd || openbsd

package alloc

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// mapChunk maps size bytes of anonymous, private, zero-filled memory.
func mapChunk(size uintptr) ([]byte, func() error, error) {
	if size > uintptr(^uint(0)>>1) {
		return nil, nil, fmt.Errorf("alloc: chunk too large to map (%d bytes)", size)
	}
	data, err := unix.Mmap(-1, 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("alloc: mmap %d bytes: %w", size, err)
	}
	cleanup := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}

func pageSize() uintptr {
	return uintptr(unix.Getpagesize())
}
