package alloc

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ownkit/pkg/types"
)

type counters struct {
	Strong, Weak int64
	Payload      [6]int64
}

func newTestArena(t testing.TB, maxChunks int) *Arena {
	t.Helper()
	a := NewArena(ArenaConfig{ChunkSize: 4096, MaxChunks: maxChunks})
	t.Cleanup(func() {
		// Tests that leave allocations live on purpose close their arena themselves.
		_ = a.Close()
	})
	return a
}

func TestArena_AllocIsZeroedAndAligned(t *testing.T) {
	a := newTestArena(t, 0)

	p, err := New[counters](a)
	require.NoError(t, err)
	assert.Equal(t, counters{}, *p)
	assert.Zero(t, uintptr(unsafe.Pointer(p))%16, "slots are 16-byte aligned")

	p.Strong = 7
	p.Payload[5] = 42
	require.NoError(t, Delete(a, p))
}

func TestArena_ReusesFreedSlot(t *testing.T) {
	a := newTestArena(t, 0)

	first, err := New[counters](a)
	require.NoError(t, err)
	first.Weak = 99
	require.NoError(t, Delete(a, first))

	second, err := New[counters](a)
	require.NoError(t, err)
	assert.Equal(t, unsafe.Pointer(first), unsafe.Pointer(second), "LIFO reuse of the freed slot")
	assert.Zero(t, second.Weak, "reused slot must be zeroed")
	require.NoError(t, Delete(a, second))
}

func TestArena_RejectsPointerLayouts(t *testing.T) {
	a := newTestArena(t, 0)

	_, err := New[node](a)
	require.ErrorIs(t, err, ErrNotPointerFree)

	_, err = a.Alloc(Layout{})
	require.ErrorIs(t, err, ErrBadLayout)
}

func TestArena_MaxChunks(t *testing.T) {
	a := newTestArena(t, 1)

	var ptrs []*counters
	for {
		p, err := New[counters](a)
		if err != nil {
			require.ErrorIs(t, err, ErrNoSpace)
			require.ErrorIs(t, err, types.ErrAllocation)
			break
		}
		ptrs = append(ptrs, p)
		require.Less(t, len(ptrs), 1000, "a single 4 KiB chunk must run out")
	}

	s := a.Stats()
	assert.EqualValues(t, len(ptrs), s.LiveObjects)
	assert.EqualValues(t, 1, s.Failed)
	assert.EqualValues(t, a.cfg.ChunkSize, s.MappedBytes)

	// Freeing one slot lets the next request succeed without a new chunk.
	require.NoError(t, Delete(a, ptrs[0]))
	p, err := New[counters](a)
	require.NoError(t, err)
	ptrs[0] = p

	for _, p := range ptrs {
		require.NoError(t, Delete(a, p))
	}
}

func TestArena_GrowsAcrossChunks(t *testing.T) {
	a := newTestArena(t, 0)

	var ptrs []*[1024]byte
	for range 40 {
		p, err := New[[1024]byte](a)
		require.NoError(t, err)
		ptrs = append(ptrs, p)
	}
	assert.Greater(t, a.Stats().MappedBytes, uint64(a.cfg.ChunkSize))

	for _, p := range ptrs {
		require.NoError(t, Delete(a, p))
	}
}

func TestArena_TooLarge(t *testing.T) {
	a := newTestArena(t, 0)

	_, err := New[[1 << 17]byte](a)
	require.ErrorIs(t, err, ErrTooLarge)
	require.ErrorIs(t, err, types.ErrAllocation)
}

func TestArena_DoubleFreeAndForeignPointer(t *testing.T) {
	a := newTestArena(t, 0)

	p, err := New[counters](a)
	require.NoError(t, err)
	require.NoError(t, Delete(a, p))
	require.ErrorIs(t, Delete(a, p), ErrDoubleFree)

	var outside counters
	require.ErrorIs(t, Delete(a, &outside), ErrBadPointer)
}

func TestArena_FreeOfUnissuedSlotIsBadPointer(t *testing.T) {
	a := newTestArena(t, 0)

	p, err := New[counters](a)
	require.NoError(t, err)
	defer func() { require.NoError(t, Delete(a, p)) }()

	interior := (*counters)(unsafe.Add(unsafe.Pointer(p), 16))
	err = Delete(a, interior)
	require.ErrorIs(t, err, ErrBadPointer)
	assert.NotErrorIs(t, err, ErrDoubleFree)

	beyondBump := (*counters)(unsafe.Add(unsafe.Pointer(p), 4*unsafe.Sizeof(counters{})))
	err = Delete(a, beyondBump)
	require.ErrorIs(t, err, ErrBadPointer)
	assert.NotErrorIs(t, err, ErrDoubleFree)

	assert.EqualValues(t, 1, a.Stats().LiveObjects)
}

func TestArena_CloseRefusesWhileLive(t *testing.T) {
	a := NewArena(ArenaConfig{ChunkSize: 4096})

	p, err := New[counters](a)
	require.NoError(t, err)

	require.ErrorIs(t, a.Close(), ErrBusy)
	require.NoError(t, Delete(a, p))

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "Close is idempotent")
	assert.Zero(t, a.Stats().MappedBytes)

	_, err = New[counters](a)
	require.ErrorIs(t, err, ErrClosed)
}

func TestArena_ChunkSizeRoundedToPage(t *testing.T) {
	a := NewArena(ArenaConfig{ChunkSize: 100})
	defer a.Close()

	assert.Zero(t, a.cfg.ChunkSize%pageSize())
	assert.GreaterOrEqual(t, a.cfg.ChunkSize, uintptr(100))
	assert.Equal(t, "Balanced", a.table.String(), "zero SizeClasses uses the default")
}
