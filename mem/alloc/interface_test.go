package alloc_test

import (
	"testing"
	"unsafe"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mock_alloc "github.com/joshuapare/ownkit/internal/mock/mem/alloc"
	"github.com/joshuapare/ownkit/mem/alloc"
	"github.com/joshuapare/ownkit/pkg/types"
)

func TestNew_NilAllocationFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	m := mock_alloc.NewMockAllocator(ctrl)
	m.EXPECT().Alloc(alloc.LayoutOf[int64]()).Return(unsafe.Pointer(nil), nil)

	p, err := alloc.New[int64](m)
	require.Error(t, err)
	assert.Nil(t, p)
	assert.ErrorIs(t, err, types.ErrAllocation)
	assert.ErrorIs(t, err, alloc.ErrNilAllocation)
}
