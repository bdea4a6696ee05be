package tensor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/tensor"
)

func newCtx(t *testing.T) *tensor.Context {
	a, err := arena.Init(1<<20, nil)
	require.NoError(t, err)
	t.Cleanup(func() { arena.Free(a) })
	return tensor.NewContext(a)
}

func TestNewTensor2DContiguousStrides(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor2D(dtype.F32, 3, 2)

	require.True(t, x.IsContiguous())
	require.EqualValues(t, 4, x.NB[0])
	require.EqualValues(t, 12, x.NB[1])
	require.EqualValues(t, 6, x.Nelements())
}

func TestSetGetF32_1D(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 4)
	for i := int64(0); i < 4; i++ {
		x.SetF32_1D(i, float32(i)*1.5)
	}
	for i := int64(0); i < 4; i++ {
		require.Equal(t, float32(i)*1.5, x.GetF32_1D(i))
	}
}

func TestViewAliasesData(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 4)
	x.SetF32_1D(0, 42)

	v := ctx.ViewTensor(x)
	require.Equal(t, float32(42), v.GetF32_1D(0))

	v.SetF32_1D(1, 7)
	require.Equal(t, float32(7), x.GetF32_1D(1))
}

func TestCanMulMatAndCanRepeat(t *testing.T) {
	ctx := newCtx(t)
	a := ctx.NewTensor2D(dtype.F32, 3, 2)
	b := ctx.NewTensor2D(dtype.F32, 3, 5)
	require.True(t, tensor.CanMulMat(a, b))

	small := ctx.NewTensor1D(dtype.F32, 2)
	big := ctx.NewTensor2D(dtype.F32, 4, 6)
	require.True(t, tensor.CanRepeat(small, big))
}
