package ops_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/ops"
	"github.com/sbl8/ggtensor/tensor"
)

func newCtx(t *testing.T) *tensor.Context {
	a, err := arena.Init(1<<20, nil)
	require.NoError(t, err)
	t.Cleanup(func() { arena.Free(a) })
	return tensor.NewContext(a)
}

func TestAddBuildsNodeWithSources(t *testing.T) {
	ctx := newCtx(t)
	a := ctx.NewTensor1D(dtype.F32, 3)
	b := ctx.NewTensor1D(dtype.F32, 3)

	dst := ops.Add(ctx, a, b, ops.Fresh)
	require.Equal(t, tensor.OpAdd, dst.Op)
	require.Same(t, a, dst.Src0)
	require.Same(t, b, dst.Src1)
	require.Nil(t, dst.Grad)
}

func TestAddAllocatesGradWhenSourceIsParam(t *testing.T) {
	ctx := newCtx(t)
	a := ctx.NewTensor1D(dtype.F32, 3)
	ops.SetParam(ctx, a)
	b := ctx.NewTensor1D(dtype.F32, 3)

	dst := ops.Add(ctx, a, b, ops.Fresh)
	require.NotNil(t, dst.Grad)
	require.Equal(t, a.NE, dst.Grad.NE)
}

func TestMulMatShape(t *testing.T) {
	// A is {3,2}, B is {3,2}; MUL_MAT(A,B) is {2,2}.
	ctx := newCtx(t)
	a := ctx.NewTensor2D(dtype.F32, 3, 2)
	b := ctx.NewTensor2D(dtype.F32, 3, 2)

	dst := ops.MulMat(ctx, a, b)
	require.Equal(t, tensor.OpMulMat, dst.Op)
	require.EqualValues(t, 2, dst.NE[0])
	require.EqualValues(t, 2, dst.NE[1])
	require.Equal(t, dtype.F32, dst.Dtype)
}

func TestScaleIsAViewOfSrc0(t *testing.T) {
	ctx := newCtx(t)
	a := ctx.NewTensor1D(dtype.F32, 4)
	s := ctx.NewF32(2)

	dst := ops.Scale(ctx, a, s)
	require.Equal(t, tensor.OpScale, dst.Op)
	a.SetF32_1D(0, 9)
	require.Equal(t, float32(9), dst.GetF32_1D(0))
}

func TestRepeatRequiresEvenDivision(t *testing.T) {
	ctx := newCtx(t)
	a := ctx.NewTensor1D(dtype.F32, 3)
	b := ctx.NewTensor1D(dtype.F32, 10)

	require.Panics(t, func() {
		ops.Repeat(ctx, a, b)
	})
}

func TestInplaceRefusesWhenGradNeeded(t *testing.T) {
	ctx := newCtx(t)
	a := ctx.NewTensor1D(dtype.F32, 3)
	ops.SetParam(ctx, a)

	require.Panics(t, func() {
		ops.Neg(ctx, a, ops.AliasOf(a))
	})
}
