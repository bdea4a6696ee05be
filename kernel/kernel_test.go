package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/kernel"
	"github.com/sbl8/ggtensor/ops"
	"github.com/sbl8/ggtensor/tensor"
)

func newCtx(t *testing.T) *tensor.Context {
	a, err := arena.Init(1<<20, nil)
	require.NoError(t, err)
	t.Cleanup(func() { arena.Free(a) })
	return tensor.NewContext(a)
}

func runAllPhases(dst *tensor.Tensor) {
	fn := kernel.Dispatch(dst.Op)
	for _, ph := range []kernel.Phase{kernel.Init, kernel.Compute, kernel.Finalize} {
		fn(kernel.Params{Phase: ph, Ith: 0, Nth: 1}, dst)
	}
}

func TestMulMatS1(t *testing.T) {
	ctx := newCtx(t)
	a := ctx.NewTensor2D(dtype.F32, 3, 2)
	for i, v := range []float32{1, 2, 3, 4, 5, 6} {
		a.SetF32_1D(int64(i), v)
	}
	b := ctx.NewTensor2D(dtype.F32, 3, 2)
	for i, v := range []float32{7, 9, 11, 8, 10, 12} {
		b.SetF32_1D(int64(i), v)
	}

	dst := ops.MulMat(ctx, a, b)
	runAllPhases(dst)

	// dst cell (i1a, j) = dot(a's row i1a, b's row j); dst's own ne[0] is
	// a's row count, so index by that shape rather than a flat offset.
	want := [][]float32{
		{58, 64},
		{139, 154},
	}
	for i1a, row := range want {
		for j, w := range row {
			require.InDelta(t, w, dst.GetF32At(int64(i1a), int64(j), 0, 0), 1e-5)
		}
	}
}

func TestGeluForwardS2(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 2)
	x.SetF32_1D(0, 0)
	x.SetF32_1D(1, 1)

	dst := ops.Gelu(ctx, x, ops.Fresh)
	runAllPhases(dst)

	require.InDelta(t, 0.0, dst.GetF32_1D(0), 1e-3)
	require.InDelta(t, 0.8413, dst.GetF32_1D(1), 5e-3)
}

func TestSoftMaxS3(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 3)
	for i, v := range []float32{1, 2, 3} {
		x.SetF32_1D(int64(i), v)
	}

	dst := ops.SoftMax(ctx, x, ops.Fresh)
	runAllPhases(dst)

	want := []float32{0.0900, 0.2447, 0.6652}
	var sum float32
	for i, w := range want {
		got := dst.GetF32_1D(int64(i))
		require.InDelta(t, w, got, 1e-3)
		sum += got
	}
	require.InDelta(t, 1.0, sum, 1e-4)
}

func TestDiagMaskInfS4(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor2D(dtype.F32, 3, 3)
	for i := int64(0); i < 9; i++ {
		x.SetF32_1D(i, float32(i))
	}

	dst := ops.DiagMaskInf(ctx, x, 0)
	runAllPhases(dst)

	// row j=1, cols i in {0,1,2}: only i=2 (i > n_past+j = 0+1) is masked.
	row1 := dst.F32Slice()[3:6]
	require.False(t, math.IsInf(float64(row1[0]), -1))
	require.False(t, math.IsInf(float64(row1[1]), -1))
	require.True(t, math.IsInf(float64(row1[2]), -1))
}

func TestSumF64Accumulator(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 3)
	for i, v := range []float32{0, 1, 2} {
		x.SetF32_1D(int64(i), v)
	}
	dst := ops.Sum(ctx, x)
	runAllPhases(dst)
	// base case for the sum((x-3)^2) autograd scenario: here just sum(x).
	require.Equal(t, float32(3), dst.GetF32_1D(0))
}

func TestRopePositionVaries(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor2D(dtype.F32, 4, 2)
	for i, v := range []float32{1, 0, 1, 0, 1, 0, 1, 0} {
		x.SetF32_1D(int64(i), v)
	}

	dst := ops.Rope(ctx, x, 0, 4, 0)
	runAllPhases(dst)

	// row 0 sits at position n_past+0 = 0: theta is 0 for every pair, so
	// rotation is the identity and the row passes through unchanged.
	require.InDelta(t, 1.0, dst.GetF32At(0, 0, 0, 0), 1e-5)
	require.InDelta(t, 0.0, dst.GetF32At(1, 0, 0, 0), 1e-5)

	// row 1 sits at position n_past+1 = 1: the first pair's theta is
	// 1*10000^0 = 1, so it must rotate away from row 0's (identity)
	// result instead of repeating it.
	require.InDelta(t, math.Cos(1), float64(dst.GetF32At(0, 1, 0, 0)), 1e-5)
	require.InDelta(t, math.Sin(1), float64(dst.GetF32At(1, 1, 0, 0)), 1e-5)
}
