package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/graph"
	"github.com/sbl8/ggtensor/ops"
	"github.com/sbl8/ggtensor/tensor"
)

func newCtx(t *testing.T) *tensor.Context {
	a, err := arena.Init(1<<20, nil)
	require.NoError(t, err)
	t.Cleanup(func() { arena.Free(a) })
	return tensor.NewContext(a)
}

func TestBuildForwardTopologicalOrder(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 3)
	y := ops.Sqr(ctx, x, ops.Fresh)
	z := ops.Sum(ctx, y)

	g := graph.BuildForward(z)
	require.Len(t, g.Leafs, 1)
	require.Len(t, g.Nodes, 2)
	require.Same(t, y, g.Nodes[0])
	require.Same(t, z, g.Nodes[1])
	require.NoError(t, graph.Validate(g))
}

func TestGraphResetZeroesGrads(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 3)
	ops.SetParam(ctx, x)
	y := ops.Sum(ctx, x)

	g := graph.BuildForward(y)
	x.Grad.SetF32_1D(0, 5)
	graph.GraphReset(g)
	require.Equal(t, float32(0), x.Grad.GetF32_1D(0))
}

func TestAutogradSumOfSquaresS5(t *testing.T) {
	// f = sum((x-3)^2), x = [0,1,2], expect x.grad = [-6,-4,-2].
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 3)
	ops.SetParam(ctx, x)
	for i, v := range []float32{0, 1, 2} {
		x.SetF32_1D(int64(i), v)
	}
	three := ctx.NewTensor1D(dtype.F32, 3)
	for i := int64(0); i < 3; i++ {
		three.SetF32_1D(i, 3)
	}

	diff := ops.Sub(ctx, x, three, ops.Fresh)
	sq := ops.Sqr(ctx, diff, ops.Fresh)
	loss := ops.Sum(ctx, sq)

	gf := graph.BuildForward(loss)
	graph.Compute(gf, graph.ExecOptions{Threads: 1})

	loss.Grad.SetF32_1D(0, 1)
	gb := graph.BuildBackward(gf, true)
	graph.Compute(gb, graph.ExecOptions{Threads: 1})

	want := []float32{-6, -4, -2}
	for i, w := range want {
		require.InDelta(t, w, x.Grad.GetF32_1D(int64(i)), 1e-4)
	}
}

func TestUnsupportedBackwardPanics(t *testing.T) {
	ctx := newCtx(t)
	x := ctx.NewTensor1D(dtype.F32, 3)
	ops.SetParam(ctx, x)
	y := ops.Gelu(ctx, x, ops.Fresh)

	gf := graph.BuildForward(y)
	graph.Compute(gf, graph.ExecOptions{Threads: 1})
	y.Grad.SetF32_1D(0, 1)

	require.Panics(t, func() {
		graph.BuildBackward(gf, true)
	})
}
