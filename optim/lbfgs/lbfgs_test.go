package lbfgs_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/graph"
	"github.com/sbl8/ggtensor/ops"
	"github.com/sbl8/ggtensor/optim/lbfgs"
	"github.com/sbl8/ggtensor/tensor"
)

// TestLBFGSQuadraticS6 covers minimizing f(x) = (x-5)^2 from
// x0 = 0 should return x* close to 5 within 20 iterations.
func TestLBFGSQuadraticS6(t *testing.T) {
	a, err := arena.Init(1<<16, nil)
	require.NoError(t, err)
	defer arena.Free(a)
	ctx := tensor.NewContext(a)

	x := ctx.NewTensor1D(dtype.F32, 1)
	ops.SetParam(ctx, x)
	x.SetF32_1D(0, 0)

	five := ctx.NewTensor1D(dtype.F32, 1)
	five.SetF32_1D(0, 5)

	diff := ops.Sub(ctx, x, five, ops.Fresh)
	sq := ops.Sqr(ctx, diff, ops.Fresh)
	loss := ops.Sum(ctx, sq)

	gf := graph.BuildForward(loss)
	graph.Compute(gf, graph.ExecOptions{Threads: 1})
	loss.Grad.SetF32_1D(0, 1)
	gb := graph.BuildBackward(gf, true)

	out, result := lbfgs.Run(gf, gb, x, loss, lbfgs.DefaultParams())
	require.Equal(t, lbfgs.OK, result)
	require.InDelta(t, 5.0, out[0], 1e-4)
}
