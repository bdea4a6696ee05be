package adam_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/graph"
	"github.com/sbl8/ggtensor/ops"
	"github.com/sbl8/ggtensor/optim/adam"
	"github.com/sbl8/ggtensor/tensor"
)

func TestAdamMinimizesQuadratic(t *testing.T) {
	a, err := arena.Init(1<<16, nil)
	require.NoError(t, err)
	defer arena.Free(a)
	ctx := tensor.NewContext(a)

	x := ctx.NewTensor1D(dtype.F32, 1)
	ops.SetParam(ctx, x)
	x.SetF32_1D(0, 0)

	target := ctx.NewTensor1D(dtype.F32, 1)
	target.SetF32_1D(0, 2)

	diff := ops.Sub(ctx, x, target, ops.Fresh)
	sq := ops.Sqr(ctx, diff, ops.Fresh)
	loss := ops.Sum(ctx, sq)

	gf := graph.BuildForward(loss)
	gb := graph.BuildBackward(gf, true)

	// Adam moves x by at most about Alpha per step, so covering the distance
	// 2 from x=0 needs Alpha well above the 0.001 default within 2000 steps.
	params := adam.DefaultParams()
	params.Alpha = 0.01
	params.NIter = 2000
	result := adam.Run(gf, gb, loss, params)

	require.Equal(t, adam.OK, result)
	require.InDelta(t, 2.0, x.GetF32_1D(0), 0.05)
}
