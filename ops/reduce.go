package ops

import (
	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/tensor"
)

// Sum builds a scalar reduction of every element of a, accumulated in F64
// by the kernel regardless of a's dtype.
func Sum(ctx *tensor.Context, a *tensor.Tensor) *tensor.Tensor {
	isNode := needsGrad(false, a)
	dst := ctx.NewTensor1D(a.Dtype, 1)
	dst.Op = tensor.OpSum
	dst.Src0 = a
	attachGrad(ctx, dst, isNode)
	return dst
}

// Mean builds a per-row mean reduction: shape {1, ne1, ne2, ne3}.
func Mean(ctx *tensor.Context, a *tensor.Tensor) *tensor.Tensor {
	isNode := needsGrad(false, a)
	dst := ctx.NewTensor4D(a.Dtype, 1, a.NE[1], a.NE[2], a.NE[3])
	dst.NDims = a.NDims
	dst.Op = tensor.OpMean
	dst.Src0 = a
	attachGrad(ctx, dst, isNode)
	return dst
}

// Repeat builds a tensor with b's shape, tiling a to cover it. a's shape
// must evenly divide b's along every dim.
func Repeat(ctx *tensor.Context, a, b *tensor.Tensor) *tensor.Tensor {
	assert.Require(tensor.CanRepeat(a, b), "ops: REPEAT %v does not evenly tile %v", a.NE, b.NE)
	isNode := needsGrad(false, a)
	dst := ctx.DupTensor(b)
	dst.Op = tensor.OpRepeat
	dst.Src0 = a
	dst.Src1 = b
	attachGrad(ctx, dst, isNode)
	return dst
}

// Norm builds a per-row (dim 0) centre+RMS normalization with eps = 1e-5.
func Norm(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpNorm, a, p)
}
