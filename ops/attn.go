package ops

import (
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/tensor"
)

// DiagMaskInf builds a view node that sets the upper-triangular tail of
// every row above column n_past+row to negative infinity.
func DiagMaskInf(ctx *tensor.Context, a *tensor.Tensor, nPast int32) *tensor.Tensor {
	dst := ctx.ViewTensor(a)
	dst.Op = tensor.OpDiagMaskInf
	dst.Src0 = a
	dst.Params.NPast = nPast
	return dst
}

// SoftMax builds a per-row softmax node, using the exp table. Under Fresh
// the result is a new tensor; under AliasOf(a) it is a view of a.
func SoftMax(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpSoftMax, a, p)
}

// Rope builds a rotary-position-embedding view node: pairs (x0, x1) in the
// first n_dims of dim 0 are rotated by theta = p * 10000^(-i/n_dims).
func Rope(ctx *tensor.Context, a *tensor.Tensor, nPast, nDims, mode int32) *tensor.Tensor {
	dst := ctx.ViewTensor(a)
	dst.Op = tensor.OpRope
	dst.Src0 = a
	dst.Params.NPast = nPast
	dst.Params.NDims = nDims
	dst.Params.Mode = mode
	return dst
}

// Conv1D1S builds a stride-1, odd-kernel 1-D convolution: result shape
// {b.ne[0], a.ne[2]}, F32.
func Conv1D1S(ctx *tensor.Context, a, b *tensor.Tensor) *tensor.Tensor {
	assert.Require(a.NE[0]%2 == 1, "ops: CONV_1D_1S requires an odd kernel width, got %d", a.NE[0])
	dst := ctx.NewTensor2D(dtype.F32, b.NE[0], a.NE[2])
	dst.Op = tensor.OpConv1D1S
	dst.Src0 = a
	dst.Src1 = b
	return dst
}

// Conv1D2S builds a stride-2, odd-kernel 1-D convolution: result shape
// {b.ne[0]/2, a.ne[2]}, F32.
func Conv1D2S(ctx *tensor.Context, a, b *tensor.Tensor) *tensor.Tensor {
	assert.Require(a.NE[0]%2 == 1, "ops: CONV_1D_2S requires an odd kernel width, got %d", a.NE[0])
	dst := ctx.NewTensor2D(dtype.F32, b.NE[0]/2, a.NE[2])
	dst.Op = tensor.OpConv1D2S
	dst.Src0 = a
	dst.Src1 = b
	return dst
}

// FlashAttn builds a fused scaled dot-product attention node: result shape
// is q's shape, F32. scale = 1/sqrt(D) is applied by the kernel.
func FlashAttn(ctx *tensor.Context, q, k, v *tensor.Tensor, masked bool) *tensor.Tensor {
	dst := ctx.NewTensor4D(dtype.F32, q.NE[0], q.NE[1], q.NE[2], q.NE[3])
	dst.NDims = q.NDims
	dst.Op = tensor.OpFlashAttn
	dst.Src0 = q
	dst.Src1 = k
	dst.Opt[0] = v
	if masked {
		dst.Params.I32 = 1
	}
	return dst
}

// FlashFF builds a fused feed-forward node: gelu(a*b0^T + b1)*c0^T + c1,
// result shape a's shape, F32.
func FlashFF(ctx *tensor.Context, a, b0, b1, c0, c1 *tensor.Tensor) *tensor.Tensor {
	dst := ctx.NewTensor4D(dtype.F32, a.NE[0], a.NE[1], a.NE[2], a.NE[3])
	dst.NDims = a.NDims
	dst.Op = tensor.OpFlashFF
	dst.Src0 = a
	dst.Src1 = b0
	dst.Opt[0] = b1
	dst.Opt[1] = c0
	dst.Opt[2] = c1
	return dst
}
