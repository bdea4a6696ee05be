package ops

import (
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/tensor"
)

// MulMat builds a matrix multiply node. Inner dim is ne[0]; result shape is
// {a.ne[1], b.ne[1], a.ne[2], b.ne[3]} and is always F32 regardless of a/b's
// dtype.
func MulMat(ctx *tensor.Context, a, b *tensor.Tensor) *tensor.Tensor {
	assert.Require(tensor.CanMulMat(a, b), "ops: MUL_MAT inner/batch mismatch: %v vs %v", a.NE, b.NE)
	isNode := needsGrad(false, a, b)
	dst := ctx.NewTensor4D(dtype.F32, a.NE[1], b.NE[1], a.NE[2], b.NE[3])
	dst.Op = tensor.OpMulMat
	dst.Src0 = a
	dst.Src1 = b
	attachGrad(ctx, dst, isNode)
	return dst
}

// Scale builds dst = src0 * src1, where src1 is a scalar tensor. The result
// is always a view of src0: scaling is always performed in place.
func Scale(ctx *tensor.Context, a, scale *tensor.Tensor) *tensor.Tensor {
	assert.Require(scale.IsScalar(), "ops: SCALE requires a scalar second operand, got %v", scale.NE)
	isNode := needsGrad(false, a)
	dst := ctx.ViewTensor(a)
	dst.Op = tensor.OpScale
	dst.Src0 = a
	dst.Src1 = scale
	attachGrad(ctx, dst, isNode)
	return dst
}

// Cpy builds a node that copies src0's elements into src1's layout,
// returning a view of src1.
func Cpy(ctx *tensor.Context, a, b *tensor.Tensor) *tensor.Tensor {
	assert.Require(a.Nelements() == b.Nelements(), "ops: CPY element count mismatch: %d vs %d", a.Nelements(), b.Nelements())
	isNode := needsGrad(false, a)
	dst := ctx.ViewTensor(b)
	dst.Op = tensor.OpCpy
	dst.Src0 = a
	dst.Src1 = b
	attachGrad(ctx, dst, isNode)
	return dst
}
