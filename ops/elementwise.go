package ops

import (
	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/tensor"
)

func binarySameShape(ctx *tensor.Context, op tensor.Op, a, b *tensor.Tensor, p Policy) *tensor.Tensor {
	assert.Require(tensor.SameShape(a, b), "ops: %s requires same shape, got %v and %v", op, a.NE, b.NE)
	inplace := p.isInplace()
	isNode := needsGrad(inplace, a, b)
	dst := result(ctx, p, a.Dtype, a.NDims, func() *tensor.Tensor {
		return ctx.DupTensor(a)
	}, isNode)
	dst.Op = op
	dst.Src0 = a
	dst.Src1 = b
	attachGrad(ctx, dst, isNode)
	return dst
}

func unarySameShape(ctx *tensor.Context, op tensor.Op, a *tensor.Tensor, p Policy) *tensor.Tensor {
	inplace := p.isInplace()
	isNode := needsGrad(inplace, a)
	dst := result(ctx, p, a.Dtype, a.NDims, func() *tensor.Tensor {
		return ctx.DupTensor(a)
	}, isNode)
	dst.Op = op
	dst.Src0 = a
	attachGrad(ctx, dst, isNode)
	return dst
}

// Add builds dst = a + b elementwise; a and b must have identical shape.
func Add(ctx *tensor.Context, a, b *tensor.Tensor, p Policy) *tensor.Tensor {
	return binarySameShape(ctx, tensor.OpAdd, a, b, p)
}

// Sub builds dst = a - b elementwise.
func Sub(ctx *tensor.Context, a, b *tensor.Tensor, p Policy) *tensor.Tensor {
	return binarySameShape(ctx, tensor.OpSub, a, b, p)
}

// Mul builds dst = a * b elementwise.
func Mul(ctx *tensor.Context, a, b *tensor.Tensor, p Policy) *tensor.Tensor {
	return binarySameShape(ctx, tensor.OpMul, a, b, p)
}

// Div builds dst = a / b elementwise.
func Div(ctx *tensor.Context, a, b *tensor.Tensor, p Policy) *tensor.Tensor {
	return binarySameShape(ctx, tensor.OpDiv, a, b, p)
}

// Dup builds a deep copy of a (or, under AliasOf, an in-place view).
func Dup(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpDup, a, p)
}

// Sqr builds dst = a^2 elementwise.
func Sqr(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpSqr, a, p)
}

// Sqrt builds dst = sqrt(a) elementwise.
func Sqrt(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpSqrt, a, p)
}

// Abs builds dst = |a| elementwise.
func Abs(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpAbs, a, p)
}

// Sgn builds dst = sign(a) elementwise, in {-1, 0, 1}.
func Sgn(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpSgn, a, p)
}

// Neg builds dst = -a elementwise.
func Neg(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpNeg, a, p)
}

// Step builds dst = 1 if a > 0 else 0, elementwise.
func Step(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpStep, a, p)
}

// Relu builds dst = max(a, 0) elementwise.
func Relu(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpRelu, a, p)
}

// Gelu builds dst = gelu(a) elementwise via the F16 lookup table.
func Gelu(ctx *tensor.Context, a *tensor.Tensor, p Policy) *tensor.Tensor {
	return unarySameShape(ctx, tensor.OpGelu, a, p)
}
