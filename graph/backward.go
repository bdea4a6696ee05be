package graph

import (
	"fmt"

	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/ops"
	"github.com/sbl8/ggtensor/tensor"
)

// ErrUnsupportedBackward names an op with no backward rule. Requesting a
// gradient through one of these is a fatal assertion, not a recoverable
// error — this type exists only so the panic value is structured for tests
// that want to recover() and inspect it.
type ErrUnsupportedBackward struct {
	Op tensor.Op
}

func (e ErrUnsupportedBackward) Error() string {
	return fmt.Sprintf("graph: op %s has no backward rule", e.Op)
}

// BuildBackward synthesizes the gradient computation for forward graph g by
// walking g.Nodes in reverse and appending gradient ops for each one.
// When keep is true, every node's grad tensor is cloned first so in-place
// backward mutation cannot corrupt the forward graph. Each is_param node's
// grad dependency graph is folded into the returned backward Graph.
func BuildBackward(g *Graph, keep bool) *Graph {
	if keep {
		for i, n := range g.Nodes {
			if n.Grad != nil {
				clone := n.Ctx().DupTensor(n.Grad)
				copy(clone.Data, n.Grad.Data)
				g.Grads[i] = clone
				n.Grad = clone
			}
		}
	}

	for i := len(g.Nodes) - 1; i >= 0; i-- {
		n := g.Nodes[i]
		if n.Grad == nil {
			continue
		}
		synthesize(n)
	}

	bg := &Graph{visited: make(map[*tensor.Tensor]bool)}
	for _, n := range g.Nodes {
		if n.IsParam && n.Grad != nil {
			visit(bg, n.Grad)
		}
	}
	return bg
}

// accumulate builds `target += delta` in place over target, returning the
// new tensor target's owner should hold onto (accumulation is itself a
// graph node: ADD with AliasOf(target)).
func accumulate(target, delta *tensor.Tensor) *tensor.Tensor {
	ctx := target.Ctx()
	return ops.Add(ctx, target, delta, ops.AliasOf(target))
}

func synthesize(n *tensor.Tensor) {
	ctx := n.Ctx()
	gradOut := n.Grad

	switch n.Op {
	case tensor.OpNone:
		// A param leaf scheduled as a node has no sources to propagate into.

	case tensor.OpDup, tensor.OpAdd:
		addSrcGrad(n.Src0, gradOut)
		if n.Op == tensor.OpAdd {
			addSrcGrad(n.Src1, gradOut)
		}

	case tensor.OpSub:
		addSrcGrad(n.Src0, gradOut)
		if n.Src1.Grad != nil {
			neg := ops.Neg(ctx, gradOut, ops.Fresh)
			n.Src1.Grad = accumulate(n.Src1.Grad, neg)
		}

	case tensor.OpMul:
		if n.Src0.Grad != nil {
			n.Src0.Grad = accumulate(n.Src0.Grad, ops.Mul(ctx, n.Src1, gradOut, ops.Fresh))
		}
		if n.Src1.Grad != nil {
			n.Src1.Grad = accumulate(n.Src1.Grad, ops.Mul(ctx, n.Src0, gradOut, ops.Fresh))
		}

	case tensor.OpDiv:
		if n.Src0.Grad != nil {
			n.Src0.Grad = accumulate(n.Src0.Grad, ops.Div(ctx, gradOut, n.Src1, ops.Fresh))
		}
		if n.Src1.Grad != nil {
			ratio := ops.Div(ctx, n, n.Src1, ops.Fresh)
			scaled := ops.Mul(ctx, gradOut, ratio, ops.Fresh)
			neg := ops.Neg(ctx, scaled, ops.Fresh)
			n.Src1.Grad = accumulate(n.Src1.Grad, neg)
		}

	case tensor.OpSqr:
		two := ctx.NewF32(2)
		scaled := ops.Scale(ctx, n.Src0, two)
		delta := ops.Mul(ctx, scaled, gradOut, ops.Fresh)
		addSrcGrad(n.Src0, delta)

	case tensor.OpSqrt:
		half := ctx.NewF32(0.5)
		invSelf := ops.Div(ctx, half, n, ops.Fresh)
		delta := ops.Mul(ctx, invSelf, gradOut, ops.Fresh)
		addSrcGrad(n.Src0, delta)

	case tensor.OpSum:
		delta := ops.Repeat(ctx, gradOut, n.Src0)
		addSrcGrad(n.Src0, delta)

	case tensor.OpRepeat:
		delta := ops.Sum(ctx, gradOut)
		addSrcGrad(n.Src0, delta)

	case tensor.OpAbs:
		sgn := ops.Sgn(ctx, n.Src0, ops.Fresh)
		delta := ops.Mul(ctx, sgn, gradOut, ops.Fresh)
		addSrcGrad(n.Src0, delta)

	case tensor.OpNeg:
		neg := ops.Neg(ctx, gradOut, ops.Fresh)
		addSrcGrad(n.Src0, neg)

	case tensor.OpRelu:
		// ReLU's gradient is the step function times the upstream gradient,
		// never negative; computed directly rather than via subtraction.
		step := ops.Step(ctx, n.Src0, ops.Fresh)
		delta := ops.Mul(ctx, step, gradOut, ops.Fresh)
		addSrcGrad(n.Src0, delta)

	case tensor.OpMulMat:
		if n.Src1.Grad != nil {
			t0 := ops.Transpose(ctx, n.Src0)
			delta := ops.MulMat(ctx, t0, gradOut)
			n.Src1.Grad = accumulate(n.Src1.Grad, delta)
		}
		assert.Require(n.Src0.Grad == nil, "graph: MUL_MAT backward for src0 is unimplemented (outer product)")

	default:
		panic(ErrUnsupportedBackward{Op: n.Op})
	}
}

func addSrcGrad(src, delta *tensor.Tensor) {
	if src == nil || src.Grad == nil {
		return
	}
	src.Grad = accumulate(src.Grad, delta)
}
