// Package ops implements one constructor per operation kind in the engine's
// op taxonomy. Every constructor asserts its shape preconditions, decides
// whether a gradient node is needed, and wires src0/src1/opt links before
// handing the result tensor back to the caller for insertion into a graph.
package ops

import (
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/tensor"
)

// Policy selects whether an op constructor allocates fresh storage for its
// result or aliases an existing tensor's storage in place. AliasOf is
// refused whenever the aliased tensor already owns a gradient, since
// mutating it in place would corrupt data backward still needs.
type Policy struct {
	alias *tensor.Tensor
}

// Fresh requests newly allocated result storage.
var Fresh = Policy{}

// AliasOf requests that the result tensor's storage alias src's storage
// in place.
func AliasOf(src *tensor.Tensor) Policy {
	return Policy{alias: src}
}

func (p Policy) isInplace() bool { return p.alias != nil }

// needsGrad reports whether an op over the given source tensors must carry
// a gradient node: the op is not in-place and at least one source has one.
func needsGrad(inplace bool, srcs ...*tensor.Tensor) bool {
	if inplace {
		return false
	}
	for _, s := range srcs {
		if s != nil && (s.Grad != nil || s.IsParam) {
			return true
		}
	}
	return false
}

// result allocates the node's storage per policy: a fresh same-dtype,
// same-shape tensor, or a view aliasing the policy's source. It refuses
// AliasOf when the aliased tensor already owns a gradient, since mutating it
// in place would corrupt data backward still needs. An in-place result never
// gets its own grad (needsGrad reports false for it).
func result(ctx *tensor.Context, p Policy, dt dtype.Dtype, ndims int, shape func() *tensor.Tensor, isNode bool) *tensor.Tensor {
	if p.isInplace() {
		assert.Require(p.alias.Grad == nil, "ops: cannot alias %s, it already owns a grad tensor", p.alias.Op)
		return ctx.ViewTensor(p.alias)
	}
	return shape()
}

// attachGrad allocates and wires a fresh zeroed gradient tensor onto dst
// when isNode is true.
func attachGrad(ctx *tensor.Context, dst *tensor.Tensor, isNode bool) {
	if !isNode {
		return
	}
	dst.Grad = ctx.DupTensor(dst)
}

// SetParam marks t as trainable and allocates a same-shape gradient tensor.
func SetParam(ctx *tensor.Context, t *tensor.Tensor) {
	t.IsParam = true
	if t.Grad == nil {
		t.Grad = ctx.DupTensor(t)
	}
}
