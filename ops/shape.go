package ops

import (
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/internal/assert"
	"github.com/sbl8/ggtensor/tensor"
)

// Reshape builds a node viewing a under a new shape. a must be contiguous;
// the result aliases a's data. Gradients are unsupported.
func Reshape(ctx *tensor.Context, a *tensor.Tensor, ne ...int64) *tensor.Tensor {
	assert.Require(a.IsContiguous(), "ops: RESHAPE requires a contiguous source")
	var total int64 = 1
	for _, d := range ne {
		total *= d
	}
	assert.Require(total == a.Nelements(), "ops: RESHAPE element count mismatch: %d vs %d", total, a.Nelements())

	dst := ctx.ViewTensor(a)
	dst.NDims = len(ne)
	for i := range dst.NE {
		dst.NE[i] = 1
	}
	for i, d := range ne {
		dst.NE[i] = d
	}
	dst.NB[0] = uintptr(dst.Dtype.Size())
	for i := 1; i < tensor.MaxDims; i++ {
		dst.NB[i] = dst.NB[i-1] * uintptr(dst.NE[i-1])
	}
	dst.Op = tensor.OpReshape
	dst.Src0 = a
	return dst
}

// View builds a node aliasing a's data starting at byteOffset, under the
// given shape. Gradients are unsupported.
func View(ctx *tensor.Context, a *tensor.Tensor, byteOffset uintptr, ne ...int64) *tensor.Tensor {
	dst := ctx.View1D(a, ne[0], byteOffset)
	for i := 1; i < len(ne); i++ {
		dst.NE[i] = ne[i]
	}
	dst.NDims = len(ne)
	dst.NB[0] = uintptr(dst.Dtype.Size())
	for i := 1; i < tensor.MaxDims; i++ {
		dst.NB[i] = dst.NB[i-1] * uintptr(dst.NE[i-1])
	}
	dst.Op = tensor.OpView
	dst.Src0 = a
	return dst
}

// Permute builds a node that reorders a's axes according to the given
// permutation of {0,1,2,3}, aliasing a's data and rewriting ne/nb.
func Permute(ctx *tensor.Context, a *tensor.Tensor, axis0, axis1, axis2, axis3 int) *tensor.Tensor {
	perm := [tensor.MaxDims]int{axis0, axis1, axis2, axis3}
	dst := ctx.ViewTensor(a)
	var ne [tensor.MaxDims]int64
	var nb [tensor.MaxDims]uintptr
	for srcDim, dstDim := range perm {
		nb[dstDim] = a.NB[srcDim]
		ne[dstDim] = a.NE[srcDim]
	}
	for i := 0; i < tensor.MaxDims; i++ {
		dst.NE[i] = ne[i]
		dst.NB[i] = nb[i]
	}
	dst.Op = tensor.OpPermute
	dst.Src0 = a
	return dst
}

// Transpose builds a node swapping a's dim 0 and dim 1, aliasing its data.
func Transpose(ctx *tensor.Context, a *tensor.Tensor) *tensor.Tensor {
	dst := ctx.ViewTensor(a)
	dst.NE[0], dst.NE[1] = a.NE[1], a.NE[0]
	dst.NB[0], dst.NB[1] = a.NB[1], a.NB[0]
	dst.Op = tensor.OpTranspose
	dst.Src0 = a
	return dst
}

// GetRows builds a gather node: result shape {a.ne[0], len(indices)}, F32,
// gathering rows of a at the positions named by the I32 index vector b.
func GetRows(ctx *tensor.Context, a, b *tensor.Tensor) *tensor.Tensor {
	assert.Require(b.Dtype == dtype.I32, "ops: GET_ROWS index tensor must be I32, got %s", b.Dtype)
	assert.Require(b.IsVector(), "ops: GET_ROWS index tensor must be a vector")
	dst := ctx.NewTensor2D(dtype.F32, a.NE[0], b.NE[0])
	dst.Op = tensor.OpGetRows
	dst.Src0 = a
	dst.Src1 = b
	return dst
}
