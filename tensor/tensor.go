// Package tensor defines the strided multi-dimensional tensor header used
// throughout the engine and the constructors that carve one out of an
// arena.Context.
package tensor

import (
	"unsafe"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
	"github.com/sbl8/ggtensor/internal/assert"
)

// MaxDims is the maximum rank a tensor may have.
const MaxDims = 4

// MaxSrcOpt is the number of optional, non-owning source slots a node may
// carry in addition to src0/src1.
const MaxSrcOpt = 3

// Op identifies the operation that produced a tensor. NONE marks a leaf.
type Op uint8

const (
	OpNone Op = iota
	OpDup
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpSqr
	OpSqrt
	OpAbs
	OpSgn
	OpNeg
	OpStep
	OpRelu
	OpGelu
	OpSum
	OpMean
	OpRepeat
	OpNorm
	OpMulMat
	OpScale
	OpCpy
	OpReshape
	OpView
	OpPermute
	OpTranspose
	OpGetRows
	OpDiagMaskInf
	OpSoftMax
	OpRope
	OpConv1D1S
	OpConv1D2S
	OpFlashAttn
	OpFlashFF
	opCount
)

func (o Op) String() string {
	names := [opCount]string{
		"NONE", "DUP", "ADD", "SUB", "MUL", "DIV", "SQR", "SQRT", "ABS", "SGN",
		"NEG", "STEP", "RELU", "GELU", "SUM", "MEAN", "REPEAT", "NORM",
		"MUL_MAT", "SCALE", "CPY", "RESHAPE", "VIEW", "PERMUTE", "TRANSPOSE",
		"GET_ROWS", "DIAG_MASK_INF", "SOFT_MAX", "ROPE", "CONV_1D_1S",
		"CONV_1D_2S", "FLASH_ATTN", "FLASH_FF",
	}
	if int(o) >= len(names) {
		return "UNKNOWN"
	}
	return names[o]
}

// PerfCounters tracks per-node execution statistics, mirroring the
// performance fields kept on every tensor.
type PerfCounters struct {
	Runs   int64
	Cycles int64
	Micros int64
}

// Params carries op-specific scalar configuration (n_past, eps, scale...)
// that doesn't fit the src0/src1/opt tensor-link shape. Only the fields
// relevant to a node's Op are meaningful.
type Params struct {
	F32   float32
	I32   int32
	NPast int32
	NDims int32
	Mode  int32
}

// Tensor is the engine's single node type: every leaf, intermediate, and
// output value in a graph is a *Tensor. Non-owning links (Src0, Src1, Opt,
// Grad) reference other tensors carved from the same Context.
type Tensor struct {
	Dtype dtype.Dtype
	NDims int
	NE    [MaxDims]int64 // shape, unused dims are 1
	NB    [MaxDims]uintptr // byte strides

	Op      Op
	Params  Params
	IsParam bool

	Grad *Tensor
	Src0 *Tensor
	Src1 *Tensor
	Opt  [MaxSrcOpt]*Tensor

	Data []byte

	Perf PerfCounters

	ctx *Context
}

// Context is a thin, tensor-aware facade over an *arena.Context: it is what
// op constructors and NewTensor* use to carve headers and data out of the
// arena. Keeping it distinct from arena.Context keeps the bump allocator
// free of any tensor-shaped knowledge.
type Context struct {
	A *arena.Context
}

// NewContext wraps an arena.Context for tensor construction.
func NewContext(a *arena.Context) *Context {
	return &Context{A: a}
}

func nelements(ne [MaxDims]int64) int64 {
	n := int64(1)
	for _, d := range ne {
		n *= d
	}
	return n
}

func contiguousStrides(dt dtype.Dtype, ne [MaxDims]int64) [MaxDims]uintptr {
	var nb [MaxDims]uintptr
	nb[0] = uintptr(dt.Size())
	for i := 1; i < MaxDims; i++ {
		nb[i] = nb[i-1] * uintptr(ne[i-1])
	}
	return nb
}

func shapeOf(dims ...int64) [MaxDims]int64 {
	var ne [MaxDims]int64
	for i := range ne {
		ne[i] = 1
	}
	for i, d := range dims {
		ne[i] = d
	}
	return ne
}

// newLeaf allocates a new header plus a freshly bump-allocated data region
// sized prod(ne)*elem_size, with contiguous strides. It never aliases data.
func (c *Context) newLeaf(dt dtype.Dtype, ndims int, ne [MaxDims]int64) *Tensor {
	nb := contiguousStrides(dt, ne)
	size := uintptr(nelements(ne)) * uintptr(dt.Size())
	t := &Tensor{
		Dtype: dt,
		NDims: ndims,
		NE:    ne,
		NB:    nb,
		Data:  c.A.Alloc(size),
		ctx:   c,
	}
	return t
}

// NewTensor1D allocates a rank-1 leaf tensor.
func (c *Context) NewTensor1D(dt dtype.Dtype, ne0 int64) *Tensor {
	return c.newLeaf(dt, 1, shapeOf(ne0))
}

// NewTensor2D allocates a rank-2 leaf tensor.
func (c *Context) NewTensor2D(dt dtype.Dtype, ne0, ne1 int64) *Tensor {
	return c.newLeaf(dt, 2, shapeOf(ne0, ne1))
}

// NewTensor3D allocates a rank-3 leaf tensor.
func (c *Context) NewTensor3D(dt dtype.Dtype, ne0, ne1, ne2 int64) *Tensor {
	return c.newLeaf(dt, 3, shapeOf(ne0, ne1, ne2))
}

// NewTensor4D allocates a rank-4 leaf tensor.
func (c *Context) NewTensor4D(dt dtype.Dtype, ne0, ne1, ne2, ne3 int64) *Tensor {
	return c.newLeaf(dt, 4, shapeOf(ne0, ne1, ne2, ne3))
}

// NewF32 allocates a scalar F32 leaf initialized to value.
func (c *Context) NewF32(value float32) *Tensor {
	t := c.NewTensor1D(dtype.F32, 1)
	t.SetF32_1D(0, value)
	return t
}

// NewI32 allocates a scalar I32 leaf initialized to value.
func (c *Context) NewI32(value int32) *Tensor {
	t := c.NewTensor1D(dtype.I32, 1)
	t.SetI32_1D(0, value)
	return t
}

// DupTensor allocates a new leaf with src's shape and dtype, uninitialized.
func (c *Context) DupTensor(src *Tensor) *Tensor {
	return c.newLeaf(src.Dtype, src.NDims, src.NE)
}

// ViewTensor returns a new header that aliases src's entire data region.
// Gradients are never propagated through a bare view.
func (c *Context) ViewTensor(src *Tensor) *Tensor {
	return &Tensor{
		Dtype: src.Dtype,
		NDims: src.NDims,
		NE:    src.NE,
		NB:    src.NB,
		Data:  src.Data,
		ctx:   c,
	}
}

// Nelements returns the total element count of t.
func (t *Tensor) Nelements() int64 {
	return nelements(t.NE)
}

// Nbytes returns the total byte size of t's data region.
func (t *Tensor) Nbytes() uintptr {
	return uintptr(t.Nelements()) * uintptr(t.Dtype.Size())
}

// Ctx returns the tensor Context t was allocated through.
func (t *Tensor) Ctx() *Context { return t.ctx }

// F32Slice reinterprets t's data region as a []float32. t must be F32.
func (t *Tensor) F32Slice() []float32 {
	assert.Require(t.Dtype == dtype.F32, "tensor: F32Slice on dtype %s", t.Dtype)
	n := t.Nelements()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&t.Data[0])), n)
}

// I32Slice reinterprets t's data region as a []int32. t must be I32.
func (t *Tensor) I32Slice() []int32 {
	assert.Require(t.Dtype == dtype.I32, "tensor: I32Slice on dtype %s", t.Dtype)
	n := t.Nelements()
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&t.Data[0])), n)
}

// GetF32_1D returns the i-th element of t's data region reinterpreted as
// float32, honoring strides for non-contiguous t when NDims==1.
func (t *Tensor) GetF32_1D(i int64) float32 {
	off := uintptr(i) * t.NB[0]
	return *(*float32)(unsafe.Pointer(&t.Data[off]))
}

// SetF32_1D writes the i-th element, honoring t's dim-0 stride.
func (t *Tensor) SetF32_1D(i int64, v float32) {
	off := uintptr(i) * t.NB[0]
	*(*float32)(unsafe.Pointer(&t.Data[off])) = v
}

// GetI32_1D returns the i-th element reinterpreted as int32.
func (t *Tensor) GetI32_1D(i int64) int32 {
	off := uintptr(i) * t.NB[0]
	return *(*int32)(unsafe.Pointer(&t.Data[off]))
}

// SetI32_1D writes the i-th element, honoring t's dim-0 stride. For an F16
// tensor this quantizes the incoming int32 through the FP16 codec rather
// than rejecting it outright.
func (t *Tensor) SetI32_1D(i int64, v int32) {
	if t.Dtype == dtype.F16 {
		off := uintptr(i) * t.NB[0]
		h := dtype.FromF32(float32(v))
		*(*uint16)(unsafe.Pointer(&t.Data[off])) = uint16(h)
		return
	}
	off := uintptr(i) * t.NB[0]
	*(*int32)(unsafe.Pointer(&t.Data[off])) = v
}

// GetDataF32 returns the raw []float32 view over t's data.
func (t *Tensor) GetDataF32() []float32 {
	return t.F32Slice()
}

// offset4 computes t's byte offset for element (i0,i1,i2,i3) from its own
// strides — correct for any view, including one whose dims were reordered
// by Permute or Transpose.
func (t *Tensor) offset4(i0, i1, i2, i3 int64) uintptr {
	return uintptr(i0)*t.NB[0] + uintptr(i1)*t.NB[1] + uintptr(i2)*t.NB[2] + uintptr(i3)*t.NB[3]
}

// GetF32At returns the F32 element at multi-index (i0,i1,i2,i3). Unlike
// F32Slice, which treats Data as one dense array, this honors t's own
// strides and is correct even when t is a non-contiguous view.
func (t *Tensor) GetF32At(i0, i1, i2, i3 int64) float32 {
	return *(*float32)(unsafe.Pointer(&t.Data[t.offset4(i0, i1, i2, i3)]))
}

// SetF32At writes the F32 element at multi-index (i0,i1,i2,i3), honoring
// t's own strides.
func (t *Tensor) SetF32At(i0, i1, i2, i3 int64, v float32) {
	*(*float32)(unsafe.Pointer(&t.Data[t.offset4(i0, i1, i2, i3)])) = v
}

// RowSize returns the byte size of one row (all elements at dim 0).
func (t *Tensor) RowSize() uintptr {
	return t.NB[1]
}

// NRows returns the number of rows: the product of ne[1..3].
func (t *Tensor) NRows() int64 {
	return t.NE[1] * t.NE[2] * t.NE[3]
}
