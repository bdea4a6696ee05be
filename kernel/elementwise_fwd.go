package kernel

import (
	"math"

	"github.com/sbl8/ggtensor/tensor"
)

func rowPartition(dst *tensor.Tensor, p Params, fn func(row int)) {
	if p.Phase != Compute {
		return
	}
	nrows := int(dst.NRows())
	start, end := RowRange(nrows, p.Ith, p.Nth)
	for r := start; r < end; r++ {
		fn(r)
	}
}

// rowSlice returns the ne0 F32 elements of row `row` (flattened across
// ne[1..3]), honoring t's own byte strides. When t is dense row-major this
// is a zero-copy slice into its backing array; otherwise — t being the
// result of Transpose or Permute — every element is gathered individually,
// since a non-unit stride can't be expressed as a Go slice.
func rowSlice(t *tensor.Tensor, row int) []float32 {
	ne0 := int(t.NE[0])
	i1, i2, i3 := rowCoords(t, row)
	if t.IsContiguous() {
		full := t.F32Slice()
		linear := (i3*int(t.NE[2])+i2)*int(t.NE[1]) + i1
		return full[linear*ne0 : linear*ne0+ne0]
	}
	out := make([]float32, ne0)
	for i := range out {
		out[i] = t.GetF32At(int64(i), int64(i1), int64(i2), int64(i3))
	}
	return out
}

// rowCoords unflattens a row index (as produced by rowPartition, which
// iterates 0..NRows()) back into (i1,i2,i3) against t's own shape.
func rowCoords(t *tensor.Tensor, row int) (i1, i2, i3 int) {
	ne1, ne2 := int(t.NE[1]), int(t.NE[2])
	i1 = row % ne1
	rest := row / ne1
	i2 = rest % ne2
	i3 = rest / ne2
	return
}

func fwdBinary(op func(a, b float32) float32) func(Params, *tensor.Tensor) {
	return func(p Params, dst *tensor.Tensor) {
		rowPartition(dst, p, func(row int) {
			d := rowSlice(dst, row)
			a := rowSlice(dst.Src0, row)
			if dst.Src1.NB[0] != uintptr(dst.Src1.Dtype.Size()) {
				// src1's dim-0 isn't contiguous (e.g. a transposed view):
				// broadcast its row's leading element across the row
				// instead of gathering strided elements.
				i1, i2, i3 := rowCoords(dst.Src1, row)
				scalar := dst.Src1.GetF32At(0, int64(i1), int64(i2), int64(i3))
				for i := range d {
					d[i] = op(a[i], scalar)
				}
				return
			}
			b := rowSlice(dst.Src1, row)
			for i := range d {
				d[i] = op(a[i], b[i])
			}
		})
	}
}

func fwdUnary(op func(x float32) float32) func(Params, *tensor.Tensor) {
	return func(p Params, dst *tensor.Tensor) {
		rowPartition(dst, p, func(row int) {
			d := rowSlice(dst, row)
			a := rowSlice(dst.Src0, row)
			for i := range d {
				d[i] = op(a[i])
			}
		})
	}
}

var fwdAdd = fwdBinary(func(a, b float32) float32 { return a + b })
var fwdSub = fwdBinary(func(a, b float32) float32 { return a - b })
var fwdMul = fwdBinary(func(a, b float32) float32 { return a * b })
var fwdDiv = fwdBinary(func(a, b float32) float32 { return a / b })

var fwdSqr = fwdUnary(func(x float32) float32 { return x * x })
var fwdSqrt = fwdUnary(func(x float32) float32 { return float32(math.Sqrt(float64(x))) })
var fwdAbs = fwdUnary(func(x float32) float32 { return float32(math.Abs(float64(x))) })
var fwdSgn = fwdUnary(func(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
})
var fwdNeg = fwdUnary(func(x float32) float32 { return -x })
var fwdStep = fwdUnary(func(x float32) float32 {
	if x > 0 {
		return 1
	}
	return 0
})
var fwdRelu = fwdUnary(func(x float32) float32 {
	if x > 0 {
		return x
	}
	return 0
})

func fwdDup(p Params, dst *tensor.Tensor) {
	rowPartition(dst, p, func(row int) {
		copy(rowSlice(dst, row), rowSlice(dst.Src0, row))
	})
}

func fwdGelu(p Params, dst *tensor.Tensor) {
	if p.Phase != Compute {
		return
	}
	start, end := RowRange(int(dst.NRows()), p.Ith, p.Nth)
	for row := start; row < end; row++ {
		d := rowSlice(dst, row)
		a := rowSlice(dst.Src0, row)
		copy(d, a)
		GeluF32(d)
	}
}
