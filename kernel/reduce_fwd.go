package kernel

import (
	"math"

	"github.com/sbl8/ggtensor/tensor"
)

// fwdSum reduces every element of src0 into dst[0] with an F64 accumulator,
// single-threaded since there is only one output element to race over.
func fwdSum(p Params, dst *tensor.Tensor) {
	if p.Phase != Compute || p.Ith != 0 {
		return
	}
	var acc float64
	for _, v := range dst.Src0.F32Slice() {
		acc += float64(v)
	}
	dst.SetF32_1D(0, float32(acc))
}

// fwdMean reduces each row of src0 to its mean, single-threaded.
func fwdMean(p Params, dst *tensor.Tensor) {
	if p.Phase != Compute || p.Ith != 0 {
		return
	}
	src := dst.Src0
	ne0 := int(src.NE[0])
	nrows := int(src.NRows())
	out := dst.F32Slice()
	for row := 0; row < nrows; row++ {
		var acc float64
		for _, v := range rowSlice(src, row) {
			acc += float64(v)
		}
		out[row] = float32(acc / float64(ne0))
	}
}

// fwdRepeat tiles src0 across dst's shape, row-partitioned over dst's rows.
func fwdRepeat(p Params, dst *tensor.Tensor) {
	rowPartition(dst, p, func(row int) {
		d := rowSlice(dst, row)
		src0 := dst.Src0
		srcNe0 := int(src0.NE[0])
		srcRows := int(src0.NRows())
		srcRow := row % srcRows
		s := rowSlice(src0, srcRow)
		for i := range d {
			d[i] = s[i%srcNe0]
		}
	})
}

// fwdNorm computes y = (x - mean(x)) / sqrt(var(x) + eps) per row.
func fwdNorm(p Params, dst *tensor.Tensor) {
	const eps = 1e-5
	rowPartition(dst, p, func(row int) {
		src := rowSlice(dst.Src0, row)
		d := rowSlice(dst, row)
		var mean float64
		for _, v := range src {
			mean += float64(v)
		}
		mean /= float64(len(src))
		var variance float64
		for _, v := range src {
			dv := float64(v) - mean
			variance += dv * dv
		}
		variance /= float64(len(src))
		inv := 1.0 / math.Sqrt(variance+eps)
		for i, v := range src {
			d[i] = float32((float64(v) - mean) * inv)
		}
	})
}
