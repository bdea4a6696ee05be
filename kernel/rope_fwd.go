package kernel

import (
	"math"

	"github.com/sbl8/ggtensor/tensor"
)

// fwdRope rotates pairs (x0, x1) in the first n_dims of dim 0 by
// theta = pos * 10000^(-i/n_dims), where pos = n_past + row: each row is a
// distinct position in the sequence, so its rotation angle must advance
// with it rather than reusing n_past for every row.
func fwdRope(p Params, dst *tensor.Tensor) {
	nPast := int64(dst.Params.NPast)
	nDims := int(dst.Params.NDims)
	rowPartition(dst, p, func(row int) {
		src := rowSlice(dst.Src0, row)
		d := rowSlice(dst, row)
		copy(d, src)
		i1, _, _ := rowCoords(dst, row)
		pos := float64(nPast + int64(i1))
		for i := 0; i+1 < nDims; i += 2 {
			theta := pos * math.Pow(10000, -float64(i)/float64(nDims))
			cosT := float32(math.Cos(theta))
			sinT := float32(math.Sin(theta))
			x0, x1 := src[i], src[i+1]
			d[i] = x0*cosT - x1*sinT
			d[i+1] = x0*sinT + x1*cosT
		}
	})
}
