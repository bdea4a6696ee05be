package kernel

import (
	"math"

	"github.com/sbl8/ggtensor/tensor"
)

// fwdDiagMaskInf sets every element at column i > n_past+row to -inf,
// copying the rest from src0 unchanged.
func fwdDiagMaskInf(p Params, dst *tensor.Tensor) {
	nPast := int(dst.Params.NPast)
	rowPartition(dst, p, func(row int) {
		src := rowSlice(dst.Src0, row)
		d := rowSlice(dst, row)
		for i := range d {
			if i > nPast+row {
				d[i] = float32(math.Inf(-1))
			} else {
				d[i] = src[i]
			}
		}
	})
}
