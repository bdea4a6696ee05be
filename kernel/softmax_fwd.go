package kernel

import (
	"math"

	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/tensor"
)

func tabledExp(x float32) float32 {
	return arena.ExpTable().Lookup(x)
}

// fwdSoftMax computes a per-row softmax using the tabled exp, subtracting
// the row max first for stability. -inf inputs map to 0.
func fwdSoftMax(p Params, dst *tensor.Tensor) {
	rowPartition(dst, p, func(row int) {
		src := rowSlice(dst.Src0, row)
		d := rowSlice(dst, row)

		max := float32(math.Inf(-1))
		for _, v := range src {
			if v > max {
				max = v
			}
		}

		var sum float64
		for i, v := range src {
			if math.IsInf(float64(v), -1) {
				d[i] = 0
				continue
			}
			d[i] = tabledExp(v - max)
			sum += float64(d[i])
		}
		if sum <= 0 {
			sum = 1
		}
		inv := float32(1.0 / sum)
		for i := range d {
			d[i] *= inv
		}
	})
}
