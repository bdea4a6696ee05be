package kernel

import "github.com/sbl8/ggtensor/tensor"

// convRow computes the full output row for one channel of a 1-D
// convolution: a is the kernel tensor {nk, inChans, outChans}, b is the
// signal tensor {length, inChans}, stride selects 1S vs 2S.
func convRow(a, b *tensor.Tensor, outChan, stride int, dst []float32) {
	nk := int(a.NE[0])
	h := nk / 2
	inChans := int(a.NE[1])
	length := int(b.NE[0])
	aFull := a.F32Slice()
	bFull := b.F32Slice()

	for oi := range dst {
		i0 := oi * stride
		var sum float32
		for ic := 0; ic < inChans; ic++ {
			bRow := bFull[ic*length : ic*length+length]
			aRow := aFull[(outChan*inChans+ic)*nk : (outChan*inChans+ic)*nk+nk]
			for k := -h; k <= h; k++ {
				pos := i0 + k
				if pos < 0 || pos >= length {
					continue
				}
				sum += aRow[k+h] * bRow[pos]
			}
		}
		dst[oi] = sum
	}
}

func fwdConv1D1S(p Params, dst *tensor.Tensor) {
	rowPartition(dst, p, func(outChan int) {
		convRow(dst.Src0, dst.Src1, outChan, 1, rowSlice(dst, outChan))
	})
}

func fwdConv1D2S(p Params, dst *tensor.Tensor) {
	rowPartition(dst, p, func(outChan int) {
		convRow(dst.Src0, dst.Src1, outChan, 2, rowSlice(dst, outChan))
	})
}
