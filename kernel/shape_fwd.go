package kernel

import "github.com/sbl8/ggtensor/tensor"

// fwdGetRows gathers rows of src0 at the positions named by the I32 index
// vector src1 into dst, single-threaded (a gather has no useful row
// partitioning).
func fwdGetRows(p Params, dst *tensor.Tensor) {
	if p.Phase != Compute || p.Ith != 0 {
		return
	}
	src := dst.Src0
	idx := dst.Src1.I32Slice()
	ne0 := int(src.NE[0])
	srcFull := src.F32Slice()
	dstFull := dst.F32Slice()
	for i, rowIdx := range idx {
		copy(dstFull[i*ne0:i*ne0+ne0], srcFull[int(rowIdx)*ne0:int(rowIdx)*ne0+ne0])
	}
}
