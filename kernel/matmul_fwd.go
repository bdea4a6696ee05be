package kernel

import "github.com/sbl8/ggtensor/tensor"

// rowAt returns the ne0 F32 elements at (row, i2, i3), honoring t's own
// byte strides. When t is dense row-major this is a zero-copy slice into
// its backing array; otherwise — t being the result of Transpose or
// Permute, whose nb[0] is no longer sizeof(F32) — every element is
// gathered individually, since a non-unit stride can't be expressed as a
// Go slice.
func rowAt(t *tensor.Tensor, row, i2, i3 int) []float32 {
	ne0 := int(t.NE[0])
	if t.IsContiguous() {
		full := t.F32Slice()
		linear := (i3*int(t.NE[2])+i2)*int(t.NE[1]) + row
		return full[linear*ne0 : linear*ne0+ne0]
	}
	out := make([]float32, ne0)
	for i := range out {
		out[i] = t.GetF32At(int64(i), int64(row), int64(i2), int64(i3))
	}
	return out
}

// fwdMulMat implements the row regime of MUL_MAT: each worker owns a
// uniform slice of output rows (batch-major), and every output cell is a
// vector dot product. The BLAS regime (SgemmRowMajor) is
// available as a batch-level accelerator via UseBLASMulMat for callers that
// want to opt into it explicitly; the default dispatch always takes this
// scalar-correct path so results never depend on an external library being
// present.
func fwdMulMat(p Params, dst *tensor.Tensor) {
	if p.Phase != Compute {
		return
	}
	a, b := dst.Src0, dst.Src1
	m := int(a.NE[1])
	n := int(b.NE[1])
	batches := int(a.NE[2]) * int(a.NE[3])

	totalRows := m * batches
	start, end := RowRange(totalRows, p.Ith, p.Nth)
	for gr := start; gr < end; gr++ {
		batch := gr / m
		i1a := gr % m
		i2 := batch % int(a.NE[2])
		i3 := batch / int(a.NE[2])
		aRow := rowAt(a, i1a, i2, i3)
		for j := 0; j < n; j++ {
			bRow := rowAt(b, j, i2, i3)
			v := DotF32(aRow, bRow)
			dst.SetF32At(int64(i1a), int64(j), int64(i2), int64(i3), v)
		}
	}
}

// UseBLASMulMat recomputes dst via the BLAS hook for a single (i2=i3=0)
// batch, for callers wiring an explicit BLAS-accelerated path over 2-D
// operands large enough to clear BLASThreshold.
func UseBLASMulMat(dst *tensor.Tensor) {
	a, b := dst.Src0, dst.Src1
	m, k, n := int(a.NE[1]), int(a.NE[0]), int(b.NE[1])
	// dst's fast dimension is a's row count, so dst read row-major is
	// D[n,m] = b * a^T.
	SgemmRowMajor(n, m, k, b.F32Slice(), k, a.F32Slice(), k, dst.F32Slice(), m)
}

func fwdScale(p Params, dst *tensor.Tensor) {
	rowPartition(dst, p, func(row int) {
		scale := dst.Src1.GetF32_1D(0)
		ScaleF32(rowSlice(dst, row), scale)
	})
}

func fwdCpy(p Params, dst *tensor.Tensor) {
	rowPartition(dst, p, func(row int) {
		copy(rowSlice(dst, row), rowSlice(dst.Src0, row))
	})
}

func fwdNoop(Params, *tensor.Tensor) {}
