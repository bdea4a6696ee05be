package kernel

import (
	"gonum.org/v1/gonum/blas/blas32"
)

// BLASThreshold is the minimum ne0/ne1/ne10 for the BLAS regime to engage.
const BLASThreshold = 32

// SgemmRowMajor computes D[M,N] = Y[M,K] * X[N,K]^T, row-major, via
// gonum's blas32 Gemm.
func SgemmRowMajor(m, n, k int, y []float32, ldY int, x []float32, ldX int, d []float32, ldD int) {
	yMat := blas32.General{Rows: m, Cols: k, Stride: ldY, Data: y}
	xMat := blas32.General{Rows: n, Cols: k, Stride: ldX, Data: x}
	dMat := blas32.General{Rows: m, Cols: n, Stride: ldD, Data: d}
	blas32.Implementation().Sgemm(
		blas32.NoTrans, blas32.Trans,
		m, n, k,
		1.0, yMat.Data, ldY,
		xMat.Data, ldX,
		0.0, dMat.Data, ldD,
	)
}
