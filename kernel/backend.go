// Package kernel implements the scalar compute primitives (dot, mad, scale,
// the tabled gelu/exp) and the per-op forward kernels the graph executor
// dispatches into.
//
// The primitives here are a portable scalar baseline; a vector-accelerated
// backend would satisfy the same signatures and must stay within last-bit
// rounding of
// these, per the same section.
package kernel

import (
	"github.com/sbl8/ggtensor/arena"
	"github.com/sbl8/ggtensor/dtype"
)

// DotF32 computes the dot product of two equal-length float32 slices.
func DotF32(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// MadF32 computes dst[i] += a[i]*scale for every i, in place.
func MadF32(dst, a []float32, scale float32) {
	for i := range dst {
		dst[i] += a[i] * scale
	}
}

// ScaleF32 computes dst[i] *= scale for every i, in place.
func ScaleF32(dst []float32, scale float32) {
	for i := range dst {
		dst[i] *= scale
	}
}

// GeluF32 applies the tabled GELU approximation to every element of dst in
// place, looking each value up by its F16 bit pattern.
func GeluF32(dst []float32) {
	table := arena.GELUTable()
	for i, x := range dst {
		dst[i] = table.Lookup(x)
	}
}

// ExpF32 applies the tabled exp approximation to every element of dst in
// place, used by the softmax kernel.
func ExpF32(dst []float32) {
	table := arena.ExpTable()
	for i, x := range dst {
		dst[i] = table.Lookup(x)
	}
}

// F16ToF32 converts a slice of F16 bit patterns to float32.
func F16ToF32(src []uint16, dst []float32) {
	for i, h := range src {
		dst[i] = dtype.F16(h).ToF32()
	}
}

// F32ToF16 converts a slice of float32 to F16 bit patterns.
func F32ToF16(src []float32, dst []uint16) {
	for i, f := range src {
		dst[i] = uint16(dtype.FromF32(f))
	}
}
