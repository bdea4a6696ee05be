package dtype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/dtype"
)

func TestElementSizes(t *testing.T) {
	require.Equal(t, 1, dtype.I8.Size())
	require.Equal(t, 2, dtype.I16.Size())
	require.Equal(t, 4, dtype.I32.Size())
	require.Equal(t, 2, dtype.F16.Size())
	require.Equal(t, 4, dtype.F32.Size())
}

func TestF16RoundTrip(t *testing.T) {
	for _, x := range []float32{0, 1, -1, 0.5, 100, -12345.25} {
		h := dtype.FromF32(x)
		got := h.ToF32()
		require.InDelta(t, x, got, 0.02*absf(x)+1e-3)
	}
}

func TestF16RoundTripTolerance(t *testing.T) {
	// For F32 magnitudes in [2^-14, 2^15], round-trip error through binary16
	// must stay within 2^-10 * |x|.
	for _, x := range []float32{1 << 0, 1 << 5, 1 << 10, 1 << 14} {
		h := dtype.FromF32(x)
		got := h.ToF32()
		require.LessOrEqual(t, absf(got-x), float32(1.0/1024)*x)
	}
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
