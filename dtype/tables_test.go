package dtype_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sbl8/ggtensor/dtype"
)

func TestGeluZeroAndOne(t *testing.T) {
	require.InDelta(t, 0.0, dtype.GELU(0), 1e-6)
	require.InDelta(t, 0.8413, dtype.GELU(1), 1e-3)
}

func TestGeluTableMonotonic(t *testing.T) {
	table := dtype.BuildGELUTable()
	xs := []float32{-6, -3, -1, 0, 1, 3, 6}
	prev := float32(-1e9)
	for _, x := range xs {
		v := table.Lookup(x)
		require.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestExpTableMatchesMath(t *testing.T) {
	table := dtype.BuildExpTable()
	got := table.Lookup(1.0)
	require.InDelta(t, 2.71828, got, 0.05)
}
