package dtype

import "math"

// TableSize is the number of entries in the GELU and exp lookup tables: one
// per possible F16 bit pattern.
const TableSize = 1 << 16

// Table is a 65536-entry, F16-valued lookup table (128 KiB), indexed by an
// F16 bit pattern and yielding another F16 bit pattern.
type Table [TableSize]uint16

// GELU is the tanh approximation of the Gaussian Error Linear Unit.
func GELU(x float32) float32 {
	const c = 0.7978845608028654 // sqrt(2/pi)
	x64 := float64(x)
	return float32(0.5 * x64 * (1.0 + math.Tanh(c*x64*(1.0+0.044715*x64*x64))))
}

// BuildGELUTable computes the GELU lookup table: entry h holds the F16
// encoding of GELU(f16_to_f32(h)).
func BuildGELUTable() *Table {
	var t Table
	for i := 0; i < TableSize; i++ {
		x := F16(uint16(i)).ToF32()
		t[i] = uint16(FromF32(GELU(x)))
	}
	return &t
}

// BuildExpTable computes the exp lookup table used by the tabled softmax:
// entry h holds the F16 encoding of exp(f16_to_f32(h)).
func BuildExpTable() *Table {
	var t Table
	for i := 0; i < TableSize; i++ {
		x := F16(uint16(i)).ToF32()
		t[i] = uint16(FromF32(float32(math.Exp(float64(x)))))
	}
	return &t
}

// Lookup resolves a float32 through the table via its nearest F16 encoding,
// returning the table's F16-quantized result as float32.
func (t *Table) Lookup(x float32) float32 {
	h := FromF32(x)
	return F16(t[uint16(h)]).ToF32()
}
