package dtype

import "github.com/x448/float16"

// F16 wraps the bit pattern of an IEEE 754 binary16 value. The codec itself
// is delegated to x448/float16 instead of hand-rolling the usual
// "magic constant" bit-twiddling routine: the library implements the same
// standard and matches it to the last bit.
type F16 uint16

// ToF32 converts a binary16 bit pattern to float32.
func (h F16) ToF32() float32 {
	return float16.Frombits(uint16(h)).Float32()
}

// FromF32 converts a float32 to its nearest binary16 bit pattern. NaN is
// clamped to the canonical quiet-NaN pattern 0x7E00.
func FromF32(f float32) F16 {
	h := float16.Fromfloat32(f)
	if h.IsNaN() {
		return F16(0x7E00)
	}
	return F16(h.Bits())
}
