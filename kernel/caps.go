package kernel

// Caps reports which accelerated code paths this build of the kernel
// backend exposes. This build is scalar-only: every CPU feature flag is
// false, and BLAS availability is reported separately since it is wired
// through gonum rather than CPU feature detection.
type Caps struct {
	AVX2     bool
	AVX512   bool
	NEON     bool
	FP16VA   bool
	WasmSIMD bool
	BLAS     bool
}

// HostCaps returns the capability set of the current backend build.
func HostCaps() Caps {
	return Caps{BLAS: true}
}
