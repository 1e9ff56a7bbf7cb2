package fndsa

import (
	"math"
)

// Floating-point support for signing and key expansion.
//
// All operations go through the small helpers below. Each helper wraps its
// result in an explicit float64() conversion: the Go language rules then
// forbids fusing the operation with a neighbouring one (e.g. into a FMA
// opcode), so the computed values are the same on all architectures and
// the operation order written in the callers is the one that is executed.

type f64 = float64

const f64_ZERO = 0.0

var f64_NZERO = math.Float64frombits(0x8000000000000000)

const f64_ONE = 1.0

// Convert a f64 value to its 64-bit representation.
func f64_to_bits(x f64) uint64 {
	return math.Float64bits(x)
}

// Make a f64 value from its 64-bit representation.
func f64_from_bits(v uint64) f64 {
	return math.Float64frombits(v)
}

// Convert integer i to a floating-point value (with appropriate rounding).
// The source integer MUST NOT be equal to -2^63.
func f64_of(i int64) f64 {
	return float64(i)
}

// Same as f64_of() but input is 32-bit.
func f64_of_i32(i int32) f64 {
	return float64(i)
}

// Given integer i and scale sc, return i*2^sc. Source integer MUST be
// in the [-(2^63-1), +(2^63-1)] range (i.e. value -2^63 is forbidden).
func f64_scaled(i int64, sc int32) f64 {
	return math.Ldexp(float64(i), int(sc))
}

// Round a value toward zero. Source value must be less than 2^31 in
// absolute value.
func f64_trunc(x f64) int32 {
	return int32(x)
}

// Round x to the nearest 32-bit integer (roundTiesToEven); input must be
// less than 2^31 in absolute value.
func f64_rint(x f64) int32 {
	// The standard library function might not be constant-time. If
	// x >= 0, then x + 2^52 is rounded to the nearest integer with
	// exactly the right rules; we do it twice to cover the case of x < 0.
	rp := int32(int64(float64(x+4503599627370496.0)) - 4503599627370496)
	rn := int32(int64(float64(x-4503599627370496.0)) + 4503599627370496)

	// If x >= 0 then the result is rp; otherwise, the result is rn.
	sx := int32(int64(f64_to_bits(x)) >> 63)
	return rp ^ (sx & (rp ^ rn))
}

// Round x toward -infinity; input must be less than 2^31 in absolute
// value.
func f64_floor(x f64) int32 {
	// Truncate, then subtract 1 if the result is greater than the
	// source, which can happen only if the source is negative. The
	// order on bit patterns matches the order on values when the sign
	// bit is zero (and the reverse order when the sign bit is one).
	r := int32(x)
	y := float64(r)
	xv := f64_to_bits(x)
	yv := f64_to_bits(y)
	return r - int32((((yv-xv)&xv&yv)|(xv^yv))>>63)
}

// Return floor(x*2^63) for x in [0,1[.
func f64_mtwop63(x f64) uint64 {
	return uint64(int64(f64_mul(x, 9223372036854775808.0)))
}

// Addition.
func f64_add(x f64, y f64) f64 {
	return float64(x + y)
}

// Subtraction.
func f64_sub(x f64, y f64) f64 {
	return float64(x - y)
}

// Negation.
func f64_neg(x f64) f64 {
	return float64(-x)
}

// Halving.
func f64_half(x f64) f64 {
	return float64(x * 0.5)
}

// Doubling.
func f64_double(x f64) f64 {
	return float64(x * 2.0)
}

// Multiplication.
func f64_mul(x f64, y f64) f64 {
	return float64(x * y)
}

// Squaring.
func f64_sqr(x f64) f64 {
	return float64(x * x)
}

// Division.
func f64_div(x f64, y f64) f64 {
	return float64(x / y)
}

// Inversion.
func f64_inv(x f64) f64 {
	return float64(1.0 / x)
}

// Square root. The compiler maps math.Sqrt to the hardware opcode on the
// supported architectures, which is correctly rounded.
func f64_sqrt(x f64) f64 {
	return float64(math.Sqrt(x))
}

// Get the absolute value.
func f64_abs(x f64) f64 {
	return math.Float64frombits(math.Float64bits(x) & 0x7FFFFFFFFFFFFFFF)
}

// Right shift of a 64-bit value by a potentially secret count; the plain
// shift opcode is constant-time on the supported 64-bit architectures.
func ursh(x uint64, n uint32) uint64 {
	return x >> n
}

// Complex multiplication: (a_re + i*a_im)*(b_re + i*b_im).
func flc_mul(a_re f64, a_im f64, b_re f64, b_im f64) (f64, f64) {
	return f64_sub(f64_mul(a_re, b_re), f64_mul(a_im, b_im)),
		f64_add(f64_mul(a_re, b_im), f64_mul(a_im, b_re))
}

// Complex multiplication by a conjugate: (a_re + i*a_im)*(b_re - i*b_im).
func flc_muladj(a_re f64, a_im f64, b_re f64, b_im f64) (f64, f64) {
	return f64_add(f64_mul(a_re, b_re), f64_mul(a_im, b_im)),
		f64_sub(f64_mul(a_im, b_re), f64_mul(a_re, b_im))
}
