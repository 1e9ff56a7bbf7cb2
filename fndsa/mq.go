package fndsa

// Computations modulo q = 12289.
//
// Values modulo q are held in uint32 (or uint16, in polynomials), in the
// range [1,q] ("int" representation: value 0 is represented by q). The
// "ext" representation uses [0,q-1] instead and is the one used in
// encodings and in hash_to_point(). Montgomery multiplication uses
// R = 2^32.

const q = 12289

// -1/q mod 2^32
const q0i = 4143984639

// R mod q (i.e. 1 in Montgomery representation)
const mq_R = 10952

// R^2 mod q
const r2 = 5664

// Addition modulo q.
func mq_add(x uint32, y uint32) uint32 {
	// x + y - q is in [-(q-2), q]; we add q back if it is 0 or negative.
	z := x + y - q
	z += q & uint32(int32(z-1)>>31)
	return z
}

// Subtraction modulo q.
func mq_sub(x uint32, y uint32) uint32 {
	// x - y is in [-(q-1), q-1]; we add q if it is 0 or negative.
	z := x - y
	z += q & uint32(int32(z-1)>>31)
	return z
}

// Halving modulo q.
func mq_half(x uint32) uint32 {
	return (x + (q & -(x & 1))) >> 1
}

// Montgomery multiplication modulo q: return x*y/R mod q.
func mq_mmul(x uint32, y uint32) uint32 {
	// For x and y in [1,q], z = x*y is in [1,q^2]; the Montgomery
	// reduction output is then in [1,q] (it cannot be zero, since
	// z + w*q > 0).
	z := uint64(x) * uint64(y)
	w := uint64(uint32(z) * q0i)
	return uint32((z + w*q) >> 32)
}

// Division modulo q: return x/y mod q. If y = q (i.e. zero), then the
// result is q (zero).
func mq_div(x uint32, y uint32) uint32 {
	// 1/y = y^(q-2). We use a square-and-multiply in Montgomery
	// representation, over the 14 bits of q-2 = 12287, with a
	// constant-time selection at each step.
	ym := mq_mmul(y, r2)
	acc := uint32(mq_R)
	for i := 13; i >= 0; i-- {
		acc = mq_mmul(acc, acc)
		t := mq_mmul(acc, ym)
		m := -((uint32(q-2) >> i) & 1)
		acc ^= m & (acc ^ t)
	}

	// acc = R/y, hence mq_mmul(x, acc) = x/y.
	return mq_mmul(x, acc)
}

// Tables for the NTT: mq_gmb[k] = g^rev(k) and mq_igmb[k] = g^(-rev(k)),
// with g = 7 (a primitive 2048-th root of 1 modulo q), rev() being the
// bit-reversal over 10 bits; both are in Montgomery representation.
// The same tables serve all degrees up to 1024.
var mq_gmb, mq_igmb = make_mq_tables()

func make_mq_tables() ([]uint16, []uint16) {
	gmb := make([]uint16, 1024)
	igmb := make([]uint16, 1024)
	for k := 0; k < 1024; k++ {
		r := uint32(0)
		for j := 0; j < 10; j++ {
			r |= ((uint32(k) >> j) & 1) << (9 - j)
		}
		x := mq_pow_plain(7, r)
		y := mq_pow_plain(7, 2048-r)
		gmb[k] = uint16((x * mq_R) % q)
		igmb[k] = uint16((y * mq_R) % q)
	}
	return gmb, igmb
}

// Plain modular exponentiation, used only for building constant tables.
func mq_pow_plain(x uint32, e uint32) uint32 {
	r := uint32(1)
	for e != 0 {
		if (e & 1) != 0 {
			r = (r * x) % q
		}
		x = (x * x) % q
		e >>= 1
	}
	return r
}

// Convert a polynomial from "int" representation to NTT (in place).
func mqpoly_int_to_ntt(logn uint, a []uint16) {
	n := 1 << logn
	t := n
	for m := 1; m < n; m <<= 1 {
		ht := t >> 1
		j0 := 0
		for i := 0; i < m; i++ {
			s := uint32(mq_gmb[m+i])
			for j := j0; j < j0+ht; j++ {
				u := uint32(a[j])
				v := mq_mmul(uint32(a[j+ht]), s)
				a[j] = uint16(mq_add(u, v))
				a[j+ht] = uint16(mq_sub(u, v))
			}
			j0 += t
		}
		t = ht
	}
}

// Convert a polynomial from NTT to "int" representation (in place).
func mqpoly_ntt_to_int(logn uint, a []uint16) {
	n := 1 << logn
	t := 1
	for m := n; m > 1; m >>= 1 {
		hm := m >> 1
		dt := t << 1
		i := 0
		for j0 := 0; j0 < n; j0 += dt {
			s := uint32(mq_igmb[hm+i])
			for j := j0; j < j0+t; j++ {
				u := uint32(a[j])
				v := uint32(a[j+t])
				a[j] = uint16(mq_add(u, v))
				a[j+t] = uint16(mq_mmul(mq_sub(u, v), s))
			}
			i++
		}
		t = dt
	}

	// Divide by n: ni = R/n in Montgomery representation.
	ni := uint32(mq_R)
	for m := n; m > 1; m >>= 1 {
		ni = mq_half(ni)
	}
	for i := 0; i < n; i++ {
		a[i] = uint16(mq_mmul(uint32(a[i]), ni))
	}
}

// Convert a polynomial from "ext" ([0,q-1]) to "int" ([1,q])
// representation (in place).
func mqpoly_ext_to_int(logn uint, a []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		x := uint32(a[i])
		x += q & -((x - 1) >> 31)
		a[i] = uint16(x)
	}
}

// Convert a polynomial from "int" ([1,q]) to "ext" ([0,q-1])
// representation (in place).
func mqpoly_int_to_ext(logn uint, a []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		x := uint32(a[i])
		x &= -((x - q) >> 31)
		a[i] = uint16(x)
	}
}

// Convert a small polynomial (coefficients in [-127,+127]) to "int"
// representation.
func mqpoly_small_to_int(logn uint, f []int8, d []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		d[i] = uint16(mq_of_signed(int32(f[i])))
	}
}

// Convert a signed polynomial (coefficients in ]-q,+q]) to "int"
// representation.
func mqpoly_signed_to_int(logn uint, s []int16, d []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		d[i] = uint16(mq_of_signed(int32(s[i])))
	}
}

// Reduce x in ]-q,+q] into [1,q].
func mq_of_signed(x int32) uint32 {
	v := uint32(x + q)
	v -= q & -((q - v) >> 31)
	return v
}

// Get the centred value of x in [1,q]: the result is in
// [-(q-1)/2, +(q-1)/2].
func mq_to_signed(x uint32) int32 {
	y := int32(x)
	y -= q & ((int32(q>>1) - y) >> 31)
	return y
}

// Convert a polynomial from "int" representation to small coefficients
// (centred). If any coefficient is not in [-127,+127], then false is
// returned (the output is then partially written).
func mqpoly_int_to_small(logn uint, a []uint16, f []int8) bool {
	n := 1 << logn
	ok := uint32(0)
	for i := 0; i < n; i++ {
		x := mq_to_signed(uint32(a[i]))
		ok |= uint32(x+127) | uint32(127-x)
		f[i] = int8(x)
	}
	return (ok >> 31) == 0
}

// a <- a*b (both in NTT representation)
func mqpoly_mul_ntt(logn uint, a []uint16, b []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		a[i] = uint16(mq_mmul(mq_mmul(uint32(a[i]), uint32(b[i])), r2))
	}
}

// a <- a/b (both in NTT representation). If b is not invertible, then
// false is returned (a is then filled with unspecified values).
func mqpoly_div_ntt(logn uint, a []uint16, b []uint16) bool {
	n := 1 << logn
	r := uint32(0)
	for i := 0; i < n; i++ {
		x := uint32(b[i])
		r |= (q - x - 1) >> 31
		a[i] = uint16(mq_div(uint32(a[i]), x))
	}
	return r == 0
}

// a <- a - b ("int" representation)
func mqpoly_sub_int(logn uint, a []uint16, b []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		a[i] = uint16(mq_sub(uint32(a[i]), uint32(b[i])))
	}
}

// Get the squared norm of a polynomial in "int" representation, with
// coefficients interpreted as centred values. The result is saturated
// to 2^32-1 if it does not fit on 32 bits.
func mqpoly_sqnorm(logn uint, a []uint16) uint32 {
	n := 1 << logn
	s := uint32(0)
	ng := uint32(0)
	for i := 0; i < n; i++ {
		x := mq_to_signed(uint32(a[i]))
		s += uint32(x * x)
		ng |= s
	}
	return s | uint32(int32(ng)>>31)
}

// Get the squared norm of a signed polynomial, saturated to 2^32-1.
func signed_poly_sqnorm(logn uint, s []int16) uint32 {
	n := 1 << logn
	r := uint32(0)
	ng := uint32(0)
	for i := 0; i < n; i++ {
		x := int32(s[i])
		r += uint32(x * x)
		ng |= r
	}
	return r | uint32(int32(ng)>>31)
}

// Maximum squared norm of an acceptable signature (s1,s2), indexed by
// logn (1 to 10).
var l2bound = [11]uint32{
	0, 101498, 208714, 428865, 892039, 1852696,
	3842630, 7959734, 16468416, 34034726, 70265242,
}

// Tell whether a squared norm (of the aggregate vector (s1,s2)) is
// acceptable for a signature.
func mqpoly_sqnorm_is_acceptable(logn uint, n uint32) bool {
	return n <= l2bound[logn]
}

// Tell whether a small polynomial is invertible modulo X^n+1 and q.
// tmp[] must have room for n elements.
func mqpoly_is_invertible(logn uint, f []int8, tmp []uint16) bool {
	n := 1 << logn
	t := tmp[:n]
	mqpoly_small_to_int(logn, f, t)
	mqpoly_int_to_ntt(logn, t)
	r := uint32(0)
	for i := 0; i < n; i++ {
		r |= (q - uint32(t[i]) - 1) >> 31
	}
	return r == 0
}
