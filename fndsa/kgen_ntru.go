package fndsa

import (
	"math"
	"math/big"
)

// NTRU equation solving.
//
// Given small polynomials f and g, solving the NTRU equation means finding
// small polynomials F and G such that f*G - g*F = q (modulo X^n+1).
//
// The solver works over big integers, with the usual tower of field
// norms: the equation for (f, g) in degree n is derived from a solution
// for (N(f), N(g)) in degree n/2, with N(f)(x^2) = f(x)*f(-x). At degree
// 1, the extended GCD of the two integers provides the solution. At each
// level, the lifted solution is then size-reduced against (f, g) with
// Babai's round-off, using floating-point approximations of the operands.
//
// A solution may fail to be found, e.g. if the resultants of f and g with
// X^n+1 are not prime to each other, or if the reduced (F, G) does not
// fit in 8-bit coefficients. This code is deterministic: for a given
// (f, g), the same solution is always returned.

// Maximum number of size-reduction rounds at a given level. Reduction
// normally ends after a few rounds.
const ntru_max_reduce_rounds = 10000

var big_one = big.NewInt(1)

// Solve the NTRU equation for the provided (f,g). The (F,G) solution,
// if found, is written into the provided arrays.
// Returned value is true on success, false on error.
//
// math/big operations are not constant-time: the running time depends
// on the sizes of the intermediate values, and thus leaks information
// on f and g. Key generation should run where its timing cannot be
// observed; signing does not use this code.
func solve_NTRU(logn uint, f []int8, g []int8, F []int8, G []int8) bool {
	fb := poly_big_of_small(logn, f)
	gb := poly_big_of_small(logn, g)
	Fb, Gb, ok := ntru_solve_big(logn, fb, gb)
	if !ok {
		return false
	}

	// Convert F and G to 8-bit representation, and check that they are
	// within the expected range.
	if !poly_big_to_small(logn, F, Fb, 127) {
		return false
	}
	if !poly_big_to_small(logn, G, Gb, 127) {
		return false
	}
	return ntru_check(logn, f, g, F, G)
}

// Recursive solver over big integers.
func ntru_solve_big(logn uint, f []*big.Int, g []*big.Int) ([]*big.Int, []*big.Int, bool) {
	if logn == 0 {
		// u*f + v*g = 1, hence f*(q*u) - g*(-q*v) = q.
		u := new(big.Int)
		v := new(big.Int)
		d := new(big.Int).GCD(u, v, f[0], g[0])
		if d.Cmp(big_one) != 0 {
			return nil, nil, false
		}
		bq := big.NewInt(q)
		F := new(big.Int).Mul(v, bq)
		F.Neg(F)
		G := new(big.Int).Mul(u, bq)
		return []*big.Int{F}, []*big.Int{G}, true
	}

	fc := poly_big_galois_conjugate(f)
	gc := poly_big_galois_conjugate(g)
	Fp, Gp, ok := ntru_solve_big(logn-1,
		poly_big_field_norm(logn, f, fc), poly_big_field_norm(logn, g, gc))
	if !ok {
		return nil, nil, false
	}

	// F = F'(x^2)*g(-x) and G = G'(x^2)*f(-x)
	F := poly_big_mul(poly_big_lift(Fp), gc)
	G := poly_big_mul(poly_big_lift(Gp), fc)
	if !poly_big_reduce(logn, f, g, F, G) {
		return nil, nil, false
	}
	return F, G, true
}

// Make a new polynomial with n big integer coefficients (all zero).
func new_poly_big(n int) []*big.Int {
	p := make([]*big.Int, n)
	for i := range p {
		p[i] = new(big.Int)
	}
	return p
}

func poly_big_of_small(logn uint, f []int8) []*big.Int {
	n := 1 << logn
	p := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		p[i] = big.NewInt(int64(f[i]))
	}
	return p
}

// Convert a big polynomial into 8-bit coefficients; false is returned if
// any coefficient is not in [-lim,+lim].
func poly_big_to_small(logn uint, d []int8, s []*big.Int, lim int64) bool {
	n := 1 << logn
	for i := 0; i < n; i++ {
		if !s[i].IsInt64() {
			return false
		}
		x := s[i].Int64()
		if x < -lim || x > lim {
			return false
		}
		d[i] = int8(x)
	}
	return true
}

// Return f(-x).
func poly_big_galois_conjugate(f []*big.Int) []*big.Int {
	r := make([]*big.Int, len(f))
	for i := range f {
		r[i] = new(big.Int).Set(f[i])
		if (i & 1) != 0 {
			r[i].Neg(r[i])
		}
	}
	return r
}

// Field norm: given f (degree 2^logn) and fc = f(-x), return N(f), of
// degree 2^(logn-1), such that N(f)(x^2) = f(x)*f(-x). The product only
// has even-indexed coefficients.
func poly_big_field_norm(logn uint, f []*big.Int, fc []*big.Int) []*big.Int {
	ff := poly_big_mul(f, fc)
	hn := 1 << (logn - 1)
	r := make([]*big.Int, hn)
	for i := 0; i < hn; i++ {
		r[i] = ff[2*i]
	}
	return r
}

// Return F(x^2) (twice the degree).
func poly_big_lift(f []*big.Int) []*big.Int {
	r := new_poly_big(2 * len(f))
	for i := range f {
		r[2*i].Set(f[i])
	}
	return r
}

// Get the maximum bit length of the coefficients, rounded up to a
// multiple of 8.
func poly_big_bitsize(f []*big.Int) int {
	m := 0
	for _, x := range f {
		if b := x.BitLen(); b > m {
			m = b
		}
	}
	return (m + 7) &^ 7
}

// Product of two polynomials modulo X^n+1 (n = len(a) = len(b)).
func poly_big_mul(a []*big.Int, b []*big.Int) []*big.Int {
	n := len(a)
	ab := big_karatsuba(a, b)
	r := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		r[i] = new(big.Int).Sub(ab[i], ab[i+n])
	}
	return r
}

// Plain product of two polynomials of n coefficients (n is a power of
// two); the result has 2*n coefficients (the last one is zero).
func big_karatsuba(a []*big.Int, b []*big.Int) []*big.Int {
	n := len(a)
	ab := new_poly_big(2 * n)
	if n <= 16 {
		t := new(big.Int)
		for i := 0; i < n; i++ {
			if a[i].Sign() == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				t.Mul(a[i], b[j])
				ab[i+j].Add(ab[i+j], t)
			}
		}
		return ab
	}

	hn := n >> 1
	ax := make([]*big.Int, hn)
	bx := make([]*big.Int, hn)
	for i := 0; i < hn; i++ {
		ax[i] = new(big.Int).Add(a[i], a[i+hn])
		bx[i] = new(big.Int).Add(b[i], b[i+hn])
	}
	a0b0 := big_karatsuba(a[:hn], b[:hn])
	a1b1 := big_karatsuba(a[hn:], b[hn:])
	axbx := big_karatsuba(ax, bx)
	for i := 0; i < n; i++ {
		axbx[i].Sub(axbx[i], a0b0[i])
		axbx[i].Sub(axbx[i], a1b1[i])
	}
	for i := 0; i < n; i++ {
		ab[i].Add(ab[i], a0b0[i])
		ab[i+n].Add(ab[i+n], a1b1[i])
		ab[i+hn].Add(ab[i+hn], axbx[i])
	}
	return ab
}

// Convert a big polynomial to floating-point, after a right shift by sh
// bits (rounding toward -infinity). The shifted coefficients MUST fit on
// 53 bits.
func poly_big_to_f64(logn uint, d []f64, f []*big.Int, sh int) {
	n := 1 << logn
	t := new(big.Int)
	for i := 0; i < n; i++ {
		t.Rsh(f[i], uint(sh))
		d[i] = f64_of(t.Int64())
	}
}

// Size-reduce (F, G) with regard to (f, g) (in place): F and G are
// replaced with F - k*f and G - k*g, for the polynomial k which rounds
// (F*adj(f) + G*adj(g))/(f*adj(f) + g*adj(g)). Since the coefficients
// may be large, they are approximated with their top 53 bits, which may
// require several rounds.
func poly_big_reduce(logn uint, f []*big.Int, g []*big.Int,
	F []*big.Int, G []*big.Int) bool {

	n := 1 << logn
	tmp := make([]f64, 5*n)
	fa := tmp[:n]
	ga := tmp[n : 2*n]
	den := tmp[2*n : 3*n]
	Fa := tmp[3*n : 4*n]
	Ga := tmp[4*n : 5*n]

	size := max(53, poly_big_bitsize(f), poly_big_bitsize(g))
	poly_big_to_f64(logn, fa, f, size-53)
	poly_big_to_f64(logn, ga, g, size-53)
	fpoly_FFT(logn, fa)
	fpoly_FFT(logn, ga)
	fpoly_mulselfadj_fft(logn, den, fa)
	fpoly_mulselfadj_add_fft(logn, den, den, ga)

	k := new_poly_big(n)
	for round := 0; round < ntru_max_reduce_rounds; round++ {
		Size := max(53, poly_big_bitsize(F), poly_big_bitsize(G))
		if Size < size {
			return true
		}
		poly_big_to_f64(logn, Fa, F, Size-53)
		poly_big_to_f64(logn, Ga, G, Size-53)
		fpoly_FFT(logn, Fa)
		fpoly_FFT(logn, Ga)

		// Fa <- (Fa*adj(fa) + Ga*adj(ga))/den
		fpoly_muladj_fft(logn, Fa, Fa, fa)
		fpoly_muladj_add_fft(logn, Fa, Fa, Ga, ga)
		fpoly_div_autoadj_fft(logn, Fa, Fa, den)
		fpoly_iFFT(logn, Fa)

		zero := true
		for i := 0; i < n; i++ {
			x := math.RoundToEven(Fa[i])
			if !(math.Abs(x) < 0x1p62) {
				return false
			}
			k[i].SetInt64(int64(x))
			if k[i].Sign() != 0 {
				zero = false
			}
		}
		if zero {
			return true
		}

		fk := poly_big_mul(f, k)
		gk := poly_big_mul(g, k)
		sh := uint(Size - size)
		for i := 0; i < n; i++ {
			F[i].Sub(F[i], fk[i].Lsh(fk[i], sh))
			G[i].Sub(G[i], gk[i].Lsh(gk[i], sh))
		}
	}
	return false
}

// Check that f*G - g*F = q (modulo X^n+1).
func ntru_check(logn uint, f []int8, g []int8, F []int8, G []int8) bool {
	n := 1 << logn
	for i := 0; i < n; i++ {
		s := int32(0)
		for j := 0; j < n; j++ {
			k := i - j
			x := int32(f[j])*int32(G[k&(n-1)]) - int32(g[j])*int32(F[k&(n-1)])
			if k < 0 {
				x = -x
			}
			s += x
		}
		if i == 0 {
			s -= q
		}
		if s != 0 {
			return false
		}
	}
	return true
}

// Check that a given (f,g) has an acceptable orthogonalized norm.
// tmp[] must have room for 3*n elements.
func check_ortho_norm(logn uint, f []int8, g []int8, tmp []f64) bool {
	n := 1 << logn
	rt1 := tmp[:n]
	rt2 := tmp[n : 2*n]
	rt3 := tmp[2*n : 3*n]
	fpoly_set_small(logn, rt1, f)
	fpoly_set_small(logn, rt2, g)
	fpoly_FFT(logn, rt1)
	fpoly_FFT(logn, rt2)
	fpoly_invnorm2_fft(logn, rt3, rt1, rt2)
	fpoly_adj(logn, rt1, rt1)
	fpoly_adj(logn, rt2, rt2)
	fpoly_mulconst(logn, rt1, rt1, f64_of_i32(q))
	fpoly_mulconst(logn, rt2, rt2, f64_of_i32(q))
	fpoly_mul_autoadj_fft(logn, rt1, rt1, rt3)
	fpoly_mul_autoadj_fft(logn, rt2, rt2, rt3)
	fpoly_iFFT(logn, rt1)
	fpoly_iFFT(logn, rt2)
	sn := f64_ZERO
	for i := 0; i < n; i++ {
		sn = f64_add(sn, f64_add(f64_sqr(rt1[i]), f64_sqr(rt2[i])))
	}

	// 1.17^2*q = 72251709809335/2^32 (rounded)
	return sn < f64_scaled(72251709809335, -32)
}
