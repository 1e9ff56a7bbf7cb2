package fndsa

import (
	"math"
	"math/bits"
)

// FFT over polynomials modulo X^n+1, with n = 2^logn and 1 <= logn <= 10.
//
// A real polynomial f of degree less than n is represented in FFT domain
// by its values on the n/2 roots of X^n+1 with a positive imaginary part
// (the other values are their conjugates). For n = 2^logn values in
// f[], the value at the root of index i (0 <= i < n/2) has its real part
// in f[i] and its imaginary part in f[i + n/2]. For logn = 1, the unique
// root is i, and the representation matches the coefficients themselves.

// gm_tab[2*k] and gm_tab[2*k+1] are the real and imaginary parts of
// exp(i*pi*(2*rev_j(k-2^j)+1)/2^(j+1)), for 2^j <= k < 2^(j+1) (rev_j()
// reverses the j low bits of its input). Entries 0 and 1 are unused.
var gm_tab = make_gm_tab()

// Compute the FFT twiddle factors; the table is filled once and never
// modified afterwards.
func make_gm_tab() []f64 {
	tab := make([]f64, 2048)
	for j := uint(0); j < 10; j++ {
		for k := 1 << j; k < 2<<j; k++ {
			r := 0
			if j > 0 {
				r = int(bits.Reverse32(uint32(k-(1<<j))) >> (32 - j))
			}
			tab[2*k+0], tab[2*k+1] = cis_pi_ratio(2*r+1, 2<<j)
		}
	}
	return tab
}

// Return the real and imaginary parts of exp(i*pi*a/b), for 0 < a < b.
// Exact values are used when the angle is pi/4 or pi/2.
func cis_pi_ratio(a int, b int) (f64, f64) {
	switch {
	case 2*a == b:
		return 0.0, 1.0
	case 4*a == b:
		return math.Sqrt2 / 2, math.Sqrt2 / 2
	case 4*a == 3*b:
		return -math.Sqrt2 / 2, math.Sqrt2 / 2
	}
	s, c := math.Sincos(math.Pi * float64(a) / float64(b))
	return c, s
}

// Convert a polynomial with small integer coefficients to floating-point
// (coefficient domain). The conversion is exact.
func fpoly_set_small(logn uint, d []f64, f []int8) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		d[i] = f64_of_i32(int32(f[i]))
	}
}

// Convert a hashed message (values modulo q, in [0,q-1]) to floating-point
// (coefficient domain).
func fpoly_set_hm(logn uint, d []f64, hm []uint16) {
	n := 1 << logn
	for i := 0; i < n; i++ {
		d[i] = f64_of_i32(int32(hm[i]))
	}
}

// Convert a polynomial from coefficient domain to FFT domain (in place).
func fpoly_FFT(logn uint, f []f64) {
	// Layers are processed in the usual decimation-in-time order. For
	// logn = 1, the transform is the identity.
	hn := 1 << (logn - 1)
	t := hn
	for lm := uint(1); lm < logn; lm++ {
		m := 1 << lm
		ht := t >> 1
		hm := m >> 1
		j0 := 0
		for i := 0; i < hm; i++ {
			s_re := gm_tab[((m+i)<<1)+0]
			s_im := gm_tab[((m+i)<<1)+1]
			for j := j0; j < j0+ht; j++ {
				x_re := f[j]
				x_im := f[j+hn]
				y_re, y_im := flc_mul(f[j+ht], f[j+ht+hn], s_re, s_im)
				f[j] = f64_add(x_re, y_re)
				f[j+hn] = f64_add(x_im, y_im)
				f[j+ht] = f64_sub(x_re, y_re)
				f[j+ht+hn] = f64_sub(x_im, y_im)
			}
			j0 += t
		}
		t = ht
	}
}

// Convert a polynomial from FFT domain to coefficient domain (in place).
// This is the exact inverse of fpoly_FFT() (up to rounding errors).
func fpoly_iFFT(logn uint, f []f64) {
	n := 1 << logn
	hn := n >> 1
	t := 1
	m := n
	for lm := logn; lm > 1; lm-- {
		hm := m >> 1
		dt := t << 1
		i := 0
		for j0 := 0; j0 < hn; j0 += dt {
			s_re := gm_tab[((hm+i)<<1)+0]
			s_im := f64_neg(gm_tab[((hm+i)<<1)+1])
			for j := j0; j < j0+t; j++ {
				x_re := f[j]
				x_im := f[j+hn]
				y_re := f[j+t]
				y_im := f[j+t+hn]
				f[j] = f64_add(x_re, y_re)
				f[j+hn] = f64_add(x_im, y_im)
				x_re = f64_sub(x_re, y_re)
				x_im = f64_sub(x_im, y_im)
				f[j+t], f[j+t+hn] = flc_mul(x_re, x_im, s_re, s_im)
			}
			i++
		}
		t = dt
		m = hm
	}

	// Each layer doubled the values; the first layer is handled by the
	// packing, hence the global factor 2^(1-logn).
	if logn > 1 {
		ni := f64_inv(f64_of_i32(int32(1) << (logn - 1)))
		for i := 0; i < n; i++ {
			f[i] = f64_mul(f[i], ni)
		}
	}
}

// Split a polynomial f (FFT domain) into f0 and f1 (FFT domain, half
// degree), such that f = f0(X^2) + X*f1(X^2). For logn = 1, f0 and f1
// each receive one value. f0 and f1 MUST NOT overlap with f.
func fpoly_split_fft(logn uint, f0 []f64, f1 []f64, f []f64) {
	hn := 1 << (logn - 1)
	qn := hn >> 1

	// logn = 1 is the trivial case (the loop below does not run).
	f0[0] = f[0]
	f1[0] = f[hn]
	for u := 0; u < qn; u++ {
		a_re := f[(u<<1)+0]
		a_im := f[(u<<1)+0+hn]
		b_re := f[(u<<1)+1]
		b_im := f[(u<<1)+1+hn]

		t_re := f64_add(a_re, b_re)
		t_im := f64_add(a_im, b_im)
		f0[u] = f64_half(t_re)
		f0[u+qn] = f64_half(t_im)

		t_re = f64_sub(a_re, b_re)
		t_im = f64_sub(a_im, b_im)
		t_re, t_im = flc_mul(t_re, t_im,
			gm_tab[((u+hn)<<1)+0], f64_neg(gm_tab[((u+hn)<<1)+1]))
		f1[u] = f64_half(t_re)
		f1[u+qn] = f64_half(t_im)
	}
}

// Merge f0 and f1 (FFT domain, half degree) into f (FFT domain); this is
// the inverse of fpoly_split_fft(). f MUST NOT overlap with f0 or f1.
func fpoly_merge_fft(logn uint, f []f64, f0 []f64, f1 []f64) {
	hn := 1 << (logn - 1)
	qn := hn >> 1

	f[0] = f0[0]
	f[hn] = f1[0]
	for u := 0; u < qn; u++ {
		a_re := f0[u]
		a_im := f0[u+qn]
		b_re, b_im := flc_mul(f1[u], f1[u+qn],
			gm_tab[((u+hn)<<1)+0], gm_tab[((u+hn)<<1)+1])
		f[(u<<1)+0] = f64_add(a_re, b_re)
		f[(u<<1)+0+hn] = f64_add(a_im, b_im)
		f[(u<<1)+1] = f64_sub(a_re, b_re)
		f[(u<<1)+1+hn] = f64_sub(a_im, b_im)
	}
}
