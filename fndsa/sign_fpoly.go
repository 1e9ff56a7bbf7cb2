package fndsa

// Polynomial arithmetic in FFT domain.
//
// All functions take the degree (logn, with 1 <= logn <= 10) and work
// bin by bin: for 0 <= u < n/2, the complex value of bin u has its real
// part at index u and its imaginary part at index u + n/2. The destination
// may be the same slice as any of the sources; each bin is read entirely
// before being written. A self-adjoint polynomial has only real values in
// FFT domain; functions documented as reading only the real half of an
// operand ignore the imaginary half of that operand.
//
// For logn = 1 (a single bin), the most used operations have a
// straight-line implementation; it computes exactly the same sequence of
// floating-point operations as the generic loop.

// c <- a + b
func fpoly_add(logn uint, c []f64, a []f64, b []f64) {
	n := 1 << logn
	for u := 0; u < n; u++ {
		c[u] = f64_add(a[u], b[u])
	}
}

// c <- a - b
func fpoly_sub(logn uint, c []f64, a []f64, b []f64) {
	n := 1 << logn
	for u := 0; u < n; u++ {
		c[u] = f64_sub(a[u], b[u])
	}
}

// c <- -a
func fpoly_neg(logn uint, c []f64, a []f64) {
	n := 1 << logn
	for u := 0; u < n; u++ {
		c[u] = f64_neg(a[u])
	}
}

// c <- adj(a)
func fpoly_adj(logn uint, c []f64, a []f64) {
	n := 1 << logn
	hn := n >> 1
	copy(c[:hn], a[:hn])
	for u := hn; u < n; u++ {
		c[u] = f64_neg(a[u])
	}
}

// c <- a*b
func fpoly_mul_fft(logn uint, c []f64, a []f64, b []f64) {
	switch logn {
	case 1:
		c[0], c[1] = flc_mul(a[0], a[1], b[0], b[1])
	case 2:
		c0_re, c0_im := flc_mul(a[0], a[2], b[0], b[2])
		c1_re, c1_im := flc_mul(a[1], a[3], b[1], b[3])
		c[0], c[1], c[2], c[3] = c0_re, c1_re, c0_im, c1_im
	default:
		fpoly_mul_fft_gen(logn, c, a, b)
	}
}

func fpoly_mul_fft_gen(logn uint, c []f64, a []f64, b []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		c[u], c[u+hn] = flc_mul(a[u], a[u+hn], b[u], b[u+hn])
	}
}

// c <- d + a*b
func fpoly_mul_add_fft(logn uint, c []f64, d []f64, a []f64, b []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		p_re, p_im := flc_mul(a[u], a[u+hn], b[u], b[u+hn])
		c[u] = f64_add(d[u], p_re)
		c[u+hn] = f64_add(d[u+hn], p_im)
	}
}

// c <- a*adj(b)
func fpoly_muladj_fft(logn uint, c []f64, a []f64, b []f64) {
	if logn == 1 {
		c[0], c[1] = flc_muladj(a[0], a[1], b[0], b[1])
		return
	}
	fpoly_muladj_fft_gen(logn, c, a, b)
}

func fpoly_muladj_fft_gen(logn uint, c []f64, a []f64, b []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		c[u], c[u+hn] = flc_muladj(a[u], a[u+hn], b[u], b[u+hn])
	}
}

// c <- d + a*adj(b)
func fpoly_muladj_add_fft(logn uint, c []f64, d []f64, a []f64, b []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		p_re, p_im := flc_muladj(a[u], a[u+hn], b[u], b[u+hn])
		c[u] = f64_add(d[u], p_re)
		c[u+hn] = f64_add(d[u+hn], p_im)
	}
}

// c <- a*adj(a)
// The result is self-adjoint; its imaginary half is set to zero.
func fpoly_mulselfadj_fft(logn uint, c []f64, a []f64) {
	if logn == 1 {
		c[0] = f64_add(f64_sqr(a[0]), f64_sqr(a[1]))
		c[1] = f64_ZERO
		return
	}
	fpoly_mulselfadj_fft_gen(logn, c, a)
}

func fpoly_mulselfadj_fft_gen(logn uint, c []f64, a []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		c[u] = f64_add(f64_sqr(a[u]), f64_sqr(a[u+hn]))
		c[u+hn] = f64_ZERO
	}
}

// c <- d + a*adj(a)
func fpoly_mulselfadj_add_fft(logn uint, c []f64, d []f64, a []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		c[u] = f64_add(d[u], f64_add(f64_sqr(a[u]), f64_sqr(a[u+hn])))
		c[u+hn] = d[u+hn]
	}
}

// c <- x*a (for a real constant x)
func fpoly_mulconst(logn uint, c []f64, a []f64, x f64) {
	n := 1 << logn
	for u := 0; u < n; u++ {
		c[u] = f64_mul(a[u], x)
	}
}

// c <- a*b, for a self-adjoint b (only the real half of b is read).
func fpoly_mul_autoadj_fft(logn uint, c []f64, a []f64, b []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		c[u] = f64_mul(a[u], b[u])
		c[u+hn] = f64_mul(a[u+hn], b[u])
	}
}

// c <- a/b, for a self-adjoint b (only the real half of b is read).
func fpoly_div_autoadj_fft(logn uint, c []f64, a []f64, b []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		ib := f64_inv(b[u])
		c[u] = f64_mul(a[u], ib)
		c[u+hn] = f64_mul(a[u+hn], ib)
	}
}

// d <- 1/(a*adj(a) + b*adj(b))
// The result is self-adjoint; its imaginary half is set to zero.
func fpoly_invnorm2_fft(logn uint, d []f64, a []f64, b []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		na := f64_add(f64_sqr(a[u]), f64_sqr(a[u+hn]))
		nb := f64_add(f64_sqr(b[u]), f64_sqr(b[u+hn]))
		d[u] = f64_inv(f64_add(na, nb))
		d[u+hn] = f64_ZERO
	}
}

// c <- a/b
func fpoly_div_fft(logn uint, c []f64, a []f64, b []f64) {
	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		a_re := a[u]
		a_im := a[u+hn]
		b_re := b[u]
		b_im := b[u+hn]
		m := f64_inv(f64_add(f64_sqr(b_re), f64_sqr(b_im)))
		c[u] = f64_mul(f64_add(f64_mul(a_re, b_re), f64_mul(a_im, b_im)), m)
		c[u+hn] = f64_mul(f64_sub(f64_mul(a_im, b_re), f64_mul(a_re, b_im)), m)
	}
}

// LDL decomposition of one bin of the matrix [[g00, g01], [adj(g01), g11]]
// (g00 and g11 are self-adjoint). With mu = g01/g00, this returns
// d11 = g11 - mu*adj(g01) and l10 = adj(mu); d00 is equal to g00.
func flc_LDL(g00_re f64, g00_im f64, g01_re f64, g01_im f64,
	g11_re f64, g11_im f64) (d11_re f64, d11_im f64, l10_re f64, l10_im f64) {

	m := f64_inv(f64_add(f64_sqr(g00_re), f64_sqr(g00_im)))
	mu_re := f64_mul(f64_add(f64_mul(g01_re, g00_re), f64_mul(g01_im, g00_im)), m)
	mu_im := f64_mul(f64_sub(f64_mul(g01_im, g00_re), f64_mul(g01_re, g00_im)), m)
	d11_re = f64_sub(f64_sub(g11_re, f64_mul(mu_re, g01_re)), f64_mul(mu_im, g01_im))
	d11_im = f64_add(f64_sub(g11_im, f64_mul(mu_im, g01_re)), f64_mul(mu_re, g01_im))
	return d11_re, d11_im, mu_re, f64_neg(mu_im)
}

// LDL decomposition of the self-adjoint matrix G = [[g00, g01], [adj(g01), g11]]
// (in place): g00 is unmodified (it is d00), g01 receives l10 and g11
// receives d11.
func fpoly_LDL_fft(logn uint, g00 []f64, g01 []f64, g11 []f64) {
	fpoly_LDLmv_fft(logn, g11, g01, g00, g01, g11)
}

// LDL decomposition of the self-adjoint matrix G = [[g00, g01], [adj(g01), g11]],
// with d11 and l10 written into separate outputs. d11 and l10 may be the
// same slices as g11 and g01, respectively; otherwise, the three inputs
// are left unmodified.
func fpoly_LDLmv_fft(logn uint, d11 []f64, l10 []f64,
	g00 []f64, g01 []f64, g11 []f64) {

	if logn == 1 {
		d11[0], d11[1], l10[0], l10[1] = flc_LDL(
			g00[0], g00[1], g01[0], g01[1], g11[0], g11[1])
		return
	}
	fpoly_LDLmv_fft_gen(logn, d11, l10, g00, g01, g11)
}

func fpoly_LDLmv_fft_gen(logn uint, d11 []f64, l10 []f64,
	g00 []f64, g01 []f64, g11 []f64) {

	hn := 1 << (logn - 1)
	for u := 0; u < hn; u++ {
		d11[u], d11[u+hn], l10[u], l10[u+hn] = flc_LDL(
			g00[u], g00[u+hn], g01[u], g01[u+hn], g11[u], g11[u+hn])
	}
}

// Compute the Gram matrix of the basis B = [[b00, b01], [b10, b11]]:
//
//	g00 = b00*adj(b00) + b01*adj(b01)
//	g01 = b00*adj(b10) + b01*adj(b11)
//	g11 = b10*adj(b10) + b11*adj(b11)
//
// (g10 = adj(g01) is not computed). The outputs MUST NOT overlap with the
// basis.
func fpoly_gram_fft(logn uint, g00 []f64, g01 []f64, g11 []f64,
	b00 []f64, b01 []f64, b10 []f64, b11 []f64) {

	fpoly_mulselfadj_fft(logn, g00, b00)
	fpoly_mulselfadj_add_fft(logn, g00, g00, b01)
	fpoly_muladj_fft(logn, g01, b00, b10)
	fpoly_muladj_add_fft(logn, g01, g01, b01, b11)
	fpoly_mulselfadj_fft(logn, g11, b10)
	fpoly_mulselfadj_add_fft(logn, g11, g11, b11)
}

// Apply the inverse of the public basis to the target: on input, t0
// contains the hashed message (FFT domain); on output,
//
//	t1 = -(t0*b01)/q
//	t0 = (t0*b11)/q
func fpoly_apply_basis(logn uint, t0 []f64, t1 []f64, b01 []f64, b11 []f64) {
	fpoly_mul_fft(logn, t1, t0, b01)
	fpoly_mulconst(logn, t1, t1, f64_neg(inv_q))
	fpoly_mul_fft(logn, t0, t0, b11)
	fpoly_mulconst(logn, t0, t0, inv_q)
}

// 1/q
var inv_q = f64_inv(f64_of_i32(q))
