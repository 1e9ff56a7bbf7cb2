package fndsa

// Fast Fourier sampling.
//
// Given a target (t0, t1) (FFT domain) and the LDL tree of the Gram matrix
// of the secret basis, ffsamp computes a lattice point (z0, z1) close to
// the target, with a discrete Gaussian distribution. Two variants are
// provided:
//
//   - ffsamp_tree_fft() uses a precomputed (and normalized) LDL tree,
//     as produced by ffLDL_fft() and ffLDL_binary_normalize().
//
//   - ffsamp_dyn_fft() receives the Gram matrix itself and computes the
//     tree nodes on the fly, overwriting the matrix as it goes. It uses
//     an explicit stack instead of recursion, and no allocation.
//
// Both variants perform the same floating-point operations in the same
// order, and call the integer sampler in the same order; with the same
// sampler state, they return the same bits.

// Sample one complex value (logn = 1): t0 and t1 are the targets, the
// tree is the LDL tree for degree 2 (four values).
func ffsamp_fft_1(samp samplerZ, tree []f64,
	t0_re f64, t0_im f64, t1_re f64, t1_im f64) (f64, f64, f64, f64) {

	// Right sub-tree (leaf tree[3]) for t1.
	leaf := tree[3]
	z1_re := f64_of_i32(samp.next(t1_re, leaf))
	z1_im := f64_of_i32(samp.next(t1_im, leaf))

	// t0 + (t1 - z1)*l10, then left sub-tree (leaf tree[2]).
	c_re, c_im := flc_mul(f64_sub(t1_re, z1_re), f64_sub(t1_im, z1_im),
		tree[0], tree[1])
	x_re := f64_add(t0_re, c_re)
	x_im := f64_add(t0_im, c_im)
	leaf = tree[2]
	z0_re := f64_of_i32(samp.next(x_re, leaf))
	z0_im := f64_of_i32(samp.next(x_im, leaf))
	return z0_re, z0_im, z1_re, z1_im
}

// Split for logn = 2, on values: the input bins are (f0, f2) and (f1, f3);
// the output is the two logn = 1 polynomials (a0, a1) and (b0, b1).
func fpoly_split_fft_2(f0 f64, f1 f64, f2 f64, f3 f64) (f64, f64, f64, f64) {
	a0 := f64_half(f64_add(f0, f1))
	a1 := f64_half(f64_add(f2, f3))
	t_re, t_im := flc_mul(f64_sub(f0, f1), f64_sub(f2, f3),
		gm_tab[4], f64_neg(gm_tab[5]))
	return a0, a1, f64_half(t_re), f64_half(t_im)
}

// Merge for logn = 2, on values; this is the inverse of fpoly_split_fft_2().
func fpoly_merge_fft_2(a0 f64, a1 f64, b0 f64, b1 f64) (f64, f64, f64, f64) {
	t_re, t_im := flc_mul(b0, b1, gm_tab[4], gm_tab[5])
	return f64_add(a0, t_re), f64_sub(a0, t_re),
		f64_add(a1, t_im), f64_sub(a1, t_im)
}

// Sample for logn = 2, on values. The sequence of operations is the one of
// the generic case in ffsamp_tree_fft().
func ffsamp_fft_2(samp samplerZ, tree []f64, t0 []f64, t1 []f64,
	z0 []f64, z1 []f64) {

	tree0 := tree[4:8]
	tree1 := tree[8:12]

	// z1 = merge(ffsamp(split(t1))) with the right sub-tree.
	w0, w1, w2, w3 := fpoly_split_fft_2(t1[0], t1[1], t1[2], t1[3])
	w0, w1, w2, w3 = ffsamp_fft_1(samp, tree1, w0, w1, w2, w3)
	y0, y1, y2, y3 := fpoly_merge_fft_2(w0, w1, w2, w3)

	// x = t0 + (t1 - z1)*l10
	a0_re, a0_im := flc_mul(f64_sub(t1[0], y0), f64_sub(t1[2], y2),
		tree[0], tree[2])
	a1_re, a1_im := flc_mul(f64_sub(t1[1], y1), f64_sub(t1[3], y3),
		tree[1], tree[3])
	x0 := f64_add(t0[0], a0_re)
	x1 := f64_add(t0[1], a1_re)
	x2 := f64_add(t0[2], a0_im)
	x3 := f64_add(t0[3], a1_im)

	// z0 = merge(ffsamp(split(x))) with the left sub-tree.
	w0, w1, w2, w3 = fpoly_split_fft_2(x0, x1, x2, x3)
	w0, w1, w2, w3 = ffsamp_fft_1(samp, tree0, w0, w1, w2, w3)
	z0[0], z0[1], z0[2], z0[3] = fpoly_merge_fft_2(w0, w1, w2, w3)
	z1[0], z1[1], z1[2], z1[3] = y0, y1, y2, y3
}

// Fast Fourier sampling with a precomputed, normalized LDL tree. The
// target (t0, t1) is not modified; the result goes to (z0, z1), which
// MUST NOT overlap with the target or with each other. tmp[] must have
// room for 2*n elements. 1 <= logn <= 10.
func ffsamp_tree_fft(samp samplerZ, logn uint, z0 []f64, z1 []f64,
	tree []f64, t0 []f64, t1 []f64, tmp []f64) {

	switch logn {
	case 1:
		z0[0], z0[1], z1[0], z1[1] = ffsamp_fft_1(samp, tree,
			t0[0], t0[1], t1[0], t1[1])
		return
	case 2:
		ffsamp_fft_2(samp, tree, t0, t1, z0, z1)
		return
	}

	n := 1 << logn
	hn := n >> 1
	node, tree0, tree1 := ffLDL_children(logn, tree)

	// Split t1 into z1 (used as temporary), sample with the right
	// sub-tree into tmp, and merge the result back into z1.
	fpoly_split_fft(logn, z1[:hn], z1[hn:n], t1)
	ffsamp_tree_fft(samp, logn-1, tmp[:hn], tmp[hn:n], tree1,
		z1[:hn], z1[hn:n], tmp[n:])
	fpoly_merge_fft(logn, z1, tmp[:hn], tmp[hn:n])

	// tb0 = t0 + (t1 - z1)*l10
	fpoly_sub(logn, tmp, t1, z1)
	fpoly_mul_add_fft(logn, tmp, t0, tmp, node)

	// Split tb0 into z0 (used as temporary), sample with the left
	// sub-tree into tmp, and merge the result back into z0.
	fpoly_split_fft(logn, z0[:hn], z0[hn:n], tmp[:n])
	ffsamp_tree_fft(samp, logn-1, tmp[:hn], tmp[hn:n], tree0,
		z0[:hn], z0[hn:n], tmp[n:])
	fpoly_merge_fft(logn, z0, tmp[:hn], tmp[hn:n])
}

// States of a level in ffsamp_dyn_fft().
const (
	ffsamp_need_ldl = iota // LDL of the level not computed yet
	ffsamp_has_z1          // right sub-tree sampled (result not merged)
	ffsamp_has_z0          // left sub-tree sampled (result not merged)
	ffsamp_done            // level complete, result in (t0, t1)
)

// One level of the explicit stack in ffsamp_dyn_fft().
type ffsamp_frame struct {
	logn  uint
	state int
	t0    []f64
	t1    []f64
	g00   []f64
	g01   []f64
	g11   []f64
	tmp   []f64
}

// Fast Fourier sampling with a dynamically computed LDL tree. On input,
// (t0, t1) is the target and (g00, g01, g11) the Gram matrix (FFT domain);
// on output, (t0, t1) contains the sampled vector, and the Gram matrix has
// been consumed. tmp[] must have room for 4*n elements. The leaves are
// normalized with the standard deviation for degree 2^logn.
// 1 <= logn <= 10.
func ffsamp_dyn_fft(samp samplerZ, logn uint, t0 []f64, t1 []f64,
	g00 []f64, g01 []f64, g11 []f64, tmp []f64) {

	var stack [11]ffsamp_frame
	isigma := inv_sigma[logn]
	top := 0
	stack[0] = ffsamp_frame{
		logn:  logn,
		state: ffsamp_need_ldl,
		t0:    t0,
		t1:    t1,
		g00:   g00,
		g01:   g01,
		g11:   g11,
		tmp:   tmp,
	}

	for {
		fr := &stack[top]
		if fr.logn == 0 {
			leaf := f64_mul(f64_sqrt(fr.g00[0]), isigma)
			fr.t0[0] = f64_of_i32(samp.next(fr.t0[0], leaf))
			fr.t1[0] = f64_of_i32(samp.next(fr.t1[0], leaf))
			fr.state = ffsamp_done
		}

		ln := fr.logn
		n := 1 << ln
		hn := n >> 1
		switch fr.state {
		case ffsamp_need_ldl:
			// Decompose the matrix in place: g01 <- l10 and g11 <- d11.
			// d00 and d11 are split in place; l10 moves to tmp[:n],
			// and g01 receives the first halves, so that the right
			// sub-tree matrix is (g11[:hn], g11[hn:], g01[hn:]) and
			// the left one (g00[:hn], g00[hn:], g01[:hn]).
			fpoly_LDL_fft(ln, fr.g00, fr.g01, fr.g11)
			fpoly_split_fft(ln, fr.tmp[:hn], fr.tmp[hn:n], fr.g00)
			copy(fr.g00[:n], fr.tmp[:n])
			fpoly_split_fft(ln, fr.tmp[:hn], fr.tmp[hn:n], fr.g11)
			copy(fr.g11[:n], fr.tmp[:n])
			copy(fr.tmp[:n], fr.g01[:n])
			copy(fr.g01[:hn], fr.g00[:hn])
			copy(fr.g01[hn:n], fr.g11[:hn])

			// The right sub-tree target is split(t1), in tmp[n:2*n].
			fpoly_split_fft(ln, fr.tmp[n:n+hn], fr.tmp[n+hn:2*n], fr.t1)
			fr.state = ffsamp_has_z1
			stack[top+1] = ffsamp_frame{
				logn:  ln - 1,
				state: ffsamp_need_ldl,
				t0:    fr.tmp[n : n+hn : n+hn],
				t1:    fr.tmp[n+hn : 2*n : 2*n],
				g00:   fr.g11[:hn:hn],
				g01:   fr.g11[hn:n:n],
				g11:   fr.g01[hn:n:n],
				tmp:   fr.tmp[2*n:],
			}
			top++

		case ffsamp_has_z1:
			// z1 = merge(child output), in tmp[2*n:3*n]. Then:
			//   tmp[n:2*n] <- t1 - z1
			//   t1 <- z1
			//   t0 <- t0 + (t1 - z1)*l10
			z1 := fr.tmp[2*n : 3*n]
			fpoly_merge_fft(ln, z1, fr.tmp[n:n+hn], fr.tmp[n+hn:2*n])
			fpoly_sub(ln, fr.tmp[n:2*n], fr.t1, z1)
			copy(fr.t1[:n], z1)
			fpoly_mul_fft(ln, fr.tmp[:n], fr.tmp[n:2*n], fr.tmp[:n])
			fpoly_add(ln, fr.t0, fr.t0, fr.tmp[:n])

			// The left sub-tree target is split(t0), in tmp[:n].
			fpoly_split_fft(ln, fr.tmp[:hn], fr.tmp[hn:n], fr.t0)
			fr.state = ffsamp_has_z0
			stack[top+1] = ffsamp_frame{
				logn:  ln - 1,
				state: ffsamp_need_ldl,
				t0:    fr.tmp[:hn:hn],
				t1:    fr.tmp[hn:n:n],
				g00:   fr.g00[:hn:hn],
				g01:   fr.g00[hn:n:n],
				g11:   fr.g01[:hn:hn],
				tmp:   fr.tmp[n:],
			}
			top++

		case ffsamp_has_z0:
			fpoly_merge_fft(ln, fr.t0, fr.tmp[:hn], fr.tmp[hn:n])
			fr.state = ffsamp_done

		case ffsamp_done:
			if top == 0 {
				return
			}
			top--
		}
	}
}
