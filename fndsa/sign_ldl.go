package fndsa

// LDL tree (ffLDL) of a Gram matrix.
//
// For a 2x2 self-adjoint matrix G = [[g00, g01], [adj(g01), g11]] over
// polynomials of degree n = 2^logn, the tree node contains l10 (n values,
// FFT domain), followed by the two sub-trees of degree n/2: the first one
// for d00 (left sub-tree), the second one for d11 (right sub-tree). Each
// diagonal element d is split into (d0, d1), which defines the self-adjoint
// quasicyclic matrix [[d0, d1], [adj(d1), d0]] for the sub-tree. A leaf
// (logn = 0) is a single value.

// Get the size of the LDL tree for polynomials of degree 2^logn, in
// number of elements. It fulfills s(0) = 1 and
// s(logn) = 2^logn + 2*s(logn-1).
func ffLDL_treesize(logn uint) int {
	return int(logn+1) << logn
}

// Split a tree of degree 2^logn (logn >= 1) into the node value and the
// two sub-trees. The returned slices have their capacity capped, so that
// no access can spill over a neighbour.
func ffLDL_children(logn uint, tree []f64) ([]f64, []f64, []f64) {
	n := 1 << logn
	ts := ffLDL_treesize(logn - 1)
	return tree[:n:n], tree[n : n+ts : n+ts], tree[n+ts : n+2*ts : n+2*ts]
}

// Compute the LDL tree of G = [[g00, g01], [adj(g01), g11]] into tree[]
// (ffLDL_treesize(logn) elements). The three inputs are not modified.
// tmp[] must have room for 3*n elements.
func ffLDL_fft(logn uint, tree []f64, g00 []f64, g01 []f64, g11 []f64,
	tmp []f64) {

	n := 1 << logn
	if n == 1 {
		tree[0] = g00[0]
		return
	}
	hn := n >> 1
	d00 := tmp[:n:n]
	d11 := tmp[n : 2*n : 2*n]
	w := tmp[2*n : 3*n : 3*n]
	node, left, right := ffLDL_children(logn, tree)

	// l10 goes into the tree node; d00 is a copy of g00. We split d00
	// into w, and d11 into d00, then move w back into d11, so that
	// d11 contains the matrix for the left sub-tree and d00 the matrix
	// for the right sub-tree.
	copy(d00, g00[:n])
	fpoly_LDLmv_fft(logn, d11, node, g00, g01, g11)
	fpoly_split_fft(logn, w[:hn], w[hn:], d00)
	fpoly_split_fft(logn, d00[:hn], d00[hn:], d11)
	copy(d11, w)

	ffLDL_fft_inner(logn-1, left, d11[:hn], d11[hn:], w)
	ffLDL_fft_inner(logn-1, right, d00[:hn], d00[hn:], w)
}

// Inner function for ffLDL_fft(): the matrix is self-adjoint and
// quasicyclic (g11 = g00), given by its first row (g0, g1). Both g0 and
// g1 are used as temporaries. tmp[] must have room for n elements.
func ffLDL_fft_inner(logn uint, tree []f64, g0 []f64, g1 []f64, tmp []f64) {
	n := 1 << logn
	if n == 1 {
		tree[0] = g0[0]
		return
	}
	hn := n >> 1
	node, left, right := ffLDL_children(logn, tree)

	// d00 = g0 and d11 goes into tmp. Then d00 is split into g1 and
	// d11 is split into g0.
	fpoly_LDLmv_fft(logn, tmp, node, g0, g1, g0)
	fpoly_split_fft(logn, g1[:hn], g1[hn:n], g0)
	fpoly_split_fft(logn, g0[:hn], g0[hn:n], tmp)

	ffLDL_fft_inner(logn-1, left, g1[:hn], g1[hn:n], tmp)
	ffLDL_fft_inner(logn-1, right, g0[:hn], g0[hn:n], tmp)
}

// Normalize an LDL tree: each leaf of value x is replaced with
// sqrt(x)/sigma, for the signing standard deviation sigma of degree
// 2^orig_logn. This is the inverse of the standard deviation to use
// for sampling at that leaf, which is what samplerZ.next() expects.
func ffLDL_binary_normalize(tree []f64, orig_logn uint, logn uint) {
	if logn == 0 {
		tree[0] = f64_mul(f64_sqrt(tree[0]), inv_sigma[orig_logn])
		return
	}
	_, left, right := ffLDL_children(logn, tree)
	ffLDL_binary_normalize(left, orig_logn, logn-1)
	ffLDL_binary_normalize(right, orig_logn, logn-1)
}
