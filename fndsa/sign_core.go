package fndsa

import (
	"crypto"
	"io"

	sha3 "golang.org/x/crypto/sha3"
)

// Given f, g, F and G, return the basis [[g, -f], [G, -F]] in FFT
// format (b00, b01, b10 and b11, in that order, are written in the
// destination).
func basis_to_FFT(logn uint,
	f []int8, g []int8, F []int8, G []int8, dst []f64) {

	n := 1 << logn
	b00 := dst[:n]
	b01 := dst[n : n*2]
	b10 := dst[n*2 : n*3]
	b11 := dst[n*3 : n*4]
	fpoly_set_small(logn, b01, f)
	fpoly_set_small(logn, b00, g)
	fpoly_set_small(logn, b11, F)
	fpoly_set_small(logn, b10, G)
	fpoly_FFT(logn, b01)
	fpoly_FFT(logn, b00)
	fpoly_FFT(logn, b11)
	fpoly_FFT(logn, b10)
	fpoly_neg(logn, b01, b01)
	fpoly_neg(logn, b11, b11)
}

// Acceptance test for a signing attempt. From the hashed message hm
// ("ext" representation) and the sampled lattice point (t0, t1)
// (coefficient domain), the function computes s1 = hm - rint(t0) and
// s2 = -rint(t1) into the provided buffers, and returns true if (s1, s2)
// is short enough to make a signature. Nothing else is written.
type shortCheck func(logn uint, s1 []int16, s2 []int16,
	hm []uint16, t0 []f64, t1 []f64) bool

// Default acceptance test: the squared norm of (s1, s2) must not exceed
// the bound for the degree.
func is_short_tmp(logn uint, s1 []int16, s2 []int16,
	hm []uint16, t0 []f64, t1 []f64) bool {

	// We accumulate the squared norm in sqn, with an "overflow" flag
	// in ng. Since hm[i] is in [0,q-1], the 16-bit subtraction yields
	// the right value as long as it fits in int16; larger values would
	// make the norm unacceptable anyway.
	n := 1 << logn
	sqn := uint32(0)
	ng := uint32(0)
	for i := 0; i < n; i++ {
		zu := hm[i] - uint16(f64_rint(t0[i]))
		z := int32(int16(zu))
		sqn += uint32(z * z)
		ng |= sqn
		s1[i] = int16(z)
	}
	for i := 0; i < n; i++ {
		zu := -uint16(f64_rint(t1[i]))
		z := int32(int16(zu))
		sqn += uint32(z * z)
		ng |= sqn
		s2[i] = int16(z)
	}

	// If the squared norm exceeds 2^31-1, then at some point the high
	// bit of ng was set, which we use to saturate the squared norm to
	// 2^32-1.
	sqn |= uint32(int32(ng) >> 31)
	return mqpoly_sqnorm_is_acceptable(logn, sqn)
}

// Finish a signing attempt: the sampled vector (z0, z1) is in tx and ty
// (FFT domain); the candidate lattice point is computed into t0 and t1,
// and the acceptance test is applied. On success, s2 receives the
// signature vector; otherwise, s2 is not modified.
func finish_attempt(logn uint, tx []f64, ty []f64, t0 []f64, t1 []f64,
	b00 []f64, b01 []f64, b10 []f64, b11 []f64,
	hm []uint16, s2 []int16, tmp_i16 []int16, accept shortCheck) bool {

	n := 1 << logn

	// t0 = tx*b00 + ty*b10
	// t1 = tx*b01 + ty*b11
	fpoly_mul_fft(logn, t0, tx, b00)
	fpoly_mul_add_fft(logn, t0, t0, ty, b10)
	fpoly_mul_fft(logn, t1, tx, b01)
	fpoly_mul_add_fft(logn, t1, t1, ty, b11)
	fpoly_iFFT(logn, t0)
	fpoly_iFFT(logn, t1)

	// s1 is computed but not retained; s2 is copied to the output only
	// if the candidate is accepted.
	s1tmp := tmp_i16[:n]
	s2tmp := tmp_i16[n : 2*n]
	if !accept(logn, s1tmp, s2tmp, hm, t0, t1) {
		return false
	}
	copy(s2[:n], s2tmp)
	return true
}

// One signing attempt with an expanded key (basis and normalized LDL
// tree, see expand_privkey()). The hashed message hm is in "ext"
// representation. Returned value is true on success, in which case the
// signature vector has been written in s2.
//
// Temporary area sizes:
//
//	tmp_f64   6*n elements
//	tmp_i16   2*n elements
func do_sign_tree(samp samplerZ, logn uint, ek []f64, hm []uint16,
	s2 []int16, tmp_f64 []f64, tmp_i16 []int16, accept shortCheck) bool {

	n := 1 << logn
	b00, b01, b10, b11 := ek_basis(logn, ek)
	tree := ek_tree(logn, ek)
	t0 := tmp_f64[:n]
	t1 := tmp_f64[n : n*2]
	tx := tmp_f64[n*2 : n*3]
	ty := tmp_f64[n*3 : n*4]

	// Set the target [t0,t1] to [hm,0], then apply the lattice basis to
	// obtain the real target vector (after normalization with regard to
	// the modulus q).
	fpoly_set_hm(logn, t0, hm)
	fpoly_FFT(logn, t0)
	fpoly_apply_basis(logn, t0, t1, b01, b11)

	ffsamp_tree_fft(samp, logn, tx, ty, tree, t0, t1, tmp_f64[n*4:n*6])

	return finish_attempt(logn, tx, ty, t0, t1, b00, b01, b10, b11,
		hm, s2, tmp_i16, accept)
}

// One signing attempt with the raw key (f, g, F, G); the LDL tree is
// computed on the fly. With the same sampler state, the result is
// identical to that of do_sign_tree() with the expanded key.
//
// Temporary area sizes:
//
//	tmp_f64   9*n elements
//	tmp_i16   2*n elements
func do_sign_dyn(samp samplerZ, logn uint,
	f []int8, g []int8, F []int8, G []int8, hm []uint16,
	s2 []int16, tmp_f64 []f64, tmp_i16 []int16, accept shortCheck) bool {

	n := 1 << logn

	// Layout:
	//    b00 b01 b10 b11 g00 g01 g11 t0 t1
	basis_to_FFT(logn, f, g, F, G, tmp_f64)
	b00 := tmp_f64[:n]
	b01 := tmp_f64[n : n*2]
	b10 := tmp_f64[n*2 : n*3]
	b11 := tmp_f64[n*3 : n*4]
	g00 := tmp_f64[n*4 : n*5]
	g01 := tmp_f64[n*5 : n*6]
	g11 := tmp_f64[n*6 : n*7]
	t0 := tmp_f64[n*7 : n*8]
	t1 := tmp_f64[n*8 : n*9]
	fpoly_gram_fft(logn, g00, g01, g11, b00, b01, b10, b11)

	fpoly_set_hm(logn, t0, hm)
	fpoly_FFT(logn, t0)
	fpoly_apply_basis(logn, t0, t1, b01, b11)

	// The basis area is used as scratch space by the sampler; the Gram
	// matrix is consumed.
	ffsamp_dyn_fft(samp, logn, t0, t1, g00, g01, g11, tmp_f64[:n*4])

	// Layout:
	//    b00 b01 b10 b11 x0 x1 -- t0 t1
	// with (t0, t1) the sampled vector.
	basis_to_FFT(logn, f, g, F, G, tmp_f64)
	x0 := tmp_f64[n*4 : n*5]
	x1 := tmp_f64[n*5 : n*6]
	copy(x0, t0)
	copy(x1, t1)
	return finish_attempt(logn, x0, x1, t0, t1, b00, b01, b10, b11,
		hm, s2, tmp_i16, accept)
}

// Secret material for signing attempts: either an expanded key, or the
// raw key polynomials.
type signingBasis interface {
	// Make one signing attempt (see do_sign_tree()).
	attempt(samp samplerZ, hm []uint16, s2 []int16,
		tmp_f64 []f64, tmp_i16 []int16, accept shortCheck) bool
}

// Expanded key (basis and LDL tree); see expand_privkey().
type treeBasis struct {
	logn uint
	ek   []f64
}

func (b treeBasis) attempt(samp samplerZ, hm []uint16, s2 []int16,
	tmp_f64 []f64, tmp_i16 []int16, accept shortCheck) bool {

	return do_sign_tree(samp, b.logn, b.ek, hm, s2, tmp_f64, tmp_i16, accept)
}

// Raw key polynomials.
type rawBasis struct {
	logn       uint
	f, g, F, G []int8
}

func (b rawBasis) attempt(samp samplerZ, hm []uint16, s2 []int16,
	tmp_f64 []f64, tmp_i16 []int16, accept shortCheck) bool {

	return do_sign_dyn(samp, b.logn, b.f, b.g, b.F, b.G, hm, s2,
		tmp_f64, tmp_i16, accept)
}

// Size (in f64 elements) of the temporary area for signing attempts.
func sign_tmp_f64_size(logn uint) int {
	return 9 << logn
}

// Sequence of signing attempts with one key. The sampler is allocated
// on the first attempt and reseeded for each subsequent one.
type signAttempts struct {
	logn   uint
	key    signingBasis
	accept shortCheck
	ss     *sampler
}

// Make one attempt, with a sampler seeded from subseed (56 bytes).
func (at *signAttempts) try(subseed []byte, hm []uint16, s2 []int16,
	tmp_f64 []f64, tmp_i16 []int16) bool {

	if at.ss == nil {
		at.ss = newSampler(at.logn, subseed)
	} else {
		at.ss.reseed(subseed)
	}
	return at.key.attempt(at.ss, hm, s2, tmp_f64, tmp_i16, at.accept)
}

// Sign an already hashed message: attempts are made until one is
// accepted. Each attempt uses a new sampler, seeded with 56 bytes read
// from rng, so that retries are independent. On return, s2 contains the
// signature vector; s2 is written only once an attempt is accepted.
// tmp_f64[] must have room for 9*n elements, and tmp_i16[] for 2*n.
func sign_hashed(logn uint, key signingBasis, rng io.Reader,
	hm []uint16, s2 []int16, tmp_f64 []f64, tmp_i16 []int16,
	accept shortCheck) error {

	var subseed [56]byte
	at := signAttempts{logn: logn, key: key, accept: accept}
	for {
		if _, err := io.ReadFull(rng, subseed[:]); err != nil {
			return err
		}
		if at.try(subseed[:], hm, s2, tmp_f64, tmp_i16) {
			return nil
		}
	}
}

// Internal signing function. The secret material is provided, as well
// as the hashed verifying key, data to sign (context, id, hash value),
// the random seed to work on, the signature output buffer, and the
// temporary areas. The signature buffer has been verified to be large
// enough. The temporary areas are large enough.
//
// Temporary area sizes:
//
//	tmp_i16   3*n elements
//	tmp_u16   n elements
//	tmp_f64   9*n elements
//
// An error can be returned if the hash identifier is unrecognized or if
// the context string is too large.
func sign_core(logn uint, key signingBasis,
	hashed_vk []byte, ctx DomainContext, id crypto.Hash, data []byte,
	seed []byte, sig []byte,
	tmp_i16 []int16, tmp_u16 []uint16, tmp_f64 []f64,
	accept shortCheck) error {

	n := 1 << logn
	sh := sha3.NewShake256()
	hm := tmp_u16[:n]
	s2 := tmp_i16[:n]
	sig = sig[:SignatureSize(logn)]
	at := signAttempts{logn: logn, key: key, accept: accept}

	for counter := 0; ; counter++ {
		// Generate the nonce and sub-seed. The nonce is regenerated at
		// each iteration. Since we work over a provided seed, we use
		// SHAKE256 over the concatenation of the seed and the loop
		// counter to get 96 bytes of output.
		sh.Reset()
		sh.Write(seed)
		var cbuf [4]byte
		cbuf[0] = uint8(counter)
		cbuf[1] = uint8(counter >> 8)
		cbuf[2] = uint8(counter >> 16)
		cbuf[3] = uint8(counter >> 24)
		sh.Write(cbuf[:])
		var nonce [40]byte
		var subseed [56]byte
		sh.Read(nonce[:])
		sh.Read(subseed[:])

		// Hash the message into a polynomial.
		err := hash_to_point(logn, nonce[:], hashed_vk, ctx, id, data, hm)
		if err != nil {
			return err
		}

		if !at.try(subseed[:], hm, s2, tmp_f64, tmp_i16[n:]) {
			continue
		}

		// We have a candidate signature; we must encode it. This
		// may fail, if the signature cannot be encoded in the
		// target size.
		if comp_encode(logn, s2, sig[41:]) {
			sig[0] = byte(0x30 + logn)
			copy(sig[1:41], nonce[:])
			return nil
		}
	}
}
