package fndsa

import (
	"crypto"
)

// Verify a FN-DSA signature.
//
//	- vkey is the verifying key (public)
//	- ctx is the domain-separation context string
//	- id identifies the pre-hash function (0 for raw message)
//	- data is the pre-hashed message (or message itself if id is zero)
//	- sig is the signature to verify
//
// Returned value is true for a valid signature, false otherwise. If the
// key cannot be decoded, then false is returned. This function accepts
// only the standard, secure degrees (512 and 1024); if the key uses a
// non-standard degree, then false is returned systematically.
func Verify(vkey []byte,
	ctx DomainContext, id crypto.Hash, data []byte, sig []byte) bool {

	return verify_inner(9, 10, vkey, ctx, id, data, sig)
}

// Verify a FN-DSA signature (weak keys). This function acts like
// [Verify], except that it accepts to use only keys with weak degrees
// (4 to 256, i.e. logn = 2 to 8). Such keys are meant for research and
// test purposes only.
func VerifyWeak(vkey []byte,
	ctx DomainContext, id crypto.Hash, data []byte, sig []byte) bool {

	return verify_inner(2, 8, vkey, ctx, id, data, sig)
}

// Inner verification function.
func verify_inner(logn_min uint, logn_max uint, vkey []byte,
	ctx DomainContext, id crypto.Hash, data []byte, sig []byte) bool {

	// Key and signature must agree on the degree.
	logn, ok := decode_header(vkey, 0x00, logn_min, logn_max)
	if !ok || len(sig) == 0 || sig[0] != byte(0x30+logn) {
		return false
	}
	if len(vkey) != VerifyingKeySize(logn) || len(sig) != SignatureSize(logn) {
		return false
	}

	// Decode the key and the signature.
	n := 1 << logn
	s2 := make([]int16, n)
	h := make([]uint16, n)
	c := make([]uint16, n)
	if _, err := modq_decode(logn, vkey[1:], h); err != nil {
		return false
	}
	if err := comp_decode(logn, sig[41:], s2); err != nil {
		return false
	}
	nonce := sig[1:41]

	// c <- hashed message
	hvk := hash_verifying_key(vkey)
	if err := hash_to_point(logn, nonce, hvk[:], ctx, id, data, c); err != nil {
		return false
	}
	return verify_raw(logn, h, c, s2)
}

// Core verification: given the public polynomial h and the hashed
// message c (both in "ext" representation), check that s1 = c - s2*h
// is such that (s1, s2) is short enough. h and c are consumed.
func verify_raw(logn uint, h []uint16, c []uint16, s2 []int16) bool {
	n := 1 << logn
	t := make([]uint16, n)

	// norm2 <- squared norm of s2
	norm2 := signed_poly_sqnorm(logn, s2)

	// h <- s2*h ("int" format)
	mqpoly_ext_to_int(logn, h)
	mqpoly_int_to_ntt(logn, h)
	mqpoly_signed_to_int(logn, s2, t)
	mqpoly_int_to_ntt(logn, t)
	mqpoly_mul_ntt(logn, h, t)
	mqpoly_ntt_to_int(logn, h)

	// c <- s1 = c - s2*h ("int" format)
	mqpoly_ext_to_int(logn, c)
	mqpoly_sub_int(logn, c, h)

	// norm1 <- squared norm of s1
	norm1 := mqpoly_sqnorm(logn, c)

	// Signature is acceptable if the total squared norm of (s1,s2) is
	// low enough. We must take care of not overflowing: both norms are
	// saturated, and norm1 + norm2 fits on 32 bits if and only if
	// norm2 <= ^norm1.
	return norm2 <= ^norm1 && mqpoly_sqnorm_is_acceptable(logn, norm1+norm2)
}
