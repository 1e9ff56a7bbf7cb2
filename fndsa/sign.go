package fndsa

import (
	"crypto"
	"crypto/rand"
	"errors"
	"io"
)

// Sign a message using a given signing key.
//
//	- rng is the random source to use (nil to use the OS RNG)
//	- skey is the signing key (private)
//	- ctx is the domain separation context
//	- id is the pre-hash function identifier (0 if no pre-hashing)
//	- data is pre-hashed message (message itself if no pre-hashing)
//
// Using the OS RNG (i.e. setting rng to nil) is recommended. If an
// explicit random source is provided, then the caller MUST make sure that
// it provides sufficient entropy.
// This function will reject any attempt at signing with a key using a
// non-standard degree; it will accept only the standard degrees (512
// and 1024).
//
// The LDL tree of the key is recomputed for each signature; to sign
// many messages with the same key, [ExpandSigningKey] is faster.
func Sign(rng io.Reader, skey []byte,
	ctx DomainContext, id crypto.Hash, data []byte) ([]byte, error) {

	return sign_inner(9, 10, rng, skey, ctx, id, data)
}

// Similar to [Sign], except that this function accepts only the non-standard
// weak degrees 4 to 256, which are meant for research and tests.
func SignWeak(rng io.Reader, skey []byte,
	ctx DomainContext, id crypto.Hash, data []byte) ([]byte, error) {

	return sign_inner(2, 8, rng, skey, ctx, id, data)
}

// Inner signature function.
func sign_inner(logn_min uint, logn_max uint, rng io.Reader, skey []byte,
	ctx DomainContext, id crypto.Hash, data []byte) ([]byte, error) {

	// Get a random 40-byte seed from the provided RNG.
	var seed [40]byte
	if rng == nil {
		rng = rand.Reader
	}
	_, err := io.ReadFull(rng, seed[:])
	if err != nil {
		return nil, err
	}

	return sign_inner_seeded(logn_min, logn_max, seed[:], skey, ctx, id, data)
}

// Inner signature function with an explicit seed; this is used for
// reproducible test vectors.
func sign_inner_seeded(logn_min uint, logn_max uint, seed []byte, skey []byte,
	ctx DomainContext, id crypto.Hash, data []byte) ([]byte, error) {

	sk, err := decode_signing_key(logn_min, logn_max, skey)
	if err != nil {
		return nil, err
	}

	logn := sk.logn
	n := 1 << logn
	tmp_i16 := make([]int16, 3*n)
	tmp_u16 := make([]uint16, n)
	tmp_f64 := make([]f64, sign_tmp_f64_size(logn))
	sig := make([]byte, SignatureSize(logn))
	key := rawBasis{logn: logn, f: sk.f, g: sk.g, F: sk.F, G: sk.G}
	err = sign_core(logn, key, sk.hashed_vk[:], ctx, id, data,
		seed, sig, tmp_i16, tmp_u16, tmp_f64, is_short_tmp)
	if err != nil {
		return nil, err
	}

	return sig, nil
}

// Decoded signing key.
type signingKey struct {
	logn       uint
	f, g, F, G []int8
	vkey       []byte
	hashed_vk  [64]byte
}

// Decode a signing key. G is recomputed, as well as the verifying key
// (and its hash).
func decode_signing_key(logn_min uint, logn_max uint,
	skey []byte) (*signingKey, error) {

	logn, ok := decode_header(skey, 0x50, logn_min, logn_max)
	if !ok || len(skey) != SigningKeySize(logn) {
		return nil, errors.New("Invalid private key")
	}

	n := 1 << logn
	fgFG := make([]int8, 4*n)
	sk := &signingKey{
		logn: logn,
		f:    fgFG[:n],
		g:    fgFG[n : 2*n],
		F:    fgFG[2*n : 3*n],
		G:    fgFG[3*n:],
	}
	off := 1
	for _, p := range []struct {
		dst   []int8
		nbits int
	}{
		{sk.f, nbits_fg(logn)},
		{sk.g, nbits_fg(logn)},
		{sk.F, 8},
	} {
		j, err := trim_i8_decode(logn, skey[off:], p.dst, p.nbits)
		if err != nil {
			return nil, err
		}
		off += j
	}

	// h = g/f and G = h*F (mod X^n+1 and q); NTRU equation
	// f*G - g*F = q implies G = g*F/f modulo q.
	h := make([]uint16, n)
	t := make([]uint16, n)
	if !compute_public(logn, sk.f, sk.g, h, t) {
		return nil, errors.New("Invalid signing key (f not invertible)")
	}
	mqpoly_int_to_ntt(logn, h)
	mqpoly_small_to_int(logn, sk.F, t)
	mqpoly_int_to_ntt(logn, t)
	mqpoly_mul_ntt(logn, t, h)
	mqpoly_ntt_to_int(logn, t)
	if !mqpoly_int_to_small(logn, t, sk.G) {
		return nil, errors.New("Invalid signing key (G is out-of-range)")
	}

	// The verifying key is re-encoded from h.
	mqpoly_ntt_to_int(logn, h)
	mqpoly_int_to_ext(logn, h)
	sk.vkey = make([]byte, VerifyingKeySize(logn))
	sk.vkey[0] = byte(0x00 + logn)
	modq_encode(logn, h, sk.vkey[1:])
	sk.hashed_vk = hash_verifying_key(sk.vkey)
	return sk, nil
}

// Compute the public polynomial h = g/f mod X^n+1 mod q into h ("int"
// representation). tmp[] must have room for n elements. Returned value
// is false if f is not invertible.
func compute_public(logn uint, f []int8, g []int8,
	h []uint16, tmp []uint16) bool {

	mqpoly_small_to_int(logn, g, h)
	mqpoly_small_to_int(logn, f, tmp)
	mqpoly_int_to_ntt(logn, h)
	mqpoly_int_to_ntt(logn, tmp)
	if !mqpoly_div_ntt(logn, h, tmp) {
		return false
	}
	mqpoly_ntt_to_int(logn, h)
	return true
}
