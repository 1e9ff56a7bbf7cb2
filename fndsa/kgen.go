package fndsa

import (
	"crypto/rand"
	"errors"
	"io"
)

// Generate a new key pair.
//
//	- logn is the degree to use (logarithmic, 2 to 10).
//	- rng is random source to use (nil to use the OS RNG).
//
// Output is the new key pair (signing and verifying keys, both encoded).
// An error is reported if the requested degree is invalid, or if the
// random source fails. Standard secure degrees correspond to logn equal to
// 9 (512) or 10 (1024); lower values do not provide adequate security and
// are meant for research and test purposes only.
func KeyGen(logn uint, rng io.Reader) ([]byte, []byte, error) {
	if logn < 2 || logn > 10 {
		return nil, nil, errors.New("invalid degree")
	}
	if rng == nil {
		rng = rand.Reader
	}
	var seed [32]byte
	if _, err := io.ReadFull(rng, seed[:]); err != nil {
		return nil, nil, err
	}

	// From here on, key generation cannot fail.
	n := 1 << logn
	fgFG := make([]int8, 4*n)
	f, g, F, G := fgFG[:n], fgFG[n:2*n], fgFG[2*n:3*n], fgFG[3*n:]
	tmp_u16 := make([]uint16, 2*n)
	keygen_inner(logn, seed[:], f, g, F, G, tmp_u16, make([]f64, 3*n))
	skey, vkey := encode_keypair(logn, f, g, F, G, tmp_u16)
	return skey, vkey, nil
}

// Squared norm bound for (g, -f): (1.17^2)*q = 16822.4121.
const fg_max_sqnorm = 16822

// Deterministic key generation from a seed, for logn = 1 to 10. Candidate
// (f, g) pairs are drawn from SHAKE256x4 over the seed until one passes
// all the checks and the NTRU equation can be solved. tmp_u16[] must
// have room for n elements, and tmp_f64[] for 3*n elements.
func keygen_inner(logn uint, seed []byte,
	f []int8, g []int8, F []int8, G []int8,
	tmp_u16 []uint16, tmp_f64 []f64) {

	pc := newSHAKE256x4(seed)
	for {
		sample_f(logn, pc, f)
		sample_f(logn, pc, g)
		if fg_acceptable(logn, f, g, tmp_u16, tmp_f64) &&
			solve_NTRU(logn, f, g, F, G) {
			return
		}
	}
}

// Check a candidate (f, g): ||(g, -f)|| < 1.17*sqrt(q), f invertible
// modulo X^n+1 and q, and the orthogonalized vector short enough.
func fg_acceptable(logn uint, f []int8, g []int8,
	tmp_u16 []uint16, tmp_f64 []f64) bool {

	sn := int32(0)
	for i := range f[:1<<logn] {
		xf := int32(f[i])
		xg := int32(g[i])
		sn += xf*xf + xg*xg
	}
	return sn <= fg_max_sqnorm &&
		mqpoly_is_invertible(logn, f, tmp_u16) &&
		check_ortho_norm(logn, f, g, tmp_f64)
}

// Encode the signing and verifying keys. The verifying key h = g/f is
// recomputed. tmp_u16[] must have room for 2*n elements.
func encode_keypair(logn uint, f []int8, g []int8,
	F []int8, G []int8, tmp_u16 []uint16) ([]byte, []byte) {

	// header 0x5X, then f and g (nbits_fg bits each), then F (8 bits);
	// G is not stored
	skey := make([]byte, SigningKeySize(logn))
	skey[0] = byte(0x50 + logn)
	j := 1
	for _, p := range [][]int8{f, g} {
		j += trim_i8_encode(logn, p, nbits_fg(logn), skey[j:])
	}
	trim_i8_encode(logn, F, 8, skey[j:])

	// header 0x0X, then h
	n := 1 << logn
	h := tmp_u16[:n]
	compute_public(logn, f, g, h, tmp_u16[n:])
	mqpoly_int_to_ext(logn, h)
	vkey := make([]byte, VerifyingKeySize(logn))
	vkey[0] = byte(0x00 + logn)
	modq_encode(logn, h, vkey[1:])
	return skey, vkey
}
