package fndsa

import (
	"crypto"
	"crypto/rand"
	"io"
)

// Expanded signing key.
//
// The expanded key is a flat sequence of f64 values: the basis
// B = [[g, -f], [G, -F]] in FFT representation (b00, b01, b10 and b11,
// n values each), followed by the normalized LDL tree of the Gram matrix
// B*adj(B) (ffLDL_treesize(logn) values). Offsets are computed from the
// degree only.

// Get the size of an expanded key, in number of f64 values.
func expanded_key_size(logn uint) int {
	return (4 << logn) + ffLDL_treesize(logn)
}

// Get the four basis polynomials from an expanded key.
func ek_basis(logn uint, ek []f64) ([]f64, []f64, []f64, []f64) {
	n := 1 << logn
	return ek[:n], ek[n : 2*n], ek[2*n : 3*n], ek[3*n : 4*n]
}

// Get the LDL tree from an expanded key.
func ek_tree(logn uint, ek []f64) []f64 {
	n := 1 << logn
	ts := ffLDL_treesize(logn)
	return ek[4*n : 4*n+ts : 4*n+ts]
}

// Expand the private key (f, g, F, G) into ek[] (expanded_key_size(logn)
// elements). tmp[] must have room for 6*n elements.
func expand_privkey(logn uint, ek []f64,
	f []int8, g []int8, F []int8, G []int8, tmp []f64) {

	n := 1 << logn
	basis_to_FFT(logn, f, g, F, G, ek)
	b00, b01, b10, b11 := ek_basis(logn, ek)

	// Gram matrix in tmp[:3*n]; the LDL tree builder uses tmp[3*n:6*n]
	// as scratch and leaves the matrix unmodified.
	g00 := tmp[:n]
	g01 := tmp[n : 2*n]
	g11 := tmp[2*n : 3*n]
	fpoly_gram_fft(logn, g00, g01, g11, b00, b01, b10, b11)

	tree := ek_tree(logn, ek)
	ffLDL_fft(logn, tree, g00, g01, g11, tmp[3*n:6*n])
	ffLDL_binary_normalize(tree, logn, logn)
}

// ExpandedSigningKey is a signing key in a form which is faster to use:
// the LDL tree of the secret basis is computed once, when the key is
// expanded, instead of once per signature. An expanded key is not
// modified by signing; it can be used by several goroutines
// concurrently.
type ExpandedSigningKey struct {
	logn      uint
	vkey      []byte
	hashed_vk [64]byte
	ek        []f64
}

// Expand a signing key. Only the standard degrees (512 and 1024) are
// accepted.
func ExpandSigningKey(skey []byte) (*ExpandedSigningKey, error) {
	return expand_inner(9, 10, skey)
}

// Similar to [ExpandSigningKey], except that this function accepts only
// the non-standard weak degrees 4 to 256, which are meant for research
// and tests.
func ExpandSigningKeyWeak(skey []byte) (*ExpandedSigningKey, error) {
	return expand_inner(2, 8, skey)
}

func expand_inner(logn_min uint, logn_max uint,
	skey []byte) (*ExpandedSigningKey, error) {

	sk, err := decode_signing_key(logn_min, logn_max, skey)
	if err != nil {
		return nil, err
	}
	return newExpandedSigningKey(sk), nil
}

// Build the expanded key from a decoded signing key.
func newExpandedSigningKey(sk *signingKey) *ExpandedSigningKey {
	logn := sk.logn
	esk := &ExpandedSigningKey{
		logn:      logn,
		vkey:      sk.vkey,
		hashed_vk: sk.hashed_vk,
		ek:        make([]f64, expanded_key_size(logn)),
	}
	tmp := make([]f64, 6<<logn)
	expand_privkey(logn, esk.ek, sk.f, sk.g, sk.F, sk.G, tmp)
	return esk
}

// Get the degree of the key (logarithmic).
func (esk *ExpandedSigningKey) LogN() uint {
	return esk.logn
}

// Get the encoded verifying key matching this signing key.
func (esk *ExpandedSigningKey) VerifyingKey() []byte {
	vkey := make([]byte, len(esk.vkey))
	copy(vkey, esk.vkey)
	return vkey
}

// Get a copy of the expanded key contents: the basis (b00, b01, b10,
// b11) in FFT representation, then the normalized LDL tree. The
// returned slice has 4*n + (logn+1)*n elements.
func (esk *ExpandedSigningKey) Floats() []float64 {
	r := make([]float64, len(esk.ek))
	copy(r, esk.ek)
	return r
}

// Sign a message. Parameters are as in [Sign]; using the OS RNG (rng
// set to nil) is recommended.
func (esk *ExpandedSigningKey) Sign(rng io.Reader,
	ctx DomainContext, id crypto.Hash, data []byte) ([]byte, error) {

	var seed [40]byte
	if rng == nil {
		rng = rand.Reader
	}
	if _, err := io.ReadFull(rng, seed[:]); err != nil {
		return nil, err
	}
	return esk.sign_seeded(seed[:], ctx, id, data)
}

// Sign with an explicit seed; the output is deterministic.
func (esk *ExpandedSigningKey) sign_seeded(seed []byte,
	ctx DomainContext, id crypto.Hash, data []byte) ([]byte, error) {

	logn := esk.logn
	n := 1 << logn
	tmp_i16 := make([]int16, 3*n)
	tmp_u16 := make([]uint16, n)
	tmp_f64 := make([]f64, sign_tmp_f64_size(logn))
	sig := make([]byte, SignatureSize(logn))
	key := treeBasis{logn: logn, ek: esk.ek}
	err := sign_core(logn, key, esk.hashed_vk[:], ctx, id, data,
		seed, sig, tmp_i16, tmp_u16, tmp_f64, is_short_tmp)
	if err != nil {
		return nil, err
	}
	return sig, nil
}
