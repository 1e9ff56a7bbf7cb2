package fndsa

import (
	"crypto"
	"encoding/binary"
	"errors"
	"io"

	sha3 "golang.org/x/crypto/sha3"
)

// Number of bits per coefficient of f and g in an encoded signing key.
func nbits_fg(logn uint) int {
	switch {
	case logn <= 5:
		return 8
	case logn <= 7:
		return 7
	case logn <= 9:
		return 6
	default:
		return 5
	}
}

// Get the size of a signing key, in bytes, for a given degree. The
// degree n is provided logarithmically as logn, with n = 2^logn.
// Standard degrees are 512 (logn = 9) and 1024 (logn = 10).
func SigningKeySize(logn uint) int {
	// header, f and g (trimmed), F (8 bits per coefficient)
	return 1 + 2*((nbits_fg(logn)<<logn)>>3) + (1 << logn)
}

// Get the size of a verifying key, in bytes, for a given degree. The
// degree n is provided logarithmically as logn, with n = 2^logn.
func VerifyingKeySize(logn uint) int {
	// header, then 14 bits per coefficient
	return 1 + ((14 << logn) >> 3)
}

// Get the size of a signature, in bytes, for a given degree. The
// degree n is provided logarithmically as logn, with n = 2^logn.
// The compressed s2 must fit in the remaining space; signing retries
// otherwise.
func SignatureSize(logn uint) int {
	return 44 + 3*(256>>(10-logn)) + 2*(128>>(10-logn)) +
		3*(64>>(10-logn)) + 2*(16>>(10-logn)) -
		2*(2>>(10-logn)) - 8*(1>>(10-logn))
}

// Get the degree from the header byte of an encoded key or signature:
// the high nibble identifies the object (0x00 for verifying keys, 0x30
// for signatures, 0x50 for signing keys) and the low nibble is logn.
func decode_header(data []byte, kind byte,
	logn_min uint, logn_max uint) (uint, bool) {

	if len(data) == 0 || (data[0]&0xF0) != kind {
		return 0, false
	}
	logn := uint(data[0] & 0x0F)
	return logn, logn >= logn_min && logn <= logn_max
}

// An alias for a domain context, which is an arbitrary sequence of up
// to 255 bytes that is meant to be used for domain separation.
type DomainContext []byte

// A pre-allocated empty context string.
var DOMAIN_NONE = DomainContext([]byte{})

// DER-encoded OIDs of the supported pre-hash functions; all of them are
// under 2.16.840.1.101.3.4.2 (NIST hash algorithms).
var prehash_oids = map[crypto.Hash][]byte{
	0:                 nil,
	crypto.SHA256:     nist_hash_oid(0x01),
	crypto.SHA384:     nist_hash_oid(0x02),
	crypto.SHA512:     nist_hash_oid(0x03),
	crypto.SHA512_256: nist_hash_oid(0x06),
	crypto.SHA3_256:   nist_hash_oid(0x08),
	crypto.SHA3_384:   nist_hash_oid(0x09),
	crypto.SHA3_512:   nist_hash_oid(0x0A),
}

func nist_hash_oid(last byte) []byte {
	return []byte{
		0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, last,
	}
}

// Hash the message into a polynomial c (n values in [0,q-1]).
//
//	nonce             signature nonce value (normally 40 bytes)
//	hashed_vrfy_key   SHAKE256 of the verifying key (64 bytes)
//	ctx               domain separation context
//	id                identifier for pre-hash function (0 for raw data)
//	data              pre-hashed data to sign/verify
//
// An error is returned if the hash identifier is unrecognized, or if the
// context length is greater than 255 bytes.
func hash_to_point(logn uint, nonce []byte, hashed_vrfy_key []byte,
	ctx DomainContext, id crypto.Hash, data []byte, c []uint16) error {

	if len(ctx) > 255 {
		return errors.New("Oversized domain separation context")
	}
	oid, ok := prehash_oids[id]
	if !ok {
		return errors.New("Unknown pre-hash function identifier")
	}
	var hb [2]byte
	if id != 0 {
		hb[0] = 0x01
	}
	hb[1] = uint8(len(ctx))

	sh := sha3.NewShake256()
	sh.Write(nonce)
	sh.Write(hashed_vrfy_key)
	sh.Write(hb[:])
	sh.Write(ctx)
	sh.Write(oid)
	sh.Write(data)
	shake_to_point(logn, sh, c)
	return nil
}

// Extract n values modulo q from a SHAKE output: 16-bit big-endian
// words, those above the largest multiple of q (61445 = 5*q) are
// skipped.
func shake_to_point(logn uint, sh io.Reader, c []uint16) {
	n := 1 << logn
	for i := 0; i < n; {
		var v [2]byte
		sh.Read(v[:])
		w := uint32(binary.BigEndian.Uint16(v[:]))
		if w >= 5*q {
			continue
		}
		c[i] = uint16(w % q)
		i++
	}
}

// Hash the provided verifying (public) key into 64 bytes, using SHAKE256.
func hash_verifying_key(vkey []byte) [64]byte {
	var d [64]byte
	sha3.ShakeSum256(d[:], vkey)
	return d
}

// A PRNG based on four parallel SHAKE256 instances, each seeded with the
// seed followed by its index. Output interleaves 8-byte words of the
// four instances, and is read as little-endian integers.
type shake256x4 struct {
	state [4]sha3.ShakeHash
	buf   [4 * 136]byte
	ptr   int
}

// Create a new SHAKE256x4 instance, initialized with the provided seed.
func newSHAKE256x4(seed []byte) *shake256x4 {
	r := new(shake256x4)
	for i := range r.state {
		r.state[i] = sha3.NewShake256()
	}
	r.reseed(seed)
	return r
}

// Reinitialize a SHAKE256x4 instance with a new seed.
func (r *shake256x4) reseed(seed []byte) {
	for i, sh := range r.state {
		sh.Reset()
		sh.Write(seed)
		sh.Write([]byte{byte(i)})
	}
	r.ptr = len(r.buf)
}

// Get the next k bytes of output (k <= 8). Bytes left at the end of the
// buffer, if fewer than k, are skipped.
func (r *shake256x4) next(k int) []byte {
	if r.ptr+k > len(r.buf) {
		r.refill()
	}
	b := r.buf[r.ptr : r.ptr+k]
	r.ptr += k
	return b
}

func (r *shake256x4) next_u8() uint8 {
	return r.next(1)[0]
}

func (r *shake256x4) next_u16() uint16 {
	return binary.LittleEndian.Uint16(r.next(2))
}

func (r *shake256x4) next_u64() uint64 {
	return binary.LittleEndian.Uint64(r.next(8))
}

// Refill the output buffer: 136 bytes (one SHAKE256 block) from each
// instance, as 17 words of 8 bytes; word j of instance i goes to
// offset 32*j + 8*i.
func (r *shake256x4) refill() {
	var tmp [136]byte
	for i, sh := range r.state {
		sh.Read(tmp[:])
		for j := 0; j < 17; j++ {
			copy(r.buf[(j<<5)+(i<<3):], tmp[j<<3:(j<<3)+8])
		}
	}
	r.ptr = 0
}
