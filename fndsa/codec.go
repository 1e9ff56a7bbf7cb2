package fndsa

import (
	"errors"
)

// All encodings are big-endian bit streams: the first value goes into
// the most significant bits of the first byte.

// Bit stream writer over a fixed-size destination.
type bitWriter struct {
	dst []byte
	j   int
	acc uint64
	n   uint
}

// Append the nbits low bits of v (nbits <= 32). Returned value is false
// if the destination is full.
func (w *bitWriter) write(v uint32, nbits uint) bool {
	w.acc = (w.acc << nbits) | (uint64(v) & ((uint64(1) << nbits) - 1))
	w.n += nbits
	for w.n >= 8 {
		if w.j >= len(w.dst) {
			return false
		}
		w.n -= 8
		w.dst[w.j] = uint8(w.acc >> w.n)
		w.j++
	}
	return true
}

// Write out the pending bits (if any), completed with zeros up to the
// next byte boundary.
func (w *bitWriter) flush() bool {
	if w.n == 0 {
		return true
	}
	if w.j >= len(w.dst) {
		return false
	}
	w.dst[w.j] = uint8(w.acc << (8 - w.n))
	w.j++
	w.n = 0
	return true
}

// Bit stream reader. Bytes are consumed only when needed.
type bitReader struct {
	src []byte
	i   int
	acc uint64
	n   uint
}

// Read the next nbits bits (nbits <= 32). Returned value is false if
// the source is exhausted.
func (r *bitReader) read(nbits uint) (uint32, bool) {
	for r.n < nbits {
		if r.i >= len(r.src) {
			return 0, false
		}
		r.acc = (r.acc << 8) | uint64(r.src[r.i])
		r.i++
		r.n += 8
	}
	r.n -= nbits
	return uint32(r.acc>>r.n) & uint32((uint64(1)<<nbits)-1), true
}

// Check that the unread bits of the current byte are all zero.
func (r *bitReader) zero_padding() bool {
	return (r.acc & ((uint64(1) << r.n) - 1)) == 0
}

// Encode a small polynomial with nbits bits per coefficient (two's
// complement, truncated). The total size MUST be an integral number of
// bytes. The number of written bytes is returned.
func trim_i8_encode(logn uint, f []int8, nbits int, dst []byte) int {
	n := 1 << logn
	w := bitWriter{dst: dst}
	for i := 0; i < n; i++ {
		w.write(uint32(f[i]), uint(nbits))
	}
	return w.j
}

// Decode a small polynomial with nbits bits per coefficient into f[].
// The number of read bytes is returned. The value -2^(nbits-1) is
// rejected, as are non-zero unused bits in the last byte.
func trim_i8_decode(logn uint, src []byte, f []int8, nbits int) (int, error) {
	n := 1 << logn
	r := bitReader{src: src}
	lim := uint32(1) << (nbits - 1)
	for i := 0; i < n; i++ {
		w, ok := r.read(uint(nbits))
		if !ok {
			return 0, errors.New("Truncated source")
		}
		if w == lim {
			return 0, errors.New("Invalid coefficient value")
		}
		// sign extension
		f[i] = int8(int32(w<<(32-nbits)) >> (32 - nbits))
	}
	if !r.zero_padding() {
		return 0, errors.New("Non-zero padding bits")
	}
	return r.i, nil
}

// Encode a polynomial modulo q (values in [0,q-1]) over 14 bits per
// value. logn MUST be at least 2. The number of written bytes is
// returned.
func modq_encode(logn uint, h []uint16, dst []byte) int {
	n := 1 << logn
	w := bitWriter{dst: dst}
	for i := 0; i < n; i++ {
		w.write(uint32(h[i]), 14)
	}
	return w.j
}

// Decode a polynomial modulo q (14 bits per value, logn >= 2). Values
// out of [0,q-1] are rejected. The number of read bytes is returned.
func modq_decode(logn uint, src []byte, h []uint16) (int, error) {
	n := 1 << logn
	r := bitReader{src: src}
	for i := 0; i < n; i++ {
		x, ok := r.read(14)
		if !ok {
			return 0, errors.New("Truncated input")
		}
		if x >= q {
			return 0, errors.New("Invalid coefficient value")
		}
		h[i] = uint16(x)
	}
	return r.i, nil
}

// Encode a signed polynomial with the compressed format: for each value
// x, a sign bit (1 for negative), the 7 low bits of |x|, then |x| >> 7
// zeros and a final 1. Values MUST be in [-2047,+2047].
//
// The whole destination is written, unused bits and bytes being set to
// zero. False is returned if a value is out of range or if the encoding
// does not fit.
func comp_encode(logn uint, s []int16, dst []byte) bool {
	n := 1 << logn
	w := bitWriter{dst: dst}
	for i := 0; i < n; i++ {
		x := int32(s[i])
		if x < -2047 || x > +2047 {
			return false
		}
		sw := uint32(x >> 16)
		a := (uint32(x) ^ sw) - sw
		if !w.write((sw&0x80)|(a&0x7F), 8) {
			return false
		}
		if !w.write(1, uint(a>>7)+1) {
			return false
		}
	}
	if !w.flush() {
		return false
	}
	clear(dst[w.j:])
	return true
}

// Decode a signed polynomial from the compressed format (see
// comp_encode()). The entire source is read: all bits after the last
// value must be zero. Each value in [-2047,+2047] has a unique encoding;
// in particular "minus zero" is rejected.
func comp_decode(logn uint, src []byte, f []int16) error {
	n := 1 << logn
	r := bitReader{src: src}
	for i := 0; i < n; i++ {
		b, ok := r.read(8)
		if !ok {
			return errors.New("Truncated input")
		}
		neg := b >> 7
		m := b & 0x7F
		for {
			u, ok := r.read(1)
			if !ok {
				return errors.New("Truncated input")
			}
			if u != 0 {
				break
			}
			m += 0x80
			if m > 2047 {
				return errors.New("Out-of-range coefficient")
			}
		}
		if neg != 0 && m == 0 {
			return errors.New("Invalid minus zero encoding")
		}
		f[i] = int16((m ^ -neg) + neg)
	}

	if !r.zero_padding() {
		return errors.New("Non-zero padding bits")
	}
	for _, b := range src[r.i:] {
		if b != 0 {
			return errors.New("Non-zero padding bits")
		}
	}
	return nil
}
