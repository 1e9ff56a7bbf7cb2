package fndsa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrimI8Codec(t *testing.T) {
	r := newSHAKE256x4([]byte("trim_i8"))
	for logn := uint(2); logn <= 10; logn++ {
		n := 1 << logn
		for _, nbits := range []int{nbits_fg(logn), 8} {
			f := make([]int8, n)
			lim := int8((1 << (nbits - 1)) - 1)
			for i := range f {
				f[i] = int8(r.next_u8()) % (lim + 1)
			}
			f[0] = lim
			f[n-1] = -lim

			size := (nbits * n) / 8
			buf := make([]byte, size+3)
			require.Equal(t, size, trim_i8_encode(logn, f, nbits, buf))

			f2 := make([]int8, n)
			used, err := trim_i8_decode(logn, buf, f2, nbits)
			require.NoError(t, err)
			require.Equal(t, size, used)
			require.Equal(t, f, f2)

			_, err = trim_i8_decode(logn, buf[:size-1], f2, nbits)
			require.Error(t, err)
		}
	}

	// -2^(nbits-1) has no valid encoding.
	f := make([]int8, 4)
	_, err := trim_i8_decode(2, []byte{0x80, 0x00, 0x00, 0x00}, f, 8)
	require.Error(t, err)
	_, err = trim_i8_decode(2, []byte{0x7F, 0x00, 0x00, 0x01}, f, 8)
	require.NoError(t, err)
	require.Equal(t, []int8{127, 0, 0, 1}, f)
}

func TestModqCodec(t *testing.T) {
	r := newSHAKE256x4([]byte("modq"))
	for logn := uint(2); logn <= 10; logn++ {
		n := 1 << logn
		h := make([]uint16, n)
		for i := range h {
			h[i] = r.next_u16() % q
		}
		h[0] = q - 1

		buf := make([]byte, VerifyingKeySize(logn)-1)
		require.Equal(t, len(buf), modq_encode(logn, h, buf))
		h2 := make([]uint16, n)
		used, err := modq_decode(logn, buf, h2)
		require.NoError(t, err)
		require.Equal(t, len(buf), used)
		require.Equal(t, h, h2)

		_, err = modq_decode(logn, buf[:len(buf)-1], h2)
		require.Error(t, err)
	}

	// 14-bit value q is out of range.
	h := make([]uint16, 4)
	h[0] = q - 1
	buf := make([]byte, 7)
	modq_encode(2, h, buf)
	buf[1] += 0x04
	_, err := modq_decode(2, buf, h)
	require.Error(t, err)
}

func TestCompCodec(t *testing.T) {
	r := newSHAKE256x4([]byte("comp"))
	for logn := uint(2); logn <= 10; logn++ {
		n := 1 << logn
		s := make([]int16, n)
		for i := range s {
			// Mostly small values, as in signatures.
			s[i] = int16(int8(r.next_u8())) >> 2
		}
		s[0] = 2047
		s[1] = -2047
		s[2] = 0

		buf := make([]byte, SignatureSize(logn)+64)
		require.True(t, comp_encode(logn, s, buf))
		s2 := make([]int16, n)
		require.NoError(t, comp_decode(logn, buf, s2))
		require.Equal(t, s, s2)

		// Non-zero trailing byte.
		buf[len(buf)-1] = 1
		require.Error(t, comp_decode(logn, buf, s2))

		// Too short for the encoding.
		require.False(t, comp_encode(logn, s, buf[:4]))
	}

	s := []int16{2048, 0, 0, 0}
	require.False(t, comp_encode(2, s, make([]byte, 64)))

	// 0, 0, -1, +129
	ref := []byte{0x00, 0x80, 0x60, 0x60, 0x28}
	buf := make([]byte, 5)
	require.True(t, comp_encode(2, []int16{0, 0, -1, 129}, buf))
	require.Equal(t, ref, buf)
	f := make([]int16, 4)
	require.NoError(t, comp_decode(2, ref, f))
	require.Equal(t, []int16{0, 0, -1, 129}, f)

	// "Minus zero": sign bit set, value 0.
	require.Error(t, comp_decode(2, []byte{0x80, 0x80, 0x00, 0x00, 0x00, 0x00}, f))
	// Truncated.
	require.Error(t, comp_decode(2, []byte{0x00, 0x80}, f))
}
