package fndsa

import (
	"bytes"
	"crypto"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodedSizes(t *testing.T) {
	tests := []struct {
		logn       uint
		skey, vkey int
		sig        int
	}{
		{2, 13, 8, 47},
		{3, 25, 15, 52},
		{4, 49, 29, 63},
		{5, 97, 57, 82},
		{6, 177, 113, 122},
		{7, 353, 225, 200},
		{8, 641, 449, 356},
		{9, 1281, 897, 666},
		{10, 2305, 1793, 1280},
	}
	for _, tt := range tests {
		require.Equal(t, tt.skey, SigningKeySize(tt.logn), "logn=%d", tt.logn)
		require.Equal(t, tt.vkey, VerifyingKeySize(tt.logn), "logn=%d", tt.logn)
		require.Equal(t, tt.sig, SignatureSize(tt.logn), "logn=%d", tt.logn)
	}
}

func TestHashToPoint(t *testing.T) {
	nonce := bytes.Repeat([]byte{0x5A}, 40)
	hvk := hash_verifying_key([]byte("verifying key"))
	msg := []byte("message")

	for logn := uint(1); logn <= 10; logn++ {
		n := 1 << logn
		c1 := make([]uint16, n)
		c2 := make([]uint16, n)
		require.NoError(t, hash_to_point(logn, nonce, hvk[:], DOMAIN_NONE, 0, msg, c1))
		for _, v := range c1 {
			require.Less(t, v, uint16(q))
		}
		require.NoError(t, hash_to_point(logn, nonce, hvk[:], DOMAIN_NONE, 0, msg, c2))
		require.Equal(t, c1, c2)

		// Every input changes the output.
		require.NoError(t, hash_to_point(logn, nonce[1:], hvk[:], DOMAIN_NONE, 0, msg, c2))
		require.NotEqual(t, c1, c2)
		require.NoError(t, hash_to_point(logn, nonce, hvk[:], DomainContext("x"), 0, msg, c2))
		require.NotEqual(t, c1, c2)
		require.NoError(t, hash_to_point(logn, nonce, hvk[:32], DOMAIN_NONE, 0, msg, c2))
		require.NotEqual(t, c1, c2)
	}

	// The pre-hash identifier is bound to the data.
	c1 := make([]uint16, 512)
	c2 := make([]uint16, 512)
	h := make([]byte, 32)
	require.NoError(t, hash_to_point(9, nonce, hvk[:], DOMAIN_NONE, crypto.SHA256, h, c1))
	require.NoError(t, hash_to_point(9, nonce, hvk[:], DOMAIN_NONE, crypto.SHA3_256, h, c2))
	require.NotEqual(t, c1, c2)
	require.NoError(t, hash_to_point(9, nonce, hvk[:], DOMAIN_NONE, 0, h, c2))
	require.NotEqual(t, c1, c2)

	require.Error(t, hash_to_point(9, nonce, hvk[:], DOMAIN_NONE, crypto.MD5, h, c1))
	require.Error(t, hash_to_point(9, nonce, hvk[:],
		DomainContext(make([]byte, 256)), 0, h, c1))
	require.NoError(t, hash_to_point(9, nonce, hvk[:],
		DomainContext(make([]byte, 255)), 0, h, c1))
}

func TestSHAKE256x4(t *testing.T) {
	r1 := newSHAKE256x4([]byte("seed"))
	r2 := newSHAKE256x4([]byte("seed"))
	var out1, out2 []uint64
	for i := 0; i < 1000; i++ {
		// Mixed widths cross the buffer boundaries.
		out1 = append(out1, uint64(r1.next_u8()), uint64(r1.next_u16()), r1.next_u64())
		out2 = append(out2, uint64(r2.next_u8()), uint64(r2.next_u16()), r2.next_u64())
	}
	require.Equal(t, out1, out2)

	// Reseeding restarts the stream.
	r1.reseed([]byte("seed"))
	require.Equal(t, out1[0], uint64(r1.next_u8()))

	// The first word comes from the first instance, little-endian.
	var first [8]byte
	sh := newSHAKE256x4([]byte("other"))
	x := sh.next_u64()
	copy(first[:], sh.buf[:8])
	require.Equal(t, x, uint64(first[0])|uint64(first[1])<<8|uint64(first[2])<<16|
		uint64(first[3])<<24|uint64(first[4])<<32|uint64(first[5])<<40|
		uint64(first[6])<<48|uint64(first[7])<<56)
	r3 := newSHAKE256x4([]byte("other!"))
	require.NotEqual(t, x, r3.next_u64())
}

func TestDecodeHeader(t *testing.T) {
	logn, ok := decode_header([]byte{0x59}, 0x50, 9, 10)
	require.True(t, ok)
	require.Equal(t, uint(9), logn)

	_, ok = decode_header([]byte{0x58}, 0x50, 9, 10)
	require.False(t, ok)
	_, ok = decode_header([]byte{0x39}, 0x50, 9, 10)
	require.False(t, ok)
	_, ok = decode_header(nil, 0x00, 2, 10)
	require.False(t, ok)

	// Truncated keys are rejected after the header check.
	_, err := decode_signing_key(9, 9, []byte{0x59})
	require.Error(t, err)
}
