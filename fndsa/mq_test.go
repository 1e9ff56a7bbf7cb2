package fndsa

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Reference operations on plain integers in [1,q].
func mq_ref_norm(x uint64) uint32 {
	r := uint32(x % q)
	if r == 0 {
		r = q
	}
	return r
}

func TestMqScalar(t *testing.T) {
	// R^-1 mod q = 11857, for checking the Montgomery multiplication.
	const rinv = 11857
	for x := uint32(1); x <= q; x++ {
		require.Equal(t, mq_ref_norm(uint64(x)*uint64((q+1)/2)), mq_half(x), "half %d", x)
		for y := uint32(1); y <= q; y++ {
			if z := mq_add(x, y); z != mq_ref_norm(uint64(x+y)) {
				t.Fatalf("mq_add(%d, %d) = %d", x, y, z)
			}
			if z := mq_sub(x, y); z != mq_ref_norm(uint64(q+x-y)) {
				t.Fatalf("mq_sub(%d, %d) = %d", x, y, z)
			}
			if z := mq_mmul(x, y); z != mq_ref_norm(uint64(x)*uint64(y)%q*rinv) {
				t.Fatalf("mq_mmul(%d, %d) = %d", x, y, z)
			}
		}
	}
}

func TestMqDiv(t *testing.T) {
	for _, x := range []uint32{1, 2, 3, 1000, q - 1, q} {
		for y := uint32(1); y < q; y++ {
			z := mq_div(x, y)
			// z*y = x
			if w := mq_mmul(r2, mq_mmul(z, y)); w != x {
				t.Fatalf("mq_div(%d, %d) = %d", x, y, z)
			}
		}
		require.Equal(t, uint32(q), mq_div(x, q))
	}
}

func TestMqSigned(t *testing.T) {
	for x := int32(-q + 1); x <= q; x++ {
		v := mq_of_signed(x)
		require.GreaterOrEqual(t, v, uint32(1))
		require.LessOrEqual(t, v, uint32(q))
		require.Equal(t, mq_ref_norm(uint64(x+q)), v)

		s := mq_to_signed(v)
		require.LessOrEqual(t, s, int32(q/2))
		require.GreaterOrEqual(t, s, -int32(q/2))
		require.Equal(t, v, mq_of_signed(s))
	}
}

func TestMqPolyConversions(t *testing.T) {
	const logn = 6
	n := 1 << logn
	r := newSHAKE256x4([]byte("conv"))

	// small -> int -> small
	f := make([]int8, n)
	f2 := make([]int8, n)
	d := make([]uint16, n)
	for i := range f {
		f[i] = int8(int(r.next_u8()%255) - 127)
	}
	f[0] = -127
	f[1] = 127
	f[2] = 0
	mqpoly_small_to_int(logn, f, d)
	require.Equal(t, uint16(q), d[2])
	require.True(t, mqpoly_int_to_small(logn, d, f2))
	require.Equal(t, f, f2)

	// out-of-range value
	s := make([]int16, n)
	s[5] = 128
	mqpoly_signed_to_int(logn, s, d)
	require.False(t, mqpoly_int_to_small(logn, d, f2))
	s[5] = -128
	mqpoly_signed_to_int(logn, s, d)
	require.False(t, mqpoly_int_to_small(logn, d, f2))

	// ext <-> int
	e := make([]uint16, n)
	for i := range e {
		e[i] = r.next_u16() % q
	}
	e[0] = 0
	orig := append([]uint16(nil), e...)
	mqpoly_ext_to_int(logn, e)
	require.Equal(t, uint16(q), e[0])
	for i := 1; i < n; i++ {
		if orig[i] != 0 {
			require.Equal(t, orig[i], e[i])
		}
	}
	mqpoly_int_to_ext(logn, e)
	require.Equal(t, orig, e)
}

func TestMqSqnorm(t *testing.T) {
	const logn = 4
	n := 1 << logn
	s := make([]int16, n)
	a := make([]uint16, n)
	want := uint32(0)
	for i := range s {
		s[i] = int16(i*37) - 300
		want += uint32(int32(s[i]) * int32(s[i]))
	}
	mqpoly_signed_to_int(logn, s, a)
	require.Equal(t, want, signed_poly_sqnorm(logn, s))
	require.Equal(t, want, mqpoly_sqnorm(logn, a))

	// Saturation.
	big := make([]int16, 1024)
	for i := range big {
		big[i] = -32768
	}
	require.Equal(t, ^uint32(0), signed_poly_sqnorm(10, big))

	require.True(t, mqpoly_sqnorm_is_acceptable(9, l2bound[9]))
	require.False(t, mqpoly_sqnorm_is_acceptable(9, l2bound[9]+1))
}

func TestMqPolyNTT(t *testing.T) {
	r := newSHAKE256x4([]byte("ntt"))
	for logn := uint(1); logn <= 10; logn++ {
		n := 1 << logn
		a := make([]uint16, n)
		b := make([]uint16, n)
		for k := 0; k < 10; k++ {
			for i := 0; i < n; i++ {
				a[i] = r.next_u16() % q
				b[i] = r.next_u16() % q
			}

			// Schoolbook product modulo X^n+1.
			want := make([]uint16, n)
			for i := 0; i < n; i++ {
				s := uint64(0)
				for j := 0; j < n; j++ {
					p := uint64(a[j]) * uint64(b[(i-j+n)%n])
					if j > i {
						p = q*q - p
					}
					s += p
				}
				want[i] = uint16(s % q)
			}

			// NTT round trip is the identity.
			c := append([]uint16(nil), a...)
			mqpoly_ext_to_int(logn, c)
			mqpoly_int_to_ntt(logn, c)
			mqpoly_ntt_to_int(logn, c)
			mqpoly_int_to_ext(logn, c)
			require.Equal(t, a, c)

			mqpoly_ext_to_int(logn, a)
			mqpoly_int_to_ntt(logn, a)
			mqpoly_ext_to_int(logn, b)
			mqpoly_int_to_ntt(logn, b)
			mqpoly_mul_ntt(logn, a, b)
			mqpoly_ntt_to_int(logn, a)
			mqpoly_int_to_ext(logn, a)
			require.Equal(t, want, a, "logn=%d", logn)
		}
	}
}
