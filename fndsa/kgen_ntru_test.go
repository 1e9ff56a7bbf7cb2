package fndsa

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func rand_poly_big(n int, bits uint, r *shake256x4) []*big.Int {
	p := make([]*big.Int, n)
	for i := range p {
		x := new(big.Int)
		for j := uint(0); j < bits; j += 64 {
			x.Lsh(x, 64)
			x.Add(x, new(big.Int).SetUint64(r.next_u64()))
		}
		if r.next_u8()&1 != 0 {
			x.Neg(x)
		}
		p[i] = x
	}
	return p
}

func schoolbook_mul(a []*big.Int, b []*big.Int) []*big.Int {
	n := len(a)
	r := new_poly_big(2 * n)
	t := new(big.Int)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r[i+j].Add(r[i+j], t.Mul(a[i], b[j]))
		}
	}
	return r
}

func equal_poly_big(a []*big.Int, b []*big.Int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

func TestBigKaratsuba(t *testing.T) {
	r := newSHAKE256x4([]byte("karatsuba"))
	for _, n := range []int{1, 2, 16, 32, 64, 256} {
		for _, bits := range []uint{8, 200} {
			a := rand_poly_big(n, bits, r)
			b := rand_poly_big(n, bits, r)
			require.True(t, equal_poly_big(schoolbook_mul(a, b),
				big_karatsuba(a, b)), "n=%d bits=%d", n, bits)
		}
	}
}

func TestBigFieldNorm(t *testing.T) {
	r := newSHAKE256x4([]byte("field norm"))
	for logn := uint(1); logn <= 8; logn++ {
		n := 1 << logn
		f := rand_poly_big(n, 64, r)
		fc := poly_big_galois_conjugate(f)
		ff := poly_big_mul(f, fc)

		// f(x)*f(-x) only has even coefficients, which are N(f).
		require.True(t, equal_poly_big(ff,
			poly_big_lift(poly_big_field_norm(logn, f, fc))), "logn=%d", logn)
	}
}

func TestBigBitsize(t *testing.T) {
	p := []*big.Int{big.NewInt(0), big.NewInt(-255), big.NewInt(3)}
	require.Equal(t, 8, poly_big_bitsize(p))
	p[0].SetInt64(256)
	require.Equal(t, 16, poly_big_bitsize(p))
	require.Equal(t, 0, poly_big_bitsize(new_poly_big(4)))
}

func TestSolveNTRU(t *testing.T) {
	for logn := uint(1); logn <= 8; logn++ {
		n := 1 << logn
		for k := 0; k < 3; k++ {
			f, g, F, G := test_key(logn, "ntru"+string(rune('0'+k)))
			require.True(t, ntru_check(logn, f, g, F, G), "logn=%d", logn)

			// Same check over big integers.
			fG := poly_big_mul(poly_big_of_small(logn, f),
				poly_big_of_small(logn, G))
			gF := poly_big_mul(poly_big_of_small(logn, g),
				poly_big_of_small(logn, F))
			for i := 0; i < n; i++ {
				d := new(big.Int).Sub(fG[i], gF[i])
				want := int64(0)
				if i == 0 {
					want = q
				}
				require.Equal(t, want, d.Int64(), "logn=%d i=%d", logn, i)
			}

			// The solver is deterministic.
			F2 := make([]int8, n)
			G2 := make([]int8, n)
			require.True(t, solve_NTRU(logn, f, g, F2, G2))
			require.Equal(t, F, F2)
			require.Equal(t, G, G2)
		}
	}
}

func TestSolveNTRUFailure(t *testing.T) {
	// With f and g both even, the resultants are both even and there is
	// no solution.
	const logn = 3
	f := []int8{2, 0, 4, 0, 0, 2, 0, 0}
	g := []int8{0, 2, 0, 0, 6, 0, 0, 2}
	F := make([]int8, 8)
	G := make([]int8, 8)
	require.False(t, solve_NTRU(logn, f, g, F, G))

	// A solution which does not fit on 8 bits is rejected.
	require.False(t, poly_big_to_small(1, F[:2],
		[]*big.Int{big.NewInt(1), big.NewInt(128)}, 127))
}

func TestKeyGenDeterministic(t *testing.T) {
	for logn := uint(2); logn <= 6; logn++ {
		f1, g1, F1, G1 := test_key(logn, "same")
		f2, g2, F2, G2 := test_key(logn, "same")
		require.Equal(t, f1, f2)
		require.Equal(t, g1, g2)
		require.Equal(t, F1, F2)
		require.Equal(t, G1, G2)

		// The encoded key decodes to the same polynomials, with G
		// recomputed.
		n := 1 << logn
		sk, vk := encode_keypair(logn, f1, g1, F1, G1, make([]uint16, 2*n))
		dk, err := decode_signing_key(2, 10, sk)
		require.NoError(t, err)
		require.Equal(t, f1, dk.f)
		require.Equal(t, g1, dk.g)
		require.Equal(t, F1, dk.F)
		require.Equal(t, G1, dk.G)
		require.Equal(t, vk, dk.vkey)
		require.Equal(t, hash_verifying_key(vk), dk.hashed_vk)
	}
}
