package fndsa

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	sha3 "golang.org/x/crypto/sha3"
	"golang.org/x/sync/errgroup"
)

func TestFNDSA_Self(t *testing.T) {
	for logn := uint(2); logn <= uint(10); logn++ {
		fmt.Printf("[%d]", logn)
		for i := 0; i < 3; i++ {
			sk, vk, err := KeyGen(logn, nil)
			if err != nil {
				t.Fatal(err)
			}
			if len(sk) != SigningKeySize(logn) {
				t.Fatalf("wrong signing key size (logn=%d): %d\n",
					logn, len(sk))
			}
			if len(vk) != VerifyingKeySize(logn) {
				t.Fatalf("wrong verifying key size (logn=%d): %d\n",
					logn, len(vk))
			}
			data := []byte("test")
			var sig []byte
			if logn <= 8 {
				sig, err = SignWeak(nil, sk, DOMAIN_NONE, 0, data)
			} else {
				sig, err = Sign(nil, sk, DOMAIN_NONE, 0, data)
			}
			if err != nil {
				t.Fatal(err)
			}
			if len(sig) != SignatureSize(logn) {
				t.Fatalf("wrong signature size (logn=%d): %d\n",
					logn, len(sig))
			}
			var r bool
			if logn <= 8 {
				r = VerifyWeak(vk, DOMAIN_NONE, 0, data, sig)
			} else {
				r = Verify(vk, DOMAIN_NONE, 0, data, sig)
			}
			if !r {
				t.Fatalf("signature verification failed (logn=%d)\n", logn)
			}
			fmt.Print(".")
		}
	}
	fmt.Println()
}

// Seeded key pair: seed1 = 0x00 || logn || j is expanded with SHAKE256
// into the 32-byte key generation seed.
func seeded_keypair(t *testing.T, logn uint, j int) ([]byte, []byte) {
	var seed_kgen [32]byte
	sh := sha3.NewShake256()
	sh.Write([]byte{0x00, byte(logn), byte(j), byte(j >> 8),
		byte(j >> 16), byte(j >> 24)})
	sh.Read(seed_kgen[:])
	skey, vkey, err := KeyGen(logn, bytes.NewReader(seed_kgen[:]))
	require.NoError(t, err)
	return skey, vkey
}

// With fixed seeds, key generation and signing are reproducible, and the
// expanded key yields the same signatures as the raw key.
func TestFNDSA_Seeded(t *testing.T) {
	for logn := uint(2); logn <= 10; logn++ {
		for j := 0; j < 3; j++ {
			skey, vkey := seeded_keypair(t, logn, j)
			skey2, vkey2 := seeded_keypair(t, logn, j)
			require.Equal(t, skey, skey2)
			require.Equal(t, vkey, vkey2)

			seed := []byte{0x01, byte(logn), byte(j), 0, 0, 0}
			ctx := DomainContext([]byte("domain"))
			var id crypto.Hash
			msg := []byte("message")
			if (j & 1) != 0 {
				id = crypto.SHA3_256
				hv := sha3.Sum256(msg)
				msg = hv[:]
			}
			sig, err := sign_inner_seeded(logn, logn, seed, skey, ctx, id, msg)
			require.NoError(t, err)
			sig2, err := sign_inner_seeded(logn, logn, seed, skey, ctx, id, msg)
			require.NoError(t, err)
			require.Equal(t, sig, sig2)

			esk, err := expand_inner(logn, logn, skey)
			require.NoError(t, err)
			sig3, err := esk.sign_seeded(seed, ctx, id, msg)
			require.NoError(t, err)
			require.Equal(t, sig, sig3, "logn=%d j=%d", logn, j)

			require.True(t, verify_inner(logn, logn, vkey, ctx, id, msg, sig))
			require.False(t, verify_inner(logn, logn, vkey,
				DomainContext([]byte("other")), id, msg, sig))
		}
	}
}

func TestFNDSA_Expanded(t *testing.T) {
	for logn := uint(2); logn <= 10; logn++ {
		n := 1 << logn
		skey, vkey := seeded_keypair(t, logn, 100)
		var esk *ExpandedSigningKey
		var err error
		if logn <= 8 {
			esk, err = ExpandSigningKeyWeak(skey)
			require.NoError(t, err)
			_, err = ExpandSigningKey(skey)
			require.Error(t, err)
		} else {
			esk, err = ExpandSigningKey(skey)
			require.NoError(t, err)
			_, err = ExpandSigningKeyWeak(skey)
			require.Error(t, err)
		}
		require.Equal(t, logn, esk.LogN())
		require.Equal(t, vkey, esk.VerifyingKey())

		// Floats() is a copy: basis first, then the tree.
		fl := esk.Floats()
		require.Len(t, fl, 4*n+ffLDL_treesize(logn))
		sk, err := decode_signing_key(logn, logn, skey)
		require.NoError(t, err)
		b := make([]f64, 4*n)
		basis_to_FFT(logn, sk.f, sk.g, sk.F, sk.G, b)
		if diff := cmp.Diff(b, fl[:4*n]); diff != "" {
			t.Fatalf("logn=%d: basis mismatch:\n%s", logn, diff)
		}
		fl[0] = 42
		require.NotEqual(t, fl[0], esk.Floats()[0])

		data := []byte("expanded")
		sig, err := esk.Sign(nil, DOMAIN_NONE, 0, data)
		require.NoError(t, err)
		require.Len(t, sig, SignatureSize(logn))
		require.True(t, verify_inner(logn, logn, vkey, DOMAIN_NONE, 0, data, sig))
	}
}

// An expanded key is shared by concurrent signers.
func TestFNDSA_Concurrent(t *testing.T) {
	const logn = 9
	skey, vkey := seeded_keypair(t, logn, 200)
	esk, err := ExpandSigningKey(skey)
	require.NoError(t, err)

	const workers = 8
	sigs := make([][]byte, workers)
	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		eg.Go(func() error {
			data := []byte{byte(w)}
			for i := 0; i < 5; i++ {
				sig, err := esk.Sign(nil, DOMAIN_NONE, 0, data)
				if err != nil {
					return err
				}
				if !Verify(vkey, DOMAIN_NONE, 0, data, sig) {
					return errors.New("signature verification failed")
				}
				sigs[w] = sig
			}
			return nil
		})
	}
	require.NoError(t, eg.Wait())
	for w := 0; w < workers; w++ {
		require.True(t, Verify(vkey, DOMAIN_NONE, 0, []byte{byte(w)}, sigs[w]))
	}
}

func TestFNDSA_Tampered(t *testing.T) {
	const logn = 9
	skey, vkey := seeded_keypair(t, logn, 300)
	data := []byte("tampered")
	sig, err := Sign(nil, skey, DOMAIN_NONE, 0, data)
	require.NoError(t, err)
	require.True(t, Verify(vkey, DOMAIN_NONE, 0, data, sig))

	require.False(t, Verify(vkey, DOMAIN_NONE, 0, []byte("other"), sig))
	require.False(t, Verify(vkey, DOMAIN_NONE, crypto.SHA256, data, sig))
	require.False(t, Verify(vkey, DOMAIN_NONE, 0, data, sig[:len(sig)-1]))
	bad := append([]byte(nil), sig...)
	bad[5] ^= 0x01
	require.False(t, Verify(vkey, DOMAIN_NONE, 0, data, bad))
	bad = append([]byte(nil), sig...)
	bad[0] = 0x3A
	require.False(t, Verify(vkey, DOMAIN_NONE, 0, data, bad))

	// Weak and standard degrees are not interchangeable.
	require.False(t, VerifyWeak(vkey, DOMAIN_NONE, 0, data, sig))
	_, err = SignWeak(nil, skey, DOMAIN_NONE, 0, data)
	require.Error(t, err)

	_, _, err = KeyGen(11, nil)
	require.Error(t, err)
	_, _, err = KeyGen(1, nil)
	require.Error(t, err)
}

func BenchmarkKeyGen512(b *testing.B) {
	bench_keygen_inner(b, 9)
}

func BenchmarkKeyGen1024(b *testing.B) {
	bench_keygen_inner(b, 10)
}

func bench_keygen_inner(b *testing.B, logn uint) {
	for i := 0; i < b.N; i++ {
		KeyGen(logn, nil)
	}
}

func BenchmarkSign512(b *testing.B) {
	bench_sign_inner(b, 9)
}

func BenchmarkSign1024(b *testing.B) {
	bench_sign_inner(b, 10)
}

func BenchmarkSignExpanded512(b *testing.B) {
	bench_sign_expanded_inner(b, 9)
}

func BenchmarkSignExpanded1024(b *testing.B) {
	bench_sign_expanded_inner(b, 10)
}

func bench_sign_expanded_inner(b *testing.B, logn uint) {
	sk, _, _ := KeyGen(logn, nil)
	esk, err := ExpandSigningKey(sk)
	if err != nil {
		b.Fatal(err)
	}
	data := []byte("test")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sig, _ := esk.Sign(nil, DOMAIN_NONE, 0, data)
		data = sig[len(sig)-32:]
	}
}

func bench_sign_inner(b *testing.B, logn uint) {
	// Make a key pair.
	sk, vk, _ := KeyGen(logn, nil)

	// Data is a raw message, not pre-hashed, and context is empty.
	data := []byte("test")

	// A few blank signatures for "warm-up".
	for i := 0; i < 10; i++ {
		sig, err := Sign(nil, sk, DOMAIN_NONE, 0, data)
		if err != nil {
			b.Fatalf("failure, err = %v", err)
		}
		if !Verify(vk, DOMAIN_NONE, 0, data, sig) {
			b.Fatalf("ERR: signature verification failed")
		}
		data = sig[len(sig)-32:]
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sig, _ := Sign(nil, sk, DOMAIN_NONE, 0, data)
		data = sig[len(sig)-32:]
	}
}

func BenchmarkVerify512(b *testing.B) {
	bench_verify_inner(b, 9)
}

func BenchmarkVerify1024(b *testing.B) {
	bench_verify_inner(b, 10)
}

func bench_verify_inner(b *testing.B, logn uint) {
	// Make a key pair.
	sk, vk, _ := KeyGen(logn, nil)

	// Data is a raw message, not pre-hashed, and context is empty.
	data := []byte("test")

	// Compute some signatures.
	var sigs [10][]byte
	for i := 0; i < 10; i++ {
		sigs[i], _ = Sign(nil, sk, DOMAIN_NONE, 0, data)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if !Verify(vk, DOMAIN_NONE, 0, data, sigs[i%len(sigs)]) {
			b.Fatal("signature verification failed")
		}
	}
}
