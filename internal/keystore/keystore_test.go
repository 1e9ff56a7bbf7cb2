package keystore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/benjivesterby/go-fn-dsa/fndsa"
	"github.com/benjivesterby/go-fn-dsa/internal/logging"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("key a"))
	require.Len(t, a, 32)
	require.Equal(t, a, Fingerprint([]byte("key a")))
	require.NotEqual(t, a, Fingerprint([]byte("key b")))
}

func TestReadWriteKey(t *testing.T) {
	dir := t.TempDir()
	sk, vk, err := fndsa.KeyGen(4, nil)
	require.NoError(t, err)

	skPath := filepath.Join(dir, "test.key")
	vkPath := filepath.Join(dir, "test.pub")
	require.NoError(t, WriteKey(skPath, sk, true))
	require.NoError(t, WriteKey(vkPath, vk, false))

	st, err := os.Stat(skPath)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	sk2, err := ReadKey(skPath)
	require.NoError(t, err)
	require.Equal(t, sk, sk2)
	vk2, err := ReadKey(vkPath)
	require.NoError(t, err)
	require.Equal(t, vk, vk2)

	logn, err := LogN(sk2)
	require.NoError(t, err)
	require.Equal(t, uint(4), logn)

	_, err = ReadKey(filepath.Join(dir, "missing.key"))
	require.Error(t, err)
	require.NoError(t, os.WriteFile(skPath, []byte{0x51}, 0o600))
	_, err = ReadKey(skPath)
	require.Error(t, err)
}

func TestStore(t *testing.T) {
	store, err := New(2, logging.NewNopLogger())
	require.NoError(t, err)

	var keys [][]byte
	for _, logn := range []uint{4, 5, 9} {
		sk, vk, err := fndsa.KeyGen(logn, nil)
		require.NoError(t, err)
		keys = append(keys, sk)

		esk, err := store.Expanded(sk)
		require.NoError(t, err)
		require.Equal(t, logn, esk.LogN())
		require.Equal(t, vk, esk.VerifyingKey())

		again, err := store.Expanded(sk)
		require.NoError(t, err)
		require.Same(t, esk, again)
	}

	// The oldest key has been evicted.
	require.Equal(t, 2, store.Len())
	require.False(t, store.cache.Contains(Fingerprint(keys[0])))

	_, err = store.Expanded([]byte{0x54, 0x00})
	require.Error(t, err)
	_, err = store.Expanded(nil)
	require.Error(t, err)

	_, err = New(0, logging.NewNopLogger())
	require.Error(t, err)
}
