// Package keystore reads and writes FN-DSA key files, and keeps recently
// used signing keys in expanded form.
package keystore

import (
	"encoding/hex"
	"os"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/zeebo/blake3"

	"github.com/benjivesterby/go-fn-dsa/fndsa"
	"github.com/benjivesterby/go-fn-dsa/internal/logging"
)

// Fingerprint returns a short identifier of an encoded key: the first
// 16 bytes of its BLAKE3 hash, in hexadecimal.
func Fingerprint(key []byte) string {
	h := blake3.New()
	h.Write(key)
	return hex.EncodeToString(h.Sum(nil)[:16])
}

// LogN returns the degree (logarithmic) of an encoded signing key,
// verifying key or signature, from its header byte.
func LogN(data []byte) (uint, error) {
	if len(data) == 0 {
		return 0, errors.New("empty key")
	}
	logn := uint(data[0] & 0x0F)
	if logn < 2 || logn > 10 {
		return 0, errors.Errorf("unsupported degree in header: logn=%d", logn)
	}
	return logn, nil
}

// ReadKey reads an encoded key from a file.
func ReadKey(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading key %s", path)
	}
	if _, err := LogN(data); err != nil {
		return nil, errors.Wrapf(err, "key %s", path)
	}
	return data, nil
}

// WriteKey writes an encoded key into a file. Signing keys are only
// readable by their owner.
func WriteKey(path string, key []byte, private bool) error {
	perm := os.FileMode(0o644)
	if private {
		perm = 0o600
	}
	if err := os.WriteFile(path, key, perm); err != nil {
		return errors.Wrapf(err, "writing key %s", path)
	}
	return nil
}

// Store expands signing keys and keeps the most recently used expanded
// keys in memory. It is safe for concurrent use; the returned expanded
// keys are shared.
type Store struct {
	cache *lru.Cache
	log   logging.Logger
}

// New creates a Store keeping at most size expanded keys.
func New(size int, log logging.Logger) (*Store, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "creating key cache")
	}
	return &Store{cache: cache, log: log}, nil
}

// Expanded returns the expanded form of an encoded signing key. Keys of
// the non-standard degrees (2 to 8) are accepted.
func (s *Store) Expanded(skey []byte) (*fndsa.ExpandedSigningKey, error) {
	fp := Fingerprint(skey)
	if v, ok := s.cache.Get(fp); ok {
		s.log.Debug("expanded key cache hit", logging.String("key", fp))
		return v.(*fndsa.ExpandedSigningKey), nil
	}

	logn, err := LogN(skey)
	if err != nil {
		return nil, err
	}
	var esk *fndsa.ExpandedSigningKey
	if logn <= 8 {
		esk, err = fndsa.ExpandSigningKeyWeak(skey)
	} else {
		esk, err = fndsa.ExpandSigningKey(skey)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "expanding key %s", fp)
	}
	s.cache.Add(fp, esk)
	s.log.Debug("expanded signing key",
		logging.String("key", fp), logging.Uint("logn", logn))
	return esk, nil
}

// Len returns the number of expanded keys currently held.
func (s *Store) Len() int {
	return s.cache.Len()
}
