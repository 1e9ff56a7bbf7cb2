// Package fndsa implements FN-DSA, the NIST post-quantum signature scheme
// derived from Falcon ([PQC project]).
//
// WARNING: the FN-DSA standard is not final. This package follows the
// current understanding of the scheme; encodings and hashing may change
// when the standard is published, without backward compatibility. Use it
// for tests and prototypes only.
//
// # Degrees
//
// Keys and signatures have a degree n = 2^logn. The API takes logn: 9
// and 10 (n = 512 and 1024) are the standard, secure degrees, accepted by
// [Sign], [Verify] and [ExpandSigningKey]. Degrees 4 to 256 (logn 2 to 8)
// are too weak for real use but handy for research and testing; they
// are only reachable through the functions with a Weak suffix, so that
// an application cannot use them by accident. Internally, the signing
// core also runs at degree 2 (logn = 1), which the package tests use as
// the smallest complete instance.
//
// # Keys and signatures
//
// [KeyGen] produces an encoded signing key (private) and verifying key
// (public), with sizes [SigningKeySize] and [VerifyingKeySize]. It reads
// its seed from the provided random source, which must be
// cryptographically secure; nil selects crypto/rand.Reader.
//
// A message is signed in pre-hashed form: a domain separation context
// (at most 255 bytes, [DOMAIN_NONE] for none), a [crypto.Hash]
// identifying the pre-hash function, and the hash value. The identifier
// 0 means that no pre-hashing was applied and the data is the message
// itself. Signatures have the fixed size [SignatureSize]; [Verify] and
// [VerifyWeak] return a plain boolean.
//
// # Signing paths
//
// [Sign] and [SignWeak] work from the encoded key alone: each call
// decodes the key and samples with a dynamic LDL tree, computing each
// level of the tree when the sampler reaches it and discarding it
// afterwards. Memory stays small and no tree is kept between calls.
//
// [ExpandSigningKey] instead computes the basis and the full LDL tree
// once. [ExpandedSigningKey.Sign] then samples over that static tree,
// which is faster when many messages are signed with one key. An
// expanded key is immutable and may be shared between goroutines.
//
// Both paths consume the sampler's randomness in the same order and give
// bit-identical signatures for the same seed.
//
// [PQC project]: https://www.nist.gov/pqcrypto
package fndsa
