package model

import (
	"crypto/sha256"
	"fmt"
)

// DigestLength is the length of a hex-encoded credential digest.
const DigestLength = 64

// Digest hashes a credential secret with SHA-256 and returns the
// lowercase hex encoding.
func Digest(secret string) string {
	h := sha256.Sum256([]byte(secret))
	return fmt.Sprintf("%x", h[:])
}

// IsDigest reports whether s already has digest form: exactly 64
// lowercase hex-range characters.
func IsDigest(s string) bool {
	if len(s) != DigestLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// NormalizeSecret converts a client-supplied secret to digest form. A
// secret that already looks like a digest is accepted verbatim; raw
// secrets are hashed. Raw passwords that happen to be 64 lowercase
// alphanumerics therefore bypass hashing; clients rely on this to
// avoid sending plaintext.
func NormalizeSecret(secret string) string {
	if IsDigest(secret) {
		return secret
	}
	return Digest(secret)
}
