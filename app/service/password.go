package service

import (
	"golang.org/x/crypto/bcrypt"
)

// bcrypt reads at most 72 bytes of input and GenerateFromPassword errors on
// anything longer. The password policy allows up to 128 characters, so the
// plaintext is truncated to the bcrypt limit on both hash and verify.
const maxPasswordBytes = 72

func passwordBytes(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// HashPassword derives a salted one-way digest of the plaintext. The digest
// is self-describing (embeds salt and cost), so two calls with the same
// input produce different digests that both verify.
func HashPassword(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword(passwordBytes(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// VerifyPassword reports whether the plaintext matches the digest. Malformed
// digests verify as false; this never fails outward.
func VerifyPassword(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), passwordBytes(plaintext)) == nil
}
