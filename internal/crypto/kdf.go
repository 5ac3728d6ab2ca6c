package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is fixed by the .swe file layout.
	SaltSize = 16
	// DefaultIterations matches the iteration count the web client pins.
	// The file format carries no KDF header, so decryption always uses
	// this count; it can only be raised together with a bundle version bump.
	DefaultIterations = 310_000

	keySize = 32
)

type KDFParams struct {
	Iterations int
	Salt       []byte
}

func DefaultKDF() KDFParams {
	salt := make([]byte, SaltSize)
	_, _ = rand.Read(salt)
	return KDFParams{Iterations: DefaultIterations, Salt: salt}
}

// DeriveKey stretches a password into a 256-bit AES key with PBKDF2-SHA-256.
// Same password and salt always produce the same key; keys derived under
// different salts are unrelated.
func DeriveKey(password string, p KDFParams) (key [32]byte) {
	iters := p.Iterations
	if iters <= 0 {
		iters = DefaultIterations
	}
	k := pbkdf2.Key([]byte(password), p.Salt, iters, keySize, sha256.New)
	copy(key[:], k)
	Zero(k)
	return
}
