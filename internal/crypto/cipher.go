package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
)

const (
	// IVSize is the GCM nonce length fixed by the .swe file layout.
	IVSize = 12

	minSealedSize = SaltSize + IVSize + 16 // 16 = GCM tag
)

// ErrDecryptionFailed covers wrong passwords, corrupted bytes and truncated
// input alike. Callers must not try to tell those cases apart, and neither
// does this package.
var ErrDecryptionFailed = errors.New("crypto: decryption failed")

// Seal encrypts plaintext under a password-derived key. A fresh random salt
// and nonce are generated on every call; the returned layout is
// [salt(16)||iv(12)||ciphertext+tag].
func Seal(plaintext []byte, password string) ([]byte, error) {
	p := DefaultKDF()
	key := DeriveKey(password, p)
	defer Zero32(&key)

	aead, err := newGCM(key[:])
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, err
	}

	out := make([]byte, 0, SaltSize+IVSize+len(plaintext)+aead.Overhead())
	out = append(out, p.Salt...)
	out = append(out, iv...)
	out = aead.Seal(out, iv, plaintext, nil)
	return out, nil
}

// Open decrypts data previously produced by Seal. Any authentication failure
// surfaces as ErrDecryptionFailed with no further detail.
func Open(sealed []byte, password string) ([]byte, error) {
	if len(sealed) < minSealedSize {
		return nil, ErrDecryptionFailed
	}

	salt := sealed[:SaltSize]
	iv := sealed[SaltSize : SaltSize+IVSize]
	body := sealed[SaltSize+IVSize:]

	key := DeriveKey(password, KDFParams{Iterations: DefaultIterations, Salt: salt})
	defer Zero32(&key)

	aead, err := newGCM(key[:])
	if err != nil {
		return nil, err
	}

	pt, err := aead.Open(nil, iv, body, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return pt, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
