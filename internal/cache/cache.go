// Package cache holds the device-scoped quick-access copy of the last
// loaded vault file. The cached bytes stay encrypted; what is stored in the
// clear is a small advisory metadata record used only to render the login
// screen before any password is entered. Metadata is never trusted for
// authorization.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrNoQuickAccess means nothing has been cached on this device. Distinct
// from a decryption failure so the UI can say "enable quick access first".
var ErrNoQuickAccess = errors.New("cache: no quick access data on this device")

// Metadata is display-only login-screen state.
type Metadata struct {
	Username            string `json:"username"`
	PasskeyCredentialID string `json:"passkeyCredentialId,omitempty"`
	// Tag binds the record to the cached ciphertext so a swapped metadata
	// file is detectable. Advisory: a mismatch discards the metadata, it
	// never blocks login.
	Tag string `json:"tag,omitempty"`
}

// Store persists the encrypted vault bytes plus metadata. Put must replace
// any previous contents atomically: a password reset re-caches under the new
// password and must never leave bytes sealed under the old one behind.
type Store interface {
	Put(sealed []byte, meta Metadata) error
	Get() ([]byte, Metadata, error)
	Clear() error
}

// metaTag derives a short integrity tag for the metadata record from the
// cached ciphertext.
func metaTag(sealed []byte) string {
	stream := hkdf.New(sha256.New, sealed, nil, []byte("weaver/quick-access-meta/v1"))
	tag := make([]byte, 16)
	if _, err := io.ReadFull(stream, tag); err != nil {
		return ""
	}
	return hex.EncodeToString(tag)
}

// checkMeta strips metadata that does not match the ciphertext it claims to
// describe.
func checkMeta(sealed []byte, meta Metadata) Metadata {
	if meta.Tag == "" || meta.Tag != metaTag(sealed) {
		return Metadata{}
	}
	return meta
}
