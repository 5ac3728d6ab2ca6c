package identity

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// HashAnswer hashes a security-question answer after normalization (trim,
// case-fold), so "Rex" and "  rex  " match at recovery time. Only this hash
// is ever stored.
func HashAnswer(raw string) string {
	norm := strings.ToLower(strings.TrimSpace(raw))
	sum := sha256.Sum256([]byte(norm))
	return hex.EncodeToString(sum[:])
}

// CheckAnswer recomputes the hash of a candidate answer and compares it in
// constant time.
func CheckAnswer(raw, storedHash string) bool {
	got := HashAnswer(raw)
	return subtle.ConstantTimeCompare([]byte(got), []byte(storedHash)) == 1
}
