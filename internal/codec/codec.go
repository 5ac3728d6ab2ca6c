package codec

import (
	"encoding/base64"
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrInvalidEncoding = errors.New("codec: invalid encoding")

// EncodeBase64 encodes bytes with standard base64 padding, the encoding used
// for sync blobs and profile card segments.
func EncodeBase64(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// DecodeBase64 accepts both padded and unpadded standard base64, since blobs
// pasted through chat clients occasionally lose trailing '=' characters.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	return b, nil
}

// EncodeBase64URL encodes bytes as unpadded base64url, used for passkey
// credential IDs and JWK coordinates.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func DecodeBase64URL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := base64.RawURLEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, ErrInvalidEncoding
	}
	return b, nil
}

func BytesToString(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", ErrInvalidEncoding
	}
	return string(b), nil
}

func StringToBytes(s string) []byte {
	return []byte(s)
}
