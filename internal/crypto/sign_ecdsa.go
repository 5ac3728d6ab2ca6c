package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"math/big"

	"github.com/Jaziel8910/weaver-vault/internal/codec"
)

var ErrBadKey = errors.New("crypto: malformed key")

func NewSigningKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

// Sign produces a raw r||s signature (two 32-byte scalars) over the SHA-256
// digest of msg.
func Sign(priv *ecdsa.PrivateKey, msg []byte) ([]byte, error) {
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return nil, err
	}
	sig := make([]byte, 64)
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

func Verify(pub *ecdsa.PublicKey, msg, sig []byte) bool {
	if len(sig) != 64 {
		return false
	}
	digest := sha256.Sum256(msg)
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	return ecdsa.Verify(pub, digest[:], r, s)
}

// JWK is the portable JSON key format signing keys travel in. Private keys
// (d present) only ever appear inside an encrypted bundle.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
	D   string `json:"d,omitempty"`
}

func ExportPrivateJWK(priv *ecdsa.PrivateKey) JWK {
	jwk := ExportPublicJWK(&priv.PublicKey)
	d := make([]byte, 32)
	priv.D.FillBytes(d)
	jwk.D = codec.EncodeBase64URL(d)
	return jwk
}

func ExportPublicJWK(pub *ecdsa.PublicKey) JWK {
	x := make([]byte, 32)
	y := make([]byte, 32)
	pub.X.FillBytes(x)
	pub.Y.FillBytes(y)
	return JWK{
		Kty: "EC",
		Crv: "P-256",
		X:   codec.EncodeBase64URL(x),
		Y:   codec.EncodeBase64URL(y),
	}
}

func ImportPublicJWK(jwk JWK) (*ecdsa.PublicKey, error) {
	if jwk.Kty != "EC" || jwk.Crv != "P-256" {
		return nil, ErrBadKey
	}
	xb, err := codec.DecodeBase64URL(jwk.X)
	if err != nil {
		return nil, ErrBadKey
	}
	yb, err := codec.DecodeBase64URL(jwk.Y)
	if err != nil {
		return nil, ErrBadKey
	}
	pub := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(xb),
		Y:     new(big.Int).SetBytes(yb),
	}
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, ErrBadKey
	}
	return pub, nil
}

func ImportPrivateJWK(jwk JWK) (*ecdsa.PrivateKey, error) {
	pub, err := ImportPublicJWK(jwk)
	if err != nil {
		return nil, err
	}
	if jwk.D == "" {
		return nil, ErrBadKey
	}
	db, err := codec.DecodeBase64URL(jwk.D)
	if err != nil {
		return nil, ErrBadKey
	}
	priv := &ecdsa.PrivateKey{
		PublicKey: *pub,
		D:         new(big.Int).SetBytes(db),
	}
	Zero(db)
	return priv, nil
}

func (j JWK) MarshalBinary() ([]byte, error) { return json.Marshal(j) }
