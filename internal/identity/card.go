package identity

import (
	"encoding/json"
	"errors"

	"github.com/Jaziel8910/weaver-vault/internal/codec"
	"github.com/Jaziel8910/weaver-vault/internal/crypto"
)

// CardVersion is the profile card wire format tag.
const CardVersion = "wpc1"

// ErrInvalidCard is the single failure class for card verification: bad
// signature, malformed structure and unsupported version all collapse into
// it, so callers cannot probe which check failed.
var ErrInvalidCard = errors.New("identity: invalid or corrupted profile card")

// Profile is the public subset of an account shared through a card.
type Profile struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Status    string `json:"status,omitempty"`
}

// Friend is a verified profile as seen by the receiving side.
type Friend struct {
	UserID    string
	Username  string
	AvatarURL string
	Status    string
}

type cardEnvelope struct {
	V         string     `json:"v"`
	PublicKey crypto.JWK `json:"publicKey"`
	Data      string     `json:"data"` // base64 of the profile JSON
	Sig       string     `json:"sig"`  // base64 signature over the Data bytes
}

// CreateCard signs the profile into a portable card string. Requires the
// signing private key, so only a live decrypted session can mint one.
func CreateCard(signingKey crypto.JWK, p Profile) (string, error) {
	priv, err := crypto.ImportPrivateJWK(signingKey)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	data := codec.EncodeBase64(payload)

	sig, err := crypto.Sign(priv, codec.StringToBytes(data))
	if err != nil {
		return "", err
	}

	env := cardEnvelope{
		V:         CardVersion,
		PublicKey: crypto.ExportPublicJWK(&priv.PublicKey),
		Data:      data,
		Sig:       codec.EncodeBase64(sig),
	}
	outer, err := json.Marshal(env)
	if err != nil {
		return "", err
	}
	return codec.EncodeBase64(outer), nil
}

// VerifyCard checks a card with nothing but its own embedded key. The
// signature is verified over the exact encoded payload bytes; the payload is
// decoded only after verification succeeds.
func VerifyCard(card string) (Friend, error) {
	outer, err := codec.DecodeBase64(card)
	if err != nil {
		return Friend{}, ErrInvalidCard
	}

	var env cardEnvelope
	if err := json.Unmarshal(outer, &env); err != nil {
		return Friend{}, ErrInvalidCard
	}
	if env.V != CardVersion {
		return Friend{}, ErrInvalidCard
	}

	pub, err := crypto.ImportPublicJWK(env.PublicKey)
	if err != nil {
		return Friend{}, ErrInvalidCard
	}
	sig, err := codec.DecodeBase64(env.Sig)
	if err != nil {
		return Friend{}, ErrInvalidCard
	}
	if !crypto.Verify(pub, codec.StringToBytes(env.Data), sig) {
		return Friend{}, ErrInvalidCard
	}

	payload, err := codec.DecodeBase64(env.Data)
	if err != nil {
		return Friend{}, ErrInvalidCard
	}
	var p Profile
	if err := json.Unmarshal(payload, &p); err != nil {
		return Friend{}, ErrInvalidCard
	}
	return Friend{
		UserID:    p.UserID,
		Username:  p.Username,
		AvatarURL: p.AvatarURL,
		Status:    p.Status,
	}, nil
}
