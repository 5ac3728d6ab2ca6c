// Package passkey binds an account to a platform authenticator credential as
// a fast-unlock second factor. The assertion is checked client-side only:
// there is no server to validate the ceremony, so this factor proves "this
// device's authenticator responded", which is weaker than server-verified
// WebAuthn. It composes with the master password and never replaces it.
package passkey

import (
	"context"
	"crypto/rand"
	"errors"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
	"github.com/Jaziel8910/weaver-vault/internal/codec"
	"github.com/Jaziel8910/weaver-vault/internal/crypto"
)

// RelyingPartyID scopes credentials to the Weaver origin.
const RelyingPartyID = "weaver.app"

const challengeSize = 32

// ErrCeremony covers every authenticator failure, including user
// cancellation. Always recoverable: the caller falls back to password-only.
var ErrCeremony = errors.New("passkey: authenticator ceremony failed")

type CreationRequest struct {
	RelyingPartyID string
	Username       string
	UserID         string
	Challenge      []byte
}

type AssertionRequest struct {
	RelyingPartyID string
	Challenge      []byte
	// AllowedCredentialID restricts the ceremony to the bound credential.
	AllowedCredentialID []byte
}

type Credential struct {
	ID        []byte
	PublicKey crypto.JWK
}

type Assertion struct {
	CredentialID []byte
	// Signature is over the challenge bytes.
	Signature []byte
}

// Authenticator abstracts the platform ceremony. The embedding shell wires
// the real WebAuthn bridge; tests use the fake in authtest.go.
type Authenticator interface {
	CreateCredential(ctx context.Context, req CreationRequest) (Credential, error)
	GetAssertion(ctx context.Context, req AssertionRequest) (Assertion, error)
}

type Binder struct {
	rpID string
	auth Authenticator
}

func NewBinder(auth Authenticator) *Binder {
	return &Binder{rpID: RelyingPartyID, auth: auth}
}

// Bind requests credential creation with a fresh random challenge and
// returns the binding to store in the account identity.
func (b *Binder) Bind(ctx context.Context, username, userID string) (*bundle.PasskeyBinding, error) {
	challenge, err := newChallenge()
	if err != nil {
		return nil, err
	}
	cred, err := b.auth.CreateCredential(ctx, CreationRequest{
		RelyingPartyID: b.rpID,
		Username:       username,
		UserID:         userID,
		Challenge:      challenge,
	})
	if err != nil {
		return nil, ErrCeremony
	}
	if len(cred.ID) == 0 {
		return nil, ErrCeremony
	}
	return &bundle.PasskeyBinding{
		CredentialID: codec.EncodeBase64URL(cred.ID),
		PublicKey:    cred.PublicKey,
	}, nil
}

// Verify requests an assertion with a fresh challenge restricted to the
// bound credential and checks the returned signature against the stored
// public key. Success means the local authenticator responded; it does not
// unlock anything on its own.
func (b *Binder) Verify(ctx context.Context, binding *bundle.PasskeyBinding) error {
	if binding == nil {
		return ErrCeremony
	}
	credID, err := codec.DecodeBase64URL(binding.CredentialID)
	if err != nil {
		return ErrCeremony
	}
	challenge, err := newChallenge()
	if err != nil {
		return err
	}
	res, err := b.auth.GetAssertion(ctx, AssertionRequest{
		RelyingPartyID:      b.rpID,
		Challenge:           challenge,
		AllowedCredentialID: credID,
	})
	if err != nil {
		return ErrCeremony
	}
	pub, err := crypto.ImportPublicJWK(binding.PublicKey)
	if err != nil {
		return ErrCeremony
	}
	if !crypto.Verify(pub, challenge, res.Signature) {
		return ErrCeremony
	}
	return nil
}

func newChallenge() ([]byte, error) {
	c := make([]byte, challengeSize)
	if _, err := rand.Read(c); err != nil {
		return nil, err
	}
	return c, nil
}
