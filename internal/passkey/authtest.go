package passkey

import (
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"errors"

	"github.com/Jaziel8910/weaver-vault/internal/crypto"
)

// FakeAuthenticator is an in-process authenticator for tests and the CLI's
// dry-run mode. It holds one keypair per created credential and signs
// assertions immediately, with optional forced failure to simulate user
// cancellation.
type FakeAuthenticator struct {
	keys map[string]*ecdsa.PrivateKey

	// FailCreate and FailAssert force the next ceremony to error.
	FailCreate bool
	FailAssert bool
}

func NewFakeAuthenticator() *FakeAuthenticator {
	return &FakeAuthenticator{keys: make(map[string]*ecdsa.PrivateKey)}
}

func (f *FakeAuthenticator) CreateCredential(ctx context.Context, req CreationRequest) (Credential, error) {
	if f.FailCreate {
		return Credential{}, errors.New("user cancelled")
	}
	if err := ctx.Err(); err != nil {
		return Credential{}, err
	}
	priv, err := crypto.NewSigningKey()
	if err != nil {
		return Credential{}, err
	}
	id := make([]byte, 16)
	if _, err := rand.Read(id); err != nil {
		return Credential{}, err
	}
	f.keys[string(id)] = priv
	return Credential{
		ID:        id,
		PublicKey: crypto.ExportPublicJWK(&priv.PublicKey),
	}, nil
}

func (f *FakeAuthenticator) GetAssertion(ctx context.Context, req AssertionRequest) (Assertion, error) {
	if f.FailAssert {
		return Assertion{}, errors.New("user cancelled")
	}
	if err := ctx.Err(); err != nil {
		return Assertion{}, err
	}
	priv, ok := f.keys[string(req.AllowedCredentialID)]
	if !ok {
		return Assertion{}, errors.New("unknown credential")
	}
	sig, err := crypto.Sign(priv, req.Challenge)
	if err != nil {
		return Assertion{}, err
	}
	return Assertion{CredentialID: req.AllowedCredentialID, Signature: sig}, nil
}
