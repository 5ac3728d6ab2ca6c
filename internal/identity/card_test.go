package identity

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/Jaziel8910/weaver-vault/internal/codec"
	"github.com/Jaziel8910/weaver-vault/internal/crypto"
)

func newKey(t *testing.T) crypto.JWK {
	t.Helper()
	priv, err := crypto.NewSigningKey()
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}
	return crypto.ExportPrivateJWK(priv)
}

func TestCardRoundTrip(t *testing.T) {
	key := newKey(t)
	card, err := CreateCard(key, Profile{
		UserID:   "u-1",
		Username: "alice",
		Status:   "weaving",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// verification is self-contained: no shared state with the creator
	friend, err := VerifyCard(card)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if friend.Username != "alice" || friend.UserID != "u-1" || friend.Status != "weaving" {
		t.Fatalf("friend mismatch: %+v", friend)
	}
}

func TestCardRejectsPayloadTamper(t *testing.T) {
	card, err := CreateCard(newKey(t), Profile{UserID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	outer, _ := codec.DecodeBase64(card)
	var env map[string]json.RawMessage
	if err := json.Unmarshal(outer, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	var data string
	_ = json.Unmarshal(env["data"], &data)

	// flip one character of the embedded data segment
	mut := []byte(data)
	if mut[0] != 'A' {
		mut[0] = 'A'
	} else {
		mut[0] = 'B'
	}
	env["data"], _ = json.Marshal(string(mut))
	rewrapped, _ := json.Marshal(env)

	if _, err := VerifyCard(codec.EncodeBase64(rewrapped)); !errors.Is(err, ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard, got %v", err)
	}
}

func TestCardRejectsKeySubstitution(t *testing.T) {
	card, err := CreateCard(newKey(t), Profile{UserID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	outer, _ := codec.DecodeBase64(card)
	var env map[string]json.RawMessage
	if err := json.Unmarshal(outer, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// keep the original signature, swap in an attacker's public key
	attacker, _ := crypto.NewSigningKey()
	env["publicKey"], _ = json.Marshal(crypto.ExportPublicJWK(&attacker.PublicKey))
	rewrapped, _ := json.Marshal(env)

	if _, err := VerifyCard(codec.EncodeBase64(rewrapped)); !errors.Is(err, ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard, got %v", err)
	}
}

func TestCardRejectsUnsupportedVersion(t *testing.T) {
	card, err := CreateCard(newKey(t), Profile{UserID: "u-1", Username: "alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	outer, _ := codec.DecodeBase64(card)
	bad := strings.Replace(string(outer), `"wpc1"`, `"wpc9"`, 1)
	if _, err := VerifyCard(codec.EncodeBase64([]byte(bad))); !errors.Is(err, ErrInvalidCard) {
		t.Fatalf("expected ErrInvalidCard, got %v", err)
	}
}

func TestCardRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "!!!", codec.EncodeBase64([]byte("{}")), codec.EncodeBase64([]byte("nope"))} {
		if _, err := VerifyCard(in); !errors.Is(err, ErrInvalidCard) {
			t.Fatalf("input %q: expected ErrInvalidCard, got %v", in, err)
		}
	}
}

func TestHashAnswerNormalizes(t *testing.T) {
	if HashAnswer("Rex") != HashAnswer("  rex  ") {
		t.Fatal("normalized answers must hash equal")
	}
	if HashAnswer("Rex") == HashAnswer("Paris") {
		t.Fatal("different answers must hash differently")
	}
	if strings.Contains(HashAnswer("Rex"), "rex") {
		t.Fatal("hash must not contain the raw answer")
	}
}

func TestCheckAnswer(t *testing.T) {
	h := HashAnswer("Paris")
	if !CheckAnswer("  PARIS ", h) {
		t.Fatal("case/space variants must match")
	}
	if CheckAnswer("London", h) {
		t.Fatal("wrong answer matched")
	}
}
