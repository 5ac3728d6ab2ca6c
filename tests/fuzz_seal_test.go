package tests

import (
	"bytes"
	"errors"
	"testing"

	cr "github.com/Jaziel8910/weaver-vault/internal/crypto"
)

func FuzzSealOpen(f *testing.F) {
	f.Add([]byte("hello"), "password one")
	f.Add([]byte{}, "")
	f.Add([]byte{0x00, 0xff, 0x00}, "pw")
	f.Fuzz(func(t *testing.T, pt []byte, password string) {
		sealed, err := cr.Seal(pt, password)
		if err != nil {
			t.Fatalf("seal err: %v", err)
		}
		got, err := cr.Open(sealed, password)
		if err != nil {
			t.Fatalf("open err: %v", err)
		}
		if !bytes.Equal(pt, got) {
			t.Fatalf("roundtrip mismatch")
		}
	})
}

// FuzzOpenMutated flips bytes of a valid ciphertext and requires every
// mutation to fail with the single uniform decryption error.
func FuzzOpenMutated(f *testing.F) {
	sealed, err := cr.Seal([]byte("the quick brown fox"), "fuzz password")
	if err != nil {
		f.Fatal(err)
	}
	f.Add(0, byte(0x01))
	f.Add(len(sealed)-1, byte(0x80))
	f.Fuzz(func(t *testing.T, pos int, delta byte) {
		if pos < 0 || pos >= len(sealed) || delta == 0 {
			t.Skip()
		}
		mutated := append([]byte(nil), sealed...)
		mutated[pos] ^= delta
		if _, err := cr.Open(mutated, "fuzz password"); !errors.Is(err, cr.ErrDecryptionFailed) {
			t.Fatalf("mutation at %d: err = %v, want ErrDecryptionFailed", pos, err)
		}
	})
}

func FuzzOpenGarbage(f *testing.F) {
	f.Add([]byte("way too short"))
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, garbage []byte) {
		if _, err := cr.Open(garbage, "any password"); !errors.Is(err, cr.ErrDecryptionFailed) {
			t.Fatalf("garbage input: err = %v, want ErrDecryptionFailed", err)
		}
	})
}
