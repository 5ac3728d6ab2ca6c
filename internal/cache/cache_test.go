package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(t.TempDir(), zerolog.Nop())

	sealed := []byte("pretend-encrypted-bytes")
	if err := s.Put(sealed, Metadata{Username: "alice", PasskeyCredentialID: "cred-1"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, meta, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, sealed) {
		t.Fatal("cached bytes mismatch")
	}
	if meta.Username != "alice" || meta.PasskeyCredentialID != "cred-1" {
		t.Fatalf("meta mismatch: %+v", meta)
	}
}

func TestFileStoreEmpty(t *testing.T) {
	s := NewFileStore(t.TempDir(), zerolog.Nop())
	if _, _, err := s.Get(); !errors.Is(err, ErrNoQuickAccess) {
		t.Fatalf("expected ErrNoQuickAccess, got %v", err)
	}
}

func TestFileStoreClear(t *testing.T) {
	s := NewFileStore(t.TempDir(), zerolog.Nop())
	if err := s.Put([]byte("data"), Metadata{Username: "alice"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, _, err := s.Get(); !errors.Is(err, ErrNoQuickAccess) {
		t.Fatalf("expected ErrNoQuickAccess after clear, got %v", err)
	}
	// clearing twice is fine
	if err := s.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
}

func TestPutReplacesPrevious(t *testing.T) {
	s := NewFileStore(t.TempDir(), zerolog.Nop())
	_ = s.Put([]byte("old-ciphertext"), Metadata{Username: "alice"})
	_ = s.Put([]byte("new-ciphertext"), Metadata{Username: "alice"})

	got, _, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !bytes.Equal(got, []byte("new-ciphertext")) {
		t.Fatal("old cache bytes survived replacement")
	}
}

func TestSwappedMetadataIsDiscarded(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, zerolog.Nop())
	if err := s.Put([]byte("ciphertext"), Metadata{Username: "alice"}); err != nil {
		t.Fatalf("put: %v", err)
	}

	// overwrite the metadata record with one describing different bytes
	forged, _ := json.Marshal(Metadata{Username: "mallory", Tag: metaTag([]byte("other"))})
	if err := os.WriteFile(filepath.Join(dir, metaFilename), forged, 0o600); err != nil {
		t.Fatalf("forge: %v", err)
	}

	sealed, meta, err := s.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if meta.Username != "" {
		t.Fatal("forged metadata must be discarded")
	}
	// the ciphertext itself is still served; login proceeds on password
	if !bytes.Equal(sealed, []byte("ciphertext")) {
		t.Fatal("ciphertext must survive metadata discard")
	}
}

func TestFileModes(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir, zerolog.Nop())
	if err := s.Put([]byte("data"), Metadata{Username: "alice"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, vaultFilename))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("vault cache mode %o, want 600", info.Mode().Perm())
	}
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	if _, _, err := s.Get(); !errors.Is(err, ErrNoQuickAccess) {
		t.Fatalf("expected ErrNoQuickAccess, got %v", err)
	}
	if err := s.Put([]byte("data"), Metadata{Username: "alice"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, meta, err := s.Get()
	if err != nil || meta.Username != "alice" || !bytes.Equal(got, []byte("data")) {
		t.Fatalf("get: %v %+v", err, meta)
	}
	_ = s.Clear()
	if _, _, err := s.Get(); !errors.Is(err, ErrNoQuickAccess) {
		t.Fatal("expected ErrNoQuickAccess after clear")
	}
}
