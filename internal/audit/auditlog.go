// Package audit keeps an in-memory, hash-chained trail of vault lifecycle
// events (logins, resets, logouts). The chain makes after-the-fact tampering
// with the trail detectable; entries never contain passwords, answers or key
// material.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

type Event string

const (
	EventFileLogin       Event = "file_login"
	EventQuickLogin      Event = "quick_access_login"
	EventSyncLogin       Event = "sync_login"
	EventGuestSession    Event = "guest_session"
	EventLoginFailed     Event = "login_failed"
	EventBackupSaved     Event = "backup_saved"
	EventQuickEnabled    Event = "quick_access_enabled"
	EventPasswordReset   Event = "password_reset"
	EventPasskeyBound    Event = "passkey_bound"
	EventPasskeyVerified Event = "passkey_verified"
	EventLogout          Event = "logout"
)

type Entry struct {
	TS         int64  `json:"ts"`
	Event      Event  `json:"event"`
	Generation uint64 `json:"generation"`
	Hash       string `json:"hash"`
}

// Log is safe for concurrent use; the session controller appends from
// whichever goroutine finishes an operation.
type Log struct {
	mu       sync.Mutex
	lastHash []byte
	entries  []Entry
}

func New() *Log { return &Log{} }

func (l *Log) Append(e Event, generation uint64) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	h := sha256.New()
	h.Write(l.lastHash)
	h.Write([]byte(e))
	h.Write([]byte(fmt.Sprintf("%d", generation)))
	sum := h.Sum(nil)
	l.lastHash = sum
	entry := Entry{
		TS:         time.Now().Unix(),
		Event:      e,
		Generation: generation,
		Hash:       hex.EncodeToString(sum),
	}
	l.entries = append(l.entries, entry)
	return entry
}

// Verify recomputes the chain and reports the first break.
func (l *Log) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var prev []byte
	for i, e := range l.entries {
		h := sha256.New()
		h.Write(prev)
		h.Write([]byte(e.Event))
		h.Write([]byte(fmt.Sprintf("%d", e.Generation)))
		sum := h.Sum(nil)
		if hex.EncodeToString(sum) != e.Hash {
			return fmt.Errorf("audit chain broken at entry %d", i)
		}
		prev = sum
	}
	return nil
}

func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries...)
}
