//go:build linux || darwin

// Package platform holds the small OS-specific hardening hooks the vault
// tooling runs at startup.
package platform

import "golang.org/x/sys/unix"

// DisableCoreDumps sets the core rlimit to zero so a crash cannot write
// decrypted vault contents or the master password to disk.
func DisableCoreDumps() error {
	rlim := unix.Rlimit{Cur: 0, Max: 0}
	return unix.Setrlimit(unix.RLIMIT_CORE, &rlim)
}
