//go:build !linux && !darwin

package platform

// DisableCoreDumps is a no-op where the core rlimit is unavailable.
func DisableCoreDumps() error { return nil }
