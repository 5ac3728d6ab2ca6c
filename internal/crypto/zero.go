package crypto

// Zero overwrites a byte slice in memory with zeros.
// This version works on all operating systems.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Zero32 scrubs a fixed-size derived key in place.
func Zero32(k *[32]byte) {
	for i := range k {
		k[i] = 0
	}
}
