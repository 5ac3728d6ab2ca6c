package bundle

import (
	"encoding/json"

	"github.com/Jaziel8910/weaver-vault/internal/crypto"
)

// Seal serializes the bundle and encrypts it into .swe file bytes. The
// version field is stamped with CurrentVersion; re-sealing always writes the
// current format.
func Seal(b VaultBundle, password string) ([]byte, error) {
	b.Version = CurrentVersion
	b.ReaderSettings = b.Settings.ReaderDefaults
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	defer crypto.Zero(raw)
	return crypto.Seal(raw, password)
}

// Open decrypts .swe file bytes and decodes them through the version gate.
func Open(sealed []byte, password string, confirm ConfirmLegacy) (LoadResult, error) {
	raw, err := crypto.Open(sealed, password)
	if err != nil {
		return LoadResult{}, err
	}
	defer crypto.Zero(raw)
	return Decode(raw, confirm)
}
