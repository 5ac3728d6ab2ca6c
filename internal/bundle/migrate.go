package bundle

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion rejects bundles written by a newer client.
	// Guessing at unknown field shapes would risk silent data loss, so this
	// fails closed.
	ErrUnsupportedVersion = errors.New("bundle: written by a newer version")

	// ErrLegacyDeclined is returned when the caller refuses a
	// compatibility-mode load. Nothing is mutated in that case.
	ErrLegacyDeclined = errors.New("bundle: compatibility mode declined")

	ErrMalformed = errors.New("bundle: malformed")
)

// Capability classes gated by bundle version.
type Capability string

const (
	CapUniverses    Capability = "universes"
	CapRanks        Capability = "ranks"
	CapPasskey      Capability = "passkey"
	CapProfileCards Capability = "profileCards"
)

// capabilityVersions maps each capability class to the bundle version that
// introduced it. A bundle older than that version loads with the capability
// disabled.
var capabilityVersions = map[Capability]int{
	CapUniverses:    2,
	CapRanks:        2,
	CapPasskey:      3,
	CapProfileCards: 3,
}

// CompatReport describes a degraded load of an older bundle. The caller must
// show it to the user and get explicit confirmation before proceeding.
type CompatReport struct {
	BundleVersion int
	Disabled      []Capability
}

func (r CompatReport) String() string {
	return fmt.Sprintf("bundle version %d (current %d), disabled: %v",
		r.BundleVersion, CurrentVersion, r.Disabled)
}

// LoadResult is a fully decoded bundle plus the set of capabilities the
// session may enable for it.
type LoadResult struct {
	Bundle   VaultBundle
	Disabled []Capability
}

// Enabled reports whether a capability class is available for this load.
func (l LoadResult) Enabled(c Capability) bool {
	for _, d := range l.Disabled {
		if d == c {
			return false
		}
	}
	return true
}

// ConfirmLegacy is the caller's decision hook for compatibility-mode loads.
// Returning false aborts the load with ErrLegacyDeclined.
type ConfirmLegacy func(CompatReport) bool

// Decode parses decrypted bundle bytes and applies the version gate.
//
//	version == CurrentVersion: full load.
//	version <  CurrentVersion (or absent): compatibility mode, behind
//	  explicit confirmation; newer capability classes stay disabled.
//	version >  CurrentVersion: rejected outright.
//
// Settings are merged over DefaultSettings at every nested category, so a
// bundle missing newly added fields still decodes structurally complete.
func Decode(raw []byte, confirm ConfirmLegacy) (LoadResult, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return LoadResult{}, ErrMalformed
	}

	if probe.Version > CurrentVersion {
		return LoadResult{}, ErrUnsupportedVersion
	}

	var disabled []Capability
	if probe.Version < CurrentVersion {
		disabled = disabledFor(probe.Version)
		report := CompatReport{BundleVersion: probe.Version, Disabled: disabled}
		if confirm == nil || !confirm(report) {
			return LoadResult{}, ErrLegacyDeclined
		}
	}

	b, err := decodeMerged(raw)
	if err != nil {
		return LoadResult{}, err
	}
	return LoadResult{Bundle: b, Disabled: disabled}, nil
}

func disabledFor(version int) []Capability {
	var out []Capability
	for _, c := range []Capability{CapUniverses, CapRanks, CapPasskey, CapProfileCards} {
		if capabilityVersions[c] > version {
			out = append(out, c)
		}
	}
	return out
}

// decodeMerged unmarshals in two passes so the settings object lands on top
// of hard-coded defaults instead of zero values.
func decodeMerged(raw []byte) (VaultBundle, error) {
	var outer struct {
		Version        int                `json:"version"`
		Settings       json.RawMessage    `json:"settings"`
		Stories        []Story            `json:"stories"`
		Presets        []GenerationPreset `json:"presets"`
		Universes      []Universe         `json:"universes"`
		ReaderSettings json.RawMessage    `json:"readerSettings"`
	}
	if err := json.Unmarshal(raw, &outer); err != nil {
		return VaultBundle{}, ErrMalformed
	}

	settings := DefaultSettings()
	if len(outer.Settings) > 0 {
		if err := json.Unmarshal(outer.Settings, &settings); err != nil {
			return VaultBundle{}, ErrMalformed
		}
	}

	reader := settings.ReaderDefaults
	if len(outer.ReaderSettings) > 0 {
		if err := json.Unmarshal(outer.ReaderSettings, &reader); err != nil {
			return VaultBundle{}, ErrMalformed
		}
	}

	b := VaultBundle{
		Version:        outer.Version,
		Settings:       settings,
		Stories:        outer.Stories,
		Presets:        outer.Presets,
		Universes:      outer.Universes,
		ReaderSettings: reader,
	}
	if b.Stories == nil {
		b.Stories = []Story{}
	}
	if b.Presets == nil {
		b.Presets = []GenerationPreset{}
	}
	if b.Universes == nil {
		b.Universes = []Universe{}
	}
	return b, nil
}
