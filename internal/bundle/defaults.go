package bundle

import (
	"time"

	"github.com/google/uuid"

	"github.com/Jaziel8910/weaver-vault/internal/crypto"
)

func DefaultSettings() AppSettings {
	return AppSettings{
		General: GeneralSettings{
			Language:   "en",
			Theme:      "midnight",
			DateFormat: "YYYY-MM-DD",
		},
		Account: AccountSettings{
			Rank:      "apprentice",
			Weaverins: 0,
		},
		AI: AISettings{
			Model:         "weaver-loom-2",
			Temperature:   0.9,
			MaxChapterLen: "medium",
			Illustrations: true,
		},
		ReaderDefaults: DefaultReaderSettings(),
		Accessibility: AccessibilitySettings{
			ReducedMotion: false,
			HighContrast:  false,
			ScreenReader:  false,
		},
		Storage: StorageSettings{
			QuickAccess:    false,
			AutoBackup:     false,
			BackupInterval: "weekly",
		},
		Connection: ConnectionSettings{
			Endpoint:       "https://api.weaver.app",
			TimeoutSeconds: 60,
			RetryAttempts:  3,
		},
		Social: SocialSettings{
			ShareProfile:  false,
			ShowStatus:    true,
			AcceptFriends: true,
		},
		Privacy: PrivacySettings{
			Telemetry:       false,
			CrashReports:    true,
			PersonalizedAds: false,
		},
		Keybindings: map[string]string{
			"nextChapter": "ArrowRight",
			"prevChapter": "ArrowLeft",
			"toggleMenu":  "Escape",
		},
	}
}

func DefaultReaderSettings() ReaderSettings {
	return ReaderSettings{
		FontFamily: "Literata",
		FontSize:   18,
		LineHeight: 1.6,
		PageWidth:  "narrow",
		Justify:    true,
	}
}

// New builds the onboarding bundle: empty libraries, a fresh identity with a
// stable userId and signing keypair.
func New(username string) (VaultBundle, error) {
	priv, err := crypto.NewSigningKey()
	if err != nil {
		return VaultBundle{}, err
	}
	jwk := crypto.ExportPrivateJWK(priv)

	settings := DefaultSettings()
	settings.Account.UserID = uuid.NewString()
	settings.Account.Username = username
	settings.Account.SigningKey = &jwk

	return VaultBundle{
		Version:        CurrentVersion,
		Settings:       settings,
		Stories:        []Story{},
		Presets:        []GenerationPreset{},
		Universes:      []Universe{},
		ReaderSettings: settings.ReaderDefaults,
	}, nil
}

func NewStory(title string) Story {
	now := time.Now().Unix()
	return Story{
		ID:        uuid.NewString(),
		Title:     title,
		Chapters:  []Chapter{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewUniverse(name string) Universe {
	return Universe{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().Unix(),
	}
}
