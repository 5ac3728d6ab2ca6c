package bundle

import (
	"github.com/Jaziel8910/weaver-vault/internal/crypto"
)

// CurrentVersion is the bundle format this build reads and writes in full.
//
// Version history:
//
//	1: stories, presets, settings, legacy readerSettings
//	2: universes, account ranks
//	3: passkey binding, profile cards / social
const CurrentVersion = 3

// VaultBundle is the unit of encryption: everything an account owns,
// serialized as one JSON document. It is only meaningful together with the
// password that sealed it; no key material is stored alongside.
type VaultBundle struct {
	Version   int                `json:"version"`
	Settings  AppSettings        `json:"settings"`
	Stories   []Story            `json:"stories"`
	Presets   []GenerationPreset `json:"presets"`
	Universes []Universe         `json:"universes"`

	// ReaderSettings duplicates a subset of Settings.ReaderDefaults. Kept
	// so bundles written by this build still open in pre-v2 clients.
	ReaderSettings ReaderSettings `json:"readerSettings"`
}

type Story struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Synopsis  string    `json:"synopsis,omitempty"`
	Genre     string    `json:"genre,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Chapters  []Chapter `json:"chapters"`
	CoverURL  string    `json:"coverUrl,omitempty"`
	Universe  string    `json:"universeId,omitempty"`
	CreatedAt int64     `json:"createdAt"`
	UpdatedAt int64     `json:"updatedAt"`
}

type Chapter struct {
	Title            string   `json:"title"`
	Content          string   `json:"content"`
	IllustrationURLs []string `json:"illustrationUrls,omitempty"`
}

type GenerationPreset struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Genre       string  `json:"genre,omitempty"`
	Tone        string  `json:"tone,omitempty"`
	PointOfView string  `json:"pointOfView,omitempty"`
	Temperature float64 `json:"temperature"`
	ChapterLen  string  `json:"chapterLength,omitempty"`
}

// Universe is a world-building container stories can attach to.
type Universe struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Lore        []string `json:"lore,omitempty"`
	Characters  []string `json:"characters,omitempty"`
	CreatedAt   int64    `json:"createdAt"`
}

// AppSettings carries every nested settings category. Bundles from older
// versions may miss whole categories or single fields; loading always merges
// the decoded values over DefaultSettings at every level.
type AppSettings struct {
	General       GeneralSettings       `json:"general"`
	Account       AccountSettings       `json:"account"`
	AI            AISettings            `json:"ai"`
	ReaderDefaults ReaderSettings       `json:"readerDefaults"`
	Accessibility AccessibilitySettings `json:"accessibility"`
	Storage       StorageSettings       `json:"storage"`
	Connection    ConnectionSettings    `json:"connection"`
	Social        SocialSettings        `json:"social"`
	Privacy       PrivacySettings       `json:"privacy"`
	Keybindings   map[string]string     `json:"keybindings"`
}

type GeneralSettings struct {
	Language   string `json:"language"`
	Theme      string `json:"theme"`
	DateFormat string `json:"dateFormat"`
}

// AccountSettings holds the account identity block. The signing private key
// (JWK with d) lives here and therefore only ever exists inside the
// encrypted bundle.
type AccountSettings struct {
	UserID            string             `json:"userId"`
	Username          string             `json:"username"`
	AvatarURL         string             `json:"avatarUrl,omitempty"`
	Status            string             `json:"status,omitempty"`
	Rank              string             `json:"rank,omitempty"`
	Weaverins         int64              `json:"weaverins"`
	SigningKey        *crypto.JWK        `json:"signingKey,omitempty"`
	PasswordHint      string             `json:"passwordHint,omitempty"`
	SecurityQuestions []SecurityQuestion `json:"securityQuestions,omitempty"`
	Passkey           *PasskeyBinding    `json:"passkey,omitempty"`
	Purchases         []TierPurchase     `json:"purchases,omitempty"`
}

// SecurityQuestion stores only the hash of the normalized answer, never the
// answer itself.
type SecurityQuestion struct {
	Question   string `json:"question"`
	AnswerHash string `json:"answerHash"`
}

type PasskeyBinding struct {
	CredentialID string     `json:"credentialId"` // base64url
	PublicKey    crypto.JWK `json:"publicKey"`
}

type TierPurchase struct {
	ID          string `json:"id"`
	Tier        string `json:"tier"`
	Cost        int64  `json:"cost"`
	PurchasedAt int64  `json:"purchasedAt"`
	Refunded    bool   `json:"refunded,omitempty"`
}

type AISettings struct {
	Model         string  `json:"model"`
	Temperature   float64 `json:"temperature"`
	MaxChapterLen string  `json:"maxChapterLength"`
	Illustrations bool    `json:"illustrations"`
}

type ReaderSettings struct {
	FontFamily string  `json:"fontFamily"`
	FontSize   int     `json:"fontSize"`
	LineHeight float64 `json:"lineHeight"`
	PageWidth  string  `json:"pageWidth"`
	Justify    bool    `json:"justify"`
}

type AccessibilitySettings struct {
	ReducedMotion bool `json:"reducedMotion"`
	HighContrast  bool `json:"highContrast"`
	ScreenReader  bool `json:"screenReaderHints"`
}

type StorageSettings struct {
	QuickAccess    bool   `json:"quickAccess"`
	AutoBackup     bool   `json:"autoBackup"`
	BackupInterval string `json:"backupInterval"`
}

type ConnectionSettings struct {
	Endpoint       string `json:"endpoint"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
	RetryAttempts  int    `json:"retryAttempts"`
}

type SocialSettings struct {
	ShareProfile  bool `json:"shareProfile"`
	ShowStatus    bool `json:"showStatus"`
	AcceptFriends bool `json:"acceptFriends"`
}

type PrivacySettings struct {
	Telemetry       bool `json:"telemetry"`
	CrashReports    bool `json:"crashReports"`
	PersonalizedAds bool `json:"personalizedAds"`
}
