package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/Jaziel8910/weaver-vault/internal/audit"
	"github.com/Jaziel8910/weaver-vault/internal/bundle"
	"github.com/Jaziel8910/weaver-vault/internal/cache"
	"github.com/Jaziel8910/weaver-vault/internal/codec"
	"github.com/Jaziel8910/weaver-vault/internal/crypto"
	"github.com/Jaziel8910/weaver-vault/internal/passkey"
	"github.com/Jaziel8910/weaver-vault/internal/search"
)

type Config struct {
	Cache         cache.Store
	Authenticator passkey.Authenticator
	Logger        zerolog.Logger

	// AttemptLimit throttles login and recovery attempts.
	AttemptLimit rate.Limit
	AttemptBurst int
}

func (c *Config) setDefaults() {
	if c.Cache == nil {
		c.Cache = cache.NewMemoryStore()
	}
	if c.AttemptLimit == 0 {
		c.AttemptLimit = rate.Every(2_000_000_000) // one sustained attempt per 2s
	}
	if c.AttemptBurst == 0 {
		c.AttemptBurst = 5
	}
}

// Controller owns the single in-memory session: the decrypted bundle and the
// plaintext password needed to re-seal it. Both only ever live in memory and
// are scrubbed on logout. The mutex is released around slow crypto calls;
// the busy flag keeps vault mutations single-flight across those gaps, and
// the generation counter drops results that outlive the session they
// started in.
type Controller struct {
	log     zerolog.Logger
	cache   cache.Store
	binder  *passkey.Binder
	limiter *rate.Limiter
	trail   *audit.Log

	mu         sync.Mutex
	state      State
	guest      bool
	bun        bundle.VaultBundle
	password   []byte
	lastSealed []byte
	disabled   []bundle.Capability
	generation uint64
	busy       bool
}

func NewController(cfg Config) *Controller {
	cfg.setDefaults()
	c := &Controller{
		log:     cfg.Logger,
		cache:   cfg.Cache,
		limiter: rate.NewLimiter(cfg.AttemptLimit, cfg.AttemptBurst),
		trail:   audit.New(),
		state:   StateLoggedOut,
	}
	if cfg.Authenticator != nil {
		c.binder = passkey.NewBinder(cfg.Authenticator)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

func (c *Controller) Audit() []audit.Entry { return c.trail.Entries() }

// beginLogin gates a login attempt: single flight, throttle, logged out.
func (c *Controller) beginLogin() (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return 0, ErrOperationInFlight
	}
	if c.state != StateLoggedOut {
		return 0, ErrAlreadyLoggedIn
	}
	if !c.limiter.Allow() {
		return 0, ErrThrottled
	}
	c.busy = true
	return c.generation, nil
}

// beginMutation gates an active-session vault mutation.
func (c *Controller) beginMutation(allowGuest bool) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return 0, ErrNotLoggedIn
	}
	if c.guest && !allowGuest {
		return 0, ErrGuestSession
	}
	if c.busy {
		return 0, ErrOperationInFlight
	}
	c.busy = true
	return c.generation, nil
}

func (c *Controller) endOp() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// FileLogin opens a raw encrypted .swe file with the supplied password.
// The confirm hook decides compatibility-mode loads of older bundles.
func (c *Controller) FileLogin(ctx context.Context, sealed []byte, password string, confirm bundle.ConfirmLegacy) error {
	gen, err := c.beginLogin()
	if err != nil {
		return err
	}
	defer c.endOp()

	// key derivation and decryption run outside the lock
	res, err := bundle.Open(sealed, password, confirm)
	if err != nil {
		c.trail.Append(audit.EventLoginFailed, gen)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.establish(gen, res, sealed, password, audit.EventFileLogin)
}

// SyncLogin accepts the pasted text transport: the same encrypted bytes,
// base64-encoded. Decoded input is handled identically to FileLogin.
func (c *Controller) SyncLogin(ctx context.Context, blob string, password string, confirm bundle.ConfirmLegacy) error {
	sealed, err := codec.DecodeBase64(blob)
	if err != nil {
		return crypto.ErrDecryptionFailed
	}
	gen, lerr := c.beginLogin()
	if lerr != nil {
		return lerr
	}
	defer c.endOp()

	res, err := bundle.Open(sealed, password, confirm)
	if err != nil {
		c.trail.Append(audit.EventLoginFailed, gen)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.establish(gen, res, sealed, password, audit.EventSyncLogin)
}

// QuickAccessLogin substitutes the cached encrypted bytes; only a password
// is supplied. A missing cache is its own error, never conflated with a
// decryption failure.
func (c *Controller) QuickAccessLogin(ctx context.Context, password string, confirm bundle.ConfirmLegacy) error {
	gen, err := c.beginLogin()
	if err != nil {
		return err
	}
	defer c.endOp()

	sealed, _, err := c.cache.Get()
	if err != nil {
		return err
	}
	res, err := bundle.Open(sealed, password, confirm)
	if err != nil {
		c.trail.Append(audit.EventLoginFailed, gen)
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.establish(gen, res, sealed, password, audit.EventQuickLogin)
}

// GuestLogin starts an ephemeral session around a default bundle. Nothing a
// guest does is ever persisted; logout discards it without a backup prompt.
func (c *Controller) GuestLogin() error {
	gen, err := c.beginLogin()
	if err != nil {
		return err
	}
	defer c.endOp()

	b, err := bundle.New("guest")
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.bun = b
	c.guest = true
	c.password = nil
	c.lastSealed = nil
	c.disabled = nil
	c.state = StateActive
	c.generation++
	c.trail.Append(audit.EventGuestSession, gen)
	c.log.Info().Msg("guest session started")
	return nil
}

// Onboard creates a brand-new account bundle and establishes a session for
// it under the given master password.
func (c *Controller) Onboard(username, password, hint string, questions []bundle.SecurityQuestion) error {
	gen, err := c.beginLogin()
	if err != nil {
		return err
	}
	defer c.endOp()

	b, err := bundle.New(username)
	if err != nil {
		return err
	}
	b.Settings.Account.PasswordHint = hint
	b.Settings.Account.SecurityQuestions = questions

	sealed, err := bundle.Seal(b, password)
	if err != nil {
		return err
	}
	return c.establish(gen, bundle.LoadResult{Bundle: b}, sealed, password, audit.EventFileLogin)
}

// establish applies a successful login. The generation check makes the
// eventual completion of an abandoned login a no-op.
func (c *Controller) establish(gen uint64, res bundle.LoadResult, sealed []byte, password string, event audit.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.state != StateLoggedOut {
		return ErrStaleOperation
	}
	c.bun = res.Bundle
	c.guest = false
	c.setPassword(password)
	c.lastSealed = append([]byte(nil), sealed...)
	c.disabled = res.Disabled
	c.state = StateActive
	c.generation++
	c.trail.Append(event, gen)
	c.log.Info().
		Str("user", c.bun.Settings.Account.Username).
		Int("bundleVersion", res.Bundle.Version).
		Int("disabledCapabilities", len(res.Disabled)).
		Msg("session established")
	return nil
}

// Logout scrubs the session secret and bundle, clears the quick-access
// cache and returns to LoggedOut.
func (c *Controller) Logout() error {
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return ErrNotLoggedIn
	}
	if c.busy {
		c.mu.Unlock()
		return ErrOperationInFlight
	}
	gen := c.generation
	c.scrubPassword()
	c.bun = bundle.VaultBundle{}
	c.lastSealed = nil
	c.disabled = nil
	c.guest = false
	c.state = StateLoggedOut
	c.generation++
	c.mu.Unlock()

	if err := c.cache.Clear(); err != nil {
		c.log.Warn().Err(err).Msg("quick access cache clear failed during logout")
	}
	c.trail.Append(audit.EventLogout, gen)
	c.log.Info().Msg("logged out")
	return nil
}

// SaveBackup re-seals the current bundle and returns fresh .swe bytes for
// the caller to export. Each call produces new salt and iv.
func (c *Controller) SaveBackup() ([]byte, error) {
	gen, err := c.beginMutation(false)
	if err != nil {
		return nil, err
	}
	defer c.endOp()

	c.mu.Lock()
	snap := c.bun
	password := string(c.password)
	c.mu.Unlock()

	sealed, err := bundle.Seal(snap, password)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.lastSealed = append([]byte(nil), sealed...)
		c.trail.Append(audit.EventBackupSaved, gen)
	}
	c.log.Info().Int("bytes", len(sealed)).Msg("backup sealed")
	return sealed, nil
}

// ExportSyncBlob returns the backup in the text transport encoding.
func (c *Controller) ExportSyncBlob() (string, error) {
	sealed, err := c.SaveBackup()
	if err != nil {
		return "", err
	}
	return codec.EncodeBase64(sealed), nil
}

// EnableQuickAccess caches the exact encrypted bytes this session was
// loaded from (or last backed up), plus advisory login-screen metadata. The
// busy flag is held across the cache write so Logout cannot clear the cache
// between the decision and the Put; a late Put re-creating a cleared cache
// would leave vault ciphertext on a logged-out device.
func (c *Controller) EnableQuickAccess() error {
	gen, err := c.beginMutation(false)
	if err != nil {
		return err
	}
	defer c.endOp()

	c.mu.Lock()
	if c.lastSealed == nil {
		c.mu.Unlock()
		return ErrGuestSession
	}
	sealed := append([]byte(nil), c.lastSealed...)
	meta := cache.Metadata{Username: c.bun.Settings.Account.Username}
	if pk := c.bun.Settings.Account.Passkey; pk != nil {
		meta.PasskeyCredentialID = pk.CredentialID
	}
	c.mu.Unlock()

	if err := c.cache.Put(sealed, meta); err != nil {
		return err
	}
	c.trail.Append(audit.EventQuickEnabled, gen)
	return nil
}

// LoginScreenMetadata exposes the advisory cached record for rendering the
// login screen. Display only; it authorizes nothing.
func (c *Controller) LoginScreenMetadata() (cache.Metadata, error) {
	_, meta, err := c.cache.Get()
	if err != nil {
		return cache.Metadata{}, err
	}
	return meta, nil
}

// Current returns a snapshot copy for display logic. Readers are safe
// against concurrent mutation because the controller replaces the bundle
// wholesale, never patches it in place.
func (c *Controller) Current() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return Snapshot{}, ErrNotLoggedIn
	}
	return Snapshot{Bundle: c.bun, Guest: c.guest, Generation: c.generation}, nil
}

// CapabilityEnabled reports whether a capability class survived the version
// gate for this session.
func (c *Controller) CapabilityEnabled(capability bundle.Capability) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return false
	}
	for _, d := range c.disabled {
		if d == capability {
			return false
		}
	}
	return true
}

// SearchStories runs a case-insensitive query over the live library: title,
// tags, genre and synopsis, title matches first.
func (c *Controller) SearchStories(query string) ([]bundle.Story, error) {
	snap, err := c.Current()
	if err != nil {
		return nil, err
	}
	ids := search.New(snap.Bundle.Stories).Query(query)
	if len(ids) == 0 {
		return nil, nil
	}
	byID := make(map[string]bundle.Story, len(snap.Bundle.Stories))
	for _, s := range snap.Bundle.Stories {
		byID[s.ID] = s
	}
	out := make([]bundle.Story, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out, nil
}

// callers hold c.mu
func (c *Controller) setPassword(password string) {
	c.scrubPassword()
	c.password = []byte(password)
	if err := crypto.LockMemory(c.password); err != nil {
		c.log.Debug().Err(err).Msg("mlock unavailable for session secret")
	}
}

func (c *Controller) scrubPassword() {
	if c.password == nil {
		return
	}
	_ = crypto.UnlockMemory(c.password)
	crypto.Zero(c.password)
	c.password = nil
}
