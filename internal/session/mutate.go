package session

import (
	"context"
	"time"

	"github.com/Jaziel8910/weaver-vault/internal/audit"
	"github.com/Jaziel8910/weaver-vault/internal/bundle"
	"github.com/Jaziel8910/weaver-vault/internal/cache"
	"github.com/Jaziel8910/weaver-vault/internal/ledger"
	"github.com/Jaziel8910/weaver-vault/internal/recovery"
)

// Update replaces the live bundle wholesale. The mutator receives a copy,
// edits it and returns the replacement; if it errors, nothing changes.
// There is never an in-place patch, so concurrent readers holding an older
// Snapshot stay coherent.
func (c *Controller) Update(mutate func(bundle.VaultBundle) (bundle.VaultBundle, error)) error {
	gen, err := c.beginMutation(true)
	if err != nil {
		return err
	}
	defer c.endOp()

	c.mu.Lock()
	snap := c.bun
	c.mu.Unlock()

	next, err := mutate(snap)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.state != StateActive {
		return ErrStaleOperation
	}
	c.bun = next
	return nil
}

// UpsertStory adds a story or replaces the one with a matching ID.
func (c *Controller) UpsertStory(s bundle.Story) error {
	return c.Update(func(b bundle.VaultBundle) (bundle.VaultBundle, error) {
		out := append([]bundle.Story(nil), b.Stories...)
		for i := range out {
			if out[i].ID == s.ID {
				out[i] = s
				b.Stories = out
				return b, nil
			}
		}
		b.Stories = append(out, s)
		return b, nil
	})
}

// DeleteStory removes a story by ID. Deleting an absent story is a no-op.
func (c *Controller) DeleteStory(id string) error {
	return c.Update(func(b bundle.VaultBundle) (bundle.VaultBundle, error) {
		out := b.Stories[:0:0]
		for _, s := range b.Stories {
			if s.ID != id {
				out = append(out, s)
			}
		}
		b.Stories = out
		return b, nil
	})
}

// UpsertUniverse adds or replaces a shared universe. Gated on the universe
// capability surviving the version gate.
func (c *Controller) UpsertUniverse(u bundle.Universe) error {
	if !c.CapabilityEnabled(bundle.CapUniverses) {
		return ErrCapabilityDisabled
	}
	return c.Update(func(b bundle.VaultBundle) (bundle.VaultBundle, error) {
		out := append([]bundle.Universe(nil), b.Universes...)
		for i := range out {
			if out[i].ID == u.ID {
				out[i] = u
				b.Universes = out
				return b, nil
			}
		}
		b.Universes = append(out, u)
		return b, nil
	})
}

// PurchaseTier debits weaverins and records the purchase in the account.
func (c *Controller) PurchaseTier(tier string, now time.Time) error {
	if !c.CapabilityEnabled(bundle.CapRanks) {
		return ErrCapabilityDisabled
	}
	return c.Update(func(b bundle.VaultBundle) (bundle.VaultBundle, error) {
		acct, err := ledger.Purchase(b.Settings.Account, tier, now)
		if err != nil {
			return b, err
		}
		b.Settings.Account = acct
		return b, nil
	})
}

// RefundPurchase reverses a tier purchase inside the refund window.
func (c *Controller) RefundPurchase(purchaseID string, now time.Time) error {
	if !c.CapabilityEnabled(bundle.CapRanks) {
		return ErrCapabilityDisabled
	}
	return c.Update(func(b bundle.VaultBundle) (bundle.VaultBundle, error) {
		acct, err := ledger.Refund(b.Settings.Account, purchaseID, now)
		if err != nil {
			return b, err
		}
		b.Settings.Account = acct
		return b, nil
	})
}

// BeginRecovery starts the hint/questions/reset sequence for the active
// account. The questions live inside the encrypted bundle, so recovery needs
// an open session; a user locked out of the file entirely has nothing to
// recover from.
func (c *Controller) BeginRecovery() (*recovery.Flow, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateActive {
		return nil, ErrNotLoggedIn
	}
	if c.guest {
		return nil, ErrGuestSession
	}
	acct := c.bun.Settings.Account
	return recovery.New(acct.PasswordHint, acct.SecurityQuestions)
}

// SubmitRecoveryAnswers forwards to the flow with the session throttle
// applied, so answer guessing shares the login attempt budget.
func (c *Controller) SubmitRecoveryAnswers(flow *recovery.Flow, answers []string) error {
	c.mu.Lock()
	allowed := c.limiter.Allow()
	c.mu.Unlock()
	if !allowed {
		return ErrThrottled
	}
	return flow.SubmitAnswers(answers)
}

// CompleteRecovery finishes a passed flow: it re-seals the current in-memory
// bundle under the new password and atomically replaces the quick-access
// cache, so the old password stops working everywhere at once.
func (c *Controller) CompleteRecovery(flow *recovery.Flow, password, confirm string) error {
	gen, err := c.beginMutation(false)
	if err != nil {
		return err
	}
	defer c.endOp()

	accepted, err := flow.SetNewPassword(password, confirm)
	if err != nil {
		return err
	}

	c.mu.Lock()
	snap := c.bun
	c.mu.Unlock()

	sealed, err := bundle.Seal(snap, accepted)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.generation != gen || c.state != StateActive {
		c.mu.Unlock()
		return ErrStaleOperation
	}
	c.setPassword(accepted)
	c.lastSealed = append([]byte(nil), sealed...)
	hadCache := true
	meta := cache.Metadata{Username: c.bun.Settings.Account.Username}
	if pk := c.bun.Settings.Account.Passkey; pk != nil {
		meta.PasskeyCredentialID = pk.CredentialID
	}
	c.mu.Unlock()

	// Re-encrypt whatever the cache holds; a cache sealed under the old
	// password would otherwise keep that password alive.
	if _, _, err := c.cache.Get(); err != nil {
		hadCache = false
	}
	if hadCache {
		if err := c.cache.Put(sealed, meta); err != nil {
			return err
		}
	}
	c.trail.Append(audit.EventPasswordReset, gen)
	c.log.Info().Msg("master password reset")
	return nil
}

// BindPasskey runs the creation ceremony and stores the resulting binding
// on the account. The late completion of an abandoned ceremony is dropped
// by the generation check inside Update.
func (c *Controller) BindPasskey(ctx context.Context) error {
	if c.binder == nil {
		return ErrCapabilityDisabled
	}
	if !c.CapabilityEnabled(bundle.CapPasskey) {
		return ErrCapabilityDisabled
	}
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return ErrNotLoggedIn
	}
	if c.guest {
		c.mu.Unlock()
		return ErrGuestSession
	}
	acct := c.bun.Settings.Account
	gen := c.generation
	c.mu.Unlock()

	binding, err := c.binder.Bind(ctx, acct.Username, acct.UserID)
	if err != nil {
		return err
	}

	err = c.Update(func(b bundle.VaultBundle) (bundle.VaultBundle, error) {
		b.Settings.Account.Passkey = binding
		return b, nil
	})
	if err != nil {
		return err
	}
	c.trail.Append(audit.EventPasskeyBound, gen)
	return nil
}

// VerifyPasskey runs the assertion ceremony against the stored binding.
// A failed or declined ceremony leaves the session untouched.
func (c *Controller) VerifyPasskey(ctx context.Context) error {
	if c.binder == nil {
		return ErrCapabilityDisabled
	}
	if !c.CapabilityEnabled(bundle.CapPasskey) {
		return ErrCapabilityDisabled
	}
	c.mu.Lock()
	if c.state != StateActive {
		c.mu.Unlock()
		return ErrNotLoggedIn
	}
	binding := c.bun.Settings.Account.Passkey
	gen := c.generation
	c.mu.Unlock()

	if err := c.binder.Verify(ctx, binding); err != nil {
		return err
	}
	c.trail.Append(audit.EventPasskeyVerified, gen)
	return nil
}
