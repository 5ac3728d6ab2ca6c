// Package ledger implements the weaverins tier-purchase rules. These are
// business errors, not security failures: both are locally recoverable and
// surfaced to the UI as dismissable notices.
package ledger

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Jaziel8910/weaver-vault/internal/bundle"
)

// RefundWindow is how long after purchase a refund is still honored.
const RefundWindow = 72 * time.Hour

var (
	ErrInsufficientFunds   = errors.New("ledger: not enough weaverins")
	ErrRefundWindowExpired = errors.New("ledger: refund window expired")
	ErrUnknownTier         = errors.New("ledger: unknown tier")
	ErrAlreadyRefunded     = errors.New("ledger: purchase already refunded")
	ErrPurchaseNotFound    = errors.New("ledger: purchase not found")
)

// TierCosts is the weaverins price list.
var TierCosts = map[string]int64{
	"journeyman":  500,
	"wordsmith":   1200,
	"loremaster":  2500,
	"archweaver":  5000,
}

// Purchase debits the account and records the purchase. The account is
// returned modified by value; the session controller applies it by wholesale
// replacement.
func Purchase(acct bundle.AccountSettings, tier string, now time.Time) (bundle.AccountSettings, error) {
	cost, ok := TierCosts[tier]
	if !ok {
		return acct, ErrUnknownTier
	}
	if acct.Weaverins < cost {
		return acct, ErrInsufficientFunds
	}
	acct.Weaverins -= cost
	acct.Rank = tier
	acct.Purchases = append(acct.Purchases, bundle.TierPurchase{
		ID:          uuid.NewString(),
		Tier:        tier,
		Cost:        cost,
		PurchasedAt: now.Unix(),
	})
	return acct, nil
}

// Refund reverses a purchase made inside the refund window.
func Refund(acct bundle.AccountSettings, purchaseID string, now time.Time) (bundle.AccountSettings, error) {
	for i, p := range acct.Purchases {
		if p.ID != purchaseID {
			continue
		}
		if p.Refunded {
			return acct, ErrAlreadyRefunded
		}
		if now.Sub(time.Unix(p.PurchasedAt, 0)) > RefundWindow {
			return acct, ErrRefundWindowExpired
		}
		acct.Weaverins += p.Cost
		acct.Purchases = append([]bundle.TierPurchase(nil), acct.Purchases...)
		acct.Purchases[i].Refunded = true
		return acct, nil
	}
	return acct, ErrPurchaseNotFound
}
