package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan is a static catalog entry. The set of plans is fixed at build time;
// invite links come from configuration.
type Plan struct {
	ID         string          `json:"id"`
	Price      decimal.Decimal `json:"price"`
	Days       int             `json:"days"`
	InviteLink string          `json:"-"`
}

// Subscription is the ledger record of one user's entitlement. At most one
// record exists per user; a renewal overwrites it.
type Subscription struct {
	UserID      string    `json:"user_id"`
	PlanID      string    `json:"plan_id"`
	ActivatedAt time.Time `json:"activated_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s Subscription) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
