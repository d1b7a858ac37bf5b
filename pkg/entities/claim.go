package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentClaim is the per-user session created when a plan is selected. It
// carries the plan context needed to judge a later hash submission.
type PaymentClaim struct {
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ClaimRequest is the payload of the claim endpoints.
type ClaimRequest struct {
	PlanID string `json:"plan_id,omitempty"`
	TxnID  string `json:"txn_id,omitempty"`
}

// ClaimResult is what a hash submission resolved to. When Activated is true
// the subscription was written to the ledger; otherwise Reason says why not.
type ClaimResult struct {
	Activated    bool            `json:"activated"`
	Reason       RejectReason    `json:"reason,omitempty"`
	Settled      decimal.Decimal `json:"settled_amount"`
	Subscription *Subscription   `json:"subscription,omitempty"`
}
