package usecases

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"boostiq/config"
	"boostiq/pkg/cache"
	"boostiq/pkg/consts"
	"boostiq/pkg/entities"
	"boostiq/pkg/metrics"
	repoLib "boostiq/pkg/repo"
	chainLib "boostiq/pkg/repo/driver/chain"
	"boostiq/pkg/repo/driver/medium"
	"boostiq/utilities"
)

// ErrNoPlanSelected means the user submitted a hash without a pending plan
// claim, so there is no expected price to verify against.
var ErrNoPlanSelected = errors.New("no plan selected")

// ErrUnknownPlan rejects a plan identifier outside the catalog.
var ErrUnknownPlan = errors.New("unknown plan")

var txHashRe = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

type PaymentUsecases struct {
	repo      repoLib.SubscriptionRepoImply
	verifier  chainLib.Chain
	claims    *cache.ClaimCache
	notifier  medium.Notifier
	recorder  metrics.Recorder
	conf      *config.BoostiqConfModel
	tolerance decimal.Decimal
}

type PaymentUsecasesImply interface {
	GetPlans() []entities.Plan
	SelectPlan(ctx context.Context, userID, planID string) (*entities.PaymentClaim, error)
	SubmitHash(ctx context.Context, userID, txnHash string) (*entities.ClaimResult, error)
	GetSubscription(ctx context.Context, userID string) (*entities.Subscription, error)
	SweepExpired(ctx context.Context, now time.Time) ([]entities.Subscription, error)
}

func NewPaymentUsecases(
	subRepo repoLib.SubscriptionRepoImply,
	verifier chainLib.Chain,
	claims *cache.ClaimCache,
	notifier medium.Notifier,
	recorder metrics.Recorder,
	conf *config.BoostiqConfModel,
) PaymentUsecasesImply {
	tolerance, err := decimal.NewFromString(conf.Payment.Tolerance)
	if err != nil {
		utilities.NewLogger("NewPaymentUsecases").
			Errorf("invalid tolerance %q, defaulting to 0.05", conf.Payment.Tolerance)
		tolerance = decimal.RequireFromString("0.05")
	}

	return &PaymentUsecases{
		repo:      subRepo,
		verifier:  verifier,
		claims:    claims,
		notifier:  notifier,
		recorder:  recorder,
		conf:      conf,
		tolerance: tolerance,
	}
}

func (u *PaymentUsecases) GetPlans() []entities.Plan {
	plans := make([]entities.Plan, 0, len(consts.PlanTiers()))
	for _, tier := range consts.PlanTiers() {
		plans = append(plans, u.plan(tier))
	}

	return plans
}

// SelectPlan opens a payment claim session carrying the plan context the
// later hash submission is judged against.
func (u *PaymentUsecases) SelectPlan(_ context.Context, userID, planID string) (*entities.PaymentClaim, error) {
	tier := consts.PlanStringToEnum(planID)
	if tier.String() == "" {
		return nil, ErrUnknownPlan
	}

	claim := entities.PaymentClaim{
		UserID:    userID,
		PlanID:    tier.String(),
		CreatedAt: utilities.TimeNow(),
	}
	u.claims.Put(claim)

	return &claim, nil
}

// SubmitHash resolves a user's claimed payment hash into an activation or a
// rejection. The ledger is only touched after the full verdict is known.
func (u *PaymentUsecases) SubmitHash(ctx context.Context, userID, txnHash string) (*entities.ClaimResult, error) {
	log := utilities.NewLoggerWithFields("SubmitHash", map[string]interface{}{
		"user_id": userID,
	})

	claim, ok := u.claims.Get(userID)
	if !ok {
		u.notify(entities.KindStartOver, userID, map[string]interface{}{
			"txn_id": txnHash,
		})
		return nil, ErrNoPlanSelected
	}

	// cheap literal guard, no provider round trip for garbage input
	if !txHashRe.MatchString(txnHash) {
		return u.reject(userID, claim.PlanID, txnHash, entities.ReasonBadFormat), nil
	}

	verifyStart := utilities.TimeNow()
	result, err := u.verifier.VerifyPayment(ctx, txnHash)
	u.recorder.ObserveLatency("verify_payment", time.Since(verifyStart), nil)
	if err != nil {
		// infrastructure failure, not attributable to the user; the claim
		// session stays open so they can retry
		log.WithError(err).Error("verification could not be completed")
		u.recorder.IncCounter("verify_errors", map[string]string{"reason": "infra"})
		u.notify(entities.KindRetryLater, userID, map[string]interface{}{
			"txn_id": txnHash,
		})
		return nil, err
	}

	if !result.IsAccepted() {
		return u.reject(userID, claim.PlanID, txnHash, result.Reason), nil
	}

	plan := u.plan(consts.PlanStringToEnum(claim.PlanID))
	minAcceptable := plan.Price.Mul(decimal.NewFromInt(1).Sub(u.tolerance))
	if result.Settled.LessThan(minAcceptable) {
		log.Infof("settled %s below acceptable %s for plan %s", result.Settled, minAcceptable, plan.ID)
		res := u.reject(userID, claim.PlanID, txnHash, entities.ReasonInsufficientAmount)
		res.Settled = result.Settled
		return res, nil
	}

	sub, err := u.repo.Activate(ctx, userID, claim.PlanID, utilities.TimeNow())
	if err != nil {
		// verified but not persisted; do not report success
		log.WithError(err).Error("failed to persist subscription")
		u.notify(entities.KindRetryLater, userID, map[string]interface{}{
			"txn_id": txnHash,
		})
		return nil, err
	}

	u.claims.Delete(userID)
	u.recorder.IncCounter("subscriptions_activated", map[string]string{"reason": plan.ID})

	u.notify(entities.KindSubscriptionActivated, userID, map[string]interface{}{
		"plan":        sub.PlanID,
		"expires_at":  sub.ExpiresAt,
		"invite_link": plan.InviteLink,
	})
	u.notify(entities.KindOperatorAlert, userID, map[string]interface{}{
		"user_id":        userID,
		"plan":           sub.PlanID,
		"settled_amount": result.Settled.String(),
		"txn_id":         txnHash,
		"expires_at":     sub.ExpiresAt,
	})

	return &entities.ClaimResult{
		Activated:    true,
		Settled:      result.Settled,
		Subscription: sub,
	}, nil
}

func (u *PaymentUsecases) GetSubscription(ctx context.Context, userID string) (*entities.Subscription, error) {
	return u.repo.Get(ctx, userID)
}

// SweepExpired removes lapsed records and emits one expiry notification per
// removed record, after the ledger mutation.
func (u *PaymentUsecases) SweepExpired(ctx context.Context, now time.Time) ([]entities.Subscription, error) {
	expired, err := u.repo.SweepExpired(ctx, now)
	if err != nil {
		return nil, err
	}

	for _, sub := range expired {
		u.recorder.IncCounter("subscriptions_expired", map[string]string{"reason": sub.PlanID})
		u.notify(entities.KindSubscriptionExpired, sub.UserID, map[string]interface{}{
			"plan":       sub.PlanID,
			"expired_at": sub.ExpiresAt,
		})
	}

	return expired, nil
}

func (u *PaymentUsecases) reject(userID, planID, txnHash string, reason entities.RejectReason) *entities.ClaimResult {
	u.recorder.IncCounter("payments_rejected", map[string]string{"reason": string(reason)})
	u.notify(entities.KindPaymentFailed, userID, map[string]interface{}{
		"plan":   planID,
		"txn_id": txnHash,
		"reason": string(reason),
	})

	return &entities.ClaimResult{
		Activated: false,
		Reason:    reason,
		Settled:   decimal.Zero,
	}
}

func (u *PaymentUsecases) notify(kind entities.NotificationKind, userID string, payload map[string]interface{}) {
	u.notifier.Notify(entities.Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		UserID:    userID,
		Payload:   payload,
		CreatedAt: utilities.TimeNow(),
	})
}

func (u *PaymentUsecases) plan(tier consts.PlanTier) entities.Plan {
	plan := entities.Plan{
		ID:    tier.String(),
		Price: consts.PlanCharge[tier],
		Days:  consts.PlanDurationDays[tier],
	}

	switch tier {
	case consts.StarterTier:
		plan.InviteLink = u.conf.Groups.Starter
	case consts.ProTier:
		plan.InviteLink = u.conf.Groups.Pro
	case consts.UltimateTier:
		plan.InviteLink = u.conf.Groups.Ultimate
	}

	return plan
}
