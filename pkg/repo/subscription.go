package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cast"

	"boostiq/config"
	"boostiq/pkg/consts"
	"boostiq/pkg/entities"
	"boostiq/pkg/repo/driver/db"
	"boostiq/utilities"
)

type SubscriptionRepo struct {
	store db.Store
	conf  *config.BoostiqConfModel
}

// SubscriptionRepoImply is the durable entitlement ledger: one record per
// user, overwritten on renewal, removed by the expiry sweep.
type SubscriptionRepoImply interface {
	Activate(ctx context.Context, userID, planID string, now time.Time) (*entities.Subscription, error)
	Get(ctx context.Context, userID string) (*entities.Subscription, error)
	SweepExpired(ctx context.Context, now time.Time) ([]entities.Subscription, error)
}

func NewSubscriptionRepo(store db.Store, conf *config.BoostiqConfModel) SubscriptionRepoImply {
	return &SubscriptionRepo{store: store, conf: conf}
}

// Activate writes the user's subscription record. An existing record is
// overwritten; durations never stack.
func (r *SubscriptionRepo) Activate(ctx context.Context, userID, planID string, now time.Time) (*entities.Subscription, error) {
	tier := consts.PlanStringToEnum(planID)
	if tier.String() == "" {
		return nil, fmt.Errorf("unknown plan %q", planID)
	}

	// second precision so the record round-trips through any store driver
	activatedAt := now.UTC().Truncate(time.Second)

	sub := entities.Subscription{
		UserID:      userID,
		PlanID:      tier.String(),
		ActivatedAt: activatedAt,
		ExpiresAt:   activatedAt.AddDate(0, 0, consts.PlanDurationDays[tier]),
	}

	if err := r.store.Put(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to persist subscription for %s: %w", userID, err)
	}

	return &sub, nil
}

func (r *SubscriptionRepo) Get(ctx context.Context, userID string) (*entities.Subscription, error) {
	return r.store.Get(ctx, userID)
}

func (r *SubscriptionRepo) SweepExpired(ctx context.Context, now time.Time) ([]entities.Subscription, error) {
	return r.store.SweepExpired(ctx, now)
}

// Sweeper is what the periodic checker invokes; the payment usecase
// implements it on top of this repo and dispatches expiry notifications.
type Sweeper interface {
	SweepExpired(ctx context.Context, now time.Time) ([]entities.Subscription, error)
}

// SubscriptionChecker runs the expiry sweep at the configured interval.
func SubscriptionChecker(ctx context.Context, sweeper Sweeper) {
	log := utilities.NewLogger("SubscriptionChecker")

	interval := cast.ToDuration(config.GetConfig().SweepInterval)
	ticker := time.NewTicker(interval)

	go func() {
		for {
			select {
			case <-ctx.Done():
				log.Info("Terminating...")
				ticker.Stop()
				return
			case <-ticker.C:
				expired, err := sweeper.SweepExpired(ctx, utilities.TimeNow())
				if err != nil {
					log.WithError(err).Error("expiry sweep failed")
					continue
				}
				if len(expired) > 0 {
					log.Infof("expired %d subscriptions", len(expired))
				}
			}
		}
	}()
}
