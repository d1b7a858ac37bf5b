package usecases

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boostiq/config"
	"boostiq/pkg/cache"
	"boostiq/pkg/entities"
	"boostiq/pkg/metrics"
	repoLib "boostiq/pkg/repo"
	"boostiq/pkg/repo/driver/db"
)

const validHash = "0xa3b8de4f2c11009d5c7e68e2e5306229b41c0911568e2f0a59ff2e6dcaf40211"

type stubVerifier struct {
	result *entities.VerificationResult
	err    error
	calls  int
}

func (s *stubVerifier) VerifyPayment(_ context.Context, _ string) (*entities.VerificationResult, error) {
	s.calls++
	return s.result, s.err
}

type captureNotifier struct {
	mu   sync.Mutex
	sent []entities.Notification
}

func (c *captureNotifier) Notify(n entities.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, n)
}

func (c *captureNotifier) ofKind(kind entities.NotificationKind) []entities.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []entities.Notification
	for _, n := range c.sent {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

type captureRecorder struct {
	mu        sync.Mutex
	counters  map[string]int
	latencies map[string]int
}

func newCaptureRecorder() *captureRecorder {
	return &captureRecorder{
		counters:  make(map[string]int),
		latencies: make(map[string]int),
	}
}

func (c *captureRecorder) IncCounter(name string, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

func (c *captureRecorder) ObserveLatency(name string, _ time.Duration, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.latencies[name]++
}

func testConf() *config.BoostiqConfModel {
	conf := &config.BoostiqConfModel{}
	conf.Payment.Tolerance = "0.05"
	conf.Payment.ClaimTTL = "30m"
	conf.Groups.Starter = "https://t.me/+starter"
	conf.Groups.Pro = "https://t.me/+pro"
	conf.Groups.Ultimate = "https://t.me/+ultimate"
	return conf
}

func newTestUsecases(t *testing.T, verifier *stubVerifier) (PaymentUsecasesImply, *captureNotifier) {
	t.Helper()

	store, err := db.NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	conf := testConf()
	notifier := &captureNotifier{}
	uc := NewPaymentUsecases(
		repoLib.NewSubscriptionRepo(store, conf),
		verifier,
		cache.GetClaimCache(time.Minute),
		notifier,
		metrics.NoopRecorder{},
		conf,
	)

	return uc, notifier
}

func TestGetPlans(t *testing.T) {
	uc, _ := newTestUsecases(t, &stubVerifier{})

	plans := uc.GetPlans()
	require.Len(t, plans, 3)
	assert.Equal(t, "starter", plans[0].ID)
	assert.True(t, plans[0].Price.Equal(decimal.RequireFromString("9.99")))
	assert.Equal(t, 30, plans[0].Days)
	assert.Equal(t, "https://t.me/+starter", plans[0].InviteLink)
	assert.Equal(t, "pro", plans[1].ID)
	assert.Equal(t, "ultimate", plans[2].ID)
}

func TestSelectPlan(t *testing.T) {
	uc, _ := newTestUsecases(t, &stubVerifier{})

	claim, err := uc.SelectPlan(context.Background(), "select-1", "pro")
	require.NoError(t, err)
	assert.Equal(t, "pro", claim.PlanID)

	_, err = uc.SelectPlan(context.Background(), "select-1", "platinum")
	assert.ErrorIs(t, err, ErrUnknownPlan)
}

func TestSubmitHash(t *testing.T) {
	ctx := context.Background()

	t.Run("no pending claim", func(t *testing.T) {
		verifier := &stubVerifier{}
		uc, notifier := newTestUsecases(t, verifier)

		_, err := uc.SubmitHash(ctx, "nobody-1", validHash)
		assert.ErrorIs(t, err, ErrNoPlanSelected)
		assert.Zero(t, verifier.calls)
		assert.Len(t, notifier.ofKind(entities.KindStartOver), 1)
	})

	t.Run("malformed hash never reaches the provider", func(t *testing.T) {
		verifier := &stubVerifier{result: entities.Accepted(decimal.RequireFromString("9.99"))}
		uc, notifier := newTestUsecases(t, verifier)

		_, err := uc.SelectPlan(ctx, "format-1", "starter")
		require.NoError(t, err)

		for _, bad := range []string{"", "deadbeef", "0x1234", validHash + "ff", "0x" + "zz" + validHash[4:]} {
			res, err := uc.SubmitHash(ctx, "format-1", bad)
			require.NoError(t, err)
			assert.False(t, res.Activated)
			assert.Equal(t, entities.ReasonBadFormat, res.Reason)
		}
		assert.Zero(t, verifier.calls)
		assert.Len(t, notifier.ofKind(entities.KindPaymentFailed), 5)
	})

	t.Run("chain rejection is passed through", func(t *testing.T) {
		verifier := &stubVerifier{result: entities.Rejected(entities.ReasonTxFailed)}
		uc, notifier := newTestUsecases(t, verifier)

		_, err := uc.SelectPlan(ctx, "reject-1", "starter")
		require.NoError(t, err)

		res, err := uc.SubmitHash(ctx, "reject-1", validHash)
		require.NoError(t, err)
		assert.False(t, res.Activated)
		assert.Equal(t, entities.ReasonTxFailed, res.Reason)

		failed := notifier.ofKind(entities.KindPaymentFailed)
		require.Len(t, failed, 1)
		assert.Equal(t, "tx_failed", failed[0].Payload["reason"])

		// the claim survives a rejection, the user may retry with a new hash
		res, err = uc.SubmitHash(ctx, "reject-1", validHash)
		require.NoError(t, err)
		assert.False(t, res.Activated)
	})

	t.Run("settles within tolerance", func(t *testing.T) {
		// 5% under the 9.99 starter price is 9.4905
		verifier := &stubVerifier{result: entities.Accepted(decimal.RequireFromString("9.4905"))}
		uc, _ := newTestUsecases(t, verifier)

		_, err := uc.SelectPlan(ctx, "tolerance-1", "starter")
		require.NoError(t, err)

		res, err := uc.SubmitHash(ctx, "tolerance-1", validHash)
		require.NoError(t, err)
		assert.True(t, res.Activated)
	})

	t.Run("settles just below tolerance", func(t *testing.T) {
		verifier := &stubVerifier{result: entities.Accepted(decimal.RequireFromString("9.49"))}
		uc, notifier := newTestUsecases(t, verifier)

		_, err := uc.SelectPlan(ctx, "tolerance-2", "starter")
		require.NoError(t, err)

		res, err := uc.SubmitHash(ctx, "tolerance-2", validHash)
		require.NoError(t, err)
		assert.False(t, res.Activated)
		assert.Equal(t, entities.ReasonInsufficientAmount, res.Reason)
		assert.True(t, res.Settled.Equal(decimal.RequireFromString("9.49")))
		assert.Len(t, notifier.ofKind(entities.KindPaymentFailed), 1)
	})

	t.Run("successful activation", func(t *testing.T) {
		verifier := &stubVerifier{result: entities.Accepted(decimal.RequireFromString("19.99"))}
		uc, notifier := newTestUsecases(t, verifier)

		_, err := uc.SelectPlan(ctx, "activate-1", "pro")
		require.NoError(t, err)

		res, err := uc.SubmitHash(ctx, "activate-1", validHash)
		require.NoError(t, err)
		require.True(t, res.Activated)
		require.NotNil(t, res.Subscription)
		assert.Equal(t, "pro", res.Subscription.PlanID)

		sub, err := uc.GetSubscription(ctx, "activate-1")
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, res.Subscription.ExpiresAt, sub.ExpiresAt)

		activated := notifier.ofKind(entities.KindSubscriptionActivated)
		require.Len(t, activated, 1)
		assert.Equal(t, "https://t.me/+pro", activated[0].Payload["invite_link"])

		alerts := notifier.ofKind(entities.KindOperatorAlert)
		require.Len(t, alerts, 1)
		assert.Equal(t, "19.99", alerts[0].Payload["settled_amount"])
		assert.Equal(t, validHash, alerts[0].Payload["txn_id"])

		// the claim session is consumed by the activation
		_, err = uc.SubmitHash(ctx, "activate-1", validHash)
		assert.ErrorIs(t, err, ErrNoPlanSelected)
	})

	t.Run("provider failure keeps the claim open", func(t *testing.T) {
		verifier := &stubVerifier{err: errors.New("provider timeout")}
		uc, notifier := newTestUsecases(t, verifier)

		_, err := uc.SelectPlan(ctx, "outage-1", "starter")
		require.NoError(t, err)

		_, err = uc.SubmitHash(ctx, "outage-1", validHash)
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNoPlanSelected)
		assert.Len(t, notifier.ofKind(entities.KindRetryLater), 1)

		// recovery path works without reselecting the plan
		verifier.err = nil
		verifier.result = entities.Accepted(decimal.RequireFromString("9.99"))

		res, err := uc.SubmitHash(ctx, "outage-1", validHash)
		require.NoError(t, err)
		assert.True(t, res.Activated)
	})
}

func TestSubmitHashRecordsMetrics(t *testing.T) {
	ctx := context.Background()

	store, err := db.NewFileStore(filepath.Join(t.TempDir(), "ledger.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	conf := testConf()
	recorder := newCaptureRecorder()
	uc := NewPaymentUsecases(
		repoLib.NewSubscriptionRepo(store, conf),
		&stubVerifier{result: entities.Accepted(decimal.RequireFromString("9.99"))},
		cache.GetClaimCache(time.Minute),
		&captureNotifier{},
		recorder,
		conf,
	)

	_, err = uc.SelectPlan(ctx, "metrics-1", "starter")
	require.NoError(t, err)

	res, err := uc.SubmitHash(ctx, "metrics-1", validHash)
	require.NoError(t, err)
	require.True(t, res.Activated)

	assert.Equal(t, 1, recorder.latencies["verify_payment"])
	assert.Equal(t, 1, recorder.counters["subscriptions_activated"])

	// a malformed hash is rejected before the provider call, so no latency
	// sample is taken for it
	_, err = uc.SelectPlan(ctx, "metrics-2", "starter")
	require.NoError(t, err)
	res, err = uc.SubmitHash(ctx, "metrics-2", "not-a-hash")
	require.NoError(t, err)
	require.False(t, res.Activated)

	assert.Equal(t, 1, recorder.latencies["verify_payment"])
	assert.Equal(t, 1, recorder.counters["payments_rejected"])
}

func TestSweepExpiredNotifies(t *testing.T) {
	ctx := context.Background()
	verifier := &stubVerifier{result: entities.Accepted(decimal.RequireFromString("9.99"))}
	uc, notifier := newTestUsecases(t, verifier)

	_, err := uc.SelectPlan(ctx, "sweep-1", "starter")
	require.NoError(t, err)
	res, err := uc.SubmitHash(ctx, "sweep-1", validHash)
	require.NoError(t, err)
	require.True(t, res.Activated)

	expired, err := uc.SweepExpired(ctx, res.Subscription.ExpiresAt.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, "sweep-1", expired[0].UserID)

	notes := notifier.ofKind(entities.KindSubscriptionExpired)
	require.Len(t, notes, 1)
	assert.Equal(t, "sweep-1", notes[0].UserID)
	assert.Equal(t, "starter", notes[0].Payload["plan"])

	sub, err := uc.GetSubscription(ctx, "sweep-1")
	require.NoError(t, err)
	assert.Nil(t, sub)
}
