package gate

import (
	"context"
	"testing"
	"time"

	"github.com/opengovern/linkhub/services/quota/credit"
	"github.com/opengovern/linkhub/services/quota/db/dbtest"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/db/repo"
	"github.com/opengovern/linkhub/services/quota/entitlement"
	"github.com/opengovern/linkhub/services/quota/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreditFallbackScenario(t *testing.T) {
	database := dbtest.New(t)
	clock := func() time.Time { return now }

	dbtest.CreatePlan(t, database, "starter", `{"request_quota_per_month": 10, "offer_quota_per_month": 5}`)
	dbtest.Subscribe(t, database, "alice", "starter", model.SubscriptionStatusActive, now.AddDate(0, 0, -13), now.AddDate(0, 0, 17))
	dbtest.AddRequests(t, database, "alice", 10, now.AddDate(0, 0, -2))
	// Last month's requests do not count.
	dbtest.AddRequests(t, database, "alice", 7, now.AddDate(0, -1, 0))
	dbtest.SetBalance(t, database, "alice", 3)

	ledger := credit.NewLedger(zap.NewNop(), repo.NewCreditRepo(database), nil)
	g := New(zap.NewNop(),
		entitlement.NewResolver(zap.NewNop(), repo.NewSubscriptionRepo(database), clock),
		usage.NewCounter(zap.NewNop(), repo.NewActionRepo(database), repo.NewProfileRepo(database), clock),
		ledger,
	)
	ctx := context.Background()

	dry, err := g.Evaluate(ctx, "alice", model.ActionCreateRequest, false)
	require.NoError(t, err)
	assert.True(t, dry.Allowed)
	assert.Equal(t, SourceCredit, dry.Source)
	assert.Equal(t, int64(3), dry.CreditsRemaining)

	for _, want := range []int64{2, 1, 0} {
		d, err := g.Evaluate(ctx, "alice", model.ActionCreateRequest, true)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, SourceCredit, d.Source)
		assert.Equal(t, int64(10), d.Quota)
		assert.Equal(t, int64(10), d.Used)
		assert.Equal(t, want, d.CreditsRemaining)
	}

	// Once denied, nothing but a grant or a new period changes the answer.
	for i := 0; i < 2; i++ {
		d, err := g.Evaluate(ctx, "alice", model.ActionCreateRequest, true)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonQuotaExceeded, d.Reason)
		assert.Equal(t, int64(0), d.CreditsRemaining)
	}

	_, err = ledger.Credit(ctx, "alice", 1, "pi_topup")
	require.NoError(t, err)

	d, err := g.Evaluate(ctx, "alice", model.ActionCreateRequest, true)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int64(0), d.CreditsRemaining)
}

func TestOfferQuotaSpansAllProfiles(t *testing.T) {
	database := dbtest.New(t)
	clock := func() time.Time { return now }

	dbtest.CreatePlan(t, database, "starter", `{"offer_quota_per_month": 5}`)
	dbtest.Subscribe(t, database, "bob", "starter", model.SubscriptionStatusActive, now.AddDate(0, 0, -13), now.AddDate(0, 0, 17))
	p1 := dbtest.AddProfile(t, database, "bob", now.AddDate(-1, 0, 0))
	p2 := dbtest.AddProfile(t, database, "bob", now.AddDate(0, -2, 0))
	dbtest.AddOffers(t, database, p1.ID, 3, now.AddDate(0, 0, -1))
	dbtest.AddOffers(t, database, p2.ID, 2, now.AddDate(0, 0, -1))

	g := New(zap.NewNop(),
		entitlement.NewResolver(zap.NewNop(), repo.NewSubscriptionRepo(database), clock),
		usage.NewCounter(zap.NewNop(), repo.NewActionRepo(database), repo.NewProfileRepo(database), clock),
		credit.NewLedger(zap.NewNop(), repo.NewCreditRepo(database), nil),
	)

	d, err := g.Evaluate(context.Background(), "bob", model.ActionCreateOffer, true)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonQuotaExceeded, d.Reason)
	assert.Equal(t, int64(5), d.Used)

	d, err = g.Evaluate(context.Background(), "bob", model.ActionCreateRequest, false)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonQuotaExceeded, d.Reason)
	assert.Equal(t, int64(0), d.Quota)
}
