package gate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/opengovern/linkhub/services/quota/credit"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/entitlement"
	"github.com/opengovern/linkhub/services/quota/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC)

type resolverMock struct{ mock.Mock }

func (m *resolverMock) Limit(ctx context.Context, actorID string, action model.ActionType) (entitlement.Entitlement, error) {
	args := m.Called(ctx, actorID, action)
	return args.Get(0).(entitlement.Entitlement), args.Error(1)
}

type counterMock struct{ mock.Mock }

func (m *counterMock) Period() usage.Period {
	return usage.CurrentPeriod(now)
}

func (m *counterMock) Count(ctx context.Context, actorID string, action model.ActionType) (int64, error) {
	args := m.Called(ctx, actorID, action)
	return args.Get(0).(int64), args.Error(1)
}

func (m *counterMock) Attributable(ctx context.Context, actorID string, action model.ActionType) (bool, error) {
	args := m.Called(ctx, actorID, action)
	return args.Bool(0), args.Error(1)
}

type ledgerMock struct{ mock.Mock }

func (m *ledgerMock) Balance(ctx context.Context, actorID string) (int64, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ledgerMock) ConsumeOne(ctx context.Context, actorID string) (int64, error) {
	args := m.Called(ctx, actorID)
	return args.Get(0).(int64), args.Error(1)
}

type fixture struct {
	gate     *Gate
	resolver *resolverMock
	counter  *counterMock
	ledger   *ledgerMock
}

// newFixture stubs an attributable actor with the given limit, usage and balance.
func newFixture(limit, used, balance int64, subscribed bool) *fixture {
	f := &fixture{
		resolver: &resolverMock{},
		counter:  &counterMock{},
		ledger:   &ledgerMock{},
	}
	f.gate = New(zap.NewNop(), f.resolver, f.counter, f.ledger)

	ent := entitlement.Entitlement{Limit: limit}
	if subscribed {
		ent.Subscription = &model.Subscription{ID: "sub-1", PlanID: "starter"}
	}
	f.counter.On("Attributable", mock.Anything, "alice", mock.Anything).Return(true, nil).Maybe()
	f.resolver.On("Limit", mock.Anything, "alice", mock.Anything).Return(ent, nil).Maybe()
	f.counter.On("Count", mock.Anything, "alice", mock.Anything).Return(used, nil).Maybe()
	f.ledger.On("Balance", mock.Anything, "alice").Return(balance, nil).Maybe()
	return f
}

func TestAllowedBySubscriptionNeverConsumes(t *testing.T) {
	f := newFixture(10, 4, 5, true)

	d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateRequest, true)
	require.NoError(t, err)

	assert.True(t, d.Allowed)
	assert.Equal(t, SourceSubscription, d.Source)
	assert.Empty(t, d.Reason)
	assert.Equal(t, int64(10), d.Quota)
	assert.Equal(t, int64(4), d.Used)
	assert.Equal(t, int64(5), d.CreditsRemaining)
	assert.Equal(t, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), d.ResetAt)
	f.ledger.AssertNotCalled(t, "ConsumeOne", mock.Anything, mock.Anything)
}

func TestDryRunDoesNotSpendCredits(t *testing.T) {
	f := newFixture(10, 10, 2, true)

	d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateRequest, false)
	require.NoError(t, err)

	assert.True(t, d.Allowed)
	assert.Equal(t, SourceCredit, d.Source)
	assert.Equal(t, int64(2), d.CreditsRemaining)
	f.ledger.AssertNotCalled(t, "ConsumeOne", mock.Anything, mock.Anything)
}

func TestConsumeSpendsExactlyOneCredit(t *testing.T) {
	f := newFixture(10, 12, 2, true)
	f.ledger.On("ConsumeOne", mock.Anything, "alice").Return(int64(1), nil).Once()

	d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateOffer, true)
	require.NoError(t, err)

	assert.True(t, d.Allowed)
	assert.Equal(t, SourceCredit, d.Source)
	assert.Equal(t, int64(1), d.CreditsRemaining)
	f.ledger.AssertNumberOfCalls(t, "ConsumeOne", 1)
}

func TestDeniedWhenQuotaAndCreditsExhausted(t *testing.T) {
	f := newFixture(10, 10, 0, true)

	for _, consume := range []bool{false, true} {
		d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateRequest, consume)
		require.NoError(t, err)
		assert.False(t, d.Allowed)
		assert.Equal(t, ReasonQuotaExceeded, d.Reason)
		assert.Empty(t, d.Source)
		assert.Equal(t, int64(0), d.CreditsRemaining)
	}
	f.ledger.AssertNotCalled(t, "ConsumeOne", mock.Anything, mock.Anything)
}

func TestNoSubscriptionFallsBackToCredits(t *testing.T) {
	f := newFixture(0, 0, 1, false)
	f.ledger.On("ConsumeOne", mock.Anything, "alice").Return(int64(0), nil).Once()

	d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateRequest, true)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, SourceCredit, d.Source)
	assert.Equal(t, int64(0), d.Quota)
	assert.Equal(t, int64(0), d.CreditsRemaining)
}

func TestNoSubscriptionAndNoCredits(t *testing.T) {
	f := newFixture(0, 0, 0, false)

	d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateRequest, true)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoSubscription, d.Reason)
}

func TestExhaustedReasonDependsOnSubscription(t *testing.T) {
	for _, tc := range []struct {
		name       string
		limit      int64
		used       int64
		subscribed bool
		want       Reason
	}{
		{"subscribed over quota", 10, 10, true, ReasonQuotaExceeded},
		{"subscribed with zero limit", 0, 0, true, ReasonQuotaExceeded},
		{"no subscription", 0, 0, false, ReasonNoSubscription},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.limit, tc.used, 0, tc.subscribed)

			d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateOffer, false)
			require.NoError(t, err)
			assert.False(t, d.Allowed)
			assert.Equal(t, tc.want, d.Reason)
		})
	}
}

func TestConsumeFailureFailsClosed(t *testing.T) {
	for name, consumeErr := range map[string]error{
		"store":       &credit.ConsumeError{ActorID: "alice", Err: errors.New("connection reset")},
		"concurrency": credit.ErrInsufficientBalance,
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(10, 10, 3, true)
			f.ledger.On("ConsumeOne", mock.Anything, "alice").Return(int64(0), consumeErr).Once()

			d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateRequest, true)
			require.NoError(t, err)
			assert.False(t, d.Allowed)
			assert.Equal(t, ReasonQuotaExceeded, d.Reason)
			assert.Equal(t, int64(3), d.CreditsRemaining)
		})
	}
}

func TestEmptyActorIsDenied(t *testing.T) {
	f := newFixture(10, 0, 5, true)

	d, err := f.gate.Evaluate(context.Background(), "", model.ActionCreateRequest, true)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonError, d.Reason)
	f.resolver.AssertNotCalled(t, "Limit", mock.Anything, mock.Anything, mock.Anything)
	f.ledger.AssertNotCalled(t, "Balance", mock.Anything, mock.Anything)
}

func TestOfferWithoutProfileIsDenied(t *testing.T) {
	f := &fixture{
		resolver: &resolverMock{},
		counter:  &counterMock{},
		ledger:   &ledgerMock{},
	}
	f.gate = New(zap.NewNop(), f.resolver, f.counter, f.ledger)
	f.counter.On("Attributable", mock.Anything, "alice", model.ActionCreateOffer).Return(false, nil)

	d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateOffer, true)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNoProfile, d.Reason)
	f.ledger.AssertNotCalled(t, "ConsumeOne", mock.Anything, mock.Anything)
}

func TestStoreErrorIsReturned(t *testing.T) {
	f := &fixture{
		resolver: &resolverMock{},
		counter:  &counterMock{},
		ledger:   &ledgerMock{},
	}
	f.gate = New(zap.NewNop(), f.resolver, f.counter, f.ledger)
	f.counter.On("Attributable", mock.Anything, "alice", mock.Anything).Return(true, nil)
	f.resolver.On("Limit", mock.Anything, "alice", mock.Anything).
		Return(entitlement.Entitlement{}, errors.New("subscriptions table is gone"))

	d, err := f.gate.Evaluate(context.Background(), "alice", model.ActionCreateRequest, true)
	require.Error(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonError, d.Reason)
	f.ledger.AssertNotCalled(t, "ConsumeOne", mock.Anything, mock.Anything)
}

func TestSummaryCoversEveryAction(t *testing.T) {
	f := newFixture(10, 3, 0, true)

	summary, err := f.gate.Summary(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, summary, len(model.ActionTypes))
	for _, action := range model.ActionTypes {
		assert.True(t, summary[action].Allowed, action)
		assert.Equal(t, int64(3), summary[action].Used)
	}
	f.ledger.AssertNotCalled(t, "ConsumeOne", mock.Anything, mock.Anything)
}
