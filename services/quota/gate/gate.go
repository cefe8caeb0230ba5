package gate

import (
	"context"
	"errors"

	"github.com/opengovern/linkhub/services/quota/credit"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/entitlement"
	"github.com/opengovern/linkhub/services/quota/usage"
	"go.uber.org/zap"
)

type EntitlementResolver interface {
	Limit(ctx context.Context, actorID string, action model.ActionType) (entitlement.Entitlement, error)
}

type UsageCounter interface {
	Period() usage.Period
	Count(ctx context.Context, actorID string, action model.ActionType) (int64, error)
	Attributable(ctx context.Context, actorID string, action model.ActionType) (bool, error)
}

type CreditLedger interface {
	Balance(ctx context.Context, actorID string) (int64, error)
	ConsumeOne(ctx context.Context, actorID string) (int64, error)
}

// Gate is the single decision point for metered actions: subscription quota first, then credits.
type Gate struct {
	logger   *zap.Logger
	resolver EntitlementResolver
	counter  UsageCounter
	ledger   CreditLedger
}

func New(logger *zap.Logger, resolver EntitlementResolver, counter UsageCounter, ledger CreditLedger) *Gate {
	return &Gate{
		logger:   logger.Named("gate"),
		resolver: resolver,
		counter:  counter,
		ledger:   ledger,
	}
}

// Evaluate decides whether actorID may perform action right now. With consume set, an action that
// is only covered by credits spends exactly one credit; otherwise nothing is mutated.
// A non-nil error means a store could not be read and the decision is a denial with reason error.
func (g *Gate) Evaluate(ctx context.Context, actorID string, action model.ActionType, consume bool) (Decision, error) {
	d, err := g.evaluate(ctx, actorID, action, consume)
	if err != nil {
		g.logger.Error("quota evaluation failed",
			zap.String("actorId", actorID),
			zap.String("action", action.String()),
			zap.Error(err))
		d = Decision{Allowed: false, Reason: ReasonError, ResetAt: d.ResetAt}
	}
	DecisionsCount.WithLabelValues(action.String(), d.outcome()).Inc()
	return d, err
}

func (g *Gate) evaluate(ctx context.Context, actorID string, action model.ActionType, consume bool) (Decision, error) {
	period := g.counter.Period()
	d := Decision{ResetAt: period.End}

	if actorID == "" {
		d.Reason = ReasonError
		return d, nil
	}

	attributable, err := g.counter.Attributable(ctx, actorID, action)
	if err != nil {
		return d, err
	}
	if !attributable {
		d.Reason = ReasonNoProfile
		return d, nil
	}

	ent, err := g.resolver.Limit(ctx, actorID, action)
	if err != nil {
		return d, err
	}
	d.Quota = ent.Limit

	used, err := g.counter.Count(ctx, actorID, action)
	if err != nil {
		return d, err
	}
	d.Used = used

	balance, err := g.ledger.Balance(ctx, actorID)
	if err != nil {
		return d, err
	}
	d.CreditsRemaining = balance

	if used < ent.Limit {
		d.Allowed = true
		d.Source = SourceSubscription
		return d, nil
	}

	if balance == 0 {
		d.Reason = ReasonQuotaExceeded
		if ent.Subscription == nil {
			d.Reason = ReasonNoSubscription
		}
		return d, nil
	}

	if !consume {
		d.Allowed = true
		d.Source = SourceCredit
		return d, nil
	}

	remaining, err := g.ledger.ConsumeOne(ctx, actorID)
	if err != nil {
		// Never allow an action that was not paid for.
		ConsumeFailuresCount.Inc()
		if errors.Is(err, credit.ErrInsufficientBalance) {
			g.logger.Info("credit balance drained by a concurrent request",
				zap.String("actorId", actorID),
				zap.String("action", action.String()))
		} else {
			g.logger.Error("failed to consume credit",
				zap.String("actorId", actorID),
				zap.String("action", action.String()),
				zap.Error(err))
		}
		d.Reason = ReasonQuotaExceeded
		return d, nil
	}

	g.logger.Info("action paid with credit",
		zap.String("actorId", actorID),
		zap.String("action", action.String()),
		zap.Int64("creditsRemaining", remaining))

	d.Allowed = true
	d.Source = SourceCredit
	d.CreditsRemaining = remaining
	return d, nil
}

// Summary evaluates every action type without spending credits.
func (g *Gate) Summary(ctx context.Context, actorID string) (map[model.ActionType]Decision, error) {
	summary := make(map[model.ActionType]Decision, len(model.ActionTypes))
	for _, action := range model.ActionTypes {
		d, err := g.Evaluate(ctx, actorID, action, false)
		if err != nil {
			return nil, err
		}
		summary[action] = d
	}
	return summary, nil
}
