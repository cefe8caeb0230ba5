package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/db/repo"
	"go.uber.org/zap"
)

type Entitlement struct {
	Limit int64
	// Subscription is the in-force subscription the limit was read from; nil when the actor has none.
	Subscription *model.Subscription
}

type Resolver struct {
	logger *zap.Logger
	subs   repo.SubscriptionRepo
	now    func() time.Time
}

func NewResolver(logger *zap.Logger, subs repo.SubscriptionRepo, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{
		logger: logger.Named("entitlement"),
		subs:   subs,
		now:    now,
	}
}

func (r *Resolver) Resolve(ctx context.Context, actorID string) (*model.Subscription, error) {
	now := r.now()
	sub, err := r.subs.GetInForce(ctx, actorID, now)
	if err != nil {
		return nil, fmt.Errorf("get subscription in force: %w", err)
	}
	if sub != nil && !sub.InForce(now) {
		r.logger.Warn("store returned a subscription that is not in force",
			zap.String("actorId", actorID),
			zap.String("subscriptionId", sub.ID),
			zap.String("status", string(sub.Status)),
			zap.Time("expiresAt", sub.ExpiresAt))
		return nil, nil
	}
	return sub, nil
}

func (r *Resolver) Limit(ctx context.Context, actorID string, action model.ActionType) (Entitlement, error) {
	sub, err := r.Resolve(ctx, actorID)
	if err != nil {
		return Entitlement{}, err
	}
	if sub == nil {
		return Entitlement{}, nil
	}

	limit := ParseFeatures(sub.Plan.Features).Limit(action)
	if limit == 0 {
		r.logger.Debug("plan grants no quota",
			zap.String("actorId", actorID),
			zap.String("planId", sub.PlanID),
			zap.String("action", action.String()))
	}

	return Entitlement{
		Limit:        limit,
		Subscription: sub,
	}, nil
}
