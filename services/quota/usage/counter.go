package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/db/repo"
	"go.uber.org/zap"
)

// Counter recomputes usage from the action records on every call; there is no running counter to drift.
type Counter struct {
	logger   *zap.Logger
	actions  repo.ActionRepo
	profiles repo.ProfileRepo
	now      func() time.Time
}

func NewCounter(logger *zap.Logger, actions repo.ActionRepo, profiles repo.ProfileRepo, now func() time.Time) *Counter {
	if now == nil {
		now = time.Now
	}
	return &Counter{
		logger:   logger.Named("usage"),
		actions:  actions,
		profiles: profiles,
		now:      now,
	}
}

func (c *Counter) Period() Period {
	return CurrentPeriod(c.now())
}

func (c *Counter) Count(ctx context.Context, actorID string, action model.ActionType) (int64, error) {
	period := c.Period()

	switch action {
	case model.ActionCreateRequest:
		count, err := c.actions.CountRequestsSince(ctx, actorID, period.Start)
		if err != nil {
			return 0, fmt.Errorf("count requests: %w", err)
		}
		return count, nil

	case model.ActionCreateOffer:
		// Offers belong to profiles, so usage is summed over every profile the actor owns.
		profileIDs, err := c.profiles.ListIDsByOwner(ctx, actorID)
		if err != nil {
			return 0, fmt.Errorf("list profiles: %w", err)
		}
		if len(profileIDs) == 0 {
			return 0, nil
		}
		count, err := c.actions.CountOffersSince(ctx, profileIDs, period.Start)
		if err != nil {
			return 0, fmt.Errorf("count offers: %w", err)
		}
		return count, nil
	}

	return 0, fmt.Errorf("unknown action type %q", action)
}

// Attributable reports whether the actor has something to attribute the action to.
// Offers need at least one profile; requests are attributed to the actor directly.
func (c *Counter) Attributable(ctx context.Context, actorID string, action model.ActionType) (bool, error) {
	if action != model.ActionCreateOffer {
		return true, nil
	}

	profileIDs, err := c.profiles.ListIDsByOwner(ctx, actorID)
	if err != nil {
		return false, fmt.Errorf("list profiles: %w", err)
	}
	return len(profileIDs) > 0, nil
}
