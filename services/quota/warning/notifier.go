package warning

import (
	"context"
	"fmt"
	"time"

	"github.com/opengovern/linkhub/pkg/email"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/db/repo"
	"github.com/opengovern/linkhub/services/quota/entitlement"
	"github.com/opengovern/linkhub/services/quota/events"
	"github.com/opengovern/linkhub/services/quota/usage"
	"go.uber.org/zap"
)

type EntitlementResolver interface {
	Limit(ctx context.Context, actorID string, action model.ActionType) (entitlement.Entitlement, error)
}

type UsageCounter interface {
	Period() usage.Period
	Count(ctx context.Context, actorID string, action model.ActionType) (int64, error)
}

type Actor struct {
	ID    string
	Email string
}

// Notifier emails an actor once per period and action when usage reaches 80% of the plan limit.
type Notifier struct {
	logger    *zap.Logger
	resolver  EntitlementResolver
	counter   UsageCounter
	profiles  repo.ProfileRepo
	markers   repo.WarningMarkerRepo
	emails    email.Service
	publisher events.Publisher
	appURL    string
	now       func() time.Time
}

func NewNotifier(
	logger *zap.Logger,
	resolver EntitlementResolver,
	counter UsageCounter,
	profiles repo.ProfileRepo,
	markers repo.WarningMarkerRepo,
	emails email.Service,
	publisher events.Publisher,
	appURL string,
) *Notifier {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Notifier{
		logger:    logger.Named("warning"),
		resolver:  resolver,
		counter:   counter,
		profiles:  profiles,
		markers:   markers,
		emails:    emails,
		publisher: publisher,
		appURL:    appURL,
		now:       time.Now,
	}
}

// warnThreshold is ceil(limit * 4 / 5), computed without overflowing for huge limits.
func warnThreshold(limit int64) int64 {
	return limit - limit/5
}

// CheckAndWarn sends the quota warning if it is due and reports whether this call sent it.
// A failed send is logged and leaves no marker, so a later call retries.
func (n *Notifier) CheckAndWarn(ctx context.Context, actor Actor, action model.ActionType) (bool, error) {
	if actor.ID == "" {
		return false, nil
	}
	if actor.Email == "" {
		n.logger.Info("actor has no email address, skipping quota warning",
			zap.String("actorId", actor.ID),
			zap.String("action", action.String()))
		return false, nil
	}

	ent, err := n.resolver.Limit(ctx, actor.ID, action)
	if err != nil {
		return false, err
	}
	if ent.Limit == 0 {
		return false, nil
	}

	used, err := n.counter.Count(ctx, actor.ID, action)
	if err != nil {
		return false, err
	}
	if used < warnThreshold(ent.Limit) {
		return false, nil
	}

	period := n.counter.Period()
	profile, err := n.profiles.GetPrimary(ctx, actor.ID)
	if err != nil {
		return false, fmt.Errorf("get primary profile: %w", err)
	}
	if profile == nil {
		return false, nil
	}

	key := model.MarkerKey{
		ProfileID:  profile.ID,
		EventType:  model.EventTypeQuotaWarningSent,
		PeriodKey:  period.Key(),
		ActionType: action,
	}
	exists, err := n.markers.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check warning marker: %w", err)
	}
	if exists {
		return false, nil
	}

	data := mailData{
		Username:    profile.Username,
		ActionLabel: actionLabel(action),
		Used:        used,
		Limit:       ent.Limit,
		ResetAt:     period.End.Format("January 2, 2006"),
		AppURL:      n.appURL,
	}
	body, err := renderBody(data)
	if err != nil {
		return false, err
	}

	if err := n.emails.SendEmail(ctx, actor.Email, subject(data), body); err != nil {
		n.logger.Error("failed to send quota warning",
			zap.String("actorId", actor.ID),
			zap.String("action", action.String()),
			zap.Error(err))
		return false, nil
	}

	written, err := n.markers.Create(ctx, key)
	if err != nil {
		// The letter is out; a retry may send it again, which beats reporting it as unsent.
		n.logger.Error("failed to write quota warning marker",
			zap.String("actorId", actor.ID),
			zap.String("profileId", profile.ID),
			zap.String("period", key.PeriodKey),
			zap.Error(err))
	} else if !written {
		// Another instance warned concurrently; the letter may have gone out twice.
		n.logger.Info("quota warning marker already written",
			zap.String("actorId", actor.ID),
			zap.String("profileId", profile.ID),
			zap.String("period", key.PeriodKey))
	}

	n.logger.Info("quota warning sent",
		zap.String("actorId", actor.ID),
		zap.String("profileId", profile.ID),
		zap.String("action", action.String()),
		zap.Int64("used", used),
		zap.Int64("limit", ent.Limit))

	if err := n.publisher.Publish(ctx, events.Event{
		Type:       events.TypeQuotaWarningSent,
		ActorID:    actor.ID,
		ProfileID:  profile.ID,
		ActionType: action.String(),
		PeriodKey:  key.PeriodKey,
		OccurredAt: n.now().UTC(),
	}); err != nil {
		n.logger.Warn("failed to publish quota warning event",
			zap.String("actorId", actor.ID),
			zap.Error(err))
	}

	return true, nil
}
