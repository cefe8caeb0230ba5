package events

import (
	"context"
	"time"
)

type Type string

const (
	TypeCreditConsumed   Type = "credit.consumed"
	TypeCreditGranted    Type = "credit.granted"
	TypeQuotaWarningSent Type = "quota.warning.sent"
)

type Event struct {
	Type       Type      `json:"type"`
	ActorID    string    `json:"actorId"`
	ProfileID  string    `json:"profileId,omitempty"`
	ActionType string    `json:"actionType,omitempty"`
	PeriodKey  string    `json:"periodKey,omitempty"`
	Amount     int64     `json:"amount,omitempty"`
	Balance    int64     `json:"balance"`
	Reference  string    `json:"reference,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher fans quota events out to other services. Delivery is best effort.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
