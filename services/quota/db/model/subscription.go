package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusPending   SubscriptionStatus = "pending"
)

type SubscriptionPlan struct {
	ID              string          `gorm:"primaryKey;type:varchar(64)"`
	Name            string          `gorm:"not null"`
	Features        datatypes.JSON  // externally authored, see entitlement.ParseFeatures
	ActivationPrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DurationDays    int             `gorm:"not null"`
	CreatedAt       time.Time
}

type Subscription struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	ActorID   string `gorm:"index:idx_subscriptions_actor_status,priority:1;not null"`
	PlanID    string `gorm:"not null"`
	Plan      SubscriptionPlan
	Status    SubscriptionStatus `gorm:"index:idx_subscriptions_actor_status,priority:2;type:varchar(16);not null"`
	StartedAt time.Time          `gorm:"not null"`
	ExpiresAt time.Time          `gorm:"index;not null"`
}

func (s Subscription) InForce(now time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.ExpiresAt.After(now)
}
