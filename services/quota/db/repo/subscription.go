package repo

import (
	"context"
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/opengovern/linkhub/services/quota/db"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepo interface {
	GetInForce(ctx context.Context, actorID string, now time.Time) (*model.Subscription, error)
	Create(ctx context.Context, m *model.Subscription) error
	CreatePlan(ctx context.Context, m *model.SubscriptionPlan) error
}

type SubscriptionRepoImpl struct {
	db db.Database
}

func NewSubscriptionRepo(db db.Database) SubscriptionRepo {
	return &SubscriptionRepoImpl{
		db: db,
	}
}

// GetInForce returns the active, unexpired subscription with the latest expiry, or nil when there is none.
func (r *SubscriptionRepoImpl) GetInForce(ctx context.Context, actorID string, now time.Time) (*model.Subscription, error) {
	var m model.Subscription
	tx := r.db.Orm.WithContext(ctx).Model(&model.Subscription{}).
		Preload("Plan").
		Where("actor_id = ?", actorID).
		Where("status = ?", model.SubscriptionStatusActive).
		Where("expires_at > ?", now.UTC()).
		Order("expires_at DESC").
		Order("started_at DESC").
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &m, nil
}

func (r *SubscriptionRepoImpl) Create(ctx context.Context, m *model.Subscription) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.db.Orm.WithContext(ctx).Omit(clause.Associations).Create(m).Error
}

func (r *SubscriptionRepoImpl) CreatePlan(ctx context.Context, m *model.SubscriptionPlan) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.db.Orm.WithContext(ctx).Create(m).Error
}
