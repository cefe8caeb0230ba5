package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/opengovern/linkhub/services/quota/db"
	"github.com/opengovern/linkhub/services/quota/db/model"
)

// ActionRepo reads the append-only action records. Create* exist for the owning services and tests.
type ActionRepo interface {
	CountRequestsSince(ctx context.Context, creatorID string, since time.Time) (int64, error)
	CountOffersSince(ctx context.Context, profileIDs []string, since time.Time) (int64, error)
	CreateRequest(ctx context.Context, m *model.ServiceRequest) error
	CreateOffer(ctx context.Context, m *model.Offer) error
}

type ActionRepoImpl struct {
	db db.Database
}

func NewActionRepo(db db.Database) ActionRepo {
	return &ActionRepoImpl{
		db: db,
	}
}

func (r *ActionRepoImpl) CountRequestsSince(ctx context.Context, creatorID string, since time.Time) (int64, error) {
	var count int64
	tx := r.db.Orm.WithContext(ctx).Model(&model.ServiceRequest{}).
		Where("creator_id = ?", creatorID).
		Where("created_at >= ?", since.UTC()).
		Count(&count)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return count, nil
}

func (r *ActionRepoImpl) CountOffersSince(ctx context.Context, profileIDs []string, since time.Time) (int64, error) {
	if len(profileIDs) == 0 {
		return 0, nil
	}

	var count int64
	tx := r.db.Orm.WithContext(ctx).Model(&model.Offer{}).
		Where("profile_id IN ?", profileIDs).
		Where("created_at >= ?", since.UTC()).
		Count(&count)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return count, nil
}

func (r *ActionRepoImpl) CreateRequest(ctx context.Context, m *model.ServiceRequest) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.db.Orm.WithContext(ctx).Create(m).Error
}

func (r *ActionRepoImpl) CreateOffer(ctx context.Context, m *model.Offer) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.db.Orm.WithContext(ctx).Create(m).Error
}
