package repo

import (
	"context"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/opengovern/linkhub/services/quota/db"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"gorm.io/gorm"
)

type ProfileRepo interface {
	ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error)
	GetPrimary(ctx context.Context, ownerID string) (*model.Profile, error)
	Create(ctx context.Context, m *model.Profile) error
}

type ProfileRepoImpl struct {
	db db.Database
}

func NewProfileRepo(db db.Database) ProfileRepo {
	return &ProfileRepoImpl{
		db: db,
	}
}

func (r *ProfileRepoImpl) ListIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	tx := r.db.Orm.WithContext(ctx).Model(&model.Profile{}).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Pluck("id", &ids)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return ids, nil
}

// GetPrimary returns the actor's earliest profile, or nil when the actor owns none.
func (r *ProfileRepoImpl) GetPrimary(ctx context.Context, ownerID string) (*model.Profile, error) {
	var m model.Profile
	tx := r.db.Orm.WithContext(ctx).Model(&model.Profile{}).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		First(&m)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, tx.Error
	}
	return &m, nil
}

func (r *ProfileRepoImpl) Create(ctx context.Context, m *model.Profile) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return r.db.Orm.WithContext(ctx).Create(m).Error
}
