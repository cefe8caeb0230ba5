package repo

import (
	"context"

	"github.com/opengovern/linkhub/services/quota/db"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"gorm.io/gorm/clause"
)

type WarningMarkerRepo interface {
	Exists(ctx context.Context, key model.MarkerKey) (bool, error)
	// Create writes the marker if it is absent and reports whether this call wrote it.
	Create(ctx context.Context, key model.MarkerKey) (bool, error)
}

type WarningMarkerRepoImpl struct {
	db db.Database
}

func NewWarningMarkerRepo(db db.Database) WarningMarkerRepo {
	return &WarningMarkerRepoImpl{
		db: db,
	}
}

func (r *WarningMarkerRepoImpl) Exists(ctx context.Context, key model.MarkerKey) (bool, error) {
	var count int64
	tx := r.db.Orm.WithContext(ctx).Model(&model.AppEvent{}).
		Where("profile_id = ?", key.ProfileID).
		Where("event_type = ?", key.EventType).
		Where("period_key = ?", key.PeriodKey).
		Where("action_type = ?", key.ActionType).
		Limit(1).
		Count(&count)
	if tx.Error != nil {
		return false, tx.Error
	}
	return count > 0, nil
}

func (r *WarningMarkerRepoImpl) Create(ctx context.Context, key model.MarkerKey) (bool, error) {
	m := key.Event()
	tx := r.db.Orm.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&m)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
