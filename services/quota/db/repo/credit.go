package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opengovern/linkhub/services/quota/db"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrBalanceExhausted = errors.New("credit balance exhausted")

type CreditRepo interface {
	GetBalance(ctx context.Context, actorID string) (int64, error)
	// DecrementOne atomically takes one credit and returns the remaining balance.
	// It returns ErrBalanceExhausted when the balance is zero or the actor has no balance row.
	DecrementOne(ctx context.Context, actorID string) (int64, error)
	Increment(ctx context.Context, actorID string, amount int64, reference *string) (int64, error)
	ListTransactions(ctx context.Context, actorID string) ([]model.CreditTransaction, error)
}

type CreditRepoImpl struct {
	db db.Database
}

func NewCreditRepo(db db.Database) CreditRepo {
	return &CreditRepoImpl{
		db: db,
	}
}

func (r *CreditRepoImpl) GetBalance(ctx context.Context, actorID string) (int64, error) {
	var balances []int64
	tx := r.db.Orm.WithContext(ctx).Model(&model.CreditBalance{}).
		Where("actor_id = ?", actorID).
		Pluck("balance", &balances)
	if tx.Error != nil {
		return 0, tx.Error
	}
	if len(balances) == 0 {
		return 0, nil
	}
	return balances[0], nil
}

func (r *CreditRepoImpl) DecrementOne(ctx context.Context, actorID string) (int64, error) {
	var balance int64
	err := r.db.Orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The balance > 0 guard is what keeps concurrent consumers from driving the balance negative:
		// the row lock taken by the update serializes them and losers match zero rows.
		res := tx.Model(&model.CreditBalance{}).
			Where("actor_id = ?", actorID).
			Where("balance > 0").
			Updates(map[string]interface{}{
				"balance":    gorm.Expr("balance - 1"),
				"updated_at": time.Now().UTC(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBalanceExhausted
		}

		if err := tx.Model(&model.CreditBalance{}).
			Select("balance").
			Where("actor_id = ?", actorID).
			Row().Scan(&balance); err != nil {
			return fmt.Errorf("read balance: %w", err)
		}

		return tx.Create(&model.CreditTransaction{
			ActorID:      actorID,
			Kind:         model.CreditTransactionConsume,
			Amount:       -1,
			BalanceAfter: balance,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *CreditRepoImpl) Increment(ctx context.Context, actorID string, amount int64, reference *string) (int64, error) {
	var balance int64
	now := time.Now().UTC()
	err := r.db.Orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "actor_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"balance":    gorm.Expr("credit_balances.balance + ?", amount),
				"updated_at": now,
			}),
		}).Create(&model.CreditBalance{
			ActorID:   actorID,
			Balance:   amount,
			UpdatedAt: now,
		}).Error
		if err != nil {
			return err
		}

		if err := tx.Model(&model.CreditBalance{}).
			Select("balance").
			Where("actor_id = ?", actorID).
			Row().Scan(&balance); err != nil {
			return fmt.Errorf("read balance: %w", err)
		}

		return tx.Create(&model.CreditTransaction{
			ActorID:      actorID,
			Kind:         model.CreditTransactionGrant,
			Amount:       amount,
			BalanceAfter: balance,
			Reference:    reference,
		}).Error
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

func (r *CreditRepoImpl) ListTransactions(ctx context.Context, actorID string) ([]model.CreditTransaction, error) {
	var ms []model.CreditTransaction
	tx := r.db.Orm.WithContext(ctx).Model(&model.CreditTransaction{}).
		Where("actor_id = ?", actorID).
		Order("id ASC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return ms, nil
}
