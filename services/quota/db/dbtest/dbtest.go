// Package dbtest provides an in-memory database with the quota schema for unit tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/opengovern/linkhub/services/quota/db"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// New opens a private in-memory SQLite database and migrates the quota schema into it.
// A single connection is used so every statement sees the same memory database.
func New(t testing.TB) db.Database {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=busy_timeout(5000)", uuid.NewString())
	orm, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := orm.DB()
	require.NoError(t, err, "raw db")
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	database := db.Database{Orm: orm}
	require.NoError(t, database.Initialize(), "migrate")

	return database
}

// Migrate prepares an externally created connection, e.g. a dockertest postgres.
func Migrate(t testing.TB, orm *gorm.DB) db.Database {
	t.Helper()

	database := db.Database{Orm: orm}
	require.NoError(t, database.Initialize(), "migrate")
	return database
}

func CreatePlan(t testing.TB, database db.Database, id, features string) model.SubscriptionPlan {
	t.Helper()

	plan := model.SubscriptionPlan{
		ID:              id,
		Name:            id,
		Features:        datatypes.JSON(features),
		ActivationPrice: decimal.RequireFromString("9.99"),
		DurationDays:    30,
	}
	require.NoError(t, database.Orm.Create(&plan).Error, "create plan")
	return plan
}

func Subscribe(t testing.TB, database db.Database, actorID, planID string, status model.SubscriptionStatus, startedAt, expiresAt time.Time) model.Subscription {
	t.Helper()

	sub := model.Subscription{
		ID:        uuid.NewString(),
		ActorID:   actorID,
		PlanID:    planID,
		Status:    status,
		StartedAt: startedAt.UTC(),
		ExpiresAt: expiresAt.UTC(),
	}
	require.NoError(t, database.Orm.Omit("Plan").Create(&sub).Error, "create subscription")
	return sub
}

func AddProfile(t testing.TB, database db.Database, ownerID string, createdAt time.Time) model.Profile {
	t.Helper()

	profile := model.Profile{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Username:  "u-" + uuid.NewString()[:8],
		CreatedAt: createdAt.UTC(),
	}
	require.NoError(t, database.Orm.Create(&profile).Error, "create profile")
	return profile
}

func AddRequests(t testing.TB, database db.Database, creatorID string, n int, createdAt time.Time) {
	t.Helper()

	for i := 0; i < n; i++ {
		require.NoError(t, database.Orm.Create(&model.ServiceRequest{
			ID:        uuid.NewString(),
			CreatorID: creatorID,
			Title:     fmt.Sprintf("request %d", i),
			CreatedAt: createdAt.UTC(),
		}).Error, "create request")
	}
}

func AddOffers(t testing.TB, database db.Database, profileID string, n int, createdAt time.Time) {
	t.Helper()

	for i := 0; i < n; i++ {
		require.NoError(t, database.Orm.Create(&model.Offer{
			ID:        uuid.NewString(),
			ProfileID: profileID,
			RequestID: uuid.NewString(),
			CreatedAt: createdAt.UTC(),
		}).Error, "create offer")
	}
}

func SetBalance(t testing.TB, database db.Database, actorID string, balance int64) {
	t.Helper()

	require.NoError(t, database.Orm.WithContext(context.Background()).Save(&model.CreditBalance{
		ActorID:   actorID,
		Balance:   balance,
		UpdatedAt: time.Now().UTC(),
	}).Error, "set balance")
}
