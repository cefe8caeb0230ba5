package db

import (
	"fmt"

	"github.com/opengovern/linkhub/pkg/koanf"
	"github.com/opengovern/linkhub/pkg/postgres"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Database struct {
	Orm *gorm.DB
}

func NewDatabase(config koanf.Postgres, logger *zap.Logger) (Database, error) {
	cfg := postgres.Config{
		Host:    config.Host,
		Port:    config.Port,
		User:    config.Username,
		Passwd:  config.Password,
		DB:      config.DB,
		SSLMode: config.SSLMode,
	}
	orm, err := postgres.NewClient(&cfg, logger.Named("postgres"))
	if err != nil {
		return Database{}, fmt.Errorf("new postgres client: %w", err)
	}

	return Database{
		Orm: orm,
	}, nil
}

func (db Database) Initialize() error {
	err := db.Orm.AutoMigrate(
		&model.Profile{},
		&model.ServiceRequest{},
		&model.Offer{},
		&model.SubscriptionPlan{},
		&model.Subscription{},
		&model.CreditBalance{},
		&model.CreditTransaction{},
		&model.AppEvent{},
	)
	if err != nil {
		return err
	}

	return nil
}
