package quota

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/opengovern/linkhub/pkg/email"
	"github.com/opengovern/linkhub/services/quota/config"
	"github.com/opengovern/linkhub/services/quota/credit"
	"github.com/opengovern/linkhub/services/quota/db"
	"github.com/opengovern/linkhub/services/quota/db/repo"
	"github.com/opengovern/linkhub/services/quota/entitlement"
	"github.com/opengovern/linkhub/services/quota/events"
	"github.com/opengovern/linkhub/services/quota/gate"
	"github.com/opengovern/linkhub/services/quota/usage"
	"github.com/opengovern/linkhub/services/quota/warning"
	"go.uber.org/zap"
)

// Service holds the wired quota components and the connections they own.
type Service struct {
	Gate     *gate.Gate
	Ledger   *credit.Ledger
	Notifier *warning.Notifier

	closers []func()
}

func (s *Service) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

func setupDatabase(cnf config.QuotaConfig, logger *zap.Logger) (db.Database, error) {
	database, err := db.NewDatabase(cnf.Postgres, logger)
	if err != nil {
		return db.Database{}, err
	}

	if err := database.Initialize(); err != nil {
		return db.Database{}, fmt.Errorf("migrate database: %w", err)
	}
	logger.Info("Connected to the postgres database", zap.String("database", cnf.Postgres.DB))

	return database, nil
}

func newPublisher(cnf config.QuotaConfig, logger *zap.Logger) (events.Publisher, func(), error) {
	if cnf.Nats.URL == "" {
		logger.Warn("nats url not configured, quota events are not published")
		return events.NopPublisher{}, func() {}, nil
	}

	p, err := events.NewNatsPublisher(cnf.Nats.URL, cnf.Nats.Subject, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to nats: %w", err)
	}
	return p, p.Close, nil
}

func newMarkerRepo(ctx context.Context, cnf config.QuotaConfig, database db.Database) (repo.WarningMarkerRepo, func(), error) {
	switch cnf.Warning.MarkerStore {
	case config.MarkerStorePostgres, "":
		return repo.NewWarningMarkerRepo(database), func() {}, nil
	case config.MarkerStoreRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cnf.Redis.Address,
			Password: cnf.Redis.Password,
			DB:       cnf.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}
		return repo.NewWarningMarkerRedis(rdb), func() { _ = rdb.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown warning marker store %q", cnf.Warning.MarkerStore)
}

func newEmailService(cnf config.QuotaConfig, logger *zap.Logger) email.Service {
	if cnf.Email.APIKey == "" {
		return email.NopService{Logger: logger.Named("email")}
	}
	return email.NewSendGridClient(cnf.Email.APIKey, cnf.Email.Sender, cnf.Email.SenderName, logger)
}

func NewService(ctx context.Context, cnf config.QuotaConfig, logger *zap.Logger, database db.Database) (*Service, error) {
	s := &Service{}

	publisher, closePublisher, err := newPublisher(cnf, logger)
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, closePublisher)

	markers, closeMarkers, err := newMarkerRepo(ctx, cnf, database)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.closers = append(s.closers, closeMarkers)

	profiles := repo.NewProfileRepo(database)
	resolver := entitlement.NewResolver(logger, repo.NewSubscriptionRepo(database), nil)
	counter := usage.NewCounter(logger, repo.NewActionRepo(database), profiles, nil)

	s.Ledger = credit.NewLedger(logger, repo.NewCreditRepo(database), publisher)
	s.Gate = gate.New(logger, resolver, counter, s.Ledger)
	s.Notifier = warning.NewNotifier(logger, resolver, counter, profiles, markers,
		newEmailService(cnf, logger), publisher, cnf.Warning.AppURL)

	return s, nil
}
