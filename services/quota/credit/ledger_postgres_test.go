package credit

import (
	"context"
	"testing"

	"github.com/opengovern/linkhub/pkg/dockertest"
	"github.com/opengovern/linkhub/services/quota/db/dbtest"
	"github.com/opengovern/linkhub/services/quota/db/repo"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

func TestPostgresSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres suite in short mode")
	}
	suite.Run(t, &postgresSuite{})
}

type postgresSuite struct {
	suite.Suite

	ledger *Ledger
}

func (s *postgresSuite) SetupSuite() {
	orm := dockertest.StartupPostgreSQL(s.T())

	sqlDB, err := orm.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(50)

	database := dbtest.Migrate(s.T(), orm)
	s.ledger = NewLedger(zap.NewNop(), repo.NewCreditRepo(database), nil)
}

func (s *postgresSuite) TestConcurrentConsumeOneTooMany() {
	const n = 40
	ctx := context.Background()

	_, err := s.ledger.Credit(ctx, "pg-alice", n, "seed")
	s.Require().NoError(err)

	successes, insufficient := runConcurrentConsumes(s.T(), s.ledger, "pg-alice", n+1)
	s.Equal(int64(n), successes)
	s.Equal(int64(1), insufficient)

	balance, err := s.ledger.Balance(ctx, "pg-alice")
	s.Require().NoError(err)
	s.Equal(int64(0), balance)

	txs, err := s.ledger.Transactions(ctx, "pg-alice")
	s.Require().NoError(err)
	s.Len(txs, n+1)
}

func (s *postgresSuite) TestConcurrentGrants() {
	ctx := context.Background()
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := s.ledger.Credit(ctx, "pg-bob", 3, "")
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		s.NoError(<-done)
	}

	balance, err := s.ledger.Balance(ctx, "pg-bob")
	s.Require().NoError(err)
	s.Equal(int64(30), balance)
}
