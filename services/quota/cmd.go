package quota

import (
	"errors"
	"fmt"

	"github.com/opengovern/linkhub/pkg/httpserver"
	"github.com/opengovern/linkhub/pkg/koanf"
	"github.com/opengovern/linkhub/services/quota/api"
	"github.com/opengovern/linkhub/services/quota/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func Command() *cobra.Command {
	cnf := koanf.Provide("quota", config.Default())

	cmd := &cobra.Command{
		Use:   "quota-service",
		Short: "Serve quota decisions, credit balances and quota warnings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			logger = logger.Named("quota")

			database, err := setupDatabase(cnf, logger)
			if err != nil {
				return err
			}

			svc, err := NewService(ctx, cnf, logger, database)
			if err != nil {
				return err
			}
			defer svc.Close()

			cmd.SilenceUsage = true

			return httpserver.RegisterAndStart(
				ctx,
				logger,
				cnf.Http.Address,
				api.New(logger, svc.Gate, svc.Notifier, svc.Ledger),
			)
		},
	}

	cmd.AddCommand(migrateCommand(cnf), creditsCommand(cnf))

	return cmd
}

func migrateCommand(cnf config.QuotaConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the quota schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}

			_, err = setupDatabase(cnf, logger.Named("quota"))
			return err
		},
	}
}

func creditsCommand(cnf config.QuotaConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credits",
		Short: "Manage credit balances",
	}

	var (
		actorID   string
		amount    int64
		reference string
	)
	grant := &cobra.Command{
		Use:   "grant",
		Short: "Add credits to an actor's balance",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case actorID == "":
				return errors.New("missing required flag 'actor'")
			case amount <= 0:
				return errors.New("flag 'amount' must be positive")
			default:
				return nil
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			logger, err := zap.NewProduction()
			if err != nil {
				return err
			}
			logger = logger.Named("quota")

			database, err := setupDatabase(cnf, logger)
			if err != nil {
				return err
			}

			svc, err := NewService(ctx, cnf, logger, database)
			if err != nil {
				return err
			}
			defer svc.Close()

			balance, err := svc.Ledger.Credit(ctx, actorID, amount, reference)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "granted %d credits to %s, balance is now %d\n", amount, actorID, balance)
			return err
		},
	}
	grant.Flags().StringVar(&actorID, "actor", "", "The actor to credit")
	grant.Flags().Int64Var(&amount, "amount", 0, "Number of credits to add")
	grant.Flags().StringVar(&reference, "reference", "", "Payment reference recorded with the grant")

	cmd.AddCommand(grant)
	return cmd
}
