package api

import (
	"github.com/labstack/echo/v4"
	"github.com/opengovern/linkhub/services/quota/api/credits"
	"github.com/opengovern/linkhub/services/quota/api/quota"
	"go.uber.org/zap"
)

type API struct {
	logger   *zap.Logger
	gate     quota.Gate
	notifier quota.Notifier
	ledger   credits.Ledger
}

func New(
	logger *zap.Logger,
	gate quota.Gate,
	notifier quota.Notifier,
	ledger credits.Ledger,
) *API {
	return &API{
		logger:   logger.Named("api"),
		gate:     gate,
		notifier: notifier,
		ledger:   ledger,
	}
}

func (api *API) Register(e *echo.Echo) {
	quotaApi := quota.New(api.gate, api.notifier, api.logger)
	creditsApi := credits.New(api.ledger, api.logger)

	quotaApi.Register(e.Group("/api/v1/quota"))
	creditsApi.Register(e.Group("/api/v1/credits"))
}
