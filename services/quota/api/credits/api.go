package credits

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/opengovern/linkhub/pkg/auth/api"
	"github.com/opengovern/linkhub/pkg/httpserver"
	"github.com/opengovern/linkhub/services/quota/api/entities"
	"github.com/opengovern/linkhub/services/quota/credit"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Ledger interface {
	Balance(ctx context.Context, actorID string) (int64, error)
	Credit(ctx context.Context, actorID string, amount int64, reference string) (int64, error)
	Transactions(ctx context.Context, actorID string) ([]model.CreditTransaction, error)
}

type API struct {
	ledger Ledger
	tracer trace.Tracer
	logger *zap.Logger
}

func New(ledger Ledger, logger *zap.Logger) API {
	return API{
		ledger: ledger,
		tracer: otel.GetTracerProvider().Tracer("quota.http.credits"),
		logger: logger.Named("credits"),
	}
}

func (h API) Register(g *echo.Group) {
	g.GET("", httpserver.AuthorizeHandler(h.Balance, api.ViewerRole))
	g.GET("/transactions", httpserver.AuthorizeHandler(h.Transactions, api.ViewerRole))
	g.POST("/grant", httpserver.AuthorizeHandler(h.Grant, api.InternalRole))
}

// Balance godoc
//
//	@Summary	Credit balance of the current actor
//	@Produce	json
//	@Success	200	{object}	entities.CreditBalanceResponse
//	@Router		/quota/api/v1/credits [get]
func (h API) Balance(c echo.Context) error {
	ctx := otel.GetTextMapPropagator().Extract(c.Request().Context(), propagation.HeaderCarrier(c.Request().Header))
	actorID := httpserver.GetUserID(c)

	ctx, span := h.tracer.Start(ctx, "credit-balance")
	defer span.End()

	balance, err := h.ledger.Balance(ctx, actorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return echo.NewHTTPError(http.StatusInternalServerError, "failed to get credit balance")
	}

	return c.JSON(http.StatusOK, entities.CreditBalanceResponse{
		ActorID: actorID,
		Balance: balance,
	})
}

// Transactions godoc
//
//	@Summary	Credit history of the current actor, oldest first
//	@Produce	json
//	@Success	200	{object}	[]entities.CreditTransaction
//	@Router		/quota/api/v1/credits/transactions [get]
func (h API) Transactions(c echo.Context) error {
	ctx := otel.GetTextMapPropagator().Extract(c.Request().Context(), propagation.HeaderCarrier(c.Request().Header))

	ctx, span := h.tracer.Start(ctx, "credit-transactions")
	defer span.End()

	txs, err := h.ledger.Transactions(ctx, httpserver.GetUserID(c))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list credit transactions")
	}

	res := make([]entities.CreditTransaction, 0, len(txs))
	for _, tx := range txs {
		res = append(res, entities.NewCreditTransaction(tx))
	}
	return c.JSON(http.StatusOK, res)
}

// Grant godoc
//
//	@Summary	Add purchased credits to an actor; called on payment completion
//	@Accept		json
//	@Produce	json
//	@Param		request	body		entities.GrantCreditsRequest	true	"grant"
//	@Success	200		{object}	entities.CreditBalanceResponse
//	@Router		/quota/api/v1/credits/grant [post]
func (h API) Grant(c echo.Context) error {
	ctx := otel.GetTextMapPropagator().Extract(c.Request().Context(), propagation.HeaderCarrier(c.Request().Header))

	var req entities.GrantCreditsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, span := h.tracer.Start(ctx, "credit-grant")
	defer span.End()
	span.SetAttributes(
		attribute.String("actor_id", req.ActorID),
		attribute.Int64("amount", req.Amount),
	)

	balance, err := h.ledger.Credit(ctx, req.ActorID, req.Amount, req.Reference)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if errors.Is(err, credit.ErrInvalidAmount) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		h.logger.Error("failed to grant credits",
			zap.String("actorId", req.ActorID),
			zap.Int64("amount", req.Amount),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to grant credits")
	}

	return c.JSON(http.StatusOK, entities.CreditBalanceResponse{
		ActorID: req.ActorID,
		Balance: balance,
	})
}
