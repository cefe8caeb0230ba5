package quota

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/opengovern/linkhub/pkg/auth/api"
	"github.com/opengovern/linkhub/pkg/httpserver"
	"github.com/opengovern/linkhub/services/quota/api/entities"
	"github.com/opengovern/linkhub/services/quota/db/model"
	"github.com/opengovern/linkhub/services/quota/gate"
	"github.com/opengovern/linkhub/services/quota/warning"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Gate interface {
	Evaluate(ctx context.Context, actorID string, action model.ActionType, consume bool) (gate.Decision, error)
	Summary(ctx context.Context, actorID string) (map[model.ActionType]gate.Decision, error)
}

type Notifier interface {
	CheckAndWarn(ctx context.Context, actor warning.Actor, action model.ActionType) (bool, error)
}

type API struct {
	gate     Gate
	notifier Notifier
	tracer   trace.Tracer
	logger   *zap.Logger
}

func New(gate Gate, notifier Notifier, logger *zap.Logger) API {
	return API{
		gate:     gate,
		notifier: notifier,
		tracer:   otel.GetTracerProvider().Tracer("quota.http.quota"),
		logger:   logger.Named("quota"),
	}
}

func (h API) Register(g *echo.Group) {
	g.GET("/usage", httpserver.AuthorizeHandler(h.Usage, api.ViewerRole))
	g.GET("/:action", h.Check)
	g.POST("/:action/consume", h.Consume)
	g.POST("/:action/warn", httpserver.AuthorizeHandler(h.Warn, api.ViewerRole))
}

// Usage godoc
//
//	@Summary	Quota usage of the current actor for every metered action
//	@Produce	json
//	@Success	200	{object}	entities.QuotaUsageResponse
//	@Router		/quota/api/v1/quota/usage [get]
func (h API) Usage(c echo.Context) error {
	ctx := otel.GetTextMapPropagator().Extract(c.Request().Context(), propagation.HeaderCarrier(c.Request().Header))
	actorID := httpserver.GetUserID(c)

	ctx, span := h.tracer.Start(ctx, "quota-usage")
	defer span.End()
	span.SetAttributes(attribute.String("actor_id", actorID))

	summary, err := h.gate.Summary(ctx, actorID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return echo.NewHTTPError(http.StatusInternalServerError, "failed to evaluate quota")
	}

	return c.JSON(http.StatusOK, entities.QuotaUsageResponse{
		ActorID: actorID,
		Usage:   summary,
	})
}

// Check godoc
//
//	@Summary	Whether the current actor may perform the action; never spends credits
//	@Produce	json
//	@Param		action	path		string	true	"create_request or create_offer"
//	@Success	200		{object}	gate.Decision
//	@Router		/quota/api/v1/quota/{action} [get]
func (h API) Check(c echo.Context) error {
	return h.evaluate(c, false)
}

// Consume godoc
//
//	@Summary	Authorize the action, spending one credit when the plan quota is used up
//	@Produce	json
//	@Param		action	path		string	true	"create_request or create_offer"
//	@Success	200		{object}	gate.Decision
//	@Router		/quota/api/v1/quota/{action}/consume [post]
func (h API) Consume(c echo.Context) error {
	return h.evaluate(c, true)
}

func (h API) evaluate(c echo.Context, consume bool) error {
	ctx := otel.GetTextMapPropagator().Extract(c.Request().Context(), propagation.HeaderCarrier(c.Request().Header))

	action, err := model.ParseActionType(c.Param("action"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actorID := httpserver.GetUserID(c)

	ctx, span := h.tracer.Start(ctx, "quota-evaluate")
	defer span.End()
	span.SetAttributes(
		attribute.String("actor_id", actorID),
		attribute.String("action", action.String()),
		attribute.Bool("consume", consume),
	)

	decision, err := h.gate.Evaluate(ctx, actorID, action, consume)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return echo.NewHTTPError(http.StatusInternalServerError, "failed to evaluate quota")
	}
	span.SetAttributes(attribute.Bool("allowed", decision.Allowed))

	if actorID == "" {
		return c.JSON(http.StatusUnauthorized, decision)
	}
	return c.JSON(http.StatusOK, decision)
}

// Warn godoc
//
//	@Summary	Send the quota warning email to the current actor if it is due
//	@Produce	json
//	@Param		action	path		string	true	"create_request or create_offer"
//	@Success	200		{object}	entities.WarnResponse
//	@Router		/quota/api/v1/quota/{action}/warn [post]
func (h API) Warn(c echo.Context) error {
	ctx := otel.GetTextMapPropagator().Extract(c.Request().Context(), propagation.HeaderCarrier(c.Request().Header))

	action, err := model.ParseActionType(c.Param("action"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := warning.Actor{
		ID:    httpserver.GetUserID(c),
		Email: httpserver.GetUserEmail(c),
	}

	ctx, span := h.tracer.Start(ctx, "quota-warn")
	defer span.End()

	warned, err := h.notifier.CheckAndWarn(ctx, actor, action)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		h.logger.Error("failed to check quota warning",
			zap.String("actorId", actor.ID),
			zap.String("action", action.String()),
			zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to send quota warning")
	}

	return c.JSON(http.StatusOK, entities.WarnResponse{Warned: warned})
}
