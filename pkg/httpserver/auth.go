package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/opengovern/linkhub/pkg/auth/api"
)

// Identity is asserted by the gateway in front of the service; these headers are trusted as-is.
const (
	XLinkhubUserIDHeader    = "X-Linkhub-UserId"
	XLinkhubUserEmailHeader = "X-Linkhub-UserEmail"
	XLinkhubUserRoleHeader  = "X-Linkhub-UserRole"
)

func AuthorizeHandler(h echo.HandlerFunc, minRole api.Role) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if err := RequireMinRole(ctx, minRole); err != nil {
			return err
		}

		return h(ctx)
	}
}

func RequireMinRole(ctx echo.Context, minRole api.Role) error {
	if GetUserID(ctx) == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	if !hasAccess(GetUserRole(ctx), minRole) {
		return echo.NewHTTPError(http.StatusForbidden, "missing required permission")
	}

	return nil
}

// GetUserID returns the authenticated actor id, or "" when the request carries none.
func GetUserID(ctx echo.Context) string {
	return strings.TrimSpace(ctx.Request().Header.Get(XLinkhubUserIDHeader))
}

func GetUserEmail(ctx echo.Context) string {
	return strings.TrimSpace(ctx.Request().Header.Get(XLinkhubUserEmailHeader))
}

func GetUserRole(ctx echo.Context) api.Role {
	return api.GetRole(ctx.Request().Header.Get(XLinkhubUserRoleHeader))
}

func roleToPriority(role api.Role) int {
	switch role {
	case api.ViewerRole:
		return 0
	case api.AdminRole:
		return 2
	case api.InternalRole:
		return 99
	default:
		return -1
	}
}

func hasAccess(currRole, minRole api.Role) bool {
	return roleToPriority(currRole) >= roleToPriority(minRole)
}
