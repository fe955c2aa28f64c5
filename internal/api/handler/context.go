package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trekha/identity-service/internal/api/middleware"
	"github.com/trekha/identity-service/internal/core/domain"
)

// ctxPrincipal extracts the principal attached by the Authenticate
// middleware. Its presence proves the middleware ran and the token resolved;
// handlers behind RequireRoles can treat absence as a programming error, but
// it still maps to 401 rather than a panic.
func ctxPrincipal(c echo.Context) (*domain.Principal, error) {
	principal, ok := c.Get(middleware.PrincipalKey).(*domain.Principal)
	if !ok || principal == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return principal, nil
}
