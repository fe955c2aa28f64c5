package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trekha/identity-service/internal/core/domain"
)

// RequireRoles rejects requests whose attached principal carries none of the
// allowed roles. Anonymous requests get 401; authenticated requests without
// a matching role get 403. Authorization beyond this guard is downstream
// responsibility.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := c.Get(PrincipalKey).(*domain.Principal)
			if !ok || principal == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, role := range principal.Roles {
				if _, match := allowed[role]; match {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "forbidden")
		}
	}
}
