package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trekha/identity-service/internal/api/metrics"
	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

// PrincipalKey is the echo context key under which the authenticated
// principal is attached for the remainder of the request.
const PrincipalKey = "principal"

// Authenticate inspects each inbound request for a bearer token and attaches
// the resolved principal to the request context.
//
// Requests without an Authorization header, or with an unrecognized scheme,
// pass through unauthenticated: public endpoints stay public. An expired
// token also passes through anonymous, but never authenticates. Malformed or
// forged tokens reject the request outright, as does a token whose subject
// no longer resolves to an active principal.
func Authenticate(codec ports.TokenCodec, resolver ports.PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			claims, err := codec.Parse(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, domain.ErrTokenExpired):
					metrics.TokenValidationsTotal.WithLabelValues("expired").Inc()
					return next(c)
				case errors.Is(err, domain.ErrTokenBadSignature):
					metrics.TokenValidationsTotal.WithLabelValues("bad_signature").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				default:
					metrics.TokenValidationsTotal.WithLabelValues("malformed").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
				}
			}

			// Attachment is idempotent: never overwrite a principal set upstream.
			if c.Get(PrincipalKey) != nil {
				return next(c)
			}

			principal, err := resolver.Resolve(c.Request().Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, domain.ErrPrincipalNotFound) {
					// A token must never resolve to a phantom principal.
					metrics.TokenValidationsTotal.WithLabelValues("phantom").Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "unknown token subject")
				}
				return err
			}
			if !principal.Active {
				return echo.NewHTTPError(http.StatusUnauthorized, "account is inactive")
			}

			// Re-check the token against the principal's current state.
			if !codec.IsValid(parts[1], principal.Identifier()) {
				return next(c)
			}

			metrics.TokenValidationsTotal.WithLabelValues("valid").Inc()
			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}
