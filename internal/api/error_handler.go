package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trekha/identity-service/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors map to deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrTokenMalformed), errors.Is(err, domain.ErrTokenBadSignature):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, domain.ErrPrincipalNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrTokenNotFound), errors.Is(err, domain.ErrNoLiveToken):
		return http.StatusNotFound, "token not found"
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusGone, "token has expired"
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrMobileTaken),
		errors.Is(err, domain.ErrAlreadyVerified), errors.Is(err, domain.ErrAccountInactive):
		return http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrCodeMismatch), errors.Is(err, domain.ErrWeakPassword),
		errors.Is(err, domain.ErrChannelUnverified):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrResetTokenInvalid):
		return http.StatusGone, "password reset token is invalid"
	case errors.Is(err, domain.ErrMissingIdentifier):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrTooManyRequests):
		return http.StatusTooManyRequests, err.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
