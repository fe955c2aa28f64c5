package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trekha/identity-service/internal/api/metrics"
	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

// PasswordResetHandler exposes the two-step password recovery flow.
type PasswordResetHandler struct {
	service ports.PasswordResetService
}

func NewPasswordResetHandler(service ports.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{service: service}
}

// Forgot issues a password-reset token and dispatches it over the account's
// registration channel.
//
// @Summary      Request a password reset
// @Tags         password
// @Accept       json
// @Produce      json
// @Param        body  body      forgotPasswordRequest  true  "Account identifier"
// @Success      202   {object}  statusResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/password/forgot [post]
func (h *PasswordResetHandler) Forgot(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.service.RequestReset(c.Request().Context(), req.Identifier); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("request", "failure").Inc()
		switch {
		case errors.Is(err, domain.ErrPrincipalNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: "account not found"})
		case errors.Is(err, domain.ErrAccountInactive):
			return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrChannelUnverified):
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("request", "success").Inc()
	return c.JSON(http.StatusAccepted, statusResponse{Status: "password reset sent"})
}

// Reset consumes a reset token and installs the new password.
//
// @Summary      Reset the password with a token
// @Tags         password
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Reset token and new password"
// @Success      200   {object}  statusResponse
// @Failure      410   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/password/reset [post]
func (h *PasswordResetHandler) Reset(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.service.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		metrics.PasswordResetsTotal.WithLabelValues("reset", "failure").Inc()
		switch {
		case errors.Is(err, domain.ErrWeakPassword):
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrResetTokenInvalid):
			return c.JSON(http.StatusGone, errorResponse{Error: "password reset token is invalid"})
		case errors.Is(err, domain.ErrTokenExpired):
			return c.JSON(http.StatusGone, errorResponse{Error: "password reset token has expired"})
		}
		return err
	}

	metrics.PasswordResetsTotal.WithLabelValues("reset", "success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "password reset"})
}
