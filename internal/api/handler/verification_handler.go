package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trekha/identity-service/internal/api/metrics"
	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

// VerificationHandler consumes email-link and mobile-OTP verification tokens.
type VerificationHandler struct {
	service ports.VerificationService
}

func NewVerificationHandler(service ports.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// VerifyEmail consumes an email verification link.
//
// @Summary      Verify an email address
// @Tags         verification
// @Produce      json
// @Param        token  query     string  true  "Verification token from the email link"
// @Success      200    {object}  statusResponse
// @Failure      404    {object}  errorResponse
// @Failure      410    {object}  errorResponse
// @Router       /auth/verify/email [get]
func (h *VerificationHandler) VerifyEmail(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "token is required"})
	}

	if err := h.service.VerifyEmail(c.Request().Context(), token); err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenNotFound):
			metrics.VerificationsTotal.WithLabelValues("EMAIL", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorResponse{Error: "verification token not found"})
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.VerificationsTotal.WithLabelValues("EMAIL", "expired").Inc()
			return c.JSON(http.StatusGone, errorResponse{Error: "verification token has expired"})
		}
		return err
	}

	metrics.VerificationsTotal.WithLabelValues("EMAIL", "success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "email verified"})
}

// VerifyMobile consumes a mobile OTP.
//
// @Summary      Verify a mobile number with an OTP
// @Tags         verification
// @Accept       json
// @Produce      json
// @Param        body  body      verifyMobileRequest  true  "Mobile number and code"
// @Success      200   {object}  statusResponse
// @Failure      404   {object}  errorResponse
// @Failure      410   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/verify/mobile [post]
func (h *VerificationHandler) VerifyMobile(c echo.Context) error {
	var req verifyMobileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.service.VerifyMobile(c.Request().Context(), req.MobileNumber, req.Code); err != nil {
		switch {
		case errors.Is(err, domain.ErrPrincipalNotFound):
			metrics.VerificationsTotal.WithLabelValues("MOBILE", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorResponse{Error: "account not found"})
		case errors.Is(err, domain.ErrNoLiveToken):
			metrics.VerificationsTotal.WithLabelValues("MOBILE", "not_found").Inc()
			return c.JSON(http.StatusNotFound, errorResponse{Error: "no verification code outstanding"})
		case errors.Is(err, domain.ErrTokenExpired):
			metrics.VerificationsTotal.WithLabelValues("MOBILE", "expired").Inc()
			return c.JSON(http.StatusGone, errorResponse{Error: "verification code has expired"})
		case errors.Is(err, domain.ErrCodeMismatch):
			metrics.VerificationsTotal.WithLabelValues("MOBILE", "mismatch").Inc()
			return c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: "verification code does not match"})
		}
		return err
	}

	metrics.VerificationsTotal.WithLabelValues("MOBILE", "success").Inc()
	return c.JSON(http.StatusOK, statusResponse{Status: "mobile verified"})
}
