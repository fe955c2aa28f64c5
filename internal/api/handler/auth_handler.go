package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trekha/identity-service/internal/api/metrics"
	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

// AuthHandler handles registration, login and verification resend.
type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterByEmail creates a passenger account from an email address.
//
// @Summary      Register a passenger by email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerPassengerRequest  true  "Registration details"
// @Success      201   {object}  registerPassengerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register/passenger/email [post]
func (h *AuthHandler) RegisterByEmail(c echo.Context) error {
	return h.register(c, domain.ChannelEmail)
}

// RegisterByMobile creates a passenger account from a mobile number.
//
// @Summary      Register a passenger by mobile number
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerPassengerRequest  true  "Registration details"
// @Success      201   {object}  registerPassengerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /auth/register/passenger/mobile [post]
func (h *AuthHandler) RegisterByMobile(c echo.Context) error {
	return h.register(c, domain.ChannelMobile)
}

func (h *AuthHandler) register(c echo.Context, channel domain.RegistrationChannel) error {
	var req registerPassengerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := h.authService.RegisterPassenger(c.Request().Context(), ports.RegistrationInput{
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}, channel)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrMobileTaken):
			return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrMissingIdentifier), errors.Is(err, domain.ErrWeakPassword):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.RegistrationsTotal.WithLabelValues(string(channel)).Inc()
	p, profile := result.Principal, result.Profile
	return c.JSON(http.StatusCreated, registerPassengerResponse{
		ID:             p.ID,
		Email:          p.Email,
		MobileNumber:   p.MobileNumber,
		FirstName:      profile.FirstName,
		LastName:       profile.LastName,
		Active:         p.Active,
		EmailVerified:  p.EmailVerified,
		MobileVerified: p.MobileVerified,
		Roles:          p.Roles,
		CreatedAt:      p.CreatedAt,
	})
}

// Login authenticates an identifier/secret pair and returns a bearer token.
//
// @Summary      Login with email or mobile number
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	result, err := h.authService.Login(c.Request().Context(), req.Identifier, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		}
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:       result.Token,
		PrincipalID: result.PrincipalID,
		Identifier:  result.Identifier,
		Roles:       result.Roles,
	})
}

// ResendVerification re-issues the verification token for an account.
//
// @Summary      Resend the verification email or OTP
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resendVerificationRequest  true  "Account identifier"
// @Success      202   {object}  statusResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/verify/resend [post]
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendVerificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	if err := h.authService.ResendVerification(c.Request().Context(), req.Identifier); err != nil {
		switch {
		case errors.Is(err, domain.ErrPrincipalNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: "account not found"})
		case errors.Is(err, domain.ErrAlreadyVerified):
			return c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrTooManyRequests):
			return c.JSON(http.StatusTooManyRequests, errorResponse{Error: err.Error()})
		}
		return err
	}

	return c.JSON(http.StatusAccepted, statusResponse{Status: "verification sent"})
}

// Me returns the authenticated principal.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Principal
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, principal)
}
