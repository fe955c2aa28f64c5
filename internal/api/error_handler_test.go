package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/trekha/identity-service/internal/core/domain"
)

func invokeErrorHandler(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return resp
}

func TestHTTPErrorHandler_DomainSentinels(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"malformed token", domain.ErrTokenMalformed, http.StatusUnauthorized},
		{"bad signature", domain.ErrTokenBadSignature, http.StatusUnauthorized},
		{"unknown principal", domain.ErrPrincipalNotFound, http.StatusNotFound},
		{"unknown token", domain.ErrTokenNotFound, http.StatusNotFound},
		{"no live token", domain.ErrNoLiveToken, http.StatusNotFound},
		{"expired token", domain.ErrTokenExpired, http.StatusGone},
		{"invalid reset token", domain.ErrResetTokenInvalid, http.StatusGone},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"mobile taken", domain.ErrMobileTaken, http.StatusConflict},
		{"already verified", domain.ErrAlreadyVerified, http.StatusConflict},
		{"inactive account", domain.ErrAccountInactive, http.StatusConflict},
		{"code mismatch", domain.ErrCodeMismatch, http.StatusUnprocessableEntity},
		{"weak password", domain.ErrWeakPassword, http.StatusUnprocessableEntity},
		{"unverified channel", domain.ErrChannelUnverified, http.StatusUnprocessableEntity},
		{"missing identifier", domain.ErrMissingIdentifier, http.StatusBadRequest},
		{"rate limited", domain.ErrTooManyRequests, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		rec := invokeErrorHandler(t, tc.err)
		if rec.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.code, rec.Code)
		}
		if resp := decodeErrorBody(t, rec); resp.Error == "" {
			t.Fatalf("%s: empty error envelope", tc.name)
		}
	}
}

func TestHTTPErrorHandler_WrappedSentinel(t *testing.T) {
	rec := invokeErrorHandler(t, fmt.Errorf("consume token: %w", domain.ErrTokenExpired))
	if rec.Code != http.StatusGone {
		t.Fatalf("expected 410 for wrapped sentinel, got %d", rec.Code)
	}
}

func TestHTTPErrorHandler_EchoHTTPErrorPassthrough(t *testing.T) {
	rec := invokeErrorHandler(t, echo.NewHTTPError(http.StatusTeapot, "short and stout"))
	if rec.Code != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", rec.Code)
	}
	if resp := decodeErrorBody(t, rec); resp.Error != "short and stout" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIs500(t *testing.T) {
	rec := invokeErrorHandler(t, errors.New("mongo topology closed"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	// Internal causes never leak to the client.
	if resp := decodeErrorBody(t, rec); resp.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %+v", resp)
	}
}

func TestHTTPErrorHandler_CommittedResponseUntouched(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := c.NoContent(http.StatusNoContent); err != nil {
		t.Fatalf("commit response: %v", err)
	}
	NewHTTPErrorHandler(zerolog.Nop())(domain.ErrTokenExpired, c)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("committed response was rewritten: %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("body written after commit: %s", rec.Body.String())
	}
}
