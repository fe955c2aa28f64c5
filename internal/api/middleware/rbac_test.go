package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/trekha/identity-service/internal/core/domain"
)

func invokeRBAC(t *testing.T, principal *domain.Principal, allowed ...string) (error, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if principal != nil {
		c.Set(PrincipalKey, principal)
	}

	called := false
	handler := RequireRoles(allowed...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	return handler(c), called
}

func TestRequireRoles_AllowsMatchingRole(t *testing.T) {
	err, called := invokeRBAC(t, activePassenger(), domain.RolePassenger)
	if err != nil || !called {
		t.Fatalf("matching role must pass: err=%v called=%v", err, called)
	}
}

func TestRequireRoles_AnonymousGets401(t *testing.T) {
	err, called := invokeRBAC(t, nil, domain.RolePassenger)
	if called {
		t.Fatalf("next must not run for anonymous request")
	}
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestRequireRoles_WrongRoleGets403(t *testing.T) {
	p := activePassenger()
	p.Roles = []string{"DRIVER"}
	err, called := invokeRBAC(t, p, domain.RolePassenger)
	if called {
		t.Fatalf("next must not run without a matching role")
	}
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
}
