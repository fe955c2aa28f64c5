package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/trekha/identity-service/internal/core/domain"
)

type verifyFixture struct {
	svc        *VerificationService
	principals *stubPrincipalRepo
	tokens     *stubVerificationTokenRepo
}

func newVerifyFixture(t *testing.T) *verifyFixture {
	t.Helper()
	principals := newStubPrincipalRepo()
	tokens := newStubVerificationTokenRepo()
	return &verifyFixture{
		svc:        NewVerificationService(principals, tokens, stubTxRunner{}),
		principals: principals,
		tokens:     tokens,
	}
}

func (fx *verifyFixture) seedPrincipal(t *testing.T, p *domain.Principal) *domain.Principal {
	t.Helper()
	created, err := fx.principals.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("seed principal: %v", err)
	}
	return created
}

func (fx *verifyFixture) seedToken(t *testing.T, principalID int64, secret string, expiresAt time.Time) {
	t.Helper()
	err := fx.tokens.Save(context.Background(), &domain.VerificationToken{
		Token:       secret,
		PrincipalID: principalID,
		ExpiresAt:   expiresAt,
	})
	if err != nil {
		t.Fatalf("seed token: %v", err)
	}
}

func TestVerificationService_VerifyEmail(t *testing.T) {
	fx := newVerifyFixture(t)
	p := fx.seedPrincipal(t, &domain.Principal{Email: "ada@example.com", Active: true})
	fx.seedToken(t, p.ID, "secret-1", time.Now().Add(time.Hour))

	if err := fx.svc.VerifyEmail(context.Background(), "secret-1"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	stored, _ := fx.principals.FindByID(context.Background(), p.ID)
	if !stored.EmailVerified {
		t.Fatalf("emailVerified not set")
	}
	if _, err := fx.tokens.FindByToken(context.Background(), "secret-1"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("token survived consumption: %v", err)
	}

	// The token is single-use: a replayed link fails cleanly.
	if err := fx.svc.VerifyEmail(context.Background(), "secret-1"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on replay, got %v", err)
	}
}

func TestVerificationService_VerifyEmail_Expired(t *testing.T) {
	fx := newVerifyFixture(t)
	p := fx.seedPrincipal(t, &domain.Principal{Email: "ada@example.com", Active: true})
	fx.seedToken(t, p.ID, "stale", time.Now().Add(-time.Minute))

	if err := fx.svc.VerifyEmail(context.Background(), "stale"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	// Lazy GC: the expired token is gone after the failed attempt.
	if _, err := fx.tokens.FindByToken(context.Background(), "stale"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expired token not collected: %v", err)
	}
	stored, _ := fx.principals.FindByID(context.Background(), p.ID)
	if stored.EmailVerified {
		t.Fatalf("expired token must not verify the account")
	}
}

func TestVerificationService_VerifyMobile(t *testing.T) {
	fx := newVerifyFixture(t)
	p := fx.seedPrincipal(t, &domain.Principal{MobileNumber: "+15551234567", Active: true})
	fx.seedToken(t, p.ID, "512345", time.Now().Add(time.Hour))

	if err := fx.svc.VerifyMobile(context.Background(), "+15551234567", "512345"); err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	stored, _ := fx.principals.FindByID(context.Background(), p.ID)
	if !stored.MobileVerified {
		t.Fatalf("mobileVerified not set")
	}
}

func TestVerificationService_VerifyMobile_CodeMismatch(t *testing.T) {
	fx := newVerifyFixture(t)
	p := fx.seedPrincipal(t, &domain.Principal{MobileNumber: "+15551234567", Active: true})
	fx.seedToken(t, p.ID, "512345", time.Now().Add(time.Hour))

	if err := fx.svc.VerifyMobile(context.Background(), "+15551234567", "000000"); !errors.Is(err, domain.ErrCodeMismatch) {
		t.Fatalf("expected ErrCodeMismatch, got %v", err)
	}
	stored, _ := fx.principals.FindByID(context.Background(), p.ID)
	if stored.MobileVerified {
		t.Fatalf("wrong code must not verify the account")
	}
	// A mismatch does not burn the live token.
	if _, err := fx.tokens.FindByPrincipal(context.Background(), p.ID); err != nil {
		t.Fatalf("token gone after mismatch: %v", err)
	}
}

func TestVerificationService_VerifyMobile_NoLiveToken(t *testing.T) {
	fx := newVerifyFixture(t)
	fx.seedPrincipal(t, &domain.Principal{MobileNumber: "+15551234567", Active: true})

	if err := fx.svc.VerifyMobile(context.Background(), "+15551234567", "512345"); !errors.Is(err, domain.ErrNoLiveToken) {
		t.Fatalf("expected ErrNoLiveToken, got %v", err)
	}
}

func TestVerificationService_VerifyMobile_UnknownNumber(t *testing.T) {
	fx := newVerifyFixture(t)

	if err := fx.svc.VerifyMobile(context.Background(), "+15550000000", "512345"); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}

func TestVerificationService_VerifyMobile_Expired(t *testing.T) {
	fx := newVerifyFixture(t)
	p := fx.seedPrincipal(t, &domain.Principal{MobileNumber: "+15551234567", Active: true})
	fx.seedToken(t, p.ID, "512345", time.Now().Add(-time.Minute))

	if err := fx.svc.VerifyMobile(context.Background(), "+15551234567", "512345"); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := fx.tokens.FindByPrincipal(context.Background(), p.ID); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expired token not collected: %v", err)
	}
}
