package service

import (
	"context"
	"errors"
	"testing"

	"github.com/trekha/identity-service/internal/core/domain"
)

func TestResolver_EmailFirstMobileFallback(t *testing.T) {
	repo := newStubPrincipalRepo()
	byEmail, _ := repo.Create(context.Background(), &domain.Principal{Email: "ada@example.com"})
	byMobile, _ := repo.Create(context.Background(), &domain.Principal{MobileNumber: "+15551234567"})

	r := NewResolver(repo)

	got, err := r.Resolve(context.Background(), "ada@example.com")
	if err != nil || got.ID != byEmail.ID {
		t.Fatalf("resolve by email: got %+v, err %v", got, err)
	}

	got, err = r.Resolve(context.Background(), "+15551234567")
	if err != nil || got.ID != byMobile.ID {
		t.Fatalf("resolve by mobile: got %+v, err %v", got, err)
	}

	if _, err := r.Resolve(context.Background(), "nobody"); !errors.Is(err, domain.ErrPrincipalNotFound) {
		t.Fatalf("expected ErrPrincipalNotFound, got %v", err)
	}
}
