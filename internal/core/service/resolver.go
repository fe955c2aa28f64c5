package service

import (
	"context"
	"errors"

	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

// Resolver maps a login identifier to a principal: email lookup first, then
// mobile, short-circuiting on the first hit.
type Resolver struct {
	principals ports.PrincipalRepository
}

func NewResolver(principals ports.PrincipalRepository) *Resolver {
	return &Resolver{principals: principals}
}

func (r *Resolver) Resolve(ctx context.Context, identifier string) (*domain.Principal, error) {
	p, err := r.principals.FindByEmail(ctx, identifier)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrPrincipalNotFound) {
		return nil, err
	}
	return r.principals.FindByMobile(ctx, identifier)
}
