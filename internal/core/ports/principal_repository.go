package ports

import (
	"context"

	"github.com/trekha/identity-service/internal/core/domain"
)

// PrincipalRepository is the persistence port for identity records. The
// storage layer enforces uniqueness on email and mobile number.
type PrincipalRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.Principal, error)
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	FindByMobile(ctx context.Context, mobile string) (*domain.Principal, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByMobile(ctx context.Context, mobile string) (bool, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
	Update(ctx context.Context, p *domain.Principal) error
}

// ProfileRepository persists the slim passenger profile created at
// registration. No business logic lives here.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.PassengerProfile) error
	FindByPrincipal(ctx context.Context, principalID int64) (*domain.PassengerProfile, error)
}
