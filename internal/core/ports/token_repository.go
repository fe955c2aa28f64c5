package ports

import (
	"context"

	"github.com/trekha/identity-service/internal/core/domain"
)

// VerificationTokenRepository persists single-use identity-verification
// tokens. Save atomically replaces the principal's live token, keeping at
// most one per principal. Delete must observe exactly-one-winner semantics:
// of two concurrent deletes for the same token, one succeeds and the other
// reports domain.ErrTokenNotFound.
type VerificationTokenRepository interface {
	Save(ctx context.Context, token *domain.VerificationToken) error
	FindByToken(ctx context.Context, token string) (*domain.VerificationToken, error)
	FindByPrincipal(ctx context.Context, principalID int64) (*domain.VerificationToken, error)
	Delete(ctx context.Context, token string) error
}

// PasswordResetTokenRepository persists single-use password-reset tokens
// under the same concurrency contract as VerificationTokenRepository.
type PasswordResetTokenRepository interface {
	Save(ctx context.Context, token *domain.PasswordResetToken) error
	FindByToken(ctx context.Context, token string) (*domain.PasswordResetToken, error)
	FindByPrincipal(ctx context.Context, principalID int64) (*domain.PasswordResetToken, error)
	Delete(ctx context.Context, token string) error
}

// TxRunner executes fn inside a single atomic unit against the persistent
// store, so a token consumption (flag flip + delete) exposes no partial
// state to concurrent readers.
type TxRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
