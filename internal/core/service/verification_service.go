package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

// VerificationService consumes single-use identity-verification tokens.
// Expired tokens are garbage-collected lazily: any expired token found
// during lookup is deleted on the failure path.
type VerificationService struct {
	principals ports.PrincipalRepository
	tokens     ports.VerificationTokenRepository
	tx         ports.TxRunner
}

func NewVerificationService(principals ports.PrincipalRepository, tokens ports.VerificationTokenRepository, tx ports.TxRunner) *VerificationService {
	return &VerificationService{principals: principals, tokens: tokens, tx: tx}
}

// VerifyEmail consumes the token identified by its secret and flips the
// owner's emailVerified flag. Flag flip and token deletion happen in one
// atomic unit; of two concurrent attempts exactly one succeeds, the other
// observes domain.ErrTokenNotFound.
func (s *VerificationService) VerifyEmail(ctx context.Context, secret string) error {
	token, err := s.tokens.FindByToken(ctx, secret)
	if err != nil {
		return err
	}
	if token.Expired(time.Now().UTC()) {
		if err := s.tokens.Delete(ctx, token.Token); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			return err
		}
		return domain.ErrTokenExpired
	}

	return s.consume(ctx, token, func(p *domain.Principal) { p.EmailVerified = true })
}

// VerifyMobile resolves the principal by mobile number, then compares the
// supplied code against that principal's single live token by exact string
// match. The code is never used as a lookup key, so a wrong guess leaks
// nothing about how close it was.
func (s *VerificationService) VerifyMobile(ctx context.Context, mobile, code string) error {
	principal, err := s.principals.FindByMobile(ctx, mobile)
	if err != nil {
		return err
	}

	token, err := s.tokens.FindByPrincipal(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return domain.ErrNoLiveToken
		}
		return err
	}
	if token.Expired(time.Now().UTC()) {
		if err := s.tokens.Delete(ctx, token.Token); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			return err
		}
		return domain.ErrTokenExpired
	}
	if token.Token != code {
		return domain.ErrCodeMismatch
	}

	return s.consume(ctx, token, func(p *domain.Principal) { p.MobileVerified = true })
}

// consume deletes the token and applies the flag mutation inside one
// transaction. The delete goes first: it is the single-winner gate.
func (s *VerificationService) consume(ctx context.Context, token *domain.VerificationToken, mark func(*domain.Principal)) error {
	return s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.tokens.Delete(ctx, token.Token); err != nil {
			return err
		}
		principal, err := s.principals.FindByID(ctx, token.PrincipalID)
		if err != nil {
			return err
		}
		mark(principal)
		principal.UpdatedAt = time.Now().UTC()
		if err := s.principals.Update(ctx, principal); err != nil {
			return fmt.Errorf("update principal: %w", err)
		}
		return nil
	})
}
