package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

const (
	defaultResetTTL   = 30 * time.Minute
	minPasswordLength = 8
)

// PasswordResetService issues and consumes single-use password-reset tokens,
// decoupled from login and registration.
type PasswordResetService struct {
	principals ports.PrincipalRepository
	tokens     ports.PasswordResetTokenRepository
	resolver   ports.PrincipalResolver
	hasher     ports.PasswordHasher
	dispatcher ports.NotificationDispatcher
	tx         ports.TxRunner
	baseURL    string
	tokenTTL   time.Duration
}

func NewPasswordResetService(
	principals ports.PrincipalRepository,
	tokens ports.PasswordResetTokenRepository,
	resolver ports.PrincipalResolver,
	hasher ports.PasswordHasher,
	dispatcher ports.NotificationDispatcher,
	tx ports.TxRunner,
	baseURL string,
	tokenTTL time.Duration,
) *PasswordResetService {
	if tokenTTL <= 0 {
		tokenTTL = defaultResetTTL
	}
	return &PasswordResetService{
		principals: principals,
		tokens:     tokens,
		resolver:   resolver,
		hasher:     hasher,
		dispatcher: dispatcher,
		tx:         tx,
		baseURL:    baseURL,
		tokenTTL:   tokenTTL,
	}
}

// RequestReset issues a reset token for the identified principal and
// dispatches it over the registration channel. An unverified identity cannot
// recover a password: it has no proven communication channel.
func (s *PasswordResetService) RequestReset(ctx context.Context, identifier string) error {
	principal, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return err
	}
	if !principal.Active {
		return domain.ErrAccountInactive
	}
	if !principal.ChannelVerified() {
		return domain.ErrChannelUnverified
	}

	// Save replaces any outstanding reset token in a single write.
	token := &domain.PasswordResetToken{
		Token:       uuid.NewString(),
		PrincipalID: principal.ID,
		ExpiresAt:   time.Now().UTC().Add(s.tokenTTL),
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return err
	}

	switch principal.Channel {
	case domain.ChannelMobile:
		s.dispatcher.DispatchSMS(principal.MobileNumber,
			fmt.Sprintf("Reset your Trekha password: %s/auth/password/reset?token=%s", s.baseURL, token.Token))
	default:
		s.dispatcher.DispatchEmail(principal.Email, "Reset your Trekha password",
			fmt.Sprintf("Follow %s/auth/password/reset?token=%s to choose a new password.", s.baseURL, token.Token))
	}
	return nil
}

// ResetPassword consumes a reset token and installs the new secret. The
// strength policy is enforced here, server-side, regardless of any client
// validation. Password write and token deletion are one atomic unit.
func (s *PasswordResetService) ResetPassword(ctx context.Context, secret, newPassword string) error {
	if !strongEnough(newPassword) {
		return domain.ErrWeakPassword
	}

	token, err := s.tokens.FindByToken(ctx, secret)
	if err != nil {
		if errors.Is(err, domain.ErrTokenNotFound) {
			return domain.ErrResetTokenInvalid
		}
		return err
	}
	if token.Expired(time.Now().UTC()) {
		if err := s.tokens.Delete(ctx, token.Token); err != nil && !errors.Is(err, domain.ErrTokenNotFound) {
			return err
		}
		return domain.ErrTokenExpired
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.tokens.Delete(ctx, token.Token); err != nil {
			if errors.Is(err, domain.ErrTokenNotFound) {
				return domain.ErrResetTokenInvalid
			}
			return err
		}
		principal, err := s.principals.FindByID(ctx, token.PrincipalID)
		if err != nil {
			return err
		}
		principal.PasswordHash = hash
		principal.UpdatedAt = time.Now().UTC()
		return s.principals.Update(ctx, principal)
	})
}

// strongEnough enforces the minimum policy: length and at least one digit.
func strongEnough(password string) bool {
	if len(password) < minPasswordLength {
		return false
	}
	for _, r := range password {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
