package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

const defaultVerificationTTL = 15 * time.Minute

// AuthService orchestrates login and registration with verification kickoff.
type AuthService struct {
	principals ports.PrincipalRepository
	profiles   ports.ProfileRepository
	tokens     ports.VerificationTokenRepository
	resolver   ports.PrincipalResolver
	hasher     ports.PasswordHasher
	codec      ports.TokenCodec
	dispatcher ports.NotificationDispatcher
	limiter    ports.ResendLimiter
	tx         ports.TxRunner
	baseURL    string
	tokenTTL   time.Duration
	log        zerolog.Logger
}

type AuthServiceParams struct {
	Principals ports.PrincipalRepository
	Profiles   ports.ProfileRepository
	Tokens     ports.VerificationTokenRepository
	Resolver   ports.PrincipalResolver
	Hasher     ports.PasswordHasher
	Codec      ports.TokenCodec
	Dispatcher ports.NotificationDispatcher
	Limiter    ports.ResendLimiter
	Tx         ports.TxRunner
	BaseURL    string
	TokenTTL   time.Duration
	Logger     zerolog.Logger
}

func NewAuthService(p AuthServiceParams) *AuthService {
	if p.TokenTTL <= 0 {
		p.TokenTTL = defaultVerificationTTL
	}
	return &AuthService{
		principals: p.Principals,
		profiles:   p.Profiles,
		tokens:     p.Tokens,
		resolver:   p.Resolver,
		hasher:     p.Hasher,
		codec:      p.Codec,
		dispatcher: p.Dispatcher,
		limiter:    p.Limiter,
		tx:         p.Tx,
		baseURL:    p.BaseURL,
		tokenTTL:   p.TokenTTL,
		log:        p.Logger,
	}
}

// Login authenticates an identifier/secret pair and mints a bearer token.
// Every failure surfaces as domain.ErrInvalidCredentials so callers cannot
// probe which identifiers exist or which channel matched.
func (s *AuthService) Login(ctx context.Context, identifier, secret string) (*ports.LoginResult, error) {
	if identifier == "" || secret == "" {
		return nil, domain.ErrInvalidCredentials
	}

	principal, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !principal.Active || !s.hasher.Matches(secret, principal.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.codec.Issue(principal.Identifier(), principal.Roles)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	// Last-writer-wins; a failed write must not fail the login.
	principal.LastLoginAt = time.Now().UTC()
	if err := s.principals.Update(ctx, principal); err != nil {
		s.log.Warn().Err(err).Int64("principal_id", principal.ID).Msg("last login update failed")
	}

	return &ports.LoginResult{
		Token:       token,
		PrincipalID: principal.ID,
		Identifier:  principal.Identifier(),
		Roles:       principal.Roles,
	}, nil
}

// RegisterPassenger creates an active principal with the PASSENGER role, its
// profile record and its first verification token in one transaction: either
// all three records exist afterwards or none do. The notification is
// dispatched only after the transaction commits.
func (s *AuthService) RegisterPassenger(ctx context.Context, input ports.RegistrationInput, channel domain.RegistrationChannel) (*ports.RegistrationResult, error) {
	if err := s.validateRegistration(ctx, input, channel); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	principal := &domain.Principal{
		Email:        input.Email,
		MobileNumber: input.MobileNumber,
		PasswordHash: hash,
		Channel:      channel,
		Active:       true,
		Roles:        []string{domain.RolePassenger},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &domain.PassengerProfile{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created *domain.Principal
	var token *domain.VerificationToken
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.principals.Create(ctx, principal)
		if err != nil {
			return err
		}
		profile.PrincipalID = created.ID
		if err := s.profiles.Create(ctx, profile); err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		token, err = s.issueVerification(ctx, created)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.dispatchVerification(created, token.Token)
	return &ports.RegistrationResult{Principal: created, Profile: profile}, nil
}

// ResendVerification re-issues the channel verification token, throttled per
// identifier. The previous token stops verifying the moment the new one is
// saved.
func (s *AuthService) ResendVerification(ctx context.Context, identifier string) error {
	principal, err := s.resolver.Resolve(ctx, identifier)
	if err != nil {
		return err
	}
	if principal.ChannelVerified() {
		return domain.ErrAlreadyVerified
	}

	allowed, err := s.limiter.Allow(ctx, identifier)
	if err != nil {
		return fmt.Errorf("resend limiter: %w", err)
	}
	if !allowed {
		return domain.ErrTooManyRequests
	}

	token, err := s.issueVerification(ctx, principal)
	if err != nil {
		return err
	}
	s.dispatchVerification(principal, token.Token)
	return nil
}

func (s *AuthService) validateRegistration(ctx context.Context, input ports.RegistrationInput, channel domain.RegistrationChannel) error {
	if input.Password == "" {
		return domain.ErrWeakPassword
	}

	switch channel {
	case domain.ChannelEmail:
		if input.Email == "" {
			return domain.ErrMissingIdentifier
		}
		taken, err := s.principals.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrEmailTaken
		}
	case domain.ChannelMobile:
		if input.MobileNumber == "" {
			return domain.ErrMissingIdentifier
		}
		taken, err := s.principals.ExistsByMobile(ctx, input.MobileNumber)
		if err != nil {
			return err
		}
		if taken {
			return domain.ErrMobileTaken
		}
	default:
		return fmt.Errorf("unsupported registration channel %q", channel)
	}
	return nil
}

// issueVerification saves a fresh single-use token for the principal's
// registration channel. Save replaces whatever token the principal held in
// a single write, so at most one live token exists per principal and a
// reissue atomically invalidates its predecessor.
func (s *AuthService) issueVerification(ctx context.Context, principal *domain.Principal) (*domain.VerificationToken, error) {
	var secret string
	switch principal.Channel {
	case domain.ChannelMobile:
		otp, err := randomOTP()
		if err != nil {
			return nil, fmt.Errorf("generate otp: %w", err)
		}
		secret = otp
	default:
		secret = uuid.NewString()
	}

	token := &domain.VerificationToken{
		Token:       secret,
		PrincipalID: principal.ID,
		ExpiresAt:   time.Now().UTC().Add(s.tokenTTL),
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// dispatchVerification queues delivery of an already-persisted secret.
// Fire-and-forget: a delivery failure never unwinds the issuance.
func (s *AuthService) dispatchVerification(principal *domain.Principal, secret string) {
	switch principal.Channel {
	case domain.ChannelMobile:
		s.dispatcher.DispatchSMS(principal.MobileNumber,
			fmt.Sprintf("Your Trekha verification code is %s. It expires in %d minutes.", secret, int(s.tokenTTL.Minutes())))
	default:
		s.dispatcher.DispatchEmail(principal.Email, "Verify your Trekha account",
			fmt.Sprintf("Follow %s/auth/verify/email?token=%s to verify your email address.", s.baseURL, secret))
	}
}
