package ports

import (
	"context"
	"time"

	"github.com/trekha/identity-service/internal/core/domain"
)

// TokenClaims is the decoded payload of a bearer token.
type TokenClaims struct {
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec signs and verifies self-contained bearer tokens. Pure, no I/O.
type TokenCodec interface {
	// Issue mints a signed token asserting subject with the given roles.
	Issue(subject string, roles []string) (string, error)
	// Parse verifies and decodes a token, failing with exactly one of
	// domain.ErrTokenMalformed, domain.ErrTokenBadSignature or
	// domain.ErrTokenExpired.
	Parse(token string) (*TokenClaims, error)
	// IsValid reports whether token parses, asserts expectedSubject and has
	// not expired. Recoverable conditions yield false, never an error.
	IsValid(token, expectedSubject string) bool
}

// PrincipalResolver maps a login identifier (email first, then mobile) to a
// principal record, short-circuiting on the first hit.
type PrincipalResolver interface {
	Resolve(ctx context.Context, identifier string) (*domain.Principal, error)
}

// RegistrationInput carries a passenger registration request.
type RegistrationInput struct {
	Email        string
	MobileNumber string
	Password     string
	FirstName    string
	LastName     string
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token       string   `json:"token"`
	PrincipalID int64    `json:"principal_id"`
	Identifier  string   `json:"identifier"`
	Roles       []string `json:"roles"`
}

// RegistrationResult is the principal summary returned after registration.
type RegistrationResult struct {
	Principal *domain.Principal        `json:"principal"`
	Profile   *domain.PassengerProfile `json:"profile"`
}

// AuthService orchestrates login and registration-time verification kickoff.
type AuthService interface {
	Login(ctx context.Context, identifier, secret string) (*LoginResult, error)
	RegisterPassenger(ctx context.Context, input RegistrationInput, channel domain.RegistrationChannel) (*RegistrationResult, error)
	ResendVerification(ctx context.Context, identifier string) error
}

// VerificationService consumes single-use identity-verification tokens.
type VerificationService interface {
	VerifyEmail(ctx context.Context, token string) error
	VerifyMobile(ctx context.Context, mobile, code string) error
}

// PasswordResetService issues and consumes password-reset tokens.
type PasswordResetService interface {
	RequestReset(ctx context.Context, identifier string) error
	ResetPassword(ctx context.Context, token, newSecret string) error
}
