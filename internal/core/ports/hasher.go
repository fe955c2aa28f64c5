package ports

import "context"

// PasswordHasher is the one-way, salted password hashing port.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Matches(plain, digest string) bool
}

// ResendLimiter throttles verification re-issue requests per identifier.
type ResendLimiter interface {
	Allow(ctx context.Context, identifier string) (bool, error)
}
