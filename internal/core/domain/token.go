package domain

import "time"

// VerificationToken is a single-use secret proving control of an email
// address or mobile number. At most one live token exists per principal;
// issuing a new one invalidates the previous.
type VerificationToken struct {
	Token       string    `json:"-"`
	PrincipalID int64     `json:"principal_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the token's TTL has elapsed at the given instant.
func (t *VerificationToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// PasswordResetToken authorizes a one-time password change. Same single-live
// and single-use rules as VerificationToken, with a longer TTL.
type PasswordResetToken struct {
	Token       string    `json:"-"`
	PrincipalID int64     `json:"principal_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (t *PasswordResetToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
