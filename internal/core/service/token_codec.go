package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/trekha/identity-service/internal/core/domain"
	"github.com/trekha/identity-service/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

type bearerClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 bearer tokens with a single
// process-wide symmetric key. The key is immutable after construction;
// rotating it requires a restart and invalidates all outstanding tokens.
type TokenCodec struct {
	key []byte
	ttl time.Duration
}

func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenCodec{key: []byte(secret), ttl: ttl}
}

// Issue mints a signed token asserting subject with the given roles.
func (c *TokenCodec) Issue(subject string, roles []string) (string, error) {
	now := time.Now()
	claims := bearerClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
}

// Parse verifies and decodes a token. It distinguishes three failure kinds:
// domain.ErrTokenMalformed (structural), domain.ErrTokenBadSignature (forged
// or signed under another key) and domain.ErrTokenExpired (routine).
func (c *TokenCodec) Parse(token string) (*ports.TokenClaims, error) {
	claims := &bearerClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return c.key, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, domain.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, domain.ErrTokenBadSignature
		default:
			return nil, domain.ErrTokenMalformed
		}
	}
	if !parsed.Valid {
		return nil, domain.ErrTokenBadSignature
	}

	out := &ports.TokenClaims{
		Subject: claims.Subject,
		Roles:   claims.Roles,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

// IsValid reports whether token parses, asserts expectedSubject and has not
// expired. Validity questions return false; they never error.
func (c *TokenCodec) IsValid(token, expectedSubject string) bool {
	claims, err := c.Parse(token)
	if err != nil {
		return false
	}
	return claims.Subject == expectedSubject && time.Now().Before(claims.ExpiresAt)
}
