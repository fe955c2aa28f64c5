package domain

import "errors"

// Credential errors. Login never distinguishes "no such account" from
// "wrong password" externally.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Bearer token errors. Malformed and BadSignature are fatal; Expired is a
// routine, recoverable condition.
var (
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenBadSignature = errors.New("token signature is invalid")
	ErrTokenExpired      = errors.New("token has expired")
)

// Not-found errors.
var (
	ErrPrincipalNotFound = errors.New("principal not found")
	ErrTokenNotFound     = errors.New("token not found")
	ErrNoLiveToken       = errors.New("no live token for principal")
)

// State errors: user-correctable conditions.
var (
	ErrAccountInactive   = errors.New("account is inactive")
	ErrChannelUnverified = errors.New("registration channel is not verified")
	ErrAlreadyVerified   = errors.New("channel is already verified")
	ErrCodeMismatch      = errors.New("verification code does not match")
	ErrWeakPassword      = errors.New("password must be at least 8 characters and contain a digit")
	ErrResetTokenInvalid = errors.New("password reset token is invalid")
	ErrTooManyRequests   = errors.New("too many requests")
	ErrMissingIdentifier = errors.New("identifier is required for this registration channel")
)

// Conflict errors at registration.
var (
	ErrEmailTaken  = errors.New("email is already in use")
	ErrMobileTaken = errors.New("mobile number is already in use")
)
