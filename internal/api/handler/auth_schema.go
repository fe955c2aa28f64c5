package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerPassengerRequest struct {
	Email        string `json:"email"         validate:"omitempty,email"`
	MobileNumber string `json:"mobile_number" validate:"omitempty,e164"`
	Password     string `json:"password"      validate:"required,min=8"`
	FirstName    string `json:"first_name"    validate:"required"`
	LastName     string `json:"last_name"     validate:"required"`
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
}

type loginResponse struct {
	Token       string   `json:"token"`
	PrincipalID int64    `json:"principal_id"`
	Identifier  string   `json:"identifier"`
	Roles       []string `json:"roles"`
}

type registerPassengerResponse struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email,omitempty"`
	MobileNumber   string    `json:"mobile_number,omitempty"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Active         bool      `json:"active"`
	EmailVerified  bool      `json:"email_verified"`
	MobileVerified bool      `json:"mobile_verified"`
	Roles          []string  `json:"roles"`
	CreatedAt      time.Time `json:"created_at"`
}

type verifyMobileRequest struct {
	MobileNumber string `json:"mobile_number" validate:"required"`
	Code         string `json:"code"          validate:"required,len=6,numeric"`
}

type resendVerificationRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type forgotPasswordRequest struct {
	Identifier string `json:"identifier" validate:"required"`
}

type resetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type statusResponse struct {
	Status string `json:"status"`
}
