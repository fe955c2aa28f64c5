package domain

import "time"

const RolePassenger = "PASSENGER"

// RegistrationChannel identifies how an account was created and which
// communication channel must be proven before password recovery.
type RegistrationChannel string

const (
	ChannelEmail  RegistrationChannel = "EMAIL"
	ChannelMobile RegistrationChannel = "MOBILE"
)

// Principal models an authenticated identity. Exactly one of Email and
// MobileNumber is non-empty for an active account; Roles is never empty
// after registration.
type Principal struct {
	ID             int64               `json:"id"`
	Email          string              `json:"email,omitempty"`
	MobileNumber   string              `json:"mobile_number,omitempty"`
	PasswordHash   string              `json:"-"`
	Channel        RegistrationChannel `json:"registration_channel"`
	Active         bool                `json:"active"`
	EmailVerified  bool                `json:"email_verified"`
	MobileVerified bool                `json:"mobile_verified"`
	Roles          []string            `json:"roles"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	LastLoginAt    time.Time           `json:"last_login_at,omitempty"`
}

// Identifier returns the login identifier a bearer token asserts: the email
// when present, otherwise the mobile number.
func (p *Principal) Identifier() string {
	if p.Email != "" {
		return p.Email
	}
	return p.MobileNumber
}

// ChannelVerified reports whether the registration channel has been proven.
func (p *Principal) ChannelVerified() bool {
	if p.Channel == ChannelMobile {
		return p.MobileVerified
	}
	return p.EmailVerified
}

// HasRole reports whether the principal carries the given role name.
func (p *Principal) HasRole(role string) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// PassengerProfile is the slim profile record created alongside a Principal
// at registration. It is owned separately and references the principal by id.
type PassengerProfile struct {
	PrincipalID int64     `json:"principal_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
