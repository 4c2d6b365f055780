package identity

import (
	"time"

	"github.com/promanage/backend/internal/domain/identity"
)

// LoginResult carries the issued token and the authenticated profile
type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Profile   *identity.Profile `json:"profile"`
}

// CreateEmployeeInput carries the fields for manager-driven onboarding.
// Password is optional: when empty the employee gets an invite link in
// the welcome email instead of a preset credential.
type CreateEmployeeInput struct {
	Email    string
	FullName string
	Password string
}

// CreateEmployeeResult is the onboarding outcome. InviteLink is empty
// when a password was set directly.
type CreateEmployeeResult struct {
	Profile    *identity.Profile `json:"profile"`
	InviteLink string            `json:"invite_link,omitempty"`
}
