package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return r, true
	}
	return "", false
}

// Status tracks the seller onboarding lifecycle. Empty means no request was made.
type Status string

const (
	StatusNone      Status = ""
	StatusRequested Status = "Requested"
	StatusVerified  Status = "Verified"
)

type User struct {
	ID                string    `json:"_id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PhotoURL          string    `json:"photoUrl"`
	Role              Role      `json:"role"`
	Status            Status    `json:"status"`
	EmailVerified     bool      `json:"emailVerified"`
	PasswordHash      *string   `json:"-"`
	VerificationToken *string   `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

type SignupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	PhotoURL string `json:"photoUrl"`
}

type ProfileInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoUrl"`
}

// ProviderIdentity is an identity already proven by an external sign-in provider.
type ProviderIdentity struct {
	Email    string
	Name     string
	PhotoURL string
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
