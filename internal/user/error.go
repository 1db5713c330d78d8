package user

import "errors"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrEmailExists              = errors.New("email already registered")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrEmailNotVerified         = errors.New("email not verified")
	ErrInvalidVerificationToken = errors.New("invalid verification token")
	ErrInvalidRole              = errors.New("invalid role")
	ErrAlreadySeller            = errors.New("user is already a seller")
	ErrWeakPassword             = errors.New("password must be at least 6 characters")
	ErrInvalidEmail             = errors.New("invalid email")
	ErrNameRequired             = errors.New("name is required")
	ErrForbidden                = errors.New("forbidden")
)
