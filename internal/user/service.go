package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"quickcart-be/internal/logger"
	"quickcart-be/internal/utils"

	"go.uber.org/zap"
)

// VerificationSender delivers the email-verification link for a new local account.
type VerificationSender interface {
	SendVerification(ctx context.Context, to, name, token string) error
}

type Service interface {
	Register(ctx context.Context, input SignupInput) (*User, error)
	VerifyEmail(ctx context.Context, email, token string) error
	Login(ctx context.Context, email, password string) (*User, error)
	SignInWithProvider(ctx context.Context, id ProviderIdentity) (*User, error)
	EnsureUser(ctx context.Context, input ProfileInput) (*User, bool, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetRole(ctx context.Context, email string) (Role, error)
	ListUsers(ctx context.Context, excludeEmail string) ([]User, error)
	UpdateRole(ctx context.Context, email, role string) error
	RequestSeller(ctx context.Context, email string) error
	UpdateProfile(ctx context.Context, name, photoURL string) (*User, error)
}

type service struct {
	repo   Repository
	mailer VerificationSender
}

func NewService(repo Repository, mailer VerificationSender) Service {
	return &service{repo: repo, mailer: mailer}
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

func (s *service) Register(ctx context.Context, input SignupInput) (*User, error) {
	email := NormalizeEmail(input.Email)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Register"),
		zap.String("email", email),
	)

	if !validEmail(email) {
		return nil, ErrInvalidEmail
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hashed, err := HashPassword(input.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}
	token, err := NewVerificationToken()
	if err != nil {
		log.Error("failed to generate verification token", zap.Error(err))
		return nil, err
	}

	u := &User{
		Name:              strings.TrimSpace(input.Name),
		Email:             email,
		PhotoURL:          input.PhotoURL,
		Role:              RoleCustomer,
		PasswordHash:      &hashed,
		VerificationToken: &token,
	}

	err = s.repo.Create(ctx, u)
	if errors.Is(err, ErrEmailExists) {
		// An unverified record (the sign-up upsert, or an attempt whose mail never went out)
		// takes the new credentials.
		if err = s.repo.SetCredentials(ctx, email, hashed, token); err != nil {
			return nil, err
		}
		if u, err = s.repo.FindByEmail(ctx, email); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if err := s.mailer.SendVerification(ctx, email, u.Name, token); err != nil {
		log.Error("failed to send verification email", zap.Error(err))
		return nil, err
	}

	log.Info("register service completed", zap.String("user_id", u.ID))
	return u, nil
}

func (s *service) VerifyEmail(ctx context.Context, email, token string) error {
	if token == "" {
		return ErrInvalidVerificationToken
	}
	return s.repo.MarkVerified(ctx, NormalizeEmail(email), token)
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	log := logger.FromCtx(ctx).With(zap.String("layer", "service"), zap.String("method", "Login"))

	u, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, ErrUserNotFound) {
		log.Info("login rejected: email not found")
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if u.PasswordHash == nil || !CheckPasswordHash(password, *u.PasswordHash) {
		log.Info("login rejected: password mismatch", zap.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}
	if !u.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	return u, nil
}

func (s *service) SignInWithProvider(ctx context.Context, id ProviderIdentity) (*User, error) {
	id.Email = NormalizeEmail(id.Email)
	if !validEmail(id.Email) {
		return nil, ErrInvalidEmail
	}
	return s.repo.UpsertVerified(ctx, id)
}

// EnsureUser records a freshly signed-up user. An existing user is returned unchanged.
func (s *service) EnsureUser(ctx context.Context, input ProfileInput) (*User, bool, error) {
	email := NormalizeEmail(input.Email)
	if !validEmail(email) {
		return nil, false, ErrInvalidEmail
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	u := &User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		PhotoURL: input.PhotoURL,
		Role:     RoleCustomer,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrEmailExists) {
			existing, err := s.repo.FindByEmail(ctx, email)
			return existing, false, err
		}
		return nil, false, err
	}
	return u, true, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.repo.FindByEmail(ctx, NormalizeEmail(email))
}

func (s *service) GetRole(ctx context.Context, email string) (Role, error) {
	email = NormalizeEmail(email)
	if !utils.IsSelfOrAdmin(ctx, email) {
		return "", ErrForbidden
	}
	return s.repo.GetRole(ctx, email)
}

func (s *service) ListUsers(ctx context.Context, excludeEmail string) ([]User, error) {
	return s.repo.List(ctx, NormalizeEmail(excludeEmail))
}

func (s *service) UpdateRole(ctx context.Context, email, role string) error {
	r, ok := ParseRole(role)
	if !ok {
		return ErrInvalidRole
	}

	email = NormalizeEmail(email)
	if err := s.repo.UpdateRole(ctx, email, r); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("user role updated",
		zap.String("email", email),
		zap.String("role", string(r)),
		zap.String("by", utils.GetUserEmailFromContext(ctx)),
	)
	return nil
}

func (s *service) RequestSeller(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if !utils.IsSelfOrAdmin(ctx, email) {
		return ErrForbidden
	}

	role, err := s.repo.GetRole(ctx, email)
	if err != nil {
		return err
	}
	if role != RoleCustomer {
		return ErrAlreadySeller
	}
	return s.repo.UpdateStatus(ctx, email, StatusRequested)
}

func (s *service) UpdateProfile(ctx context.Context, name, photoURL string) (*User, error) {
	email := utils.GetUserEmailFromContext(ctx)
	if email == "" {
		return nil, ErrForbidden
	}
	return s.repo.UpdateProfile(ctx, email, strings.TrimSpace(name), strings.TrimSpace(photoURL))
}
