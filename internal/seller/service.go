package seller

import (
	"context"
	"strings"

	"quickcart-be/internal/logger"
	"quickcart-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Apply(ctx context.Context, email string, input ApplyInput) (*Seller, error)
	List(ctx context.Context) ([]Seller, error)
	Get(ctx context.Context, id string) (*Seller, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Apply files an application for email, which must be the caller. The body email defaults to it.
func (s *service) Apply(ctx context.Context, email string, input ApplyInput) (*Seller, error) {
	caller := utils.GetUserEmailFromContext(ctx)
	if caller == "" {
		return nil, ErrUnauthorized
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email != caller {
		return nil, ErrEmailMismatch
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if input.Email != "" && input.Email != email {
		return nil, ErrEmailMismatch
	}

	sl := &Seller{
		Name:     input.Name,
		Email:    email,
		Phone:    input.Phone,
		NIDFront: input.NIDFront,
		NIDBack:  input.NIDBack,
		Photo:    input.Photo,
	}
	if err := s.repo.Apply(ctx, sl); err != nil {
		logger.FromCtx(ctx).Info("seller application rejected", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	return sl, nil
}

func (s *service) List(ctx context.Context) ([]Seller, error) {
	return s.repo.List(ctx)
}

func (s *service) Get(ctx context.Context, id string) (*Seller, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSellerNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrSellerNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("seller application deleted",
		zap.String("seller_id", id),
		zap.String("by", utils.GetUserEmailFromContext(ctx)),
	)
	return nil
}
