package review

import (
	"context"

	"quickcart-be/internal/logger"
	"quickcart-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Review, error)
	Latest(ctx context.Context) ([]Review, error)
	ListByProduct(ctx context.Context, productID string) ([]Review, error)
	Update(ctx context.Context, id string, input UpdateInput) (*Review, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Review, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	author, ok := utils.GetSessionUser(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(input.ProductID); err != nil {
		return nil, ErrProductNotFound
	}

	rv := &Review{
		ProductID:   input.ProductID,
		AuthorName:  author.Name,
		AuthorEmail: author.Email,
		AuthorPhoto: author.PhotoURL,
		Rating:      input.Rating,
		Body:        input.Body,
		PhotoURL:    input.PhotoURL,
	}
	if err := s.repo.Create(ctx, rv); err != nil {
		log.Warn("review not created", zap.Error(err))
		return nil, err
	}

	rv.CanEdit = true
	log.Info("review created", zap.String("review_id", rv.ID), zap.String("product_id", rv.ProductID))
	return rv, nil
}

func (s *service) Latest(ctx context.Context) ([]Review, error) {
	reviews, err := s.repo.Latest(ctx, LatestLimit)
	if err != nil {
		return nil, err
	}
	return markEditable(ctx, reviews), nil
}

func (s *service) ListByProduct(ctx context.Context, productID string) ([]Review, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return []Review{}, nil
	}
	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return markEditable(ctx, reviews), nil
}

// authored loads a review the caller may change: its author or an admin.
func (s *service) authored(ctx context.Context, id string) (*Review, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrReviewNotFound
	}
	rv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !utils.IsSelfOrAdmin(ctx, rv.AuthorEmail) {
		return nil, ErrForbidden
	}
	return rv, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*Review, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	rv, err := s.authored(ctx, id)
	if err != nil {
		return nil, err
	}

	rv.Body = input.Body
	if input.Rating != nil {
		rv.Rating = *input.Rating
	}
	if err := s.repo.Update(ctx, rv); err != nil {
		return nil, err
	}

	rv.CanEdit = true
	logger.FromCtx(ctx).Info("review updated", zap.String("review_id", id))
	return rv, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.authored(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("review deleted",
		zap.String("review_id", id),
		zap.String("by", utils.GetUserEmailFromContext(ctx)),
	)
	return nil
}

// markEditable sets CanEdit for the reviews the viewer wrote. Admins may moderate any review
// but the flag only marks authorship.
func markEditable(ctx context.Context, reviews []Review) []Review {
	viewer := utils.GetUserEmailFromContext(ctx)
	for i := range reviews {
		reviews[i].CanEdit = viewer != "" && reviews[i].AuthorEmail == viewer
	}
	return reviews
}
