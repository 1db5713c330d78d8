package product

import (
	"context"

	"quickcart-be/internal/logger"
	"quickcart-be/internal/metrics"
	"quickcart-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	List(ctx context.Context, filter ListFilter) (*Page, error)
	Get(ctx context.Context, id string) (*Product, error)
	ListMine(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, input Input) (*Product, error)
	Update(ctx context.Context, id string, input Input) (*Product, error)
	Delete(ctx context.Context, id string) error
	AdjustStock(ctx context.Context, id string, change StockChange) (int, error)
}

type service struct {
	repo    Repository
	metrics *metrics.Recorder
}

func NewService(repo Repository, rec *metrics.Recorder) Service {
	return &service{repo: repo, metrics: rec}
}

func (s *service) List(ctx context.Context, filter ListFilter) (*Page, error) {
	filter.normalize()

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &Page{Products: products, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *service) Get(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrProductNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMine(ctx context.Context) ([]Product, error) {
	email := utils.GetUserEmailFromContext(ctx)
	if email == "" {
		return nil, ErrForbidden
	}
	return s.repo.ListBySeller(ctx, email)
}

func (s *service) Create(ctx context.Context, input Input) (*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
	)

	seller, ok := utils.GetSessionUser(ctx)
	if !ok {
		return nil, ErrForbidden
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	p := &Product{SellerEmail: seller.Email, SellerName: seller.Name}
	input.apply(p)

	if err := s.repo.Create(ctx, p); err != nil {
		log.Error("failed to create product", zap.Error(err))
		return nil, err
	}

	log.Info("product created", zap.String("product_id", p.ID), zap.String("seller", seller.Email))
	return p, nil
}

// owned loads a product the caller may manage: its seller or an admin.
func (s *service) owned(ctx context.Context, id string) (*Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !utils.IsSelfOrAdmin(ctx, p.SellerEmail) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *service) Update(ctx context.Context, id string, input Input) (*Product, error) {
	p, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	input.apply(p)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	logger.FromCtx(ctx).Info("product updated", zap.String("product_id", p.ID))
	return p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromCtx(ctx).Info("product deleted",
		zap.String("product_id", id),
		zap.String("by", utils.GetUserEmailFromContext(ctx)),
	)
	return nil
}

func (s *service) AdjustStock(ctx context.Context, id string, change StockChange) (int, error) {
	delta, err := change.Delta()
	if err != nil {
		return 0, err
	}
	if _, err := s.owned(ctx, id); err != nil {
		return 0, err
	}

	quantity, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return 0, err
	}

	s.metrics.StockAdjusted(ctx, delta)
	logger.FromCtx(ctx).Info("stock adjusted",
		zap.String("product_id", id),
		zap.Int("delta", delta),
		zap.Int("quantity", quantity),
	)
	return quantity, nil
}
