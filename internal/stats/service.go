package stats

import (
	"context"
	"time"

	"quickcart-be/internal/utils"

	"github.com/shopspring/decimal"
)

// ShopZone is the shop's local time (Asia/Dhaka, no DST). "Today" starts at midnight here.
var ShopZone = time.FixedZone("BDT", 6*60*60)

type Service interface {
	Admin(ctx context.Context) (*AdminStats, error)
	Seller(ctx context.Context) (*SellerStats, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func startOfDay(t time.Time) time.Time {
	t = t.In(ShopZone)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, ShopZone)
}

func (s *service) Admin(ctx context.Context) (*AdminStats, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}
	today, err := s.repo.OrdersSince(ctx, startOfDay(s.now()))
	if err != nil {
		return nil, err
	}
	return &AdminStats{TotalUsers: users, TotalProducts: products, TodayOrders: today}, nil
}

// Seller summarizes the caller's own sales.
func (s *service) Seller(ctx context.Context) (*SellerStats, error) {
	email := utils.GetUserEmailFromContext(ctx)
	if email == "" {
		return nil, ErrUnauthorized
	}

	orders, err := s.repo.SellerOrders(ctx, email)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.Price)
	}
	return &SellerStats{
		TotalOrders: int64(len(orders)),
		TotalPrice:  total.Round(2),
		Orders:      orders,
	}, nil
}
