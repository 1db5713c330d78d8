package order

import (
	"context"
	"errors"
	"time"

	"quickcart-be/internal/logger"
	"quickcart-be/internal/messaging"
	"quickcart-be/internal/metrics"
	"quickcart-be/internal/payment"
	"quickcart-be/internal/pricing"
	"quickcart-be/internal/product"
	"quickcart-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// placeAttempts bounds retries when a generated order number is already taken.
const placeAttempts = 3

// ProductReader loads the product an order is placed for.
type ProductReader interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

type Service interface {
	Place(ctx context.Context, input PlaceInput) (*Placement, error)
	Cancel(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id, status string) (*Order, error)
	ListForCustomer(ctx context.Context, email string) ([]Order, error)
	ListForSeller(ctx context.Context, email string) ([]Order, error)
}

type service struct {
	repo     Repository
	products ProductReader
	events   Publisher
	metrics  *metrics.Recorder
}

// NewService wires the order flow. events and rec may be nil.
func NewService(repo Repository, products ProductReader, events Publisher, rec *metrics.Recorder) Service {
	return &service{repo: repo, products: products, events: events, metrics: rec}
}

func (s *service) Place(ctx context.Context, input PlaceInput) (*Placement, error) {
	timer := metrics.StartTimer()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Place"),
		zap.String("product_id", input.ProductID),
	)

	customer, ok := utils.GetSessionUser(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	input.normalize()
	if input.CustomerPhone == "" {
		return nil, ErrPhoneRequired
	}
	if input.Address == "" {
		return nil, ErrAddressRequired
	}

	if _, err := uuid.Parse(input.ProductID); err != nil {
		return nil, product.ErrProductNotFound
	}
	p, err := s.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	method, err := payment.ParseMethod(input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if p.DeliveryPrice.IsPositive() {
		if input.TransactionID == "" {
			return nil, ErrTransactionRequired
		}
		if !method.IsWallet() {
			return nil, ErrPaymentRequired
		}
	}

	size := NoSize
	if input.Size != "" {
		if !p.HasSize(input.Size) {
			return nil, ErrInvalidSize
		}
		size = input.Size
	}

	if input.Quantity < 1 {
		return nil, pricing.ErrInvalidQuantity
	}
	if input.Quantity > p.Quantity {
		return nil, ErrInsufficientStock
	}

	unit := p.UnitPrice()
	total, err := pricing.OrderTotal(unit, input.Quantity, p.Quantity, p.DeliveryPrice)
	if err != nil {
		return nil, err
	}

	o := &Order{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		CustomerPhoto: customer.PhotoURL,
		ProductID:     p.ID,
		ProductName:   p.Name,
		ProductImage:  p.Image,
		UnitPrice:     unit,
		Quantity:      input.Quantity,
		DeliveryPrice: p.DeliveryPrice,
		TotalPrice:    total,
		Status:        StatusPending,
		Address:       input.Address,
		CustomerPhone: input.CustomerPhone,
		TransactionID: input.TransactionID,
		PaymentMethod: string(method),
		Size:          size,
		SellerEmail:   p.SellerEmail,
	}

	for attempt := 1; ; attempt++ {
		o.OrderNumber = utils.GenerateOrderNumber()
		err = s.repo.Place(ctx, o)
		if !errors.Is(err, ErrOrderNumberTaken) || attempt == placeAttempts {
			break
		}
		log.Warn("order number collision, retrying", zap.String("order_number", o.OrderNumber))
	}
	if err != nil {
		log.Error("failed to place order", zap.Error(err))
		return nil, err
	}

	s.metrics.OrderPlaced(ctx, o.Quantity, timer.Duration())
	s.publish(ctx, PlacedEvent{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		ProductID:     o.ProductID,
		Quantity:      o.Quantity,
		TotalPrice:    o.TotalPrice.StringFixed(2),
		CustomerEmail: o.CustomerEmail,
		SellerEmail:   o.SellerEmail,
		Timestamp:     o.CreatedAt,
	})

	log.Info("order placed",
		zap.String("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.String("total", o.TotalPrice.StringFixed(2)),
	)

	return &Placement{
		Order: o,
		PaymentInstructions: payment.BuildInstructions(payment.Details{
			Method:        method,
			Total:         o.TotalPrice,
			Delivery:      o.DeliveryPrice,
			Wallet:        p.WalletNumber(string(method)),
			TransactionID: o.TransactionID,
			Address:       o.Address,
		}),
	}, nil
}

func (s *service) Cancel(ctx context.Context, id string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Cancel"),
		zap.String("order_id", id),
	)

	if _, err := uuid.Parse(id); err != nil {
		return ErrOrderNotFound
	}

	caller := utils.GetUserEmailFromContext(ctx)
	change, err := s.repo.Cancel(ctx, id, func(o *Order) error {
		if !utils.IsSelfOrAdmin(ctx, o.CustomerEmail) {
			return ErrForbidden
		}
		if !o.Status.CustomerCancelable() {
			return ErrNotCancelable
		}
		return nil
	})
	if err != nil {
		log.Info("cancel rejected", zap.Error(err))
		return err
	}

	s.metrics.OrderCanceled(ctx, change.Restored)
	s.publish(ctx, CanceledEvent{
		OrderID:       id,
		ProductID:     change.Order.ProductID,
		RestoredStock: change.Restored,
		CanceledBy:    caller,
		Timestamp:     time.Now().UTC(),
	})

	log.Info("order canceled", zap.Int("restored", change.Restored))
	return nil
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "UpdateStatus"),
		zap.String("order_id", id),
	)

	next, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrOrderNotFound
	}

	change, err := s.repo.UpdateStatus(ctx, id, next, func(o *Order) error {
		if !utils.IsSelfOrAdmin(ctx, o.SellerEmail) {
			return ErrForbidden
		}
		return nil
	})
	if err != nil {
		log.Info("status change rejected", zap.String("to", string(next)), zap.Error(err))
		return nil, err
	}

	if change.From == next {
		return change.Order, nil
	}

	s.metrics.StatusChanged(ctx, string(change.From), string(next))
	if change.Restored > 0 {
		s.metrics.OrderCanceled(ctx, change.Restored)
	}
	s.publish(ctx, StatusChangedEvent{
		OrderID:       id,
		From:          change.From,
		To:            next,
		RestoredStock: change.Restored,
		ChangedBy:     utils.GetUserEmailFromContext(ctx),
		Timestamp:     change.Order.UpdatedAt,
	})

	log.Info("order status changed",
		zap.String("from", string(change.From)),
		zap.String("to", string(next)),
	)
	return change.Order, nil
}

func (s *service) ListForCustomer(ctx context.Context, email string) ([]Order, error) {
	if !utils.IsSelfOrAdmin(ctx, email) {
		return nil, ErrForbidden
	}
	return s.repo.ListByCustomer(ctx, email)
}

func (s *service) ListForSeller(ctx context.Context, email string) ([]Order, error) {
	if !utils.IsSelfOrAdmin(ctx, email) {
		return nil, ErrForbidden
	}
	return s.repo.ListBySeller(ctx, email)
}

// publish is best effort: the order is already committed.
func (s *service) publish(ctx context.Context, event messaging.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.FromCtx(ctx).Warn("order event dropped",
			zap.String("event", event.EventType()),
			zap.Error(err),
		)
	}
}
