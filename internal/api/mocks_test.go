package api

import (
	"context"

	"quickcart-be/internal/order"
	"quickcart-be/internal/product"
	"quickcart-be/internal/review"
	"quickcart-be/internal/user"

	"github.com/stretchr/testify/mock"
)

type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) userResult(args mock.Arguments) (*user.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUsers) Register(ctx context.Context, input user.SignupInput) (*user.User, error) {
	return m.userResult(m.Called(ctx, input))
}

func (m *MockUsers) VerifyEmail(ctx context.Context, email, token string) error {
	return m.Called(ctx, email, token).Error(0)
}

func (m *MockUsers) Login(ctx context.Context, email, password string) (*user.User, error) {
	return m.userResult(m.Called(ctx, email, password))
}

func (m *MockUsers) SignInWithProvider(ctx context.Context, id user.ProviderIdentity) (*user.User, error) {
	return m.userResult(m.Called(ctx, id))
}

func (m *MockUsers) EnsureUser(ctx context.Context, input user.ProfileInput) (*user.User, bool, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*user.User), args.Bool(1), args.Error(2)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return m.userResult(m.Called(ctx, email))
}

func (m *MockUsers) GetRole(ctx context.Context, email string) (user.Role, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.Role), args.Error(1)
}

func (m *MockUsers) ListUsers(ctx context.Context, excludeEmail string) ([]user.User, error) {
	args := m.Called(ctx, excludeEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUsers) UpdateRole(ctx context.Context, email, role string) error {
	return m.Called(ctx, email, role).Error(0)
}

func (m *MockUsers) RequestSeller(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockUsers) UpdateProfile(ctx context.Context, name, photoURL string) (*user.User, error) {
	return m.userResult(m.Called(ctx, name, photoURL))
}

type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) Place(ctx context.Context, input order.PlaceInput) (*order.Placement, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Placement), args.Error(1)
}

func (m *MockOrders) Cancel(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockOrders) UpdateStatus(ctx context.Context, id, status string) (*order.Order, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrders) ListForCustomer(ctx context.Context, email string) ([]order.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrders) ListForSeller(ctx context.Context, email string) ([]order.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

type MockReviews struct {
	mock.Mock
}

func (m *MockReviews) Create(ctx context.Context, input review.CreateInput) (*review.Review, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviews) Latest(ctx context.Context) ([]review.Review, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviews) ListByProduct(ctx context.Context, productID string) ([]review.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviews) Update(ctx context.Context, id string, input review.UpdateInput) (*review.Review, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviews) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockProducts struct {
	mock.Mock
}

func (m *MockProducts) List(ctx context.Context, filter product.ListFilter) (*product.Page, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Page), args.Error(1)
}

func (m *MockProducts) Get(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProducts) ListMine(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProducts) Create(ctx context.Context, input product.Input) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProducts) Update(ctx context.Context, id string, input product.Input) (*product.Product, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProducts) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProducts) AdjustStock(ctx context.Context, id string, change product.StockChange) (int, error) {
	args := m.Called(ctx, id, change)
	return args.Int(0), args.Error(1)
}
