package api

import (
	"context"
	"net/http"
	"time"

	"quickcart-be/internal/category"
	"quickcart-be/internal/identity"
	"quickcart-be/internal/order"
	"quickcart-be/internal/product"
	"quickcart-be/internal/review"
	"quickcart-be/internal/seller"
	"quickcart-be/internal/stats"
	"quickcart-be/internal/user"
)

// TokenIssuer mints session tokens.
type TokenIssuer interface {
	Issue(email, role string) (string, error)
	TTL() time.Duration
}

// IdentityVerifier checks an ID token from the external sign-in provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*identity.Identity, error)
}

// ImageUploader stores an image and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// Pinger reports database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps are the services the REST surface is built on.
type Deps struct {
	Users      user.Service
	Products   product.Service
	Categories category.Service
	Orders     order.Service
	Reviews    review.Service
	Sellers    seller.Service
	Stats      stats.Service

	Tokens   TokenIssuer
	Identity IdentityVerifier
	Images   ImageUploader
	DB       Pinger

	Production          bool
	TrustClientIdentity bool
}

type Handler struct {
	Deps
}

func NewHandler(d Deps) *Handler {
	return &Handler{Deps: d}
}

// Routes registers every endpoint. wrap decorates each handler, e.g. with span route tagging.
func (h *Handler) Routes(wrap func(http.Handler) http.Handler) *http.ServeMux {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}

	mux := http.NewServeMux()
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, wrap(fn))
	}

	// Session
	handle("POST /auth/signup", h.Signup)
	handle("POST /auth/verify", h.VerifyEmail)
	handle("POST /auth/login", h.Login)
	handle("POST /auth/firebase", h.FirebaseSignIn)
	handle("POST /jwt", h.MintSession)
	handle("GET /logout", h.Logout)
	handle("POST /logout", h.Logout)

	// Users
	handle("POST /users/{email}", h.EnsureUser)
	handle("PATCH /users/{email}", h.RequestSeller)
	handle("PATCH /users/profile", h.UpdateProfile)
	handle("GET /users/role/{email}", h.GetRole)
	handle("PATCH /users/role/{email}", h.UpdateRole)
	handle("GET /all-users/{email}", h.ListUsers)

	// Sellers
	handle("POST /sellers/{email}", h.ApplySeller)
	handle("GET /sellers", h.ListSellers)
	handle("GET /seller/{id}", h.GetSeller)
	handle("DELETE /seller/{id}", h.DeleteSeller)

	// Catalog and inventory
	handle("GET /products", h.ListProducts)
	handle("GET /product/{id}", h.GetProduct)
	handle("GET /products/seller", h.ListMyProducts)
	handle("POST /products", h.CreateProduct)
	handle("PUT /products/{id}", h.UpdateProduct)
	handle("DELETE /products/{id}", h.DeleteProduct)
	handle("PATCH /products/quantity/{id}", h.AdjustStock)
	handle("GET /categories", h.ListCategories)
	handle("POST /images", h.UploadImage)

	// Orders
	handle("POST /orders", h.PlaceOrder)
	handle("DELETE /orders/{id}", h.CancelOrder)
	handle("GET /customer-orders/{email}", h.CustomerOrders)
	handle("GET /seller-orders/{email}", h.SellerOrders)
	handle("PATCH /update-order-status/{id}", h.UpdateOrderStatus)

	// Reviews
	handle("GET /reviews", h.LatestReviews)
	handle("GET /reviews/product/{id}", h.ProductReviews)
	handle("POST /reviews", h.CreateReview)
	handle("PUT /reviews/{id}", h.UpdateReview)
	handle("DELETE /reviews/{id}", h.DeleteReview)

	// Dashboards
	handle("GET /admin-stat", h.AdminStats)
	handle("GET /seller-statistics", h.SellerStats)
	handle("GET /dashboard/route", h.ResolveView)
	handle("GET /dashboard/landing", h.Landing)

	handle("GET /health", h.Health)

	return mux
}
