package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quickcart-be/internal/auth"
	"quickcart-be/internal/imagehost"
	"quickcart-be/internal/middleware"
	"quickcart-be/internal/order"
	"quickcart-be/internal/product"
	"quickcart-be/internal/review"
	"quickcart-be/internal/user"
	"quickcart-be/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	asCustomer = &utils.SessionUser{Email: "a@example.com", Role: "customer", Name: "Alice"}
	asSeller   = &utils.SessionUser{Email: "s@example.com", Role: "seller", Name: "Sam"}
)

func newTestHandler(t *testing.T, d Deps) *Handler {
	t.Helper()
	if d.Tokens == nil {
		tokens, err := auth.NewManager("test-secret", time.Hour)
		require.NoError(t, err)
		d.Tokens = tokens
	}
	return NewHandler(d)
}

// serve runs req through the access guard and router as who (nil for anonymous).
func serve(h *Handler, req *http.Request, who *utils.SessionUser) *httptest.ResponseRecorder {
	if who != nil {
		req = req.WithContext(utils.SetUserContext(req.Context(), *who))
	}
	w := httptest.NewRecorder()
	middleware.Guard(h.Routes(nil)).ServeHTTP(w, req)
	return w
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{order.ErrPhoneRequired, http.StatusBadRequest},
		{fmt.Errorf("place: %w", order.ErrInsufficientStock), http.StatusConflict},
		{product.ErrInsufficientStock, http.StatusConflict},
		{order.ErrInvalidTransition, http.StatusConflict},
		{review.ErrForbidden, http.StatusForbidden},
		{user.ErrEmailNotVerified, http.StatusForbidden},
		{user.ErrInvalidCredentials, http.StatusUnauthorized},
		{order.ErrOrderNotFound, http.StatusNotFound},
		{imagehost.ErrTooLarge, http.StatusRequestEntityTooLarge},
		{errors.New("pq: connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}

func TestPlaceOrder(t *testing.T) {
	body := `{"productId":"p-1","quantity":2,"customerPhone":"017","address":"Dhaka","transactionId":"TX1","paymentMethod":"bkash"}`

	t.Run("Created", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})

		orders.On("Place", mock.Anything, mock.MatchedBy(func(in order.PlaceInput) bool {
			return in.ProductID == "p-1" && in.Quantity == 2
		})).Return(&order.Placement{
			Order: &order.Order{
				ID:         "o-1",
				UnitPrice:  decimal.NewFromInt(800),
				TotalPrice: decimal.NewFromInt(1650),
				Status:     order.StatusPending,
			},
			PaymentInstructions: []string{"pay"},
		}, nil)

		w := serve(h, jsonRequest(http.MethodPost, "/orders", body), asCustomer)

		require.Equal(t, http.StatusCreated, w.Code)
		out := decodeBody(t, w)
		placed := out["order"].(map[string]any)
		assert.Equal(t, "o-1", placed["_id"])
		assert.Equal(t, float64(1650), placed["totalPrice"])
		assert.Equal(t, "pending", placed["status"])
		assert.Len(t, out["paymentInstructions"], 1)
	})

	t.Run("OutOfStock", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})
		orders.On("Place", mock.Anything, mock.Anything).Return(nil, order.ErrInsufficientStock)

		w := serve(h, jsonRequest(http.MethodPost, "/orders", body), asCustomer)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "insufficient stock", decodeBody(t, w)["error"])
	})

	t.Run("Anonymous", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})

		w := serve(h, jsonRequest(http.MethodPost, "/orders", body), nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "unauthorized access", decodeBody(t, w)["error"])
		orders.AssertNotCalled(t, "Place", mock.Anything, mock.Anything)
	})

	t.Run("BadJSON", func(t *testing.T) {
		h := newTestHandler(t, Deps{Orders: new(MockOrders)})
		w := serve(h, jsonRequest(http.MethodPost, "/orders", `{"quantity":`), asCustomer)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("InternalErrorIsHidden", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})
		orders.On("Place", mock.Anything, mock.Anything).Return(nil, errors.New("pq: deadlock detected"))

		w := serve(h, jsonRequest(http.MethodPost, "/orders", body), asCustomer)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "internal server error", decodeBody(t, w)["error"])
	})
}

func TestOrderManagement(t *testing.T) {
	t.Run("Cancel", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})
		orders.On("Cancel", mock.Anything, "o-1").Return(nil)

		w := serve(h, httptest.NewRequest(http.MethodDelete, "/orders/o-1", nil), asCustomer)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decodeBody(t, w)["deletedCount"])
	})

	t.Run("CancelNotOwner", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})
		orders.On("Cancel", mock.Anything, "o-1").Return(order.ErrForbidden)

		w := serve(h, httptest.NewRequest(http.MethodDelete, "/orders/o-1", nil), asCustomer)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("StatusBySeller", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})
		orders.On("UpdateStatus", mock.Anything, "o-1", "Approved").
			Return(&order.Order{ID: "o-1", Status: order.StatusApproved}, nil)

		w := serve(h, jsonRequest(http.MethodPatch, "/update-order-status/o-1", `{"status":"Approved"}`), asSeller)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decodeBody(t, w)["modifiedCount"])
	})

	t.Run("StatusByCustomerIsForbidden", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})

		w := serve(h, jsonRequest(http.MethodPatch, "/update-order-status/o-1", `{"status":"approved"}`), asCustomer)

		assert.Equal(t, http.StatusForbidden, w.Code)
		orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("IllegalTransition", func(t *testing.T) {
		orders := new(MockOrders)
		h := newTestHandler(t, Deps{Orders: orders})
		orders.On("UpdateStatus", mock.Anything, "o-1", "pending").Return(nil, order.ErrInvalidTransition)

		w := serve(h, jsonRequest(http.MethodPatch, "/update-order-status/o-1", `{"status":"pending"}`), asSeller)
		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestReviews(t *testing.T) {
	t.Run("PublicListCarriesCanEdit", func(t *testing.T) {
		reviews := new(MockReviews)
		h := newTestHandler(t, Deps{Reviews: reviews})
		reviews.On("ListByProduct", mock.Anything, "p-1").
			Return([]review.Review{{ID: "r-1", CanEdit: true}, {ID: "r-2"}}, nil)

		w := serve(h, httptest.NewRequest(http.MethodGet, "/reviews/product/p-1", nil), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var out []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		assert.Equal(t, true, out[0]["canEdit"])
		assert.Equal(t, false, out[1]["canEdit"])
	})

	t.Run("EditByOtherUser", func(t *testing.T) {
		reviews := new(MockReviews)
		h := newTestHandler(t, Deps{Reviews: reviews})
		reviews.On("Update", mock.Anything, "r-1", review.UpdateInput{Body: "mine"}).Return(nil, review.ErrForbidden)

		w := serve(h, jsonRequest(http.MethodPut, "/reviews/r-1", `{"review":"mine"}`), asCustomer)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("CreateNeedsSession", func(t *testing.T) {
		h := newTestHandler(t, Deps{Reviews: new(MockReviews)})
		w := serve(h, jsonRequest(http.MethodPost, "/reviews", `{"review":"x","rating":5}`), nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLogin(t *testing.T) {
	t.Run("SetsCookie", func(t *testing.T) {
		users := new(MockUsers)
		h := newTestHandler(t, Deps{Users: users})
		users.On("Login", mock.Anything, "a@example.com", "secret1").
			Return(&user.User{Email: "a@example.com", Role: user.RoleCustomer, EmailVerified: true}, nil)

		w := serve(h, jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"secret1"}`), nil)

		require.Equal(t, http.StatusOK, w.Code)
		c := sessionCookie(w)
		require.NotNil(t, c)
		assert.True(t, c.HttpOnly)
		assert.NotEmpty(t, c.Value)

		claims, err := h.Tokens.(*auth.Manager).Parse(c.Value)
		require.NoError(t, err)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		users := new(MockUsers)
		h := newTestHandler(t, Deps{Users: users})
		users.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, user.ErrInvalidCredentials)

		w := serve(h, jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"nope"}`), nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid email or password", decodeBody(t, w)["error"])
		assert.Nil(t, sessionCookie(w))
	})

	t.Run("Unverified", func(t *testing.T) {
		users := new(MockUsers)
		h := newTestHandler(t, Deps{Users: users})
		users.On("Login", mock.Anything, mock.Anything, mock.Anything).Return(nil, user.ErrEmailNotVerified)

		w := serve(h, jsonRequest(http.MethodPost, "/auth/login", `{"email":"a@example.com","password":"secret1"}`), nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestMintSessionAndLogout(t *testing.T) {
	t.Run("DisabledByDefault", func(t *testing.T) {
		h := newTestHandler(t, Deps{Users: new(MockUsers)})
		w := serve(h, jsonRequest(http.MethodPost, "/jwt", `{"email":"a@example.com"}`), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("TrustedRelay", func(t *testing.T) {
		users := new(MockUsers)
		h := newTestHandler(t, Deps{Users: users, TrustClientIdentity: true})
		users.On("GetByEmail", mock.Anything, "a@example.com").
			Return(&user.User{Email: "a@example.com", Role: user.RoleSeller}, nil)

		w := serve(h, jsonRequest(http.MethodPost, "/jwt", `{"email":"a@example.com"}`), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decodeBody(t, w)["success"])
		assert.NotNil(t, sessionCookie(w))
	})

	t.Run("Logout", func(t *testing.T) {
		h := newTestHandler(t, Deps{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/logout", nil), asCustomer)

		assert.Equal(t, http.StatusOK, w.Code)
		c := sessionCookie(w)
		require.NotNil(t, c)
		assert.Less(t, c.MaxAge, 0)
		assert.Empty(t, c.Value)
	})
}

func TestEnsureUser(t *testing.T) {
	users := new(MockUsers)
	h := newTestHandler(t, Deps{Users: users})
	users.On("EnsureUser", mock.Anything, user.ProfileInput{Name: "Alice", Email: "a@example.com"}).
		Return(&user.User{Email: "a@example.com", Role: user.RoleCustomer}, true, nil)

	w := serve(h, jsonRequest(http.MethodPost, "/users/a@example.com", `{"name":"Alice","email":"a@example.com"}`), nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(h, jsonRequest(http.MethodPost, "/users/a@example.com", `{"name":"Eve","email":"e@example.com"}`), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDashboardViews(t *testing.T) {
	h := newTestHandler(t, Deps{})

	tests := []struct {
		name     string
		path     string
		who      *utils.SessionUser
		allowed  bool
		redirect string
	}{
		{"customer on admin view", "/dashboard/manageUsers", asCustomer, false, "/dashboard"},
		{"customer on own orders", "/dashboard/myOrders", asCustomer, true, ""},
		{"seller on inventory", "/dashboard/my-inventory", asSeller, true, ""},
		{"anonymous on dashboard", "/dashboard/profile", nil, false, "/login"},
		{"anonymous on home", "/", nil, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(h, httptest.NewRequest(http.MethodGet, "/dashboard/route?path="+tt.path, nil), tt.who)

			require.Equal(t, http.StatusOK, w.Code)
			out := decodeBody(t, w)
			assert.Equal(t, tt.allowed, out["allowed"])
			if tt.redirect != "" {
				assert.Equal(t, tt.redirect, out["redirect"])
			}
		})
	}

	w := serve(h, httptest.NewRequest(http.MethodGet, "/dashboard/landing", nil), asSeller)
	assert.Equal(t, "/dashboard/seller-statistics", decodeBody(t, w)["path"])
}

func TestListProducts(t *testing.T) {
	products := new(MockProducts)
	h := newTestHandler(t, Deps{Products: products})

	products.On("List", mock.Anything, mock.MatchedBy(func(f product.ListFilter) bool {
		return f.Search == "shirt" && f.Sort == product.SortPriceAsc && f.Page == 2 && f.Limit == 10 &&
			f.MinPrice != nil && f.MinPrice.Equal(decimal.NewFromInt(100)) && f.MaxPrice == nil && f.InStock
	})).Return(&product.Page{Products: []product.Product{}, Total: 0, Page: 2, Limit: 10}, nil)

	w := serve(h, httptest.NewRequest(http.MethodGet,
		"/products?search=shirt&sort=price_asc&page=2&limit=10&minPrice=100&maxPrice=abc&inStock=true", nil), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	products.AssertExpectations(t)
}

type fakeUploader struct {
	got []byte
	url string
	err error
}

func (f *fakeUploader) Upload(_ context.Context, _ string, data []byte) (string, error) {
	f.got = data
	return f.url, f.err
}

func TestUploadImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("image", "a.png")
	require.NoError(t, err)
	_, _ = part.Write(png)
	require.NoError(t, form.Close())

	uploader := &fakeUploader{url: "https://ibb.co/a"}
	h := newTestHandler(t, Deps{Images: uploader})

	req := httptest.NewRequest(http.MethodPost, "/images", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	w := serve(h, req, asSeller)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "https://ibb.co/a", decodeBody(t, w)["url"])
	assert.Equal(t, png, uploader.got)

	w = serve(h, httptest.NewRequest(http.MethodPost, "/images", strings.NewReader("x")), asSeller)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestHealth(t *testing.T) {
	w := serve(newTestHandler(t, Deps{DB: fakePinger{}}), httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(newTestHandler(t, Deps{DB: fakePinger{err: errors.New("down")}}), httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
