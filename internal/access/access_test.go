package access

import (
	"net/http"
	"testing"

	"quickcart-be/internal/user"

	"github.com/stretchr/testify/assert"
)

func TestCheckAPI(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		role   user.Role
		want   Decision
	}{
		{"public product list", http.MethodGet, "/products", "", Allow},
		{"public product detail", http.MethodGet, "/product/42", "", Allow},
		{"public reviews of product", http.MethodGet, "/reviews/product/42", "", Allow},
		{"anonymous review post", http.MethodPost, "/reviews", "", DenyUnauthenticated},
		{"customer review post", http.MethodPost, "/reviews", user.RoleCustomer, Allow},
		{"signup upsert is public", http.MethodPost, "/users/a@example.com", "", Allow},
		{"profile needs session", http.MethodPatch, "/users/profile", "", DenyUnauthenticated},
		{"auth is public", http.MethodPost, "/auth/login", "", Allow},

		{"seller products for customer", http.MethodGet, "/products/seller", user.RoleCustomer, DenyForbidden},
		{"seller products for seller", http.MethodGet, "/products/seller", user.RoleSeller, Allow},
		{"create product as customer", http.MethodPost, "/products", user.RoleCustomer, DenyForbidden},
		{"create product as admin", http.MethodPost, "/products", user.RoleAdmin, Allow},
		{"edit product anonymous", http.MethodPut, "/products/1", "", DenyUnauthenticated},
		{"stock adjust as seller", http.MethodPatch, "/products/quantity/1", user.RoleSeller, Allow},

		{"all users as seller", http.MethodGet, "/all-users/a@example.com", user.RoleSeller, DenyForbidden},
		{"all users as admin", http.MethodGet, "/all-users/a@example.com", user.RoleAdmin, Allow},
		{"role read is authenticated", http.MethodGet, "/users/role/a@example.com", user.RoleCustomer, Allow},
		{"role change is admin only", http.MethodPatch, "/users/role/a@example.com", user.RoleCustomer, DenyForbidden},
		{"seller list admin only", http.MethodGet, "/sellers", user.RoleSeller, DenyForbidden},
		{"seller application by customer", http.MethodPost, "/sellers/a@example.com", user.RoleCustomer, Allow},
		{"seller detail admin only", http.MethodGet, "/seller/1", user.RoleCustomer, DenyForbidden},
		{"admin stat", http.MethodGet, "/admin-stat", user.RoleAdmin, Allow},

		{"seller orders as customer", http.MethodGet, "/seller-orders/a@example.com", user.RoleCustomer, DenyForbidden},
		{"status update as seller", http.MethodPatch, "/update-order-status/1", user.RoleSeller, Allow},
		{"place order", http.MethodPost, "/orders", user.RoleCustomer, Allow},
		{"unknown route needs session", http.MethodGet, "/whatever", "", DenyUnauthenticated},
		{"prefix does not bleed", http.MethodGet, "/productsX", "", DenyUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAPI(tt.method, tt.path, tt.role))
		})
	}
}

func TestMatch_Specificity(t *testing.T) {
	rules := []Rule{
		{Prefix: "/a", Audience: Authenticated},
		{Method: http.MethodGet, Prefix: "/a", Audience: Public},
		{Prefix: "/a/b", Audience: Roles, Roles: admins},
	}

	r, ok := Match(rules, http.MethodGet, "/a/x")
	assert.True(t, ok)
	assert.Equal(t, Public, r.Audience)

	r, _ = Match(rules, http.MethodPost, "/a/x")
	assert.Equal(t, Authenticated, r.Audience)

	r, _ = Match(rules, http.MethodGet, "/a/b/c")
	assert.Equal(t, Roles, r.Audience)

	_, ok = Match(rules, http.MethodGet, "/b")
	assert.False(t, ok)
}

func TestResolveView(t *testing.T) {
	tests := []struct {
		name string
		path string
		role user.Role
		want ViewResult
	}{
		{"home is public", "/", "", ViewResult{Allowed: true}},
		{"anonymous dashboard", "/dashboard/myOrders", "", ViewResult{Redirect: LoginPath}},
		{"customer orders", "/dashboard/myOrders", user.RoleCustomer, ViewResult{Allowed: true}},
		{"customer on admin view", "/dashboard/manageUsers", user.RoleCustomer, ViewResult{Redirect: DashboardHome}},
		{"admin on admin view", "/dashboard/manageUsers", user.RoleAdmin, ViewResult{Allowed: true}},
		{"seller detail for admin", "/dashboard/seller/17", user.RoleAdmin, ViewResult{Allowed: true}},
		{"seller detail for seller", "/dashboard/seller/17", user.RoleSeller, ViewResult{Redirect: DashboardHome}},
		{"seller statistics for seller", "/dashboard/seller-statistics", user.RoleSeller, ViewResult{Allowed: true}},
		{"seller view for admin", "/dashboard/addItem", user.RoleAdmin, ViewResult{Redirect: DashboardHome}},
		{"product detail anonymous", "/product/9", "", ViewResult{Redirect: LoginPath}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveView(tt.path, tt.role))
		})
	}
}

func TestLandingPath(t *testing.T) {
	assert.Equal(t, "/dashboard/statistics", LandingPath(user.RoleAdmin))
	assert.Equal(t, "/dashboard/seller-statistics", LandingPath(user.RoleSeller))
	assert.Equal(t, "/dashboard/myOrders", LandingPath(user.RoleCustomer))
	assert.Equal(t, "/dashboard/myOrders", LandingPath(""))
}
