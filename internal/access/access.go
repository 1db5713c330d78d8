package access

import (
	"net/http"
	"strings"

	"quickcart-be/internal/user"
)

// Audience is who may reach a route.
type Audience int

const (
	// Authenticated admits any signed-in role.
	Authenticated Audience = iota
	Public
	Roles
)

// Rule grants a path prefix to an audience. An empty Method matches every method.
// A Prefix ending in "/" matches anything below it; otherwise the path must equal
// the prefix or continue with "/".
type Rule struct {
	Method   string
	Prefix   string
	Audience Audience
	Roles    []user.Role
}

type Decision int

const (
	Allow Decision = iota
	DenyUnauthenticated
	DenyForbidden
)

var (
	admins      = []user.Role{user.RoleAdmin}
	sellers     = []user.Role{user.RoleSeller}
	sellerStaff = []user.Role{user.RoleSeller, user.RoleAdmin}
)

// APIRules guards the REST surface. Routes without a rule need a session.
var APIRules = []Rule{
	{Method: http.MethodGet, Prefix: "/products", Audience: Public},
	{Method: http.MethodGet, Prefix: "/product/", Audience: Public},
	{Method: http.MethodGet, Prefix: "/categories", Audience: Public},
	{Method: http.MethodGet, Prefix: "/reviews", Audience: Public},
	{Prefix: "/auth/", Audience: Public},
	{Prefix: "/jwt", Audience: Public},
	{Prefix: "/logout", Audience: Public},
	{Method: http.MethodPost, Prefix: "/users/", Audience: Public},
	{Prefix: "/health", Audience: Public},
	{Prefix: "/metrics", Audience: Public},
	{Method: http.MethodGet, Prefix: "/dashboard/route", Audience: Public},

	{Prefix: "/all-users", Audience: Roles, Roles: admins},
	{Method: http.MethodPatch, Prefix: "/users/role", Audience: Roles, Roles: admins},
	{Method: http.MethodGet, Prefix: "/sellers", Audience: Roles, Roles: admins},
	{Prefix: "/seller/", Audience: Roles, Roles: admins},
	{Prefix: "/admin-stat", Audience: Roles, Roles: admins},

	{Prefix: "/products/seller", Audience: Roles, Roles: sellerStaff},
	{Method: http.MethodPost, Prefix: "/products", Audience: Roles, Roles: sellerStaff},
	{Method: http.MethodPut, Prefix: "/products", Audience: Roles, Roles: sellerStaff},
	{Method: http.MethodDelete, Prefix: "/products", Audience: Roles, Roles: sellerStaff},
	{Method: http.MethodPatch, Prefix: "/products/quantity", Audience: Roles, Roles: sellerStaff},
	{Prefix: "/seller-orders", Audience: Roles, Roles: sellerStaff},
	{Prefix: "/seller-statistics", Audience: Roles, Roles: sellerStaff},
	{Prefix: "/update-order-status", Audience: Roles, Roles: sellerStaff},
}

// ViewRules guards storefront and dashboard views.
var ViewRules = []Rule{
	{Prefix: "/", Audience: Public},
	{Prefix: "/product/", Audience: Authenticated},
	{Prefix: "/dashboard", Audience: Authenticated},

	{Prefix: "/dashboard/manageUsers", Audience: Roles, Roles: admins},
	{Prefix: "/dashboard/sellerData", Audience: Roles, Roles: admins},
	{Prefix: "/dashboard/seller/", Audience: Roles, Roles: admins},
	{Prefix: "/dashboard/statistics", Audience: Roles, Roles: admins},

	{Prefix: "/dashboard/addItem", Audience: Roles, Roles: sellers},
	{Prefix: "/dashboard/my-inventory", Audience: Roles, Roles: sellers},
	{Prefix: "/dashboard/manage-orders", Audience: Roles, Roles: sellers},
	{Prefix: "/dashboard/seller-statistics", Audience: Roles, Roles: sellers},

	{Prefix: "/dashboard/myOrders", Audience: Authenticated},
	{Prefix: "/dashboard/becomeSeller", Audience: Authenticated},
	{Prefix: "/dashboard/profile", Audience: Authenticated},
}

const (
	DashboardHome = "/dashboard"
	LoginPath     = "/login"
)

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	if strings.HasSuffix(r.Prefix, "/") {
		return strings.HasPrefix(path, r.Prefix)
	}
	return path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/")
}

// Match returns the most specific rule for the request: the longest prefix wins,
// and on equal length a method-bound rule beats an any-method one.
func Match(rules []Rule, method, path string) (Rule, bool) {
	var (
		best  Rule
		found bool
	)
	for _, r := range rules {
		if !r.matches(method, path) {
			continue
		}
		if !found || moreSpecific(r, best) {
			best, found = r, true
		}
	}
	return best, found
}

func moreSpecific(a, b Rule) bool {
	if len(a.Prefix) != len(b.Prefix) {
		return len(a.Prefix) > len(b.Prefix)
	}
	return a.Method != "" && b.Method == ""
}

func decide(rule Rule, found bool, role user.Role) Decision {
	if found && rule.Audience == Public {
		return Allow
	}
	if role == "" {
		return DenyUnauthenticated
	}
	if !found || rule.Audience == Authenticated {
		return Allow
	}
	for _, r := range rule.Roles {
		if r == role {
			return Allow
		}
	}
	return DenyForbidden
}

// CheckAPI decides a REST request. An empty role means no session.
func CheckAPI(method, path string, role user.Role) Decision {
	rule, found := Match(APIRules, method, path)
	return decide(rule, found, role)
}

// ViewResult tells the client whether to render a view or where to go instead.
type ViewResult struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

func ResolveView(path string, role user.Role) ViewResult {
	rule, found := Match(ViewRules, http.MethodGet, path)
	switch decide(rule, found, role) {
	case Allow:
		return ViewResult{Allowed: true}
	case DenyUnauthenticated:
		return ViewResult{Redirect: LoginPath}
	default:
		return ViewResult{Redirect: DashboardHome}
	}
}

// LandingPath is the default dashboard view for a role.
func LandingPath(role user.Role) string {
	switch role {
	case user.RoleAdmin:
		return "/dashboard/statistics"
	case user.RoleSeller:
		return "/dashboard/seller-statistics"
	default:
		return "/dashboard/myOrders"
	}
}
