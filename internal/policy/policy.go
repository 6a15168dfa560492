// Package policy is the single authority for role-based route access.
// Every authorization decision in the service routes through it; roles are
// never compared ad hoc elsewhere.
package policy

import (
	"strings"

	"bizdesk/internal/model"
)

// Wildcard grants access to every route.
const Wildcard = "*"

// routePermissions maps each role to its allowed route prefixes.
var routePermissions = map[string][]string{
	model.RoleAdmin: {Wildcard},
	model.RoleSales: {
		"/", "/sales", "/inventory", "/products", "/analytics", "/reports",
	},
	model.RoleAccounts: {
		"/", "/accounts/ledger", "/accounts/trial-balance", "/bills", "/orders",
		"/payments", "/reports", "/analytics", "/vendors",
	},
	model.RolePurchase: {
		"/", "/orders", "/vendors", "/products", "/inventory", "/bills", "/reports",
	},
}

// landingPaths maps each role to its post-login landing route.
var landingPaths = map[string]string{
	model.RoleAdmin:    "/",
	model.RoleSales:    "/sales",
	model.RoleAccounts: "/accounts/ledger",
	model.RolePurchase: "/orders",
}

// AllowedRoutes returns the route prefixes the role may access. Unknown
// roles get an empty set, which denies everything.
func AllowedRoutes(role string) []string {
	prefixes, ok := routePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(prefixes))
	copy(out, prefixes)
	return out
}

// IsRouteAllowed reports whether the role may access path. A route is
// allowed when the role holds the wildcard, or when path equals an allowed
// prefix or descends from it.
func IsRouteAllowed(role, path string) bool {
	for _, prefix := range routePermissions[role] {
		if prefix == Wildcard {
			return true
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// LandingPath returns the post-login route for the role, defaulting to "/"
// for any unrecognized role.
func LandingPath(role string) string {
	if path, ok := landingPaths[role]; ok {
		return path
	}
	return "/"
}
