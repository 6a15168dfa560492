package policy

import (
	"testing"

	"bizdesk/internal/model"
)

func TestIsRouteAllowed(t *testing.T) {
	tests := []struct {
		name string
		role string
		path string
		want bool
	}{
		{"admin root", model.RoleAdmin, "/", true},
		{"admin users", model.RoleAdmin, "/users", true},
		{"admin deep path", model.RoleAdmin, "/accounts/trial-balance", true},
		{"admin unknown path", model.RoleAdmin, "/definitely/not/listed", true},
		{"sales root", model.RoleSales, "/", true},
		{"sales prefix match", model.RoleSales, "/inventory/adjust", true},
		{"sales products", model.RoleSales, "/products/12", true},
		{"sales denied users", model.RoleSales, "/users", false},
		{"sales denied bills", model.RoleSales, "/bills", false},
		{"sales no partial-segment match", model.RoleSales, "/inventoryx", false},
		{"accounts ledger", model.RoleAccounts, "/accounts/ledger", true},
		{"accounts orders", model.RoleAccounts, "/orders/new", true},
		{"accounts denied settings", model.RoleAccounts, "/settings", false},
		{"purchase orders", model.RolePurchase, "/orders", true},
		{"purchase denied payments", model.RolePurchase, "/payments", false},
		{"unknown role denied root", "auditor", "/", false},
		{"unknown role denied orders", "auditor", "/orders", false},
		{"empty role denied", "", "/orders", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRouteAllowed(tt.role, tt.path); got != tt.want {
				t.Errorf("IsRouteAllowed(%q, %q) = %v, want %v", tt.role, tt.path, got, tt.want)
			}
		})
	}
}

func TestLandingPath(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{model.RoleAdmin, "/"},
		{model.RoleSales, "/sales"},
		{model.RoleAccounts, "/accounts/ledger"},
		{model.RolePurchase, "/orders"},
		{"unknown-role", "/"},
		{"", "/"},
	}

	for _, tt := range tests {
		if got := LandingPath(tt.role); got != tt.want {
			t.Errorf("LandingPath(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestAllowedRoutes(t *testing.T) {
	if routes := AllowedRoutes("auditor"); len(routes) != 0 {
		t.Errorf("expected empty set for unknown role, got %v", routes)
	}

	routes := AllowedRoutes(model.RoleSales)
	if len(routes) == 0 {
		t.Fatal("expected non-empty set for sales")
	}

	// Mutating the returned slice must not leak into the table.
	routes[0] = "/hacked"
	if IsRouteAllowed(model.RoleSales, "/hacked/x") {
		t.Error("permission table was mutated through AllowedRoutes result")
	}
}
