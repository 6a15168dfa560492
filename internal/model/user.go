package model

// Role enum constants. Admin implies universal access.
const (
	RoleAdmin    = "admin"
	RoleSales    = "sales"
	RoleAccounts = "accounts"
	RolePurchase = "purchase"
)

// ValidRole reports whether role is one of the four business roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSales, RoleAccounts, RolePurchase:
		return true
	}
	return false
}

// UserStatus enum constants
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// Identity is the authenticated principal attached to each request.
// Role is fixed at login and never changes for the lifetime of a session.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
}

// StoreUser mirrors a row of the users collection in the data store.
// Password is write-only at this layer; API responses map to a DTO that
// never carries it.
type StoreUser struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Username  string `json:"username,omitempty"`
	Email     string `json:"email,omitempty"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
