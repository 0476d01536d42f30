package entity

import "time"

// Role determines which endpoints a resolved identity may invoke.
type Role string

// Valid roles for User.
const (
	RoleSystemAdmin Role = "SYSTEM_ADMIN"
	RoleNormalUser  Role = "NORMAL_USER"
	RoleStoreOwner  Role = "STORE_OWNER"
)

// Roles lists every valid role in a stable order.
var Roles = []Role{RoleSystemAdmin, RoleNormalUser, RoleStoreOwner}

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystemAdmin, RoleNormalUser, RoleStoreOwner:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// User is a platform account. A STORE_OWNER owns zero or one Store.
type User struct {
	ID           string
	Name         string
	Email        string
	Address      string
	PasswordHash string // bcrypt hash, never the plain password once persisted
	Role         Role
	RefreshToken string // empty when the user has no active session
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Store is populated by list queries that join the owned store.
	Store *StoreSummary
}

// UserSummary is the subset of a User embedded in other resources.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}
