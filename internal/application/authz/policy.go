// Package authz maps every protected action to the roles allowed to perform it.
package authz

import (
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
)

// Action names a protected operation.
type Action string

const (
	ViewProfile    Action = "profile:view"
	UpdateProfile  Action = "profile:update"
	ChangePassword Action = "profile:password"

	ViewAdminDashboard Action = "admin:dashboard"
	ListUsers          Action = "users:list"
	CreateUser         Action = "users:create"
	UpdateUserRole     Action = "users:role"
	DeleteUser         Action = "users:delete"

	ViewOwnerProfile   Action = "owner:profile"
	UpdateOwnerProfile Action = "owner:profile:update"
	CreateOwnStore     Action = "owner:store:create"
	UpdateOwnStore     Action = "owner:store:update"
	ViewOwnerDashboard Action = "owner:dashboard"
	ViewStoreRatings   Action = "owner:ratings"

	CreateStore Action = "store:create"
	UpdateStore Action = "store:update"
	DeleteStore Action = "store:delete"

	SubmitRating    Action = "rating:submit"
	UpdateRating    Action = "rating:update"
	ViewOwnRatings  Action = "rating:mine"
	ViewStoreRating Action = "rating:mine:store"
)

type rule struct {
	roles  []entity.Role
	denied string
}

var (
	anyRole   = []entity.Role{entity.RoleSystemAdmin, entity.RoleNormalUser, entity.RoleStoreOwner}
	adminOnly = []entity.Role{entity.RoleSystemAdmin}
	ownerOnly = []entity.Role{entity.RoleStoreOwner}
	raterOnly = []entity.Role{entity.RoleNormalUser}
)

const (
	adminDenied = "Access denied. System administrator role required."
	ownerDenied = "Access denied. Store owner role required."
	raterDenied = "Only normal users can rate stores"
)

var policy = map[Action]rule{
	ViewProfile:    {anyRole, ""},
	UpdateProfile:  {anyRole, ""},
	ChangePassword: {anyRole, ""},

	ViewAdminDashboard: {adminOnly, adminDenied},
	ListUsers:          {adminOnly, adminDenied},
	CreateUser:         {adminOnly, adminDenied},
	UpdateUserRole:     {adminOnly, adminDenied},
	DeleteUser:         {adminOnly, adminDenied},

	ViewOwnerProfile:   {ownerOnly, ownerDenied},
	UpdateOwnerProfile: {ownerOnly, ownerDenied},
	CreateOwnStore:     {ownerOnly, ownerDenied},
	UpdateOwnStore:     {ownerOnly, ownerDenied},
	ViewOwnerDashboard: {ownerOnly, ownerDenied},
	ViewStoreRatings:   {ownerOnly, ownerDenied},

	CreateStore: {adminOnly, "Only system administrators can create stores"},
	UpdateStore: {adminOnly, "Only system administrators can update stores"},
	DeleteStore: {adminOnly, "Only system administrators can delete stores"},

	SubmitRating:    {raterOnly, raterDenied},
	UpdateRating:    {raterOnly, "Only normal users can update ratings"},
	ViewOwnRatings:  {raterOnly, raterDenied},
	ViewStoreRating: {raterOnly, raterDenied},
}

// Allowed reports whether role may perform action. Unknown actions are denied.
func Allowed(role entity.Role, action Action) bool {
	r, ok := policy[action]
	if !ok {
		return false
	}
	for _, allowed := range r.roles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Authorize returns a forbidden error when role may not perform action.
func Authorize(role entity.Role, action Action) error {
	if Allowed(role, action) {
		return nil
	}
	msg := "Access denied"
	if r, ok := policy[action]; ok && r.denied != "" {
		msg = r.denied
	}
	return domain.Forbiddenf("%s", msg)
}
