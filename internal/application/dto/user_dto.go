package dto

import (
	"strings"
	"time"
)

// SignupRequest body of every sign-up endpoint.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Address  string `json:"address" validate:"max=400"`
}

func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Address = strings.TrimSpace(r.Address)
}

// CreateUserRequest admin creation of a user with an explicit role (NORMAL_USER when empty).
type CreateUserRequest struct {
	SignupRequest
	Role string `json:"role" validate:"omitempty,role"`
}

// LoginRequest credentials for every login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = NormalizeEmail(r.Email)
}

// UpdateProfileRequest partial profile update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=2,max=60"`
	Address *string `json:"address" validate:"omitempty,max=400"`
}

func (r *UpdateProfileRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Address)
}

// ChangePasswordRequest body of PUT /users/update-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// RefreshTokenRequest body fallback when the refresh cookie is absent.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateRoleRequest body of PUT /admin/users/:userId/role.
type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,role"`
}

// UserFilter query string of GET /admin/users.
type UserFilter struct {
	Name      string `query:"name" json:"name"`
	Email     string `query:"email" json:"email"`
	Address   string `query:"address" json:"address"`
	Role      string `query:"role" json:"role" validate:"omitempty,role"`
	SortBy    string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=name email address role createdAt"`
	SortOrder string `query:"sortOrder" json:"sortOrder" validate:"omitempty,sortorder"`
	PageQuery
}

func (f *UserFilter) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Address = strings.TrimSpace(f.Address)
	if f.SortBy == "" {
		f.SortBy = "createdAt"
		if f.SortOrder == "" {
			f.SortOrder = "desc"
		}
	}
}

// StoreRef compact store embedded in users and ratings.
type StoreRef struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Address   string     `json:"address,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

// UserRef compact user embedded in stores and ratings.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// UserResponse a user without credentials.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	Store     *StoreRef `json:"store,omitempty"`
}

// AuthResponse returned by logins, token refresh and self-registrations that log in.
type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// UserListResponse one page of users.
type UserListResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}

func trimPtr(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
