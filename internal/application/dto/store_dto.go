package dto

import (
	"strings"
	"time"
)

// CreateStoreRequest admin store creation.
type CreateStoreRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,min=1,max=400"`
	OwnerID string `json:"ownerId" validate:"required,uuid"`
}

func (r *CreateStoreRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Address = strings.TrimSpace(r.Address)
	r.OwnerID = strings.TrimSpace(r.OwnerID)
}

// OwnStoreRequest a store owner creating their own store.
type OwnStoreRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address" validate:"required,min=1,max=400"`
}

func (r *OwnStoreRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = NormalizeEmail(r.Email)
	r.Address = strings.TrimSpace(r.Address)
}

// UpdateStoreRequest partial store update; nil fields are left untouched.
type UpdateStoreRequest struct {
	Name    *string `json:"name" validate:"omitempty,min=1,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address *string `json:"address" validate:"omitempty,min=1,max=400"`
}

func (r *UpdateStoreRequest) Normalize() {
	trimPtr(r.Name)
	trimPtr(r.Address)
	if r.Email != nil {
		*r.Email = NormalizeEmail(*r.Email)
	}
}

// StoreFilter query string of GET /stores/all.
type StoreFilter struct {
	Name      string `query:"name" json:"name"`
	Email     string `query:"email" json:"email"`
	Address   string `query:"address" json:"address"`
	SortBy    string `query:"sortBy" json:"sortBy" validate:"omitempty,oneof=name email address createdAt rating"`
	SortOrder string `query:"sortOrder" json:"sortOrder" validate:"omitempty,sortorder"`
	PageQuery
}

func (f *StoreFilter) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Address = strings.TrimSpace(f.Address)
}

// StoreSearchQuery query string of GET /stores/search.
type StoreSearchQuery struct {
	Query string `query:"query" json:"query" validate:"required,min=2"`
	PageQuery
}

func (q *StoreSearchQuery) Normalize() {
	q.Query = strings.TrimSpace(q.Query)
}

// StoreResponse a store with its rating aggregate.
type StoreResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Address       string    `json:"address"`
	OwnerID       string    `json:"ownerId"`
	Owner         *UserRef  `json:"owner,omitempty"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int       `json:"totalRatings"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// StoreDetailResponse a store with every rating it received.
type StoreDetailResponse struct {
	StoreResponse
	Ratings []RatingResponse `json:"ratings"`
}

// StoreListResponse one page of stores. SearchQuery is set for search results.
type StoreListResponse struct {
	Stores      []StoreResponse `json:"stores"`
	Pagination  Pagination      `json:"pagination"`
	SearchQuery string          `json:"searchQuery,omitempty"`
}
