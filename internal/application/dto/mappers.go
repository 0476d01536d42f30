package dto

import (
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/rating"
)

// NewUserResponse maps a user, dropping the password hash and refresh token.
func NewUserResponse(u *entity.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
	if u.Store != nil {
		resp.Store = &StoreRef{ID: u.Store.ID, Name: u.Store.Name, Address: u.Store.Address}
	}
	return resp
}

// NewUserResponses maps a list of users.
func NewUserResponses(users []*entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

// NewStoreRef maps the full store identity, including its email and creation time.
func NewStoreRef(s *entity.Store) StoreRef {
	created := s.CreatedAt
	return StoreRef{ID: s.ID, Name: s.Name, Email: s.Email, Address: s.Address, CreatedAt: &created}
}

// NewStoreResponse maps a store and the star values it received.
func NewStoreResponse(s *entity.Store, values []int) StoreResponse {
	resp := StoreResponse{
		ID:            s.ID,
		Name:          s.Name,
		Email:         s.Email,
		Address:       s.Address,
		OwnerID:       s.OwnerID,
		AverageRating: rating.Average(values),
		TotalRatings:  len(values),
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.Owner != nil {
		resp.Owner = &UserRef{ID: s.Owner.ID, Name: s.Owner.Name, Email: s.Owner.Email}
	}
	return resp
}

// NewRatingResponse maps a rating with whichever side was joined.
func NewRatingResponse(r *entity.Rating) RatingResponse {
	resp := RatingResponse{
		ID:        r.ID,
		Rating:    r.Value,
		UserID:    r.UserID,
		StoreID:   r.StoreID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User != nil {
		resp.User = &UserRef{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email}
	}
	if r.Store != nil {
		resp.Store = &StoreRef{ID: r.Store.ID, Name: r.Store.Name, Address: r.Store.Address}
	}
	return resp
}

// NewRatingResponses maps a list of ratings.
func NewRatingResponses(ratings []*entity.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(ratings))
	for _, r := range ratings {
		out = append(out, NewRatingResponse(r))
	}
	return out
}
