package dto

import (
	"strings"
	"time"
)

// SubmitRatingRequest body of POST /ratings/submit.
type SubmitRatingRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	StoreID string `json:"storeId" validate:"required,uuid"`
}

func (r *SubmitRatingRequest) Normalize() {
	r.StoreID = strings.TrimSpace(r.StoreID)
}

// UpdateRatingRequest body of PUT /ratings/:ratingId.
type UpdateRatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// RatingResponse a rating with the joined store or user, depending on the view.
type RatingResponse struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	UserID    string    `json:"userId"`
	StoreID   string    `json:"storeId"`
	User      *UserRef  `json:"user,omitempty"`
	Store     *StoreRef `json:"store,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// StoreRatingsResponse the ratings of an owner's store.
type StoreRatingsResponse struct {
	Store         StoreRef         `json:"store"`
	Ratings       []RatingResponse `json:"ratings"`
	AverageRating float64          `json:"averageRating"`
	TotalRatings  int              `json:"totalRatings"`
}
