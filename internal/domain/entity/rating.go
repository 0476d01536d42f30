package entity

import "time"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Rating is a 1–5 star score. (UserID, StoreID) is unique.
type Rating struct {
	ID        string
	Value     int
	UserID    string
	StoreID   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Joined data, populated depending on the query.
	User  *UserSummary
	Store *StoreSummary
}
