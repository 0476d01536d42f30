package dto

import "time"

// AdminStatistics platform-wide totals.
type AdminStatistics struct {
	TotalUsers         int            `json:"totalUsers"`
	TotalStores        int            `json:"totalStores"`
	TotalRatings       int            `json:"totalRatings"`
	AverageRating      float64        `json:"averageRating"`
	UsersByRole        map[string]int `json:"usersByRole"`
	RatingDistribution map[int]int    `json:"ratingDistribution"` // star value 1..5 -> count
}

// AdminDashboard response of GET /admin/dashboard.
type AdminDashboard struct {
	Statistics  AdminStatistics `json:"statistics"`
	RecentUsers []UserResponse  `json:"recentUsers"`
}

// OwnerStatistics aggregate over the ratings of one store.
type OwnerStatistics struct {
	AverageRating      float64     `json:"averageRating"`
	TotalRatings       int         `json:"totalRatings"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

// OwnerDashboard response of GET /stores/dashboard/owner.
type OwnerDashboard struct {
	Store         StoreRef         `json:"store"`
	Statistics    OwnerStatistics  `json:"statistics"`
	RecentRatings []RatingResponse `json:"recentRatings"` // newest 10
	Customers     []CustomerRating `json:"customers"`     // everyone who rated the store
}

// CustomerRating one rater of an owner's store.
type CustomerRating struct {
	UserRef
	RatingID string    `json:"ratingId"`
	Rating   int       `json:"rating"`
	RatedAt  time.Time `json:"ratedAt"`
}
