package entity

import "time"

// Store belongs to exactly one owner (a User with role STORE_OWNER).
type Store struct {
	ID        string
	Name      string
	Email     string
	Address   string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Owner is populated by queries that join the owning user.
	Owner *UserSummary
}

// StoreSummary is the subset of a Store embedded in other resources.
type StoreSummary struct {
	ID      string
	Name    string
	Address string
}
