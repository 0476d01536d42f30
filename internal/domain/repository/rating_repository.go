package repository

import (
	"context"

	"github.com/jhoicas/storerating-api/internal/domain/entity"
)

// RatingRepository is the persistence port for Rating.
// Lookups return (nil, nil) when the rating does not exist.
type RatingRepository interface {
	// Create inserts a rating; a duplicate (user, store) pair is domain.ErrAlreadyRated.
	Create(ctx context.Context, rating *entity.Rating) error
	GetByID(ctx context.Context, id string) (*entity.Rating, error)
	GetByUserAndStore(ctx context.Context, userID, storeID string) (*entity.Rating, error)
	Update(ctx context.Context, rating *entity.Rating) error
	// ListByUser returns the user's ratings, newest first, with Store joined.
	ListByUser(ctx context.Context, userID string) ([]*entity.Rating, error)
	// ListByStore returns the store's ratings, newest first, with User joined.
	ListByStore(ctx context.Context, storeID string) ([]*entity.Rating, error)
	// ValuesByStores returns the star values of every listed store keyed by store ID.
	ValuesByStores(ctx context.Context, storeIDs []string) (map[string][]int, error)
	AllValues(ctx context.Context) ([]int, error)
	Count(ctx context.Context) (int, error)
	DeleteByUser(ctx context.Context, userID string) error
	DeleteByStore(ctx context.Context, storeID string) error
}
