package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storerating-api/internal/application/dto"
	"github.com/jhoicas/storerating-api/internal/domain"
	"github.com/jhoicas/storerating-api/internal/domain/entity"
	"github.com/jhoicas/storerating-api/internal/domain/rating"
	"github.com/jhoicas/storerating-api/internal/domain/repository"
)

// RatingUseCase submission, update and listing of ratings.
type RatingUseCase struct {
	stores  repository.StoreRepository
	ratings repository.RatingRepository
}

// NewRatingUseCase builds the use case.
func NewRatingUseCase(stores repository.StoreRepository, ratings repository.RatingRepository) *RatingUseCase {
	return &RatingUseCase{stores: stores, ratings: ratings}
}

// Submit records the user's first rating for a store. A second submission for
// the same store is a conflict; the existing rating stays as it was.
func (uc *RatingUseCase) Submit(ctx context.Context, userID string, in dto.SubmitRatingRequest) (*dto.RatingResponse, error) {
	store, err := uc.stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	existing, err := uc.ratings.GetByUserAndStore(ctx, userID, in.StoreID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrAlreadyRated
	}
	now := time.Now().UTC()
	r := &entity.Rating{
		ID:        uuid.New().String(),
		Value:     in.Rating,
		UserID:    userID,
		StoreID:   store.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.ratings.Create(ctx, r); err != nil {
		return nil, err
	}
	r.Store = &entity.StoreSummary{ID: store.ID, Name: store.Name, Address: store.Address}
	resp := dto.NewRatingResponse(r)
	return &resp, nil
}

// Update changes the star value of a rating the user submitted.
func (uc *RatingUseCase) Update(ctx context.Context, userID, ratingID string, in dto.UpdateRatingRequest) (*dto.RatingResponse, error) {
	r, err := uc.ratings.GetByID(ctx, ratingID)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrRatingNotFound
	}
	if r.UserID != userID {
		return nil, domain.Forbiddenf("You can only update your own ratings")
	}
	r.Value = in.Rating
	r.UpdatedAt = time.Now().UTC()
	if err := uc.ratings.Update(ctx, r); err != nil {
		return nil, err
	}
	resp := dto.NewRatingResponse(r)
	return &resp, nil
}

// MyRatings lists the user's ratings, newest first.
func (uc *RatingUseCase) MyRatings(ctx context.Context, userID string) ([]dto.RatingResponse, error) {
	ratings, err := uc.ratings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.NewRatingResponses(ratings), nil
}

// MyRatingForStore returns the user's rating of a store, or nil when there is none.
func (uc *RatingUseCase) MyRatingForStore(ctx context.Context, userID, storeID string) (*dto.RatingResponse, error) {
	store, err := uc.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, domain.ErrStoreNotFound
	}
	r, err := uc.ratings.GetByUserAndStore(ctx, userID, storeID)
	if err != nil || r == nil {
		return nil, err
	}
	resp := dto.NewRatingResponse(r)
	return &resp, nil
}

// StoreRatings lists the ratings of the store owned by ownerID.
func (uc *RatingUseCase) StoreRatings(ctx context.Context, ownerID string) (*dto.StoreRatingsResponse, error) {
	store, err := uc.stores.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errNoOwnedStore
	}
	ratings, err := uc.ratings.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	sum := rating.Summarize(rating.Values(ratings))
	return &dto.StoreRatingsResponse{
		Store:         dto.NewStoreRef(store),
		Ratings:       dto.NewRatingResponses(ratings),
		AverageRating: sum.Average,
		TotalRatings:  sum.Total,
	}, nil
}
