package repository

import (
	"context"

	"github.com/jhoicas/storerating-api/internal/domain/entity"
)

// Filterable and sortable fields for stores. StoreFieldRating is derived, never a column.
const (
	StoreFieldName      = "name"
	StoreFieldEmail     = "email"
	StoreFieldAddress   = "address"
	StoreFieldCreatedAt = "createdAt"
	StoreFieldRating    = "rating"
)

// StoreRepository is the persistence port for Store.
// Lookups return (nil, nil) when the store does not exist; stores come with Owner joined.
type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	GetByID(ctx context.Context, id string) (*entity.Store, error)
	GetByEmail(ctx context.Context, email string) (*entity.Store, error)
	GetByOwnerID(ctx context.Context, ownerID string) (*entity.Store, error)
	Update(ctx context.Context, store *entity.Store) error
	List(ctx context.Context, q ListQuery) ([]*entity.Store, int, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
