package repository

import (
	"context"

	"github.com/jhoicas/storerating-api/internal/domain/entity"
	qb "github.com/jhoicas/storerating-api/pkg/querybuilder"
)

// ListQuery carries the where/order/page fragments of a listing.
// Unpaged asks for every matching row (used when sorting by a derived field).
type ListQuery struct {
	Where   qb.Cond
	OrderBy qb.OrderBy
	Page    qb.Page
	Unpaged bool
}

// Filterable fields for users.
const (
	UserFieldName      = "name"
	UserFieldEmail     = "email"
	UserFieldAddress   = "address"
	UserFieldRole      = "role"
	UserFieldCreatedAt = "createdAt"
)

// UserRepository is the persistence port for User.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	UpdateRole(ctx context.Context, id string, role entity.Role) error
	SetRefreshToken(ctx context.Context, id, token string) error
	// List returns one page of users (with their owned store joined) and the total match count.
	List(ctx context.Context, q ListQuery) ([]*entity.User, int, error)
	ListRecent(ctx context.Context, n int) ([]*entity.User, error)
	ListRoles(ctx context.Context) ([]entity.Role, error)
	Count(ctx context.Context) (int, error)
	Delete(ctx context.Context, id string) error
}
